package sync

import (
	"context"
	"fmt"

	"notion-sync/internal/shared/logger"
	synchttp "notion-sync/internal/sync/adapter/http"
	"notion-sync/internal/sync/adapter/notion"
	"notion-sync/internal/sync/adapter/persistence"
	"notion-sync/internal/sync/adapter/persistence/mongodb"
	"notion-sync/internal/sync/config"
	"notion-sync/internal/sync/domain/model"
	"notion-sync/internal/sync/domain/repository"
	"notion-sync/internal/sync/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/jomei/notionapi"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// SyncModule represents the complete reconciliation module
type SyncModule struct {
	noteRepo repository.NoteRepository
	pageRepo repository.PageRepository
	runLock  repository.RunLock
	usecase  usecase.ReconcilerUsecaseInterface
	handler  *synchttp.SyncHTTPHandler
	config   *config.Config
	logger   logger.Logger
}

// NewSyncModule creates a new reconciliation module instance. The
// redis client is optional; without it runs are not serialized across
// processes.
func NewSyncModule(db *mongo.Database, redisClient *redis.Client, cfg *config.Config, log logger.Logger) (*SyncModule, error) {
	if db == nil {
		return nil, fmt.Errorf("mongo database is required")
	}

	noteRepo := mongodb.NewMongoNoteRepository(db, cfg.NotesCollection)

	notionClient := notionapi.NewClient(notionapi.Token(cfg.NotionToken))
	pageRepo := notion.NewNotionPageRepository(notionClient, cfg, log)

	var runLock repository.RunLock
	if redisClient != nil {
		runLock = persistence.NewRedisRunLock(redisClient, cfg.NotionDatabaseID, cfg.Redis.LockTTL, log)
	}

	reconciler := usecase.NewReconcilerUsecase(noteRepo, pageRepo, cfg, log)
	handler := synchttp.NewSyncHTTPHandler(reconciler, log)

	return &SyncModule{
		noteRepo: noteRepo,
		pageRepo: pageRepo,
		runLock:  runLock,
		usecase:  reconciler,
		handler:  handler,
		config:   cfg,
		logger:   log.WithComponent("sync-module"),
	}, nil
}

// RegisterRoutes registers the sync routes with the provided router
func (sm *SyncModule) RegisterRoutes(router fiber.Router) {
	api := router.Group("/api/v1/sync")
	sm.handler.SetupRoutes(api)
}

// RunOnce executes a single reconciliation run, holding the run lock
// for its duration when a lock backend is configured.
func (sm *SyncModule) RunOnce(ctx context.Context) (*model.RunReport, error) {
	if sm.runLock != nil {
		if err := sm.runLock.Acquire(ctx); err != nil {
			return nil, fmt.Errorf("could not start run: %w", err)
		}
		defer func() {
			if err := sm.runLock.Release(context.Background()); err != nil {
				sm.logger.Errorf("Failed to release run lock: %v", err)
			}
		}()
	}

	return sm.usecase.Run(ctx)
}

// GetUsecase returns the reconciler usecase for external access
func (sm *SyncModule) GetUsecase() usecase.ReconcilerUsecaseInterface {
	return sm.usecase
}
