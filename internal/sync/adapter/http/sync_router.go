package http

import (
	"context"
	"sync"

	"notion-sync/internal/shared/logger"
	"notion-sync/internal/sync/domain/model"
	"notion-sync/internal/sync/usecase"

	"github.com/gofiber/fiber/v2"
)

// SyncHTTPHandler exposes the reconciler over HTTP in serve mode.
// Runs are single-flight: triggering while a run is in progress is
// rejected, matching the fully sequential execution model.
type SyncHTTPHandler struct {
	usecase usecase.ReconcilerUsecaseInterface
	logger  logger.Logger

	mu      sync.Mutex
	running bool
	last    *model.RunReport
}

// NewSyncHTTPHandler creates a new sync HTTP handler
func NewSyncHTTPHandler(uc usecase.ReconcilerUsecaseInterface, log logger.Logger) *SyncHTTPHandler {
	return &SyncHTTPHandler{
		usecase: uc,
		logger:  log.WithComponent("sync-http"),
	}
}

// SetupRoutes registers the sync routes on the given router.
func (h *SyncHTTPHandler) SetupRoutes(router fiber.Router) {
	router.Post("/runs", h.TriggerRun)
	router.Get("/runs/latest", h.GetLatestRun)
	router.Get("/status", h.GetStatus)
}

// TriggerRun starts a reconciliation run in the background. Returns
// 409 when a run is already in flight.
func (h *SyncHTTPHandler) TriggerRun(c *fiber.Ctx) error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "a reconciliation run is already in progress",
		})
	}
	h.running = true
	h.mu.Unlock()

	go func() {
		// Detached from the request context: the run outlives the
		// HTTP exchange that triggered it.
		report, err := h.usecase.Run(context.Background())
		if err != nil {
			h.logger.Errorf("Triggered run failed: %v", err)
		}

		h.mu.Lock()
		h.last = report
		h.running = false
		h.mu.Unlock()
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "started",
	})
}

// GetLatestRun returns the report of the most recently finished run.
func (h *SyncHTTPHandler) GetLatestRun(c *fiber.Ctx) error {
	h.mu.Lock()
	last := h.last
	h.mu.Unlock()

	if last == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no completed run yet",
		})
	}
	return c.JSON(last)
}

// GetStatus reports whether a run is currently in flight.
func (h *SyncHTTPHandler) GetStatus(c *fiber.Ctx) error {
	h.mu.Lock()
	running := h.running
	h.mu.Unlock()

	return c.JSON(fiber.Map{
		"running": running,
	})
}
