package di

import (
	"context"
	"fmt"
	"sync"
	"time"

	"notion-sync/internal/shared/logger"
	syncmodule "notion-sync/internal/sync"
	"notion-sync/internal/sync/config"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Container represents a dependency injection container with proper lifecycle management
type Container struct {
	mu sync.RWMutex

	// Module instances
	SyncModule *syncmodule.SyncModule
	// Database connections
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	// Configuration
	Config *config.Config
	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer(log logger.Logger) *Container {
	return &Container{
		Logger: log,
	}
}

// InitializeSync connects the backing stores and wires the sync
// module. The Redis connection is optional and only attempted when an
// address is configured.
func (c *Container) InitializeSync(ctx context.Context, cfg *config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Config = cfg

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	c.MongoClient = mongoClient
	c.MongoDB = mongoClient.Database(cfg.DatabaseName)

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping Redis: %w", err)
		}
		c.RedisClient = redisClient
	}

	module, err := syncmodule.NewSyncModule(c.MongoDB, c.RedisClient, cfg, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create sync module: %w", err)
	}
	c.SyncModule = module

	return nil
}

// GetSyncModule returns the sync module instance
func (c *Container) GetSyncModule() *syncmodule.SyncModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SyncModule
}

// HealthCheck verifies the backing stores are reachable
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoClient != nil {
		if err := c.MongoClient.Ping(ctx, nil); err != nil {
			return fmt.Errorf("mongodb unhealthy: %w", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis unhealthy: %w", err)
		}
	}
	return nil
}

// Close releases all container resources
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close redis client: %w", err)
		}
		c.RedisClient = nil
	}

	if c.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.MongoClient.Disconnect(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to disconnect mongodb: %w", err)
		}
		c.MongoClient = nil
	}

	return firstErr
}
