package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notion-sync/internal/di"
	"notion-sync/internal/shared/logger"
	"notion-sync/internal/sync/config"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
)

// ServerConfig holds server configuration for serve mode
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Port string `env:"SERVER_PORT" envDefault:"3000"`
}

func main() {
	fmt.Println("🚀 Notion Sync - Starting Application...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewLogger()

	// Load sync configuration; missing required variables abort here,
	// before any work is attempted.
	syncCfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load sync configuration: %v", err)
	}
	appLogger.Info("Application configuration loaded successfully")

	// Initialize Dependency Injection Container
	container := di.NewContainer(appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.InitializeSync(ctx, syncCfg); err != nil {
		log.Fatalf("Failed to initialize sync module: %v", err)
	}
	appLogger.Info("Sync module initialized successfully")

	switch syncCfg.Mode {
	case config.ModeServe:
		runServer(container, serverCfg, appLogger)
	default:
		runOneshot(container, appLogger)
	}
}

// runOneshot executes a single reconciliation run. The process exits
// zero on completion, including runs with per-item failures; only
// setup failures and fatal mid-run errors exit non-zero.
func runOneshot(container *di.Container, appLogger logger.Logger) {
	report, err := container.GetSyncModule().RunOnce(context.Background())
	if err != nil {
		if closeErr := container.Close(); closeErr != nil {
			appLogger.Errorf("Failed to close container: %v", closeErr)
		}
		appLogger.Errorf("Reconciliation run failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Sync complete: created=%d updated=%d archived=%d skipped=%d failed=%d\n",
		report.Created, report.Updated, report.Archived, report.Skipped, report.Failed)
}

// runServer starts the long-lived HTTP surface with graceful shutdown.
func runServer(container *di.Container, serverCfg *ServerConfig, appLogger logger.Logger) {
	app := fiber.New(fiber.Config{
		AppName:      "Notion Sync v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appLogger.Errorf("HTTP Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "UNHEALTHY",
				"error":  err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"message":   "Notion Sync is running",
			"timestamp": time.Now().UTC(),
		})
	})

	container.GetSyncModule().RegisterRoutes(app)
	appLogger.Info("Sync routes registered")

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("🌟 Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			log.Fatalf("Server startup failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)
		fmt.Println("🛑 Shutting down server gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}

		appLogger.Info("HTTP server stopped")
	}

	fmt.Println("✅ Application stopped gracefully.")
}
