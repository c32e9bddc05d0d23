package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/rlin/ambienttracker/internal/ambient"
	httpapi "github.com/rlin/ambienttracker/internal/api/http"
	"github.com/rlin/ambienttracker/internal/config"
	"github.com/rlin/ambienttracker/internal/scheduler"
	"github.com/rlin/ambienttracker/internal/sheets"
	"github.com/rlin/ambienttracker/internal/store"
)

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The mapping is immutable after startup; a failure here is fatal
	// because no write can ever succeed without it.
	mapping, err := sheets.LoadMapping(cfg.SensorMapFile)
	if err != nil {
		log.Fatalf("failed to load sensor mapping from %s: %v", cfg.SensorMapFile, err)
	}

	client := ambient.NewClient(cfg.APIKey, cfg.ApplicationKey)

	writer := sheets.NewWriter(func(ctx context.Context) (sheets.Backend, error) {
		return sheets.Dial(ctx, cfg.CredentialsFile, cfg.SpreadsheetID)
	}, mapping)

	status := store.NewStatus()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(client, writer, status, cfg.DeviceMAC)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "ambienttracker",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "ambienttracker",
		})
	})
	httpapi.RegisterRoutes(app, status)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()

	log.Info("ambienttracker started")
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
}
