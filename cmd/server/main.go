package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/config"
	"github.com/vizboard/vizboard/api/internal/middleware"
	"github.com/vizboard/vizboard/api/internal/pkg/logger"
)

// multipartSlack leaves room for form boundaries and fields around the file
const multipartSlack = 1 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = logger.Sync() }()

	sentryEnabled := cfg.Sentry.Enabled()
	if sentryEnabled {
		err := middleware.InitSentry(middleware.SentryConfig{
			DSN:              cfg.Sentry.DSN,
			Environment:      cfg.Server.Env,
			Release:          "vizboard@" + cfg.Server.Version,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		})
		if err != nil {
			log.Error("failed to initialize Sentry", zap.Error(err))
			sentryEnabled = false
		} else {
			defer middleware.FlushSentry(5 * time.Second)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	deps, err := initDependencies(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("failed to initialize dependencies", zap.Error(err))
	}
	defer deps.Close()

	app := fiber.New(fiber.Config{
		AppName:               "Vizboard API",
		BodyLimit:             int(cfg.Upload.MaxBytes()) + multipartSlack,
		ReadTimeout:           60 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: cfg.IsProduction(),
		EnablePrintRoutes:     logger.IsDebug(),
		ErrorHandler:          middleware.ErrorHandler(deps.Classifier, log, sentryEnabled),
	})

	// Logger and Metrics wrap Recover so panicking requests are logged and
	// counted with their final status.
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(middleware.DefaultLoggerConfig(log)))
	app.Use(middleware.Metrics(middleware.HealthSkipper))
	app.Use(middleware.Recover(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.Server.CORSOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + middleware.HeaderRequestID,
		ExposeHeaders: middleware.HeaderRequestID,
		MaxAge:        86400,
	}))
	if sentryEnabled {
		app.Use(middleware.SentryHub())
	}

	registerRoutes(app, deps)

	go func() {
		log.Info("starting server", zap.String("addr", cfg.Server.Addr()), zap.Stringer("config", cfg))
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}

	log.Info("server stopped")
}
