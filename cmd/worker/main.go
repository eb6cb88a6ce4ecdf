package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/config"
	"github.com/vizboard/vizboard/api/internal/pkg/database"
	"github.com/vizboard/vizboard/api/internal/pkg/logger"
	pgrepo "github.com/vizboard/vizboard/api/internal/repository/postgres"
	"github.com/vizboard/vizboard/api/internal/storage"
	"github.com/vizboard/vizboard/api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = logger.Sync() }()

	log.Info("starting worker service")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, datasets, cleanup, err := initWorkerDependencies(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("failed to initialize dependencies", zap.Error(err))
	}
	defer cleanup()

	workerServer := worker.NewServer(log, cfg, store, datasets)

	errCh := make(chan error, 1)
	go func() {
		errCh <- workerServer.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("shutting down worker...")
		workerServer.Stop()
	case err := <-errCh:
		if err != nil {
			log.Error("worker server error", zap.Error(err))
		}
	}

	log.Info("worker stopped")
}

// initWorkerDependencies connects the object store and the dataset table
func initWorkerDependencies(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.ObjectStore, *pgrepo.DatasetRepository, func(), error) {
	store, err := storage.FromConfig(ctx, cfg.Storage, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.Storage.ProviderName(), err)
	}

	db, err := database.NewSQLX(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return store, pgrepo.NewDatasetRepository(db), cleanup, nil
}
