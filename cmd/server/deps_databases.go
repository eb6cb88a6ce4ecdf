package main

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/config"
	"github.com/vizboard/vizboard/api/internal/pkg/database"
	"github.com/vizboard/vizboard/api/internal/storage"
	"github.com/vizboard/vizboard/api/internal/worker"
)

// Databases holds all backing service connections
type Databases struct {
	Postgres    *database.PostgresDB
	SQLX        *sqlx.DB
	Redis       *redis.Client
	Store       storage.ObjectStore
	AsynqClient *asynq.Client
}

// initDatabases connects to every backing service and migrates the schema
func initDatabases(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Databases, error) {
	dbs := &Databases{}

	pgDB, err := database.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	dbs.Postgres = pgDB

	sqlxDB, err := database.NewSQLX(ctx, cfg.Postgres, logger)
	if err != nil {
		dbs.Close()
		return nil, fmt.Errorf("failed to initialize PostgreSQL (sqlx): %w", err)
	}
	dbs.SQLX = sqlxDB

	if err := database.Migrate(sqlxDB.DB); err != nil {
		dbs.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if version, err := database.SchemaVersion(sqlxDB.DB); err == nil {
		logger.Info("database migrated", zap.Int64("schema_version", version))
	}

	redisClient, err := database.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		dbs.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	dbs.Redis = redisClient

	store, err := storage.FromConfig(ctx, cfg.Storage, logger)
	if err != nil {
		dbs.Close()
		return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.Storage.ProviderName(), err)
	}
	dbs.Store = store

	dbs.AsynqClient = asynq.NewClient(worker.RedisOpt(cfg.Redis))

	return dbs, nil
}

// Close closes all connections
func (d *Databases) Close() {
	if d.AsynqClient != nil {
		_ = d.AsynqClient.Close()
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.SQLX != nil {
		_ = d.SQLX.Close()
	}
	if d.Postgres != nil {
		d.Postgres.Close()
	}
}
