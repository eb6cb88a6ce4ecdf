package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/config"
)

// NewSQLX opens a database/sql handle through lib/pq. It backs the dataset
// repository and schema migrations.
func NewSQLX(ctx context.Context, cfg config.PostgresConfig, log *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres (sqlx): %w", err)
	}

	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	log.Info("opened PostgreSQL handle", zap.String("driver", "postgres"), zap.String("database", cfg.Database))

	return db, nil
}
