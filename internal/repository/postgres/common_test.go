package postgres

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/config"
	"github.com/vizboard/vizboard/api/internal/pkg/database"
)

// testConfig returns the integration database settings, skipping the test
// when POSTGRES_TEST_HOST is not set.
func testConfig(t *testing.T) config.PostgresConfig {
	t.Helper()
	if os.Getenv("POSTGRES_TEST_HOST") == "" {
		t.Skip("Skipping integration test: POSTGRES_TEST_HOST not set")
	}

	cfg := config.PostgresConfig{
		Host:     os.Getenv("POSTGRES_TEST_HOST"),
		Port:     5432,
		User:     os.Getenv("POSTGRES_TEST_USER"),
		Password: os.Getenv("POSTGRES_TEST_PASS"),
		Database: os.Getenv("POSTGRES_TEST_DB"),
		SSLMode:  "disable",
		MaxConns: 5,
		MinConns: 1,
	}
	if port, err := strconv.Atoi(os.Getenv("POSTGRES_TEST_PORT")); err == nil {
		cfg.Port = port
	}
	if cfg.Database == "" {
		cfg.Database = "test_vizboard"
	}
	if cfg.User == "" {
		cfg.User = "postgres"
	}
	return cfg
}

// getTestDBs connects both drivers to a migrated test database.
func getTestDBs(t *testing.T) (*database.PostgresDB, *sqlx.DB) {
	t.Helper()
	cfg := testConfig(t)
	ctx := context.Background()

	pool, err := database.NewPostgres(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to PostgreSQL: %v", err)
	}
	t.Cleanup(pool.Close)

	db, err := database.NewSQLX(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to PostgreSQL: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(db.DB); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return pool, db
}

// cleanupOwner removes an owner's projects and, by cascade, their datasets
func cleanupOwner(t *testing.T, pool *database.PostgresDB, ownerID string) {
	t.Helper()
	t.Cleanup(func() {
		_, _ = pool.Pool.Exec(context.Background(), "DELETE FROM projects WHERE owner_id = $1", ownerID)
	})
}
