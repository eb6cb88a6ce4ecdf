package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/config"
	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	Databases  *Databases
	Repos      *Repositories
	Services   *Services
	Handlers   *Handlers
	Classifier *apperrors.Classifier
}

// initDependencies initializes all dependencies
func initDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	dbs, err := initDatabases(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	repos := initRepositories(dbs)
	svcs := initServices(cfg, logger, dbs, repos)

	return &Dependencies{
		Config:    cfg,
		Logger:    logger,
		Databases: dbs,
		Repos:     repos,
		Services:  svcs,
		Handlers:  initHandlers(cfg, logger, dbs, svcs),
		Classifier: apperrors.NewClassifier(logger, apperrors.ClassifierOptions{
			Production: cfg.IsProduction(),
		}),
	}, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() {
	if d.Databases != nil {
		d.Databases.Close()
	}
}
