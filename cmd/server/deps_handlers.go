package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/config"
	"github.com/vizboard/vizboard/api/internal/handler"
	"github.com/vizboard/vizboard/api/internal/upload"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Health    *handler.HealthHandler
	Docs      *handler.DocsHandler
	Projects  *handler.ProjectsHandler
	Datasets  *handler.DatasetsHandler
	Dashboard *handler.DashboardHandler
}

// initHandlers initializes all handlers
func initHandlers(cfg *config.Config, logger *zap.Logger, dbs *Databases, svcs *Services) *Handlers {
	parser := upload.NewParser(upload.Config{
		MaxBytes:   cfg.Upload.MaxBytes(),
		FormField:  cfg.Upload.FormField,
		Extensions: cfg.Upload.Extensions,
	})

	return &Handlers{
		Health: handler.NewHealthHandler(cfg.Server.Version,
			handler.Check{Name: "postgres", Pinger: dbs.Postgres},
			handler.Check{Name: "redis", Pinger: handler.PingFunc(func(ctx context.Context) error {
				return dbs.Redis.Ping(ctx).Err()
			})},
			handler.Check{Name: "storage", Pinger: dbs.Store},
		),
		Docs:      handler.NewDocsHandler(),
		Projects:  handler.NewProjectsHandler(svcs.Project, logger),
		Datasets:  handler.NewDatasetsHandler(svcs.Dataset, parser, logger),
		Dashboard: handler.NewDashboardHandler(svcs.Dashboard),
	}
}
