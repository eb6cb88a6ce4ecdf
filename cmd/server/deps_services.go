package main

import (
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/config"
	"github.com/vizboard/vizboard/api/internal/service"
	"github.com/vizboard/vizboard/api/internal/worker"
)

// Services holds all service instances
type Services struct {
	Project   *service.ProjectService
	Dataset   *service.DatasetService
	Dashboard *service.DashboardService
}

// initServices initializes all services
func initServices(cfg *config.Config, logger *zap.Logger, dbs *Databases, repos *Repositories) *Services {
	jobs := worker.NewEnqueuer(dbs.AsynqClient, cfg.Worker.Queue, cfg.Worker.MaintenanceQueue, cfg.Worker.MaxRetry)

	return &Services{
		Project: service.NewProjectService(logger, repos.Project, repos.Dataset, jobs),
		Dataset: service.NewDatasetService(logger, repos.Project, repos.Dataset, dbs.Store, jobs, service.DatasetServiceConfig{
			Folder:    cfg.Storage.Folder,
			URLExpiry: cfg.Storage.URLExpiry,
		}),
		Dashboard: service.NewDashboardService(repos.Dataset),
	}
}
