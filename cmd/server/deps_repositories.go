package main

import (
	pgrepo "github.com/vizboard/vizboard/api/internal/repository/postgres"
)

// Repositories holds all repository instances
type Repositories struct {
	Project *pgrepo.ProjectRepository
	Dataset *pgrepo.DatasetRepository
}

// initRepositories initializes all repositories
func initRepositories(dbs *Databases) *Repositories {
	return &Repositories{
		Project: pgrepo.NewProjectRepository(dbs.Postgres),
		Dataset: pgrepo.NewDatasetRepository(dbs.SQLX),
	}
}
