// Package repository contains data access implementations for Vizboard.
//
// Repository interfaces are defined at the service layer; this package holds
// the PostgreSQL implementations. Projects go through the pgx pool, datasets
// through sqlx. Lookups are scoped by owner or project and report foreign
// rows as not found.
//
// All repository implementations are safe for concurrent use.
package repository
