// Package service contains the business logic layer for Vizboard.
//
// Services coordinate between handlers, repositories, the object store and
// the job queue. They depend on interfaces declared in this package and
// return failures unmodified or wrapped with %w, so the variant that
// describes a failure survives to the error handler.
//
// All services are safe for concurrent use.
package service
