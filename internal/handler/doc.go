// Package handler contains HTTP request handlers for Vizboard.
//
// Handlers parse requests, pull the caller from the auth context and call
// services. They never write error responses themselves: every failure is
// returned to Fiber and rendered by middleware.ErrorHandler.
//
// # Route Organization
//
//   - /health, /livez, /readyz, /version - probes (no auth)
//   - /docs, /openapi.yaml - API documentation (no auth)
//   - /api/v1/* - JWT authenticated API
//
// All handlers are safe for concurrent use.
package handler
