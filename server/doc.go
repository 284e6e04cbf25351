// Package server is the agent's status HTTP server, built on Gin and served
// over HTTP/1.1 and h2c.
//
// Middleware (server/middleware) wraps the root mux: panic recovery, request
// IDs and request logging. Endpoints (server/endpoint):
//
//   - /health: aggregated component health, 503 when unhealthy
//   - /info: build information and component descriptions
//   - /eureka/status: registration state and heartbeat counters
//   - /eureka/apps/:app: instances resolved through the registry client
package server
