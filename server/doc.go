// Package server provides the HTTP server of the habit service: a Gin engine
// served over HTTP/1.1 and h2c, wrapped in a server-wide middleware chain.
//
// # Middleware
//
// Applied to every request, outermost first (server/middleware):
//
//   - RequestID: X-Request-Id propagation
//   - RequestLogger: status-levelled access log
//   - Recovery: panics become 500 INTERNAL_ERROR
//   - CORS
//   - BodySizeLimit
//
// Authenticate, RequireIdentity and RateLimit are Gin handlers applied per
// route group by the api package.
//
// # Endpoints
//
// RegisterDefaultEndpoints adds /health (component health), /livez and
// /version (server/endpoint).
package server
