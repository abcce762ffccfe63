// Package server ties the gateway together: it builds the route table,
// chains the middleware, and manages the HTTP server lifecycle. It does
// not install signal handlers; the owning command drives shutdown by
// cancelling the Start context or calling Shutdown.
//
// # Routes
//
//   - GET  /            - video catalog page (metadata upstream)
//   - GET  /video       - playback page (metadata upstream)
//   - GET  /history     - viewing history page (history upstream)
//   - GET  /upload      - upload form
//   - GET  /api/video   - video byte stream (streaming upstream)
//   - POST /api/upload  - video upload (upload upstream)
//   - GET  /readiness   - readiness probe, mirrors the metadata upstream
//   - GET  /health      - liveness probe, no upstream calls
//   - GET  /metrics     - Prometheus metrics (when enabled)
//
// Anything else gets a 404 page naming the requested path.
//
// # Middleware Chain
//
// Requests pass through the following middleware (outermost first):
//  1. Recovery: turns handler panics into 500s, re-raising deliberate
//     stream aborts
//  2. Correlation: generates the per-request correlation ID
//  3. ClientIP: resolves the originating client address
//  4. Logging: structured request logs with correlation ID and client IP
//
// Correlation runs before Logging so completion logs always carry the
// request's ID.
package server
