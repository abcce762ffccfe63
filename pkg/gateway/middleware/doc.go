// Package middleware provides the HTTP middleware chain for the
// gateway: panic recovery, correlation ID generation, client IP
// resolution, and request logging.
//
// The chain is applied outermost-first:
//
//	handler = RecoveryMiddleware(
//	    CorrelationMiddleware(
//	        ClientIPMiddleware(
//	            LoggingMiddleware(mux))))
//
// Recovery sits outermost so it sees panics from every layer; logging
// sits innermost so the correlation ID and client IP are already in
// the context when the completion entry is written.
package middleware
