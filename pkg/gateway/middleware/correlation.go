package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/upstream"
)

// CorrelationMiddleware generates a fresh correlation ID for each
// inbound request and adds it to the context and the response headers.
//
// The ID is always generated by the gateway rather than taken from the
// inbound request: it identifies one pass through this process and is
// the value propagated to every upstream call for cross-service
// tracing. IDs are UUID v4, so collisions across the process lifetime
// are negligible.
//
// Example usage:
//
//	handler = CorrelationMiddleware(handler)
func CorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := NewCorrelationID()

		ctx := context.WithValue(r.Context(), CorrelationIDKey, correlationID)

		// Echo the ID back so browser-side traces can join server logs.
		w.Header().Set(upstream.CorrelationHeader, correlationID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NewCorrelationID returns a process-unique correlation ID. Purely
// generative: no dependency on prior calls, never fails.
func NewCorrelationID() string {
	return uuid.New().String()
}

// GetCorrelationID extracts the correlation ID from the context.
// Returns empty string if not found.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}
