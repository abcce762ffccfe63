package middleware

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// Context keys for storing values in request context.
const (
	// CorrelationIDKey stores the per-request correlation ID.
	CorrelationIDKey contextKey = "correlation_id"

	// ClientIPKey stores the resolved client IP, "" when unresolvable.
	ClientIPKey contextKey = "client_ip"

	// StartTimeKey stores the request start time for latency calculation.
	StartTimeKey contextKey = "start_time"
)
