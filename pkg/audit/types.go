package audit

import (
	"context"
	"time"
)

// Record is one proxied request in the audit trail. Records let an
// operator join a browser complaint to the exact upstream call via the
// correlation ID.
type Record struct {
	// ID is a unique record identifier (UUID v4).
	ID string

	// Timestamp is when the gateway received the request.
	Timestamp time.Time

	// CorrelationID is the ID propagated to the upstream call.
	CorrelationID string

	// Route is the logical gateway route name ("list", "play", ...).
	Route string

	// Method is the inbound HTTP method.
	Method string

	// Path is the inbound request path.
	Path string

	// ClientIP is the resolved client address, "" when unresolvable.
	ClientIP string

	// Upstream is the logical upstream name, "" for routes with no
	// upstream call.
	Upstream string

	// Status is the HTTP status returned to the client.
	Status int

	// LatencyMS is the total handling latency in milliseconds.
	LatencyMS int64

	// Bytes is the number of response body bytes sent to the client.
	Bytes int64
}

// Query filters audit records. Zero-value fields match everything.
type Query struct {
	// CorrelationID matches one request chain exactly.
	CorrelationID string

	// Route matches a logical route name exactly.
	Route string

	// StartTime and EndTime bound the timestamp, inclusive start,
	// exclusive end.
	StartTime *time.Time
	EndTime   *time.Time

	// Limit caps the number of returned records. Zero means no cap.
	Limit int
}

// Store persists audit records.
type Store interface {
	// Insert writes one record.
	Insert(ctx context.Context, rec *Record) error

	// Query returns matching records, newest first.
	Query(ctx context.Context, q *Query) ([]*Record, error)

	// DeleteOlderThan removes records with a timestamp before the
	// cutoff and returns how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// Close releases the store's resources.
	Close() error
}
