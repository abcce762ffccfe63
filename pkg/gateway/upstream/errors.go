package upstream

import "fmt"

// UpstreamError reports a failure to reach or complete a request
// against an upstream service.
type UpstreamError struct {
	// Upstream is the logical name of the service ("metadata", ...).
	Upstream string

	// Err is the underlying transport or protocol error.
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Upstream, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
