// Package ready tracks whether the gateway's critical upstream
// dependency is reachable.
package ready

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/upstream"
)

// ProbePath is the readiness endpoint exposed by the metadata service.
const ProbePath = "/readiness"

// Tracker holds the process-wide readiness state. The gateway is
// defined as ready only if the metadata upstream answered its last
// health probe with HTTP 200.
//
// The state starts NOT_READY. Probe and MarkReady are the only
// writers; Ready may be called from any goroutine.
type Tracker struct {
	ready  atomic.Bool
	client *upstream.Client
	target upstream.Target
	logger *slog.Logger
}

// NewTracker creates a tracker probing the given metadata target.
func NewTracker(client *upstream.Client, target upstream.Target) *Tracker {
	return &Tracker{
		client: client,
		target: target,
		logger: slog.Default().With("component", "ready.tracker"),
	}
}

// Ready reports the current readiness state without probing.
func (t *Tracker) Ready() bool {
	return t.ready.Load()
}

// MarkReady transitions the state to READY. Called by the startup
// sequence once the listening socket is bound.
func (t *Tracker) MarkReady() {
	t.ready.Store(true)
}

// Probe issues a GET to the metadata upstream's readiness endpoint and
// updates the state from the outcome: HTTP 200 moves to READY and
// returns true; any other status or a transport error moves to
// NOT_READY and returns false.
func (t *Tracker) Probe(ctx context.Context, correlationID string) bool {
	resp, err := t.client.Get(ctx, t.target, ProbePath, correlationID)
	if err != nil {
		t.logger.Warn("readiness probe failed",
			"upstream", t.target.Name,
			"correlation_id", correlationID,
			"error", err,
		)
		t.ready.Store(false)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.logger.Warn("readiness probe returned non-200",
			"upstream", t.target.Name,
			"correlation_id", correlationID,
			"status", resp.StatusCode,
		)
		t.ready.Store(false)
		return false
	}

	t.ready.Store(true)
	return true
}
