package handlers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/audit"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/middleware"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/ready"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/upstream"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/telemetry/metrics"
)

// Renderer turns a view name and a plain data structure into markup.
// The gateway is indifferent to the output format.
type Renderer interface {
	Render(w io.Writer, view string, data any) error
}

// Gateway holds the collaborators shared by all route handlers.
//
// Targets is a function rather than a value so a configuration reload
// can re-point upstream hosts without restarting: each request reads
// the current targets.
type Gateway struct {
	// Client issues buffered aggregation fetches and probes.
	Client *upstream.Client

	// Stream issues unbuffered streaming requests.
	Stream *http.Client

	// Targets resolves the current upstream targets.
	Targets func() upstream.Targets

	// Renderer produces the page markup for aggregation routes.
	Renderer Renderer

	// Tracker holds the readiness state.
	Tracker *ready.Tracker

	// Metrics records request metrics. May be nil.
	Metrics *metrics.Collector

	// Audit records the request audit trail. May be nil.
	Audit *audit.Recorder
}

// correlationID returns the request's correlation ID, generating one
// when the middleware did not run (direct handler tests).
func correlationID(ctx context.Context) string {
	if id := middleware.GetCorrelationID(ctx); id != "" {
		return id
	}
	return middleware.NewCorrelationID()
}

// renderPage renders a view into a buffer before writing so a template
// failure produces a clean 500 instead of a truncated page.
func (g *Gateway) renderPage(w http.ResponseWriter, r *http.Request, view string, data any) {
	var buf bytes.Buffer
	if err := g.Renderer.Render(&buf, view, data); err != nil {
		slog.ErrorContext(r.Context(), "failed to render page",
			"view", view,
			"correlation_id", middleware.GetCorrelationID(r.Context()),
			"error", err,
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
