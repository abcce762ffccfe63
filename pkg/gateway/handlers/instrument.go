package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/audit"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/middleware"
)

// statusRecorder captures the status code and body size written by a
// handler so the wrapper can report them after the fact.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(p []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(p)
	sr.bytes += int64(n)
	return n, err
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Instrument wraps a handler with per-route metrics and audit
// recording. Recording runs in a deferred block so an aborted stream
// still leaves a metric and an audit record behind.
func (g *Gateway) Instrument(route, upstreamName string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := &statusRecorder{ResponseWriter: w}
		start := time.Now()

		defer func() {
			status := sr.status
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			if g.Metrics != nil {
				g.Metrics.RecordRequest(route, r.Method, strconv.Itoa(status), elapsed)
			}
			if g.Audit != nil {
				ctx := r.Context()
				g.Audit.Record(&audit.Record{
					CorrelationID: middleware.GetCorrelationID(ctx),
					Route:         route,
					Method:        r.Method,
					Path:          r.URL.Path,
					ClientIP:      middleware.GetClientIP(ctx),
					Upstream:      upstreamName,
					Status:        status,
					LatencyMS:     elapsed.Milliseconds(),
					Bytes:         sr.bytes,
				})
			}
		}()

		next(sr, r)
	})
}
