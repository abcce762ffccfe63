package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// HandleReadiness reports whether the gateway can serve traffic. The
// answer mirrors the metadata upstream: a live probe runs on every
// call, so a recovered upstream flips the gateway back to ready on the
// next poll without a restart.
func (g *Gateway) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cid := correlationID(ctx)

	ok := g.Tracker.Probe(ctx, cid)
	if g.Metrics != nil {
		g.Metrics.SetUpstreamReady(ok)
	}

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_ready"})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

// HandleHealth is the liveness endpoint: the process is up and able to
// answer HTTP. It makes no upstream calls.
func (g *Gateway) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
