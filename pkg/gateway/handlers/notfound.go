package handlers

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/middleware"
)

// HandleNotFound answers every unrouted path with a small HTML page
// naming the path that was requested.
func (g *Gateway) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slog.WarnContext(ctx, "no route for request",
		"method", r.Method,
		"path", r.URL.Path,
		"correlation_id", middleware.GetCorrelationID(ctx),
		"client_ip", middleware.GetClientIP(ctx),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "<html><body><h1>Not Found</h1><p>No route for %s</p></body></html>\n",
		html.EscapeString(r.URL.Path))
}
