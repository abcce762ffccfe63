package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns
// a 500 Internal Server Error. It logs the panic with a stack trace but
// does not expose internal details to clients.
//
// http.ErrAbortHandler is re-raised: streaming handlers use it to abort
// a connection mid-body, and net/http treats it as a deliberate abort
// rather than a crash.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				correlationID := GetCorrelationID(r.Context())
				stack := debug.Stack()

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"correlation_id", correlationID,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(stack),
				)

				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
