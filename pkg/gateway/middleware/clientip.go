package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// ForwardedForHeader is the proxy-supplied client address header. Its
// value is a best-effort hint, trivially spoofable, and never an
// authentication mechanism.
const ForwardedForHeader = "X-Forwarded-For"

// ClientIPMiddleware resolves the originating client IP for each
// request and stores it in the context. Resolution failure is fully
// absorbed; the request proceeds with an empty value.
func ClientIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ClientIPKey, ResolveClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ResolveClientIP extracts the originating IP from a request.
// Resolution order:
//  1. the first comma-separated element of X-Forwarded-For, if present
//  2. the socket remote address
//  3. "" when neither yields a value
//
// IPv6-mapped IPv4 addresses (::ffff:a.b.c.d, case-insensitive) are
// unwrapped to the embedded IPv4 literal.
func ResolveClientIP(r *http.Request) string {
	if xff := r.Header.Get(ForwardedForHeader); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return stripMappedPrefix(ip)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port (as some test transports produce).
		host = r.RemoteAddr
	}
	if host == "" {
		return ""
	}
	return stripMappedPrefix(host)
}

// stripMappedPrefix returns the embedded IPv4 literal for an
// IPv6-mapped address, and the input unchanged otherwise.
func stripMappedPrefix(addr string) string {
	if !strings.Contains(addr, ":") {
		return addr
	}
	ip := net.ParseIP(strings.Trim(addr, "[]"))
	if ip == nil {
		return addr
	}
	if v4 := ip.To4(); v4 != nil {
		return v4.String()
	}
	return addr
}

// GetClientIP extracts the resolved client IP from the context.
// Returns empty string if not found.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPKey).(string); ok {
		return ip
	}
	return ""
}
