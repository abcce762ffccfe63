package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/middleware"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/upstream"
)

// hopHeaders are connection-scoped headers that must not be forwarded
// in either direction (RFC 9110 section 7.6.1).
var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// flushWriter flushes after every write so video bytes reach the
// client as they arrive instead of pooling in the response buffer.
type flushWriter struct {
	w http.ResponseWriter
	n int64
}

func (fw *flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	fw.n += int64(n)
	if f, ok := fw.w.(http.Flusher); ok {
		f.Flush()
	}
	return n, err
}

// countingReader counts bytes drawn from the wrapped reader.
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// proxyStream forwards a request to an upstream without buffering,
// relaying the upstream's status code and headers verbatim and then
// piping the body through. Range semantics, content types, and partial
// content responses are entirely the upstream's business.
//
// Once the first body byte is on the wire the response cannot be
// repaired; a mid-stream failure aborts the connection via
// http.ErrAbortHandler so the client sees a broken transfer rather
// than a silently truncated file.
func (g *Gateway) proxyStream(w http.ResponseWriter, r *http.Request, target upstream.Target, pathAndQuery, route string) {
	ctx := r.Context()
	cid := correlationID(ctx)

	inBody := &countingReader{r: r.Body}
	var outBody io.Reader = inBody
	if r.ContentLength == 0 {
		// A zero-length body wrapped in an untyped reader would go
		// upstream chunked; send no body at all.
		outBody = http.NoBody
	}
	out, err := http.NewRequestWithContext(ctx, r.Method, target.URL(pathAndQuery), outBody)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build upstream request",
			"upstream", target.Name,
			"correlation_id", cid,
			"error", err,
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	out.ContentLength = r.ContentLength

	copyHeaders(out.Header, r.Header)
	out.Header.Set(upstream.CorrelationHeader, cid)

	resp, err := g.Stream.Do(out)
	if err != nil {
		slog.ErrorContext(ctx, "upstream streaming request failed",
			"upstream", target.Name,
			"path", pathAndQuery,
			"correlation_id", cid,
			"client_ip", middleware.GetClientIP(ctx),
			"error", err,
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	fw := &flushWriter{w: w}
	_, copyErr := io.Copy(fw, resp.Body)

	if g.Metrics != nil {
		g.Metrics.RecordProxiedBytes(route, "upstream", inBody.n)
		g.Metrics.RecordProxiedBytes(route, "downstream", fw.n)
	}

	if copyErr != nil {
		slog.WarnContext(ctx, "stream interrupted",
			"upstream", target.Name,
			"route", route,
			"correlation_id", cid,
			"bytes_sent", fw.n,
			"error", copyErr,
		)
		// Headers and part of the body are already out; abort the
		// connection instead of pretending the response completed.
		panic(http.ErrAbortHandler)
	}

	slog.DebugContext(ctx, "stream completed",
		"upstream", target.Name,
		"route", route,
		"correlation_id", cid,
		"status", resp.StatusCode,
		"bytes_sent", fw.n,
	)
}

// copyHeaders copies all header values from src to dst, skipping
// hop-by-hop headers. Everything else passes through untouched.
func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		if isHopHeader(key) {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

func isHopHeader(key string) bool {
	for _, h := range hopHeaders {
		if http.CanonicalHeaderKey(key) == h {
			return true
		}
	}
	return false
}
