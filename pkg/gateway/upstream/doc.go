// Package upstream addresses and calls the backend services the
// gateway forwards to.
//
// Two kinds of client exist: Client for buffered aggregation fetches
// and readiness probes (bounded, retried), and the stream client for
// byte-transparent proxying (unbounded body, never retried: bytes may
// already have reached the browser).
package upstream
