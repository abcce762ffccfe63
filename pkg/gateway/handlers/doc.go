// Package handlers implements the gateway's route handlers.
//
// Two forwarding styles coexist. Aggregation routes fetch JSON from
// upstreams, tolerate degraded responses by substituting empty
// collections, and render server-side pages. Streaming routes pipe
// bytes between the client and an upstream without buffering or
// interpreting them, relaying the upstream's status and headers
// verbatim.
package handlers
