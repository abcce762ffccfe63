// Package metrics provides Prometheus instrumentation for the gateway.
//
// All metrics live on a private registry so tests can create isolated
// collectors without tripping duplicate-registration panics on the
// default global registry.
package metrics
