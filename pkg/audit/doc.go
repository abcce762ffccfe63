// Package audit keeps a local trail of proxied requests.
//
// Every request the gateway handles is recorded asynchronously (route,
// correlation ID, client IP, upstream, status, latency, bytes) into a
// SQLite database, giving operators a joinable record between browser
// traffic and upstream calls without shipping logs anywhere. A cron
// scheduled pruner enforces the retention window.
package audit
