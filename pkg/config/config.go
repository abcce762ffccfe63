package config

import "time"

// Config is the root configuration for the gateway.
type Config struct {
	// Server configures the gateway's own HTTP listener.
	Server ServerConfig `yaml:"server"`

	// Upstreams configures the backend services the gateway forwards to.
	Upstreams UpstreamsConfig `yaml:"upstreams"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus metrics endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Audit configures the request audit trail.
	Audit AuditConfig `yaml:"audit"`

	// WatchConfig enables hot-reloading of this file on change.
	WatchConfig bool `yaml:"watch_config"`
}

// ServerConfig contains listener settings for the gateway.
type ServerConfig struct {
	// ListenAddress is the address the gateway binds to (host:port).
	ListenAddress string `yaml:"listen_address"`

	// ReadHeaderTimeout bounds reading the request headers. Request
	// bodies are never time-bounded; video uploads stream for as long
	// as they need.
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`

	// WriteTimeout bounds writing the response. Zero disables it;
	// video streaming responses have no bounded duration.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout bounds keep-alive connections between requests.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// UpstreamsConfig names the backend services. The four primary hosts
// are required; startup fails if any is missing.
type UpstreamsConfig struct {
	// Metadata is the video metadata service. Its readiness endpoint
	// also drives the gateway's own /readiness route.
	Metadata UpstreamConfig `yaml:"metadata"`

	// History is the viewing-history service.
	History UpstreamConfig `yaml:"history"`

	// Upload is the video-upload service.
	Upload UpstreamConfig `yaml:"upload"`

	// Streaming is the video-streaming service.
	Streaming UpstreamConfig `yaml:"streaming"`

	// Retries is the number of additional attempts for aggregation
	// fetches and readiness probes after a transient failure.
	// Streaming routes never retry. Zero means a single attempt.
	Retries int `yaml:"retries"`

	// ConnectTimeout bounds establishing a connection to any upstream.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// RequestTimeout bounds a complete aggregation request including
	// body read. Streaming requests are bounded per-connection, not
	// per-body.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// UpstreamConfig addresses a single backend service.
type UpstreamConfig struct {
	// Host is the DNS name (optionally host:port, optionally with an
	// http:// scheme) of the service.
	Host string `yaml:"host"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json" or "text").
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint when true.
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path (typically "/metrics").
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	Namespace string `yaml:"namespace"`
}

// AuditConfig contains request audit trail settings.
type AuditConfig struct {
	// Enabled turns on asynchronous audit recording.
	Enabled bool `yaml:"enabled"`

	// SQLite configures the storage backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention configures automatic pruning of old records.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains settings for the SQLite audit store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`

	// BusyTimeout is the duration to wait when the database is locked.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig controls audit record retention.
type RetentionConfig struct {
	// Days is the number of days to keep audit records.
	Days int `yaml:"days"`

	// PruneSchedule is a cron expression for scheduled pruning
	// (e.g. "0 3 * * *" for daily at 3 AM). Empty disables pruning.
	PruneSchedule string `yaml:"prune_schedule"`
}
