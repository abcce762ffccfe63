package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns
// any errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention GATEWAY_SECTION_FIELD (e.g. GATEWAY_SERVER_LISTEN_ADDRESS)
// and always take precedence over file values.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. The upstream host variables mirror the DNS names the
// deployment environment provides.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("GATEWAY_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("GATEWAY_SERVER_READ_HEADER_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadHeaderTimeout = d
		}
	}
	if val := os.Getenv("GATEWAY_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("GATEWAY_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("GATEWAY_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("GATEWAY_SERVER_MAX_HEADER_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.MaxHeaderBytes = i
		}
	}

	// Upstream overrides
	if val := os.Getenv("GATEWAY_UPSTREAMS_METADATA_HOST"); val != "" {
		cfg.Upstreams.Metadata.Host = val
	}
	if val := os.Getenv("GATEWAY_UPSTREAMS_HISTORY_HOST"); val != "" {
		cfg.Upstreams.History.Host = val
	}
	if val := os.Getenv("GATEWAY_UPSTREAMS_UPLOAD_HOST"); val != "" {
		cfg.Upstreams.Upload.Host = val
	}
	if val := os.Getenv("GATEWAY_UPSTREAMS_STREAMING_HOST"); val != "" {
		cfg.Upstreams.Streaming.Host = val
	}
	if val := os.Getenv("GATEWAY_UPSTREAMS_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Upstreams.Retries = i
		}
	}
	if val := os.Getenv("GATEWAY_UPSTREAMS_CONNECT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Upstreams.ConnectTimeout = d
		}
	}
	if val := os.Getenv("GATEWAY_UPSTREAMS_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Upstreams.RequestTimeout = d
		}
	}

	// Logging overrides
	if val := os.Getenv("GATEWAY_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("GATEWAY_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	// Metrics overrides
	if val := os.Getenv("GATEWAY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("GATEWAY_METRICS_PATH"); val != "" {
		cfg.Metrics.Path = val
	}

	// Audit overrides
	if val := os.Getenv("GATEWAY_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("GATEWAY_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLite.Path = val
	}
	if val := os.Getenv("GATEWAY_AUDIT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Audit.Retention.Days = i
		}
	}
	if val := os.Getenv("GATEWAY_AUDIT_RETENTION_PRUNE_SCHEDULE"); val != "" {
		cfg.Audit.Retention.PruneSchedule = val
	}

	if val := os.Getenv("GATEWAY_WATCH_CONFIG"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.WatchConfig = b
		}
	}
}
