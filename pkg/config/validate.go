package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration field %q: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors. The four primary
// upstream hosts are required; the gateway refuses to start without
// them.
func Validate(cfg *Config) error {
	var errs []string

	required := []struct {
		field string
		value string
	}{
		{"upstreams.metadata.host", cfg.Upstreams.Metadata.Host},
		{"upstreams.history.host", cfg.Upstreams.History.Host},
		{"upstreams.upload.host", cfg.Upstreams.Upload.Host},
		{"upstreams.streaming.host", cfg.Upstreams.Streaming.Host},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, (&ValidationError{r.field, "upstream host is required"}).Error())
		}
	}

	if cfg.Server.ListenAddress == "" {
		errs = append(errs, (&ValidationError{"server.listen_address", "must not be empty"}).Error())
	}
	if cfg.Server.ReadHeaderTimeout < 0 {
		errs = append(errs, (&ValidationError{"server.read_header_timeout", "must not be negative"}).Error())
	}
	if cfg.Server.WriteTimeout < 0 {
		errs = append(errs, (&ValidationError{"server.write_timeout", "must not be negative"}).Error())
	}

	if cfg.Upstreams.Retries < 0 {
		errs = append(errs, (&ValidationError{"upstreams.retries", "must not be negative"}).Error())
	}
	if cfg.Upstreams.ConnectTimeout <= 0 {
		errs = append(errs, (&ValidationError{"upstreams.connect_timeout", "must be positive"}).Error())
	}
	if cfg.Upstreams.RequestTimeout <= 0 {
		errs = append(errs, (&ValidationError{"upstreams.request_timeout", "must be positive"}).Error())
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, (&ValidationError{"logging.level", fmt.Sprintf("unknown level %q", cfg.Logging.Level)}).Error())
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, (&ValidationError{"logging.format", fmt.Sprintf("unknown format %q", cfg.Logging.Format)}).Error())
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, (&ValidationError{"metrics.path", "must start with /"}).Error())
	}

	if cfg.Audit.Enabled {
		if cfg.Audit.SQLite.Path == "" {
			errs = append(errs, (&ValidationError{"audit.sqlite.path", "must not be empty"}).Error())
		}
		if cfg.Audit.Retention.Days < 0 {
			errs = append(errs, (&ValidationError{"audit.retention.days", "must not be negative"}).Error())
		}
		if s := cfg.Audit.Retention.PruneSchedule; s != "" {
			if _, err := cron.ParseStandard(s); err != nil {
				errs = append(errs, (&ValidationError{"audit.retention.prune_schedule", fmt.Sprintf("invalid cron expression: %v", err)}).Error())
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
