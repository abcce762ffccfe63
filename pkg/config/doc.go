// Package config loads, validates, and watches the gateway
// configuration.
//
// Configuration comes from a YAML file with environment variable
// overrides (GATEWAY_SECTION_FIELD) layered on top. Defaults are
// applied before validation, and the four primary upstream hosts
// (metadata, history, upload, streaming) are required: a missing host
// is a fatal startup error.
//
// When watch_config is enabled the configuration file is monitored
// with fsnotify and reloaded on change; a reload that fails validation
// leaves the previous configuration in effect.
package config
