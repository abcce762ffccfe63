package upstream

import (
	"strings"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/config"
)

// Target addresses a single upstream service by its logical DNS name.
// Targets are built once from configuration and shared read-only by
// all requests.
type Target struct {
	// Name identifies the upstream in logs and metrics
	// ("metadata", "history", "upload", "streaming").
	Name string

	// Host is the DNS name, optionally host:port, optionally carrying
	// an explicit http:// scheme.
	Host string
}

// URL joins the target's base URL with a path (which may carry a query
// string). A host without a scheme gets http://; TLS toward upstreams
// is out of scope and handled by whatever fronts them.
func (t Target) URL(pathAndQuery string) string {
	host := t.Host
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/") + pathAndQuery
}

// Targets holds the four upstream services the gateway forwards to.
type Targets struct {
	Metadata  Target
	History   Target
	Upload    Target
	Streaming Target
}

// TargetsFromConfig builds the upstream targets from configuration.
func TargetsFromConfig(cfg config.UpstreamsConfig) Targets {
	return Targets{
		Metadata:  Target{Name: "metadata", Host: cfg.Metadata.Host},
		History:   Target{Name: "history", Host: cfg.History.Host},
		Upload:    Target{Name: "upload", Host: cfg.Upload.Host},
		Streaming: Target{Name: "streaming", Host: cfg.Streaming.Host},
	}
}
