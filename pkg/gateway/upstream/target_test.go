package upstream

import (
	"testing"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/config"
)

func TestTargetURL(t *testing.T) {
	tests := []struct {
		name string
		host string
		path string
		want string
	}{
		{
			name: "bare host gets http scheme",
			host: "metadata",
			path: "/videos",
			want: "http://metadata/videos",
		},
		{
			name: "host with port",
			host: "metadata:8080",
			path: "/videos",
			want: "http://metadata:8080/videos",
		},
		{
			name: "explicit scheme kept",
			host: "http://metadata.internal",
			path: "/videos",
			want: "http://metadata.internal/videos",
		},
		{
			name: "trailing slash trimmed",
			host: "http://metadata/",
			path: "/videos",
			want: "http://metadata/videos",
		},
		{
			name: "query string preserved",
			host: "streaming",
			path: "/video?id=abc",
			want: "http://streaming/video?id=abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := Target{Name: "test", Host: tt.host}
			if got := target.URL(tt.path); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTargetsFromConfig(t *testing.T) {
	cfg := config.UpstreamsConfig{
		Metadata:  config.UpstreamConfig{Host: "metadata"},
		History:   config.UpstreamConfig{Host: "history"},
		Upload:    config.UpstreamConfig{Host: "upload"},
		Streaming: config.UpstreamConfig{Host: "streaming"},
	}

	targets := TargetsFromConfig(cfg)

	if targets.Metadata.Name != "metadata" || targets.Metadata.Host != "metadata" {
		t.Errorf("unexpected metadata target %+v", targets.Metadata)
	}
	if targets.Streaming.Name != "streaming" {
		t.Errorf("unexpected streaming target %+v", targets.Streaming)
	}
}
