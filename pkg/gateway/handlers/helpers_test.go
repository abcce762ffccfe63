package handlers

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/config"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/ready"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/upstream"
)

// errTemplate simulates a broken view.
var errTemplate = errors.New("template execution failed")

// stubRenderer records the last view and data it was asked to render.
type stubRenderer struct {
	view string
	data any
	err  error
}

func (s *stubRenderer) Render(w io.Writer, view string, data any) error {
	s.view = view
	s.data = data
	if s.err != nil {
		return s.err
	}
	_, err := fmt.Fprintf(w, "view:%s", view)
	return err
}

// newTestGateway builds a Gateway whose four upstreams all point at
// the given base URLs. Empty URLs leave the upstream pointing at a
// closed port.
func newTestGateway(metadataURL, historyURL, uploadURL, streamingURL string) (*Gateway, *stubRenderer) {
	cfg := config.UpstreamsConfig{
		Metadata:       config.UpstreamConfig{Host: orClosed(metadataURL)},
		History:        config.UpstreamConfig{Host: orClosed(historyURL)},
		Upload:         config.UpstreamConfig{Host: orClosed(uploadURL)},
		Streaming:      config.UpstreamConfig{Host: orClosed(streamingURL)},
		Retries:        0,
		ConnectTimeout: time.Second,
		RequestTimeout: 5 * time.Second,
	}

	client := upstream.NewClient(cfg)
	targets := upstream.TargetsFromConfig(cfg)
	renderer := &stubRenderer{}

	gw := &Gateway{
		Client:   client,
		Stream:   upstream.NewStreamClient(cfg),
		Targets:  func() upstream.Targets { return targets },
		Renderer: renderer,
		Tracker:  ready.NewTracker(client, targets.Metadata),
	}
	return gw, renderer
}

// orClosed substitutes an address nothing listens on.
func orClosed(url string) string {
	if url == "" {
		return "127.0.0.1:1"
	}
	return url
}
