package upstream

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/config"
)

// CorrelationHeader is the header carrying the per-request correlation
// ID to upstream services. Upstreams must read it case-insensitively;
// net/http canonicalizes it on the wire.
const CorrelationHeader = "X-Correlation-Id"

// retryBaseDelay is the first backoff step; each further attempt
// doubles it.
const retryBaseDelay = 100 * time.Millisecond

// Client issues buffered requests to upstream services on behalf of
// aggregation routes and readiness probes. It retries transient
// failures (transport errors and 5xx responses) with exponential
// backoff up to the configured retry count.
//
// Streaming routes do not use Client; see NewStreamClient.
type Client struct {
	http    *http.Client
	retries int
	logger  *slog.Logger
}

// NewClient creates an upstream client with connection pooling and the
// configured connect/request timeouts.
func NewClient(cfg config.UpstreamsConfig) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		retries: cfg.Retries,
		logger:  slog.Default().With("component", "upstream.client"),
	}
}

// Get issues a GET to the target carrying the correlation header. The
// response is returned even when the final attempt yields an error
// status: the aggregation fallback policy decides what a 500 means. A
// non-nil error is returned only when every attempt failed at the
// transport level.
//
// 5xx responses and transport errors are retried; 4xx responses are
// returned immediately.
func (c *Client) Get(ctx context.Context, target Target, pathAndQuery, correlationID string) (*http.Response, error) {
	url := target.URL(pathAndQuery)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * retryBaseDelay
			c.logger.Debug("retrying upstream request",
				"upstream", target.Name,
				"attempt", attempt,
				"max_retries", c.retries,
				"backoff", backoff,
			)

			select {
			case <-ctx.Done():
				return nil, &UpstreamError{Upstream: target.Name, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, &UpstreamError{Upstream: target.Name, Err: err}
		}
		req.Header.Set(CorrelationHeader, correlationID)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err

			// Context cancellation is not transient.
			if ctx.Err() != nil {
				return nil, &UpstreamError{Upstream: target.Name, Err: ctx.Err()}
			}

			c.logger.Warn("upstream request failed",
				"upstream", target.Name,
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		if resp.StatusCode >= 500 && attempt < c.retries {
			resp.Body.Close()
			c.logger.Warn("upstream returned server error, will retry",
				"upstream", target.Name,
				"status", resp.StatusCode,
				"attempt", attempt+1,
			)
			continue
		}

		return resp, nil
	}

	return nil, &UpstreamError{Upstream: target.Name, Err: lastErr}
}

// NewStreamClient creates an HTTP client for streaming routes. It has
// no overall request timeout: a video transfer has no bounded
// duration. Connection establishment and response header arrival are
// still bounded so an unresponsive upstream cannot hang a request
// indefinitely; body transfer is cancelled through the inbound
// request's context when the client disconnects.
func NewStreamClient(cfg config.UpstreamsConfig) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
	}

	return &http.Client{Transport: transport}
}
