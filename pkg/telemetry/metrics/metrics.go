package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns the gateway's Prometheus registry and metric vectors.
//
// Metrics:
//   - <ns>_requests_total: request count by route, method, status
//   - <ns>_request_duration_seconds: request duration histogram by route
//   - <ns>_proxied_bytes_total: bytes piped through streaming routes
//     by route and direction
//   - <ns>_upstream_ready: 1 when the metadata upstream last probed
//     ready, 0 otherwise
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	proxiedBytes    *prometheus.CounterVec
	upstreamReady   prometheus.Gauge
}

// NewCollector creates a collector with a private registry. The
// standard Go runtime and process collectors are registered alongside
// the gateway's own metrics.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of requests handled by the gateway",
			},
			[]string{"route", "method", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of gateway requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),

		proxiedBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "proxied_bytes_total",
				Help:      "Bytes piped through streaming routes",
			},
			[]string{"route", "direction"},
		),

		upstreamReady: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "upstream_ready",
				Help:      "Whether the metadata upstream last probed ready (1) or not (0)",
			},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.proxiedBytes,
		c.upstreamReady,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// RecordRequest records metrics for a completed request.
func (c *Collector) RecordRequest(route, method, status string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(route, method, status).Inc()
	c.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordProxiedBytes records bytes piped through a streaming route.
// Direction is "upstream" for client-to-upstream bytes and
// "downstream" for upstream-to-client bytes.
func (c *Collector) RecordProxiedBytes(route, direction string, n int64) {
	if n > 0 {
		c.proxiedBytes.WithLabelValues(route, direction).Add(float64(n))
	}
}

// SetUpstreamReady records the outcome of the latest readiness probe.
func (c *Collector) SetUpstreamReady(ready bool) {
	if ready {
		c.upstreamReady.Set(1)
	} else {
		c.upstreamReady.Set(0)
	}
}
