package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the optional Prometheus instrumentation for a router: a
// counter of requests by method/status and a histogram of dispatch
// latency. A nil *Metrics is valid everywhere it is used — Observe
// guards against it — so wiring metrics is opt-in.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

// NewMetrics registers the router's counters/histogram on reg and
// returns a *Metrics ready for use. Pass a dedicated
// prometheus.NewRegistry() in tests to avoid colliding with the default
// global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "corehttp_requests_total",
			Help: "Total requests dispatched by method and response status.",
		}, []string{"method", "status"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "corehttp_dispatch_duration_seconds",
			Help:    "Route dispatch latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

// Observe records one completed dispatch. Safe to call on a nil
// *Metrics.
func (m *Metrics) Observe(method string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, statusLabel(status)).Inc()
	m.latency.Observe(dur.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "other"
	}
}
