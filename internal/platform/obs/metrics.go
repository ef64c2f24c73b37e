package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the service's Prometheus collectors on a private registry,
// so several instances (e.g. in tests) never collide.
type Metrics struct {
	Registry *prometheus.Registry

	solveDuration *prometheus.HistogramVec
	solveTotal    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "optimizer_solve_duration_seconds",
				Help:    "Duration of optimisation calls",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"operation"},
		),
		solveTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optimizer_solves_total",
				Help: "Optimisation calls by operation and outcome status",
			},
			[]string{"operation", "status"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optimizer_http_requests_total",
				Help: "HTTP requests by path and status code",
			},
			[]string{"path", "code"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optimizer_cache_lookups_total",
				Help: "Result cache lookups by operation and result",
			},
			[]string{"operation", "result"},
		),
	}

	m.Registry.MustRegister(
		m.solveDuration,
		m.solveTotal,
		m.httpRequests,
		m.cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSolve records one optimisation call. status is "error" when the
// call failed before producing a result. A nil receiver is a no-op.
func (m *Metrics) ObserveSolve(operation, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.solveDuration.WithLabelValues(operation).Observe(dur.Seconds())
	m.solveTotal.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) ObserveHTTP(path, code string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, code).Inc()
}

// ObserveCache records a cache "hit", "miss" or "error".
func (m *Metrics) ObserveCache(operation, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(operation, result).Inc()
}
