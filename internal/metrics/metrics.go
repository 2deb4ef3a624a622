// Package metrics exposes Prometheus instrumentation for the API and the
// analysis engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wardleyscope/core/internal/models"
)

const namespace = "wardley"

type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	AnalysisDuration     prometheus.Histogram
	AnalysisComponents   prometheus.Histogram
	AnalysisTimeouts     prometheus.Counter
	RecommendationsTotal *prometheus.CounterVec
	CacheLookups         *prometheus.CounterVec
}

// New registers every collector on a private registry so tests and
// multiple servers in one process do not collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Time spent analysing a single map.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		AnalysisComponents: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "components",
			Help:      "Number of components per analysed map.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		AnalysisTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "timeouts_total",
			Help:      "Analyses abandoned because they ran past the deadline.",
		}),
		RecommendationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "recommendations_total",
			Help:      "Recommendations produced, by priority.",
		}, []string{"priority"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Analysis cache lookups by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveAnalysis(components int, result *models.MapAnalysis, elapsed time.Duration) {
	m.AnalysisDuration.Observe(elapsed.Seconds())
	m.AnalysisComponents.Observe(float64(components))
	for _, rec := range result.Recommendations {
		m.RecommendationsTotal.WithLabelValues(string(rec.Priority)).Inc()
	}
}

// ObserveCache records "hit", "miss" or "error".
func (m *Metrics) ObserveCache(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}
