package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"workd/internal/services"
	"workd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncActionsTotal(action, outcome string)
	ObserveStoreDuration(op string, duration time.Duration)
	SetWorksTotal(count int)
}

// Action outcomes reported to IncActionsTotal.
const (
	OutcomeCounted   = "counted"
	OutcomeThrottled = "throttled"
	OutcomeFailed    = "failed"
)

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	actionsTotal    *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	worksTotal      prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncActionsTotal(action, outcome string) {
	m.actionsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *MetricsProvider) ObserveStoreDuration(op string, duration time.Duration) {
	m.storeDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetWorksTotal(count int) {
	m.worksTotal.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, limiter services.RateLimiterInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "workd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "workd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "workd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		actionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "workd_actions_total",
			Help: "Countable actions by kind and outcome",
		}, []string{"action", "outcome"}),

		storeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workd_store_op_duration_seconds",
			Help:    "Duration of work store operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		worksTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "workd_works_total",
			Help: "Number of works in the catalog",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "workd_limiter_keys",
		Help: "Number of tracked rate limiter keys",
	}, func() float64 {
		return float64(limiter.Size())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncActionsTotal(_, _ string)                      {}
func (n *noopMetrics) ObserveStoreDuration(_ string, _ time.Duration)   {}
func (n *noopMetrics) SetWorksTotal(_ int)                              {}
