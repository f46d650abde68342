package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exposed on /metrics.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	SamplerTicksTotal   prometheus.Counter
	SamplerTickErrors   prometheus.Counter
	ReportsGenerated    prometheus.Counter
	OnlineUsersSampled  prometheus.Gauge
}

// New registers and returns the service metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "presight",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "presight",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		SamplerTicksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "presight",
			Name:      "sampler_ticks_total",
			Help:      "Completed presence sampling ticks.",
		}),
		SamplerTickErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "presight",
			Name:      "sampler_tick_errors_total",
			Help:      "Sampling ticks that failed to persist.",
		}),
		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "presight",
			Name:      "reports_generated_total",
			Help:      "Reports generated, including regenerations.",
		}),
		OnlineUsersSampled: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "presight",
			Name:      "online_users",
			Help:      "Online user count observed on the last sampling tick.",
		}),
	}
}

// NewDefault registers the service metrics on the default registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
