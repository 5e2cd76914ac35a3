package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"wallshift/internal/structures"
)

type MetricsProviderInterface interface {
	IncTicks(outcome string)
	IncFetches(source, result string)
	IncDownloads(source string)
	ObserveTickDuration(duration time.Duration)
	ObservePersistenceDuration(duration time.Duration)
	SetPoolSize(count int)
}

type MetricsProvider struct {
	ticksTotal          *prometheus.CounterVec
	fetchesTotal        *prometheus.CounterVec
	downloadsTotal      *prometheus.CounterVec
	tickDuration        prometheus.Histogram
	persistenceDuration prometheus.Histogram
	poolSize            prometheus.Gauge
}

func (m *MetricsProvider) IncTicks(outcome string) {
	m.ticksTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncFetches(source, result string) {
	m.fetchesTotal.WithLabelValues(source, result).Inc()
}

func (m *MetricsProvider) IncDownloads(source string) {
	m.downloadsTotal.WithLabelValues(source).Inc()
}

func (m *MetricsProvider) ObserveTickDuration(duration time.Duration) {
	m.tickDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetPoolSize(count int) {
	m.poolSize.Set(float64(count))
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		ticksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallshift_ticks_total",
			Help: "Total number of rotation ticks by outcome",
		}, []string{"outcome"}),

		fetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallshift_fetches_total",
			Help: "Total number of source API fetches by result",
		}, []string{"source", "result"}),

		downloadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallshift_downloads_total",
			Help: "Total number of downloaded images",
		}, []string{"source"}),

		tickDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallshift_tick_duration_seconds",
			Help:    "Rotation tick duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallshift_persistence_duration_seconds",
			Help:    "Duration of state persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		poolSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "wallshift_pool_size",
			Help: "Number of images currently in the wallpaper pool",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncTicks(_ string)                          {}
func (n *noopMetrics) IncFetches(_, _ string)                     {}
func (n *noopMetrics) IncDownloads(_ string)                      {}
func (n *noopMetrics) ObserveTickDuration(_ time.Duration)        {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration) {}
func (n *noopMetrics) SetPoolSize(_ int)                          {}
