package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the SDK-level instrumentation for the ingestion and
// serving paths.
type Metrics struct {
	RecordsPublished *prometheus.CounterVec
	PublishErrors    *prometheus.CounterVec
	PublishDuration  *prometheus.HistogramVec

	OnlineReads        *prometheus.CounterVec
	OnlineReadErrors   *prometheus.CounterVec
	OnlineReadDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		RecordsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamhouse",
				Subsystem: "ingestion",
				Name:      "records_published_total",
				Help:      "Total number of records published to the online topic",
			},
			[]string{"feature_group", "topic"},
		),

		PublishErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamhouse",
				Subsystem: "ingestion",
				Name:      "publish_errors_total",
				Help:      "Total number of failed publishes",
			},
			[]string{"feature_group", "topic"},
		),

		PublishDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "streamhouse",
				Subsystem: "ingestion",
				Name:      "publish_duration_seconds",
				Help:      "Publish round trip duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"feature_group"},
		),

		OnlineReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamhouse",
				Subsystem: "serving",
				Name:      "online_reads_total",
				Help:      "Total number of online feature reads",
			},
			[]string{"feature_group", "backend"},
		),

		OnlineReadErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamhouse",
				Subsystem: "serving",
				Name:      "online_read_errors_total",
				Help:      "Total number of failed online feature reads",
			},
			[]string{"feature_group", "backend"},
		),

		OnlineReadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "streamhouse",
				Subsystem: "serving",
				Name:      "online_read_duration_seconds",
				Help:      "Online read duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"feature_group"},
		),
	}
}

// Register adds all collectors to the given registerer. Registering the
// same Metrics twice returns prometheus duplicate errors.
func (m *Metrics) Register(registerer prometheus.Registerer) error {
	for _, collector := range m.collectors() {
		if err := registerer.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RecordsPublished,
		m.PublishErrors,
		m.PublishDuration,
		m.OnlineReads,
		m.OnlineReadErrors,
		m.OnlineReadDuration,
	}
}

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Default returns the process-wide metrics, registered against the
// prometheus default registerer on first use.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewMetrics()
		for _, collector := range defaultMetrics.collectors() {
			// Ignore duplicate registration when the host process
			// already carries a collector with the same name.
			_ = prometheus.DefaultRegisterer.Register(collector)
		}
	})
	return defaultMetrics
}
