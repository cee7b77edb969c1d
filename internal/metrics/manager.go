package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds the service's Prometheus instruments.
type Manager struct {
	// counters
	CounterRequests      *prometheus.CounterVec
	CounterPanics        prometheus.Counter
	CounterSamples       *prometheus.CounterVec
	CounterNoMatch       prometheus.Counter
	CounterAdvice        *prometheus.CounterVec
	CounterJournalErrors prometheus.Counter

	// gauges
	GaugeDatasetRows    prometheus.Gauge
	GaugeDatasetDropped prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistogramAdviceDuration  prometheus.Histogram
}

// NewTestManager returns a Manager on a private registry.
func NewTestManager() *Manager {
	return NewManager("fitplanner", "test", prometheus.NewRegistry())
}

// NewTestManagerAndRegistry is NewTestManager that also returns the registry.
func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitplanner", "test", reg), reg
}

// NewManager creates and registers all instruments on reg.
func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of HTTP requests",
		}, []string{"route", "method", "status_code"}),
		CounterPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handler_panics_total",
			Help:      "The total number of recovered handler panics",
		}),
		CounterSamples: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "samples_total",
			Help:      "The total number of exercise samples served, by body part",
		}, []string{"body_part"}),
		CounterNoMatch: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sample_no_match_total",
			Help:      "The total number of sample requests that matched no exercise",
		}),
		CounterAdvice: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "advice_total",
			Help:      "The total number of advice requests, by goal and outcome",
		}, []string{"goal", "outcome"}),
		CounterJournalErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "journal_errors_total",
			Help:      "The total number of advice journal write failures",
		}),
		GaugeDatasetRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dataset_rows",
			Help:      "Number of exercise records kept after cleaning",
		}),
		GaugeDatasetDropped: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dataset_dropped_rows",
			Help:      "Number of exercise records dropped for missing fields",
		}),
		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Histogram of response time for requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route", "method", "status_code"}),
		HistogramAdviceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "advice_duration_seconds",
			Help:      "Histogram of advice generation time in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10, 20, 30, 60},
		}),
	}
}
