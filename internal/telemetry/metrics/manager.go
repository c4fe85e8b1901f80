package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	testNamespace = "backend"
	testSubsystem = "test_server"
)

var (
	requestBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	assessmentBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5}
)

// Manager holds every metric the service exports.
type Manager struct {
	// http
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	GaugeRequests              prometheus.Gauge
	HistogramRequestDuration   *prometheus.HistogramVec

	// assessments
	CounterAssessments     *prometheus.CounterVec
	CounterLookupMisses    *prometheus.CounterVec
	CounterChartCache      *prometheus.CounterVec
	HistAssessmentDuration prometheus.Histogram

	GaugeLifeSignal prometheus.Gauge
}

func NewTestManager() *Manager {
	return NewManager(testNamespace, testSubsystem, prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager(testNamespace, testSubsystem, reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)
	counterOpts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help}
	}
	gaugeOpts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help}
	}
	histOpts := func(name, help string, buckets []float64) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: buckets}
	}

	return &Manager{
		CounterRequests: factory.NewCounterVec(
			counterOpts("request", "The total number of incoming requests"),
			[]string{"method", "status"},
		),
		CounterHandleRequestPanic: factory.NewCounter(
			counterOpts("handle_request_panic", "The total number of serve request panics"),
		),
		CounterRateLimitedRequests: factory.NewCounter(
			counterOpts("rate_limited_requests", "The total number of rate limited requests"),
		),
		GaugeRequests: factory.NewGauge(
			gaugeOpts("current_requests", "Current number of open client connections"),
		),
		HistogramRequestDuration: factory.NewHistogramVec(
			histOpts("request_duration_seconds", "Histogram of response time for requests in seconds", requestBuckets),
			[]string{"route", "method", "status_code"},
		),

		CounterAssessments: factory.NewCounterVec(
			counterOpts("assessments", "The total number of computed assessments, by outcome"),
			[]string{"outcome"},
		),
		CounterLookupMisses: factory.NewCounterVec(
			counterOpts("classification_lookup_misses", "Classifications not available for the client's age or gender"),
			[]string{"metric"},
		),
		CounterChartCache: factory.NewCounterVec(
			counterOpts("chart_cache", "Chart render cache lookups, by result"),
			[]string{"result"},
		),
		HistAssessmentDuration: factory.NewHistogram(
			histOpts("assessment_duration_seconds", "Duration of a single assessment computation, charts included", assessmentBuckets),
		),

		GaugeLifeSignal: factory.NewGauge(
			gaugeOpts("life_signal", "Shows whether the service is alive"),
		),
	}
}
