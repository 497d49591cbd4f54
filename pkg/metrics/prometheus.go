// Package metrics provides Prometheus metrics for the pixrank ranking tool.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns the Prometheus instruments for a ranking run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Ranking progress
	matchesJudged   prometheus.Counter
	roundsCompleted prometheus.Counter
	abortsTotal     prometheus.Counter

	// Collection state
	photosTracked prometheus.Gauge
	stateSaves    prometheus.Counter

	// How long the user deliberates over a match-up
	judgeDecisionSeconds prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry so the default Go collectors don't pollute the output.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pixrank",
		subsystem:        "ranking",
		histogramBuckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	m.matchesJudged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_judged_total",
		Help:      "Total number of match-ups the user has decided.",
	})
	m.roundsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_completed_total",
		Help:      "Total number of full rounds completed.",
	})
	m.abortsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aborts_total",
		Help:      "Total number of ranking runs aborted before completion.",
	})
	m.photosTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "photos_tracked",
		Help:      "Number of photos currently in the rating table.",
	})
	m.stateSaves = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "state_saves_total",
		Help:      "Total number of times rating state was persisted.",
	})
	m.judgeDecisionSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "judge_decision_seconds",
		Help:      "Time the user spent deciding a match-up.",
		Buckets:   m.histogramBuckets,
	})

	if !m.enabled || m.registry == nil {
		return
	}
	m.registry.MustRegister(
		m.matchesJudged,
		m.roundsCompleted,
		m.abortsTotal,
		m.photosTracked,
		m.stateSaves,
		m.judgeDecisionSeconds,
	)
}

// Registry returns the gatherer backing the global manager, for serving the
// /metrics endpoint.
func Registry() *prometheus.Registry {
	return customRegistry
}

// RecordMatchJudged counts one decided match-up.
func RecordMatchJudged() {
	globalManager.matchesJudged.Inc()
}

// RecordRoundCompleted counts one finished round.
func RecordRoundCompleted() {
	globalManager.roundsCompleted.Inc()
}

// RecordAbort counts an early-terminated run.
func RecordAbort() {
	globalManager.abortsTotal.Inc()
}

// RecordStateSave counts one state persistence.
func RecordStateSave() {
	globalManager.stateSaves.Inc()
}

// UpdatePhotosTracked sets the current rating table size.
func UpdatePhotosTracked(n int) {
	globalManager.photosTracked.Set(float64(n))
}

// ObserveJudgeDecision records how long one verdict took, in seconds.
func ObserveJudgeDecision(seconds float64) {
	globalManager.judgeDecisionSeconds.Observe(seconds)
}
