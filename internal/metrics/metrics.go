// Package metrics exposes Prometheus instrumentation for analysis runs. A nil *Metrics is
// valid and records nothing, so callers never branch on whether metrics are enabled.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fbmn_stats"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	runs              *prometheus.CounterVec
	runDuration       *prometheus.HistogramVec
	featuresTested    *prometheus.CounterVec
	featuresUndefined *prometheus.CounterVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	cacheEntries      prometheus.Gauge
	tablesLoaded      *prometheus.CounterVec
}

// New registers every collector, including the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Analysis runs by test family and outcome.",
		}, []string{"family", "outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of uncached analysis runs.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"family"}),
		featuresTested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_tested_total",
			Help:      "Features evaluated by the test runner.",
		}, []string{"family"}),
		featuresUndefined: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_undefined_total",
			Help:      "Features whose test result was undefined, by reason.",
		}, []string{"family", "reason"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_hits_total",
			Help:      "Runs served from the result cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_misses_total",
			Help:      "Runs that had to be computed.",
		}),
		cacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "result_cache_entries",
			Help:      "Result tables currently cached.",
		}),
		tablesLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tables_loaded_total",
			Help:      "Feature/metadata table pairs loaded into the session, by source.",
		}, []string{"source"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.runs, m.runDuration, m.featuresTested, m.featuresUndefined,
		m.cacheHits, m.cacheMisses, m.cacheEntries, m.tablesLoaded,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRun records one completed or failed run.
func (m *Metrics) ObserveRun(family, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(family, outcome).Inc()
	if outcome == "ok" {
		m.runDuration.WithLabelValues(family).Observe(elapsed.Seconds())
	}
}

// ObserveFeatures records how many features a run tested and why some were undefined.
func (m *Metrics) ObserveFeatures(family string, tested int, undefined map[string]int) {
	if m == nil {
		return
	}
	m.featuresTested.WithLabelValues(family).Add(float64(tested))
	for reason, n := range undefined {
		m.featuresUndefined.WithLabelValues(family, reason).Add(float64(n))
	}
}

func (m *Metrics) CacheHit() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

func (m *Metrics) CacheMiss() {
	if m != nil {
		m.cacheMisses.Inc()
	}
}

func (m *Metrics) SetCacheEntries(n int) {
	if m != nil {
		m.cacheEntries.Set(float64(n))
	}
}

// TablesLoaded counts a session load; source is "startup", "upload" or "watch".
func (m *Metrics) TablesLoaded(source string) {
	if m != nil {
		m.tablesLoaded.WithLabelValues(source).Inc()
	}
}
