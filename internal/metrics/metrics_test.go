package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	m := New()
	m.ObserveRun("mwu", "ok", 20*time.Millisecond)
	m.ObserveRun("mwu", "invalid_grouping", 0)
	m.ObserveFeatures("mwu", 10, map[string]int{"CONSTANT": 2})
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.SetCacheEntries(4)
	m.TablesLoaded("upload")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("mwu", "ok")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.featuresTested.WithLabelValues("mwu")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.featuresUndefined.WithLabelValues("mwu", "CONSTANT")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheMisses))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.cacheEntries))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fbmn_stats_runs_total")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun("wilcoxon", "ok", time.Second)
		m.ObserveFeatures("wilcoxon", 1, nil)
		m.CacheHit()
		m.CacheMiss()
		m.SetCacheEntries(1)
		m.TablesLoaded("watch")
	})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
