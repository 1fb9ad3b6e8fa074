package app

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/adapters/stats/nonparametric"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/dataset"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/ports"
)

// cohortTables is 6 samples, 3 per cohort, with the given feature columns.
func cohortTables(t *testing.T, features []string, columns ...[]float64) (*dataset.FeatureTable, *dataset.MetadataTable) {
	t.Helper()
	samples := []string{"s1", "s2", "s3", "s4", "s5", "s6"}
	values := make([][]float64, len(samples))
	for i := range samples {
		values[i] = make([]float64, len(columns))
		for j, col := range columns {
			values[i][j] = col[i]
		}
	}
	ft, err := dataset.NewFeatureTable("quant.csv", samples, features, values)
	require.NoError(t, err)

	md, err := dataset.NewMetadataTable("meta.csv", samples, []string{"cohort", "visit", "batch"}, [][]string{
		{"A", "pre", "1"},
		{"A", "pre", "1"},
		{"A", "pre", "1"},
		{"B", "post", "1"},
		{"B", "post", "1"},
		{"B", "post", "NA"},
	})
	require.NoError(t, err)
	return ft, md
}

// threeFeatureTables is the 3 features x 6 samples table used by the end-to-end runs.
func threeFeatureTables(t *testing.T) (*dataset.FeatureTable, *dataset.MetadataTable) {
	return cohortTables(t, []string{"m_101", "m_202", "m_303"},
		[]float64{1, 2, 3, 10, 11, 12},
		[]float64{5, 1, 9, 4, 8, 2},
		[]float64{12, 11, 10, 3, 2, 1},
	)
}

func newTestService(t *testing.T, ft *dataset.FeatureTable, md *dataset.MetadataTable) *AnalysisService {
	t.Helper()
	provider := nonparametric.NewProvider()
	var tests []ports.HypothesisTest
	for _, family := range []stats.TestFamily{stats.IndependentGroups, stats.PairedSamples} {
		test, err := nonparametric.NewHypothesisTest(family, provider)
		require.NoError(t, err)
		tests = append(tests, test)
	}
	svc := NewAnalysisService(NewSession(), provider, tests, NewTestRunner(2),
		NewMemoryResultCache(), stats.CorrectionFDRBH, internal.NewNopLogger(), nil)
	if ft != nil {
		require.NoError(t, svc.LoadTables(ft, md, "test"))
	}
	return svc
}

// mockHypothesisTest is a testify mock of ports.HypothesisTest.
type mockHypothesisTest struct {
	mock.Mock
}

func (m *mockHypothesisTest) Family() stats.TestFamily {
	return m.Called().Get(0).(stats.TestFamily)
}

func (m *mockHypothesisTest) Precheck(g stats.Grouping, sizeA, sizeB int) error {
	return m.Called(g, sizeA, sizeB).Error(0)
}

func (m *mockHypothesisTest) Evaluate(a, b []float64, alt stats.Alternative) (stats.TestResult, error) {
	args := m.Called(a, b, alt)
	return args.Get(0).(stats.TestResult), args.Error(1)
}

// gatedTest wraps the Mann-Whitney test so that every Evaluate waits for release.
// started is closed on the first call.
type gatedTest struct {
	ports.HypothesisTest
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedTest) Evaluate(a, b []float64, alt stats.Alternative) (stats.TestResult, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return g.HypothesisTest.Evaluate(a, b, alt)
}

// newGatedService returns a single-worker service whose Mann-Whitney runs block on the gate.
func newGatedService(t *testing.T) (*AnalysisService, *gatedTest) {
	t.Helper()
	provider := nonparametric.NewProvider()
	mwu, err := nonparametric.NewHypothesisTest(stats.IndependentGroups, provider)
	require.NoError(t, err)
	gated := &gatedTest{
		HypothesisTest: mwu,
		started:        make(chan struct{}),
		release:        make(chan struct{}),
	}

	svc := NewAnalysisService(NewSession(), provider, []ports.HypothesisTest{gated}, NewTestRunner(1),
		NewMemoryResultCache(), stats.CorrectionFDRBH, internal.NewNopLogger(), nil)
	ft, md := threeFeatureTables(t)
	require.NoError(t, svc.LoadTables(ft, md, "test"))
	return svc, gated
}

func (s *AnalysisService) waitersFor(key core.RunKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if call, ok := s.calls[key]; ok {
		return call.waiters
	}
	return 0
}
