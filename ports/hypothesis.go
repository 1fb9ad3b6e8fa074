package ports

import (
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

// StatTestProvider exposes the two-sample tests and the p-value correction used by the pipeline.
type StatTestProvider interface {
	MannWhitneyU(a, b []float64, alt stats.Alternative) (stats.TestResult, error)
	WilcoxonSignedRank(a, b []float64, alt stats.Alternative) (stats.TestResult, error)
	CorrectPValues(pvals []float64, method stats.CorrectionMethod) ([]float64, error)
}

// HypothesisTest is one test family. Precheck runs once per run, before any feature is
// evaluated; Evaluate runs once per feature and must not share mutable state between calls.
type HypothesisTest interface {
	Family() stats.TestFamily
	Precheck(grouping stats.Grouping, sizeA, sizeB int) error
	Evaluate(a, b []float64, alt stats.Alternative) (stats.TestResult, error)
}
