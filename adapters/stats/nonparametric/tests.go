package nonparametric

import (
	"fmt"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/adapters/stats/correction"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/ports"
)

// Provider implements ports.StatTestProvider.
type Provider struct{}

// NewProvider creates the default statistical test provider
func NewProvider() *Provider {
	return &Provider{}
}

func (Provider) MannWhitneyU(a, b []float64, alt stats.Alternative) (stats.TestResult, error) {
	return MannWhitneyU(a, b, alt)
}

func (Provider) WilcoxonSignedRank(a, b []float64, alt stats.Alternative) (stats.TestResult, error) {
	return WilcoxonSignedRank(a, b, alt)
}

func (Provider) CorrectPValues(pvals []float64, method stats.CorrectionMethod) ([]float64, error) {
	return correction.Correct(pvals, method)
}

// IndependentGroupsTest is the Mann-Whitney U family.
type IndependentGroupsTest struct {
	provider ports.StatTestProvider
}

// PairedSamplesTest is the Wilcoxon signed-rank family.
type PairedSamplesTest struct {
	provider ports.StatTestProvider
}

// NewHypothesisTest returns the test for a family, backed by provider.
func NewHypothesisTest(family stats.TestFamily, provider ports.StatTestProvider) (ports.HypothesisTest, error) {
	switch family {
	case stats.IndependentGroups:
		return &IndependentGroupsTest{provider: provider}, nil
	case stats.PairedSamples:
		return &PairedSamplesTest{provider: provider}, nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrInvalidTestFamily, family)
}

func (t *IndependentGroupsTest) Family() stats.TestFamily { return stats.IndependentGroups }

// Precheck has nothing to verify for independent groups; empty groups are already
// rejected by group selection.
func (t *IndependentGroupsTest) Precheck(stats.Grouping, int, int) error { return nil }

func (t *IndependentGroupsTest) Evaluate(a, b []float64, alt stats.Alternative) (stats.TestResult, error) {
	return t.provider.MannWhitneyU(a, b, alt)
}

func (t *PairedSamplesTest) Family() stats.TestFamily { return stats.PairedSamples }

// Precheck enforces equal group sizes once for the whole run.
func (t *PairedSamplesTest) Precheck(g stats.Grouping, sizeA, sizeB int) error {
	if sizeA != sizeB {
		return &core.UnequalSampleSizeError{GroupA: g.GroupA, GroupB: g.GroupB, SizeA: sizeA, SizeB: sizeB}
	}
	return nil
}

func (t *PairedSamplesTest) Evaluate(a, b []float64, alt stats.Alternative) (stats.TestResult, error) {
	return t.provider.WilcoxonSignedRank(a, b, alt)
}
