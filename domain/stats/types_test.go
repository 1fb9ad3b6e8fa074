package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
)

func TestParseCorrectionMethod(t *testing.T) {
	tests := []struct {
		in   string
		want CorrectionMethod
	}{
		{"none", CorrectionNone},
		{"bonf", CorrectionBonferroni},
		{"Bonferroni", CorrectionBonferroni},
		{"fdr", CorrectionFDRBH},
		{" fdr_by ", CorrectionFDRBY},
		{"holm", CorrectionHolm},
		{"sidak", CorrectionSidak},
	}
	for _, tt := range tests {
		got, err := ParseCorrectionMethod(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseCorrectionMethod("hommel")
	assert.True(t, errors.Is(err, core.ErrUnsupportedCorrection))
}

func TestParseAlternativeAndFamily(t *testing.T) {
	alt, err := ParseAlternative("")
	require.NoError(t, err)
	assert.Equal(t, TwoSided, alt)

	_, err = ParseAlternative("sideways")
	assert.True(t, errors.Is(err, core.ErrInvalidAlternative))

	fam, err := ParseTestFamily("paired")
	require.NoError(t, err)
	assert.Equal(t, PairedSamples, fam)
	assert.Equal(t, "W-val", fam.StatisticName())
	assert.Equal(t, "U-val", IndependentGroups.StatisticName())

	_, err = ParseTestFamily("t-test")
	assert.True(t, errors.Is(err, core.ErrInvalidTestFamily))
}

func TestSignificanceSymbol(t *testing.T) {
	assert.Equal(t, "ns", SignificanceSymbol(0.05))
	assert.Equal(t, "ns", SignificanceSymbol(math.NaN()))
	assert.Equal(t, "*", SignificanceSymbol(0.049))
	assert.Equal(t, "*", SignificanceSymbol(0.01))
	assert.Equal(t, "**", SignificanceSymbol(0.0099))
	assert.Equal(t, "***", SignificanceSymbol(0.0009))

	assert.True(t, IsSignificant(0.0499))
	assert.False(t, IsSignificant(0.05))
}

func TestUndefinedResult(t *testing.T) {
	r := UndefinedResult(UndefinedConstant, 3, 3)
	assert.False(t, r.Defined())
	assert.True(t, math.IsNaN(r.PValue))

	ok := TestResult{PValue: 0.2}
	assert.True(t, ok.Defined())
}
