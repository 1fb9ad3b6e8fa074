package app

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

func outcome(feature string, index int, p float64) stats.FeatureOutcome {
	return stats.FeatureOutcome{Feature: feature, Index: index, Result: stats.TestResult{
		Statistic: 1, PValue: p, SizeA: 3, SizeB: 3, Method: stats.MethodExact,
	}}
}

func TestBuildResultTable(t *testing.T) {
	g := stats.Grouping{Attribute: "cohort", GroupA: "A", GroupB: "B"}
	outcomes := []stats.FeatureOutcome{
		outcome("f1", 0, 0.20),
		outcome("f2", 1, 0.01),
		{Feature: "f3", Index: 2, Result: stats.UndefinedResult(stats.UndefinedConstant, 3, 3)},
		outcome("f4", 3, 0.04),
		outcome("f5", 4, 0.04),
	}
	corrected := []float64{0.25, 0.01, math.NaN(), 0.05, 0.049}
	original := append([]float64(nil), corrected...)

	table, err := BuildResultTable(outcomes, corrected, ResultProvenance{Family: stats.IndependentGroups, Grouping: g})
	require.NoError(t, err)

	assert.Equal(t, 5, table.Tested)
	assert.Equal(t, 1, table.Undefined)
	require.Len(t, table.Rows, 4)

	var order []string
	for i, row := range table.Rows {
		order = append(order, row.Feature)
		assert.Equal(t, row.PCorrected < 0.05, row.Significant)
		assert.Equal(t, "cohort", row.Attribute)
		assert.Equal(t, "A", row.GroupA)
		if i > 0 {
			assert.LessOrEqual(t, table.Rows[i-1].PCorrected, row.PCorrected)
		}
	}
	assert.Equal(t, []string{"f2", "f5", "f4", "f1"}, order)
	assert.False(t, table.Rows[2].Significant, "0.05 is not below the threshold")

	assert.Equal(t, original[:2], corrected[:2])
	assert.Equal(t, "f1", outcomes[0].Feature)
}

func TestBuildResultTableStableTies(t *testing.T) {
	outcomes := []stats.FeatureOutcome{outcome("c", 0, 0.5), outcome("a", 1, 0.5), outcome("b", 2, 0.5)}
	table, err := BuildResultTable(outcomes, []float64{1, 1, 1}, ResultProvenance{})
	require.NoError(t, err)
	assert.Equal(t, "c", table.Rows[0].Feature)
	assert.Equal(t, "a", table.Rows[1].Feature)
	assert.Equal(t, "b", table.Rows[2].Feature)
}

func TestBuildResultTableEmptyAndMismatch(t *testing.T) {
	table, err := BuildResultTable(nil, nil, ResultProvenance{})
	require.NoError(t, err)
	assert.Empty(t, table.Rows)

	_, err = BuildResultTable([]stats.FeatureOutcome{outcome("f", 0, 0.1)}, nil, ResultProvenance{})
	assert.Error(t, err)
}

func TestRawPValues(t *testing.T) {
	p := rawPValues([]stats.FeatureOutcome{
		outcome("f1", 0, 0.3),
		{Feature: "f2", Index: 1, Result: stats.UndefinedResult(stats.UndefinedEmptyGroup, 0, 3)},
	})
	assert.Equal(t, 0.3, p[0])
	assert.True(t, math.IsNaN(p[1]))
}
