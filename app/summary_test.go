package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
)

func TestSummarize(t *testing.T) {
	s := Summarize("A", []float64{4, math.NaN(), 1, 3, 2})
	assert.Equal(t, "A", s.Label)
	assert.Equal(t, 1, s.Missing)
	assert.Equal(t, []float64{4, 1, 3, 2}, s.Values)
	assert.Equal(t, 2.5, s.Median)
	assert.Equal(t, 1.5, s.Q1)
	assert.Equal(t, 3.5, s.Q3)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 2.5, s.Mean)

	one := Summarize("B", []float64{7})
	assert.Equal(t, 7.0, one.Q1)
	assert.Equal(t, 7.0, one.Q3)

	empty := Summarize("C", []float64{math.NaN()})
	assert.Equal(t, 1, empty.Missing)
	assert.True(t, math.IsNaN(empty.Median))
}

func TestFeatureGroups(t *testing.T) {
	ft, md := threeFeatureTables(t)
	svc := newTestService(t, ft, md)

	table, err := svc.Run(context.Background(), mwuRequest("none"))
	require.NoError(t, err)

	fg, err := svc.FeatureGroups(table.Key, "m_101")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, fg.A.Values)
	assert.Equal(t, []float64{10, 11, 12}, fg.B.Values)
	assert.Equal(t, 11.0, fg.B.Median)
	assert.Equal(t, "ns", fg.Symbol)
	assert.Equal(t, "m_101", fg.Row.Feature)

	_, err = svc.FeatureGroups(table.Key, "m_999")
	assert.True(t, errors.Is(err, core.ErrFeatureNotFound))

	_, err = svc.FeatureGroups(core.ComputeRunKey("nope"), "m_101")
	assert.True(t, errors.Is(err, core.ErrResultNotFound))
}
