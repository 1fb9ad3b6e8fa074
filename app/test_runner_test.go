package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

func TestRunTestsKeepsFeatureOrder(t *testing.T) {
	ft, md := threeFeatureTables(t)
	groups, err := SelectGroups(md, stats.Grouping{Attribute: "cohort", GroupA: "A", GroupB: "B"})
	require.NoError(t, err)

	test := new(mockHypothesisTest)
	test.On("Precheck", groups.Grouping, 3, 3).Return(nil)
	for j := range ft.Features {
		a := ft.Column(j, groups.A)
		test.On("Evaluate", a, ft.Column(j, groups.B), stats.Less).
			Return(stats.TestResult{Statistic: float64(j), PValue: 0.1 * float64(j+1)}, nil)
	}

	outcomes, err := NewTestRunner(3).RunTests(context.Background(), ft, groups, test, stats.Less)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	for j, o := range outcomes {
		assert.Equal(t, ft.Features[j], o.Feature)
		assert.Equal(t, j, o.Index)
		assert.Equal(t, float64(j), o.Result.Statistic)
	}
	test.AssertExpectations(t)
}

func TestRunTestsPrecheckFailsBeforeEvaluation(t *testing.T) {
	ft, md := threeFeatureTables(t)
	groups, err := SelectGroups(md, stats.Grouping{Attribute: "cohort", GroupA: "A", GroupB: "B"})
	require.NoError(t, err)

	sizeErr := &core.UnequalSampleSizeError{GroupA: "A", GroupB: "B", SizeA: 3, SizeB: 3}
	test := new(mockHypothesisTest)
	test.On("Precheck", mock.Anything, 3, 3).Return(sizeErr)

	outcomes, err := NewTestRunner(1).RunTests(context.Background(), ft, groups, test, stats.TwoSided)
	assert.Nil(t, outcomes)
	assert.True(t, errors.Is(err, core.ErrUnequalSampleSize))
	test.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunTestsErrors(t *testing.T) {
	ft, md := threeFeatureTables(t)
	groups, err := SelectGroups(md, stats.Grouping{Attribute: "cohort", GroupA: "A", GroupB: "B"})
	require.NoError(t, err)

	t.Run("evaluation error names the feature", func(t *testing.T) {
		test := new(mockHypothesisTest)
		test.On("Precheck", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		test.On("Evaluate", mock.Anything, mock.Anything, mock.Anything).
			Return(stats.TestResult{}, fmt.Errorf("boom"))

		_, err := NewTestRunner(1).RunTests(context.Background(), ft, groups, test, stats.TwoSided)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "feature m_101")
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		test := new(mockHypothesisTest)
		test.On("Precheck", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := NewTestRunner(2).RunTests(ctx, ft, groups, test, stats.TwoSided)
		assert.True(t, errors.Is(err, context.Canceled))
		test.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything)
	})
}
