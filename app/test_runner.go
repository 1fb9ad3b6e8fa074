package app

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/dataset"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/ports"
)

// TestRunner evaluates one hypothesis test per feature column.
type TestRunner struct {
	workers int
}

// NewTestRunner creates a runner with a bounded worker pool; workers < 1 means GOMAXPROCS.
func NewTestRunner(workers int) *TestRunner {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &TestRunner{workers: workers}
}

// RunTests runs test on every feature of ft, comparing rows groups.A against groups.B.
// The precheck runs once before any feature is touched. Outcomes are returned in feature
// order; undefined results are outcomes, not errors.
func (r *TestRunner) RunTests(ctx context.Context, ft *dataset.FeatureTable, groups GroupIndices,
	test ports.HypothesisTest, alt stats.Alternative) ([]stats.FeatureOutcome, error) {

	if err := test.Precheck(groups.Grouping, len(groups.A), len(groups.B)); err != nil {
		return nil, err
	}

	outcomes := make([]stats.FeatureOutcome, ft.NumFeatures())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for j := range ft.Features {
		if gctx.Err() != nil {
			break
		}
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := test.Evaluate(ft.Column(j, groups.A), ft.Column(j, groups.B), alt)
			if err != nil {
				return fmt.Errorf("feature %s: %w", ft.Features[j], err)
			}
			outcomes[j] = stats.FeatureOutcome{Feature: ft.Features[j], Index: j, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// a cancellation that landed between the last Go and Wait
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
