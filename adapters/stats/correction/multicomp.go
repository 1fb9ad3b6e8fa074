// Package correction adjusts vectors of p-values for multiple testing.
package correction

import (
	"math"
	"sort"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

// Correct returns corrected p-values in the same positions as pvals. NaN entries are
// left as NaN and do not count towards the number of tests. The input is not modified.
func Correct(pvals []float64, method stats.CorrectionMethod) ([]float64, error) {
	canonical, err := stats.ParseCorrectionMethod(string(method))
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(pvals))
	valid := make([]int, 0, len(pvals))
	for i, p := range pvals {
		out[i] = math.NaN()
		if !math.IsNaN(p) {
			valid = append(valid, i)
		}
	}
	m := float64(len(valid))
	if len(valid) == 0 {
		return out, nil
	}

	switch canonical {
	case stats.CorrectionNone:
		for _, i := range valid {
			out[i] = pvals[i]
		}
	case stats.CorrectionBonferroni:
		for _, i := range valid {
			out[i] = math.Min(pvals[i]*m, 1)
		}
	case stats.CorrectionSidak:
		for _, i := range valid {
			// 1 - (1-p)^m without cancellation for small p
			out[i] = -math.Expm1(m * math.Log1p(-pvals[i]))
		}
	case stats.CorrectionHolm:
		order := ascending(pvals, valid)
		running := 0.0
		for rank, i := range order {
			adj := pvals[i] * (m - float64(rank))
			running = math.Max(running, adj)
			out[i] = math.Min(running, 1)
		}
	case stats.CorrectionFDRBH, stats.CorrectionFDRBY:
		factor := 1.0
		if canonical == stats.CorrectionFDRBY {
			factor = harmonic(len(valid))
		}
		order := ascending(pvals, valid)
		running := math.Inf(1)
		for rank := len(order) - 1; rank >= 0; rank-- {
			i := order[rank]
			adj := pvals[i] * factor * m / float64(rank+1)
			running = math.Min(running, adj)
			out[i] = math.Min(running, 1)
		}
	default:
		return nil, &core.UnsupportedCorrectionError{Method: string(method)}
	}

	for _, i := range valid {
		out[i] = math.Max(out[i], 0)
	}
	return out, nil
}

// ascending orders the valid positions by p-value, ties kept in input order.
func ascending(pvals []float64, valid []int) []int {
	order := append([]int(nil), valid...)
	sort.SliceStable(order, func(a, b int) bool { return pvals[order[a]] < pvals[order[b]] })
	return order
}

func harmonic(m int) float64 {
	sum := 0.0
	for k := 1; k <= m; k++ {
		sum += 1 / float64(k)
	}
	return sum
}
