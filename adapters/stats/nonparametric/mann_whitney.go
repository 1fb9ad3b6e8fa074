package nonparametric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

// MannWhitneyU compares two independent samples. Missing values are dropped per sample.
//
// The reported statistic is U for sample a: the number of (a, b) pairs with a > b plus half
// the ties. P-values use the exact null distribution when neither sample has more than
// maxExactSize observations and there are no ties; otherwise the normal approximation with
// tie and continuity correction.
func MannWhitneyU(a, b []float64, alt stats.Alternative) (stats.TestResult, error) {
	if err := checkAlternative(alt); err != nil {
		return stats.TestResult{}, err
	}

	x := dropNaN(a)
	y := dropNaN(b)
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return stats.UndefinedResult(stats.UndefinedEmptyGroup, n1, n2), nil
	}

	pooled := make([]float64, 0, n1+n2)
	pooled = append(pooled, x...)
	pooled = append(pooled, y...)
	rk := rank(pooled)

	n := float64(n1 + n2)
	if rk.tieTerm == n*n*n-n {
		return stats.UndefinedResult(stats.UndefinedConstant, n1, n2), nil
	}

	r1 := 0.0
	for _, r := range rk.ranks[:n1] {
		r1 += r
	}
	fn1, fn2 := float64(n1), float64(n2)
	u1 := r1 - fn1*(fn1+1)/2
	u2 := fn1*fn2 - u1

	res := stats.TestResult{
		Statistic: u1,
		CLES:      u1 / (fn1 * fn2),
		SizeA:     n1,
		SizeB:     n2,
	}
	res.RBC = 2*res.CLES - 1

	if !rk.hasTies && n1 <= maxExactSize && n2 <= maxExactSize {
		res.Method = stats.MethodExact
		res.PValue = exactUPValue(newUDistribution(n1, n2), u1, u2, alt)
		return res, nil
	}

	res.Method = stats.MethodAsymptotic
	mu := fn1 * fn2 / 2
	sigma := math.Sqrt(fn1 * fn2 / 12 * ((n + 1) - rk.tieTerm/(n*(n-1))))

	var p float64
	switch alt {
	case stats.Greater:
		p = distuv.UnitNormal.Survival((u1 - mu - 0.5) / sigma)
	case stats.Less:
		p = distuv.UnitNormal.Survival((u2 - mu - 0.5) / sigma)
	default:
		p = 2 * distuv.UnitNormal.Survival((math.Max(u1, u2)-mu-0.5)/sigma)
	}
	res.PValue = clampProbability(p)
	return res, nil
}

func exactUPValue(d *uDistribution, u1, u2 float64, alt stats.Alternative) float64 {
	switch alt {
	case stats.Greater:
		return clampProbability(d.sf(u1))
	case stats.Less:
		return clampProbability(d.cdf(u1))
	default:
		return clampProbability(2 * d.sf(math.Max(u1, u2)))
	}
}

func checkAlternative(alt stats.Alternative) error {
	switch alt {
	case stats.TwoSided, stats.Greater, stats.Less:
		return nil
	}
	return fmt.Errorf("%w: %q", core.ErrInvalidAlternative, alt)
}
