package nonparametric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

// WilcoxonSignedRank compares paired samples a[i], b[i]. Pairs with a missing side are
// dropped and zero differences are discarded before ranking.
//
// The statistic is min(R+, R-) for the two-sided test and R+ for one-sided tests, where R+
// is the rank sum of positive differences a[i] - b[i]. The exact distribution is used for
// up to maxExactSize non-zero, untied differences; otherwise the normal approximation with
// tie correction.
func WilcoxonSignedRank(a, b []float64, alt stats.Alternative) (stats.TestResult, error) {
	if err := checkAlternative(alt); err != nil {
		return stats.TestResult{}, err
	}
	if len(a) != len(b) {
		return stats.TestResult{}, fmt.Errorf("%w: paired samples have %d and %d values",
			core.ErrUnequalSampleSize, len(a), len(b))
	}

	var xs, ys, diffs []float64
	zeros := 0
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		xs = append(xs, a[i])
		ys = append(ys, b[i])
		if d := a[i] - b[i]; d != 0 {
			diffs = append(diffs, d)
		} else {
			zeros++
		}
	}
	pairs := len(xs)
	if pairs == 0 {
		return stats.UndefinedResult(stats.UndefinedEmptyGroup, 0, 0), nil
	}
	if len(diffs) == 0 {
		return stats.UndefinedResult(stats.UndefinedNoDifferences, pairs, pairs), nil
	}

	abs := make([]float64, len(diffs))
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}
	rk := rank(abs)

	rPlus, rMinus := 0.0, 0.0
	for i, d := range diffs {
		if d > 0 {
			rPlus += rk.ranks[i]
		} else {
			rMinus += rk.ranks[i]
		}
	}

	res := stats.TestResult{
		SizeA: pairs,
		SizeB: pairs,
		RBC:   (rPlus - rMinus) / (rPlus + rMinus),
		CLES:  commonLanguageEffect(xs, ys),
	}
	if alt == stats.TwoSided {
		res.Statistic = math.Min(rPlus, rMinus)
	} else {
		res.Statistic = rPlus
	}

	n := len(diffs)
	if zeros == 0 && !rk.hasTies && n <= maxExactSize {
		d := newSignedRankDistribution(n)
		res.Method = stats.MethodExact
		switch alt {
		case stats.Greater:
			res.PValue = clampProbability(d.sf(rPlus))
		case stats.Less:
			res.PValue = clampProbability(d.cdf(rPlus))
		default:
			res.PValue = clampProbability(2 * math.Min(d.cdf(rPlus), d.sf(rPlus)))
		}
		return res, nil
	}

	res.Method = stats.MethodAsymptotic
	fn := float64(n)
	mean := fn * (fn + 1) / 4
	se := math.Sqrt(fn*(fn+1)*(2*fn+1)/24 - rk.tieTerm/48)

	switch alt {
	case stats.Greater:
		res.PValue = clampProbability(distuv.UnitNormal.Survival((rPlus - mean) / se))
	case stats.Less:
		res.PValue = clampProbability(distuv.UnitNormal.CDF((rPlus - mean) / se))
	default:
		z := (res.Statistic - mean) / se
		res.PValue = clampProbability(2 * distuv.UnitNormal.Survival(math.Abs(z)))
	}
	return res, nil
}

// commonLanguageEffect is P(X > Y) + P(X = Y)/2 over every (x, y) combination.
func commonLanguageEffect(xs, ys []float64) float64 {
	wins := 0.0
	for _, x := range xs {
		for _, y := range ys {
			switch {
			case x > y:
				wins++
			case x == y:
				wins += 0.5
			}
		}
	}
	return wins / float64(len(xs)*len(ys))
}
