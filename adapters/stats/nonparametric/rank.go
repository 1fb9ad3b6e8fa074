package nonparametric

import (
	"math"
	"sort"
)

// rankResult holds midranks (1-based) in input order and the tie term sum(t^3 - t)
// over every group of t tied values.
type rankResult struct {
	ranks   []float64
	tieTerm float64
	hasTies bool
}

// rank assigns average ranks to values; ties share the mean of the ranks they span.
func rank(values []float64) rankResult {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

	res := rankResult{ranks: make([]float64, n)}
	for i := 0; i < n; {
		j := i + 1
		for j < n && values[order[j]] == values[order[i]] {
			j++
		}
		// positions i..j-1 share ranks i+1..j
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			res.ranks[order[k]] = avg
		}
		if t := float64(j - i); t > 1 {
			res.tieTerm += t*t*t - t
			res.hasTies = true
		}
		i = j
	}
	return res
}

// dropNaN returns the non-missing values of xs.
func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// clampProbability keeps floating point noise inside [0, 1].
func clampProbability(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
