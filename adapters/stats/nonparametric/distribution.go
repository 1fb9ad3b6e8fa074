package nonparametric

// maxExactSize bounds the group size (Mann-Whitney) or pair count (signed-rank) for which
// the exact null distribution is enumerated.
const maxExactSize = 50

// uDistribution is the exact null distribution of the Mann-Whitney U statistic for
// group sizes m and n without ties. counts[k] is the number of rank arrangements with U = k.
type uDistribution struct {
	counts []float64
	total  float64
	max    int
}

// newUDistribution expands the Gaussian binomial coefficient [m+n choose m]_q, whose
// coefficients are the arrangement counts, one factor (1 - q^(n+i)) / (1 - q^i) at a time.
func newUDistribution(m, n int) *uDistribution {
	if m > n {
		m, n = n, m
	}
	size := m*n + 1
	c := make([]float64, size)
	c[0] = 1
	for i := 1; i <= m; i++ {
		for k := size - 1; k >= n+i; k-- {
			c[k] -= c[k-n-i]
		}
		for k := i; k < size; k++ {
			c[k] += c[k-i]
		}
	}

	total := 0.0
	for _, v := range c {
		total += v
	}
	return &uDistribution{counts: c, total: total, max: m * n}
}

// cdf returns P(U <= u).
func (d *uDistribution) cdf(u float64) float64 {
	if u < 0 {
		return 0
	}
	k := int(u)
	if k >= d.max {
		return 1
	}
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += d.counts[i]
	}
	return sum / d.total
}

// sf returns P(U >= u), summed from the small tail by symmetry around max/2.
func (d *uDistribution) sf(u float64) float64 {
	return d.cdf(float64(d.max) - u)
}

// signedRankDistribution is the exact null distribution of the Wilcoxon R+ statistic
// for n untied, non-zero differences. counts[k] is the number of sign assignments with R+ = k.
type signedRankDistribution struct {
	counts []float64
	total  float64
	max    int
}

func newSignedRankDistribution(n int) *signedRankDistribution {
	max := n * (n + 1) / 2
	c := make([]float64, max+1)
	c[0] = 1
	// subset-sum counts over ranks 1..n
	for r := 1; r <= n; r++ {
		for k := max; k >= r; k-- {
			c[k] += c[k-r]
		}
	}
	total := 0.0
	for _, v := range c {
		total += v
	}
	return &signedRankDistribution{counts: c, total: total, max: max}
}

// cdf returns P(R+ <= r).
func (d *signedRankDistribution) cdf(r float64) float64 {
	if r < 0 {
		return 0
	}
	k := int(r)
	if k >= d.max {
		return 1
	}
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += d.counts[i]
	}
	return sum / d.total
}

// sf returns P(R+ >= r).
func (d *signedRankDistribution) sf(r float64) float64 {
	return d.cdf(float64(d.max) - r)
}
