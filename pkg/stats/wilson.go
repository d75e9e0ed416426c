package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// WilsonLowerBound returns the lower bound of the Wilson score interval for
// the proportion p = successes/n at normal score z.
func WilsonLowerBound(successes, n int, z float64) float64 {
	if n <= 0 {
		return 0.0
	}
	return wilsonLower(float64(successes)/float64(n), float64(n), z)
}

// WilsonLowerBoundCorrected is WilsonLowerBound with the continuity
// correction applied to the observed proportion: p' = max(p - 1/2n, 0).
func WilsonLowerBoundCorrected(successes, n int, z float64) float64 {
	if n <= 0 {
		return 0.0
	}
	nf := float64(n)
	p := math.Max(float64(successes)/nf-1.0/(2.0*nf), 0)
	return wilsonLower(p, nf, z)
}

func wilsonLower(p, n, z float64) float64 {
	den := 1.0 + (z*z)/n
	center := p + (z*z)/(2.0*n)
	rad := z * math.Sqrt((p*(1.0-p)+(z*z)/(4.0*n))/n)
	return (center - rad) / den
}

// ZScore is the one-sided standard normal score for confidence c, so that
// P(Z <= ZScore(c)) = c. It is -Inf at 0 and +Inf at 1.
func ZScore(c float64) float64 {
	switch {
	case c <= 0:
		return math.Inf(-1)
	case c >= 1:
		return math.Inf(1)
	}
	return distuv.UnitNormal.Quantile(c)
}
