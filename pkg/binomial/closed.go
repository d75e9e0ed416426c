package binomial

import (
	"fmt"

	"github.com/yasi-python/relistats/pkg/stats"
)

// ReliabilityClosed approximates Reliability without iterating, using the
// lower bound of the Wilson score interval with continuity correction on the
// observed success proportion (Wallis 2013). It stays within about 0.03 of
// Reliability for confidence levels 0.8-0.95 with n >= 10 and f <= n/5.
// Like Reliability it has no value for n = 0 or f = n.
func ReliabilityClosed(n, f int, c float64) (float64, error) {
	return closedForm(n, f, c, stats.WilsonLowerBoundCorrected)
}

// ReliabilityWilson is ReliabilityClosed without the continuity correction.
// It runs higher than Reliability, most visibly for small n.
func ReliabilityWilson(n, f int, c float64) (float64, error) {
	return closedForm(n, f, c, stats.WilsonLowerBound)
}

func closedForm(n, f int, c float64, bound func(successes, n int, z float64) float64) (float64, error) {
	if err := checkCounts(n, f); err != nil {
		return 0, err
	}
	if err := checkProbability("c", c); err != nil {
		return 0, err
	}
	// with no successes a negative z would put the bound above zero
	if n == 0 || f == n {
		return 0, fmt.Errorf("%w: reliability undefined for n=%d f=%d", ErrNoSolution, n, f)
	}
	switch c {
	case 0:
		return 1, nil
	case 1:
		return 0, nil
	}
	return clamp01(bound(n-f, n, stats.ZScore(c))), nil
}
