// Package binomial computes reliability statistics for success/failure
// experiments: confidence, reliability and assurance for n samples with f
// failures.
//
// Reference: S.M. Joshi, "Computation of Reliability Statistics for
// Success-Failure Experiments," arXiv:2303.03167 [stat.ME], March 2023.
package binomial

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDomain reports inputs outside the domain of a statistic.
	ErrInvalidDomain = errors.New("invalid domain")
	// ErrNoSolution reports that a statistic has no meaningful value for
	// the given inputs or could not be computed.
	ErrNoSolution = errors.New("no solution")
)

// negligible is the relative size below which binomial terms are dropped.
const negligible = 1e-18

func checkCounts(n, f int) error {
	if n < 0 || f < 0 || f > n {
		return fmt.Errorf("%w: need 0 <= f <= n, got n=%d f=%d", ErrInvalidDomain, n, f)
	}
	return nil
}

func checkProbability(name string, p float64) error {
	if !(p >= 0 && p <= 1) {
		return fmt.Errorf("%w: %s=%g outside [0, 1]", ErrInvalidDomain, name, p)
	}
	return nil
}

// Confidence returns the confidence that reliability is at least r after
// observing f failures in n samples:
//
//	c(n, f, r) = 1 - sum_{k=0}^{f} C(n,k) (1-r)^k r^(n-k)
//
// That is the probability of more than f failures in n trials at failure
// probability 1-r. It is non-increasing in r: 1 at r = 0 (when f < n) and 0
// at r = 1. Terms are summed in log space so large n neither overflows nor
// underflows.
func Confidence(n, f int, r float64) (float64, error) {
	if err := checkCounts(n, f); err != nil {
		return 0, err
	}
	if err := checkProbability("r", r); err != nil {
		return 0, err
	}
	switch {
	case f == n:
		return 0, nil
	case r == 1:
		return 0, nil
	case r == 0:
		return 1, nil
	}
	lr, lq := math.Log(r), math.Log1p(-r)
	q := 1 - r
	if float64(f) < q*float64(n) {
		lower := math.Exp(logSumTerms(n, 0, f, lr, lq, q))
		return clamp01(1 - lower), nil
	}
	return clamp01(math.Exp(logSumTerms(n, f+1, n, lr, lq, q))), nil
}

// logSumTerms returns log(sum_{k=lo}^{hi} C(n,k) q^k r^(n-k)) where lr and lq
// are log r and log q. The terms are unimodal in k, so summation starts at
// the mode clamped into [lo, hi] and walks outward until terms vanish.
func logSumTerms(n, lo, hi int, lr, lq, q float64) float64 {
	lgn := lgamma(float64(n) + 1)
	term := func(k int) float64 {
		t := lgn - lgamma(float64(k)+1) - lgamma(float64(n-k)+1)
		if k > 0 {
			t += float64(k) * lq
		}
		if n-k > 0 {
			t += float64(n-k) * lr
		}
		return t
	}
	mode := int(math.Floor(float64(n+1) * q))
	if mode < lo {
		mode = lo
	}
	if mode > hi {
		mode = hi
	}
	peak := term(mode)
	sum := 1.0
	for k := mode + 1; k <= hi; k++ {
		v := math.Exp(term(k) - peak)
		sum += v
		if v < negligible {
			break
		}
	}
	for k := mode - 1; k >= lo; k-- {
		v := math.Exp(term(k) - peak)
		sum += v
		if v < negligible {
			break
		}
	}
	return peak + math.Log(sum)
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
