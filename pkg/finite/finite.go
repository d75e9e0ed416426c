// Package finite extends the binomial statistics to populations with a
// known number m of samples still to come. Everything reduces to repeated
// infinite-population evaluations.
package finite

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/yasi-python/relistats/pkg/binomial"
)

// Kind selects the statistic a budget is computed against.
type Kind string

const (
	KindReliability Kind = "reliability"
	KindConfidence  Kind = "confidence"
	KindAssurance   Kind = "assurance"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindReliability, KindConfidence, KindAssurance:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown statistic %q", binomial.ErrInvalidDomain, s)
}

// Options parameterize a Kind. Level is the confidence for KindReliability
// and the reliability for KindConfidence; KindAssurance ignores it.
type Options struct {
	Level  float64
	Solver binomial.Solver
}

func DefaultOptions() Options {
	return Options{Level: binomial.DefaultConfidence, Solver: binomial.DefaultSolver()}
}

// Statistic evaluates kind at (n, f).
func Statistic(n, f int, kind Kind, opts Options) (float64, error) {
	switch kind {
	case KindReliability:
		return opts.Solver.Reliability(n, f, opts.Level)
	case KindConfidence:
		return binomial.Confidence(n, f, opts.Level)
	case KindAssurance:
		return opts.Solver.Assurance(n, f)
	}
	return 0, fmt.Errorf("%w: unknown statistic %q", binomial.ErrInvalidDomain, kind)
}

// MaxAdditionalFailures returns the largest number of failures f2 among the
// m remaining samples such that kind evaluated at (n+m, f+f2) still meets
// target. The statistic is non-increasing in f2, so the search is binary.
// A statistic with no value counts as not meeting the target. If even
// f2 = 0 falls short the result is binomial.ErrNoSolution; with m = 0 this
// is just a check of (n, f) itself.
func MaxAdditionalFailures(n, f, m int, target float64, kind Kind, opts Options) (int, error) {
	if n < 0 || f < 0 || f > n || m < 0 {
		return 0, fmt.Errorf("%w: need 0 <= f <= n and m >= 0, got n=%d f=%d m=%d", binomial.ErrInvalidDomain, n, f, m)
	}
	if !(target >= 0 && target <= 1) {
		return 0, fmt.Errorf("%w: target=%g outside [0, 1]", binomial.ErrInvalidDomain, target)
	}
	if kind != KindAssurance && !(opts.Level >= 0 && opts.Level <= 1) {
		return 0, fmt.Errorf("%w: level=%g outside [0, 1]", binomial.ErrInvalidDomain, opts.Level)
	}
	meets := func(f2 int) (bool, error) {
		v, err := Statistic(n+m, f+f2, kind, opts)
		if err != nil {
			if errors.Is(err, binomial.ErrNoSolution) {
				return false, nil
			}
			return false, err
		}
		return v >= target, nil
	}

	ok, err := meets(0)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s target %g not met at n=%d f=%d", binomial.ErrNoSolution, kind, target, n+m, f)
	}
	// invariant: meets(lo) and, if hi < m, !meets(hi+1)
	lo, hi := 0, m
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		ok, err := meets(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}

// Estimate is a finite-population confidence together with the reliability
// level actually used once the failure budget is rounded to whole samples.
type Estimate struct {
	Confidence  float64
	Reliability float64
}

// Confidence returns the confidence that the whole population of n+m
// samples shows reliability of at least r, given f failures among the n
// observed. The reliability is realised as an integer failure budget
// floor((n+m)(1-r)); Estimate.Reliability reports the level that budget
// corresponds to.
func Confidence(n, f int, r float64, m int) (Estimate, error) {
	if err := check(n, f, m); err != nil {
		return Estimate{Reliability: r}, err
	}
	if !(r >= 0 && r <= 1) {
		return Estimate{Reliability: r}, fmt.Errorf("%w: r=%g outside [0, 1]", binomial.ErrInvalidDomain, r)
	}

	total := n + m
	// the tiny slack keeps r = 1 - k/total from flooring to k-1
	maxFailures := int(math.Floor(float64(total)*(1-r) + 1e-9))
	actual := 1 - float64(maxFailures)/float64(total)

	budget := maxFailures - f // failures the remaining samples may still show
	samples := m
	switch {
	case budget < 0:
		return Estimate{Confidence: 0, Reliability: actual}, nil
	case budget >= m:
		return Estimate{Confidence: 1, Reliability: actual}, nil
	case budget == 0:
		// zero failures has no complementary tail; ask instead about one
		// failure in one more sample
		samples++
		budget = 1
		total++
		actual = 1 - float64(maxFailures)/float64(total)
	}
	c, err := binomial.Confidence(n, f, 1-float64(budget)/float64(samples))
	if err != nil {
		return Estimate{Reliability: actual}, err
	}
	return Estimate{Confidence: c, Reliability: actual}, nil
}

// Reliability returns the highest whole-population reliability whose
// finite-population confidence reaches c. Candidates are scanned from no
// further failures upward; when none qualifies the reliability is 0 and
// the confidence is c itself.
func Reliability(n, f int, c float64, m int) (Estimate, error) {
	if err := check(n, f, m); err != nil {
		return Estimate{Confidence: c}, err
	}
	if !(c >= 0 && c <= 1) {
		return Estimate{Confidence: c}, fmt.Errorf("%w: c=%g outside [0, 1]", binomial.ErrInvalidDomain, c)
	}
	total := n + m
	for f2 := 0; f2 <= m; f2++ {
		r := 1 - float64(f+f2)/float64(total)
		est, err := Confidence(n, f, r, m)
		if err != nil {
			return Estimate{Confidence: c}, err
		}
		if est.Confidence >= c {
			return Estimate{Confidence: est.Confidence, Reliability: est.Reliability}, nil
		}
	}
	return Estimate{Confidence: c, Reliability: 0}, nil
}

type AssuranceEstimate struct {
	Assurance   float64
	Reliability float64
	Confidence  float64
}

// Assurance returns the largest min(reliability, confidence) over the
// whole-population reliabilities reachable with the m remaining samples.
func Assurance(n, f, m int) (AssuranceEstimate, error) {
	if err := check(n, f, m); err != nil {
		return AssuranceEstimate{}, err
	}
	var best AssuranceEstimate
	total := n + m
	for f2 := 0; f2 <= m; f2++ {
		r := 1 - float64(f+f2)/float64(total)
		est, err := Confidence(n, f, r, m)
		if err != nil {
			return AssuranceEstimate{}, err
		}
		if a := math.Min(est.Reliability, est.Confidence); a > best.Assurance {
			best = AssuranceEstimate{Assurance: a, Reliability: est.Reliability, Confidence: est.Confidence}
		}
	}
	return best, nil
}

func check(n, f, m int) error {
	if n <= 0 || f < 0 || f > n || m < 0 {
		return fmt.Errorf("%w: need n > 0, 0 <= f <= n, m >= 0, got n=%d f=%d m=%d", binomial.ErrInvalidDomain, n, f, m)
	}
	return nil
}
