// Package plan sizes success/failure test campaigns: how many samples a
// requirement needs, how many failures it tolerates, and whether a
// campaign in progress has demonstrated it.
package plan

import (
	"errors"
	"fmt"

	"github.com/yasi-python/relistats/pkg/binomial"
	"github.com/yasi-python/relistats/pkg/finite"
)

// DefaultMaxSamples bounds the MinSamples search.
const DefaultMaxSamples = 10_000_000

// Requirement is a statistic that must reach Target. Level has the meaning
// given by finite.Options.
type Requirement struct {
	Kind   finite.Kind
	Target float64
	Level  float64
}

func (r Requirement) validate() error {
	if _, err := finite.ParseKind(string(r.Kind)); err != nil {
		return err
	}
	if !(r.Target >= 0 && r.Target <= 1) {
		return fmt.Errorf("%w: target=%g outside [0, 1]", binomial.ErrInvalidDomain, r.Target)
	}
	if r.Kind != finite.KindAssurance && !(r.Level >= 0 && r.Level <= 1) {
		return fmt.Errorf("%w: level=%g outside [0, 1]", binomial.ErrInvalidDomain, r.Level)
	}
	return nil
}

func (r Requirement) meets(n, f int, s binomial.Solver) (bool, float64, error) {
	v, err := finite.Statistic(n, f, r.Kind, finite.Options{Level: r.Level, Solver: s})
	if errors.Is(err, binomial.ErrNoSolution) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return v >= r.Target, v, nil
}

// MinSamples returns the smallest n > f such that the requirement holds
// after f failures in n samples. Every statistic grows with n at fixed f,
// so the search doubles n until the requirement holds and then bisects.
// Past maxN the result is binomial.ErrNoSolution; maxN <= 0 means
// DefaultMaxSamples.
func MinSamples(f int, req Requirement, s binomial.Solver, maxN int) (int, error) {
	if f < 0 {
		return 0, fmt.Errorf("%w: f=%d", binomial.ErrInvalidDomain, f)
	}
	if err := req.validate(); err != nil {
		return 0, err
	}
	if maxN <= 0 {
		maxN = DefaultMaxSamples
	}

	lo := f + 1
	if lo > maxN {
		return 0, fmt.Errorf("%w: f=%d needs more than %d samples", binomial.ErrNoSolution, f, maxN)
	}
	ok, _, err := req.meets(lo, f, s)
	if err != nil || ok {
		return lo, err
	}
	// invariant: requirement fails at lo and holds at hi
	hi := lo
	for {
		if hi >= maxN {
			return 0, fmt.Errorf("%w: %s %g needs more than %d samples at f=%d", binomial.ErrNoSolution, req.Kind, req.Target, maxN, f)
		}
		lo, hi = hi, min(2*hi, maxN)
		ok, _, err := req.meets(hi, f, s)
		if err != nil {
			return 0, err
		}
		if ok {
			break
		}
	}
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		ok, _, err := req.meets(mid, f, s)
		if err != nil {
			return 0, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, nil
}

// MaxFailures returns the largest f <= n at which the requirement still
// holds for n samples, or binomial.ErrNoSolution if it fails with none.
func MaxFailures(n int, req Requirement, s binomial.Solver) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: n=%d", binomial.ErrInvalidDomain, n)
	}
	if err := req.validate(); err != nil {
		return 0, err
	}
	ok, _, err := req.meets(n, 0, s)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s %g not met at n=%d without failures", binomial.ErrNoSolution, req.Kind, req.Target, n)
	}
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		ok, _, err := req.meets(n, mid, s)
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
