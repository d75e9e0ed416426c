package binomial

import (
	"fmt"

	"github.com/yasi-python/relistats/pkg/rootfind"
)

// DefaultConfidence is the confidence level used when a caller has none.
const DefaultConfidence = 0.95

// Solver holds the numerical settings for the root-finding statistics. The
// zero value is not usable; start from DefaultSolver.
type Solver struct {
	Tolerance     float64 // absolute tolerance on the returned statistic
	MaxIterations int
}

func DefaultSolver() Solver {
	cfg := rootfind.DefaultConfig()
	return Solver{Tolerance: cfg.XTol, MaxIterations: cfg.MaxIter}
}

func (s Solver) rootConfig() rootfind.Config {
	cfg := rootfind.DefaultConfig()
	cfg.XTol = s.Tolerance
	cfg.MaxIter = s.MaxIterations
	return cfg
}

// Reliability returns the minimum reliability demonstrated at confidence c
// after f failures in n samples: the r solving Confidence(n, f, r) = c.
// It reports ErrNoSolution when n = 0 or f = n.
func (s Solver) Reliability(n, f int, c float64) (float64, error) {
	if err := checkCounts(n, f); err != nil {
		return 0, err
	}
	if err := checkProbability("c", c); err != nil {
		return 0, err
	}
	if n == 0 || f == n {
		return 0, fmt.Errorf("%w: reliability undefined for n=%d f=%d", ErrNoSolution, n, f)
	}
	cfg := s.rootConfig()
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	g := func(r float64) float64 {
		v, _ := Confidence(n, f, r)
		return v - c
	}
	res, err := rootfind.Brent(g, 0, 1, cfg)
	if err != nil {
		return 0, fmt.Errorf("%w: reliability n=%d f=%d c=%g: %w", ErrNoSolution, n, f, c, err)
	}
	return clamp01(res.Root), nil
}

// Assurance returns the value a at which reliability and confidence
// coincide: a = Confidence(n, f, a). Unlike Reliability the target is the
// unknown itself, so the root is taken of Confidence(n, f, a) - a. All
// failures (f = n) give exactly 0.
func (s Solver) Assurance(n, f int) (float64, error) {
	if err := checkCounts(n, f); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: assurance undefined for n=0", ErrNoSolution)
	}
	cfg := s.rootConfig()
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	h := func(a float64) float64 {
		v, _ := Confidence(n, f, a)
		return v - a
	}
	res, err := rootfind.Brent(h, 0, 1, cfg)
	if err != nil {
		return 0, fmt.Errorf("%w: assurance n=%d f=%d: %w", ErrNoSolution, n, f, err)
	}
	return clamp01(res.Root), nil
}

// Reliability is Solver.Reliability with DefaultSolver.
func Reliability(n, f int, c float64) (float64, error) {
	return DefaultSolver().Reliability(n, f, c)
}

// Assurance is Solver.Assurance with DefaultSolver.
func Assurance(n, f int) (float64, error) {
	return DefaultSolver().Assurance(n, f)
}
