package rootfind

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNotBracketed  = errors.New("root not bracketed")
	ErrNoConvergence = errors.New("root finder did not converge")
	ErrInvalidConfig = errors.New("invalid root finder config")
)

// Func is a continuous scalar function whose zero is wanted.
type Func func(x float64) float64

type Config struct {
	XTol    float64 // absolute tolerance on the root
	RTol    float64 // relative tolerance on the root
	MaxIter int
}

func DefaultConfig() Config {
	return Config{
		XTol:    1e-6,
		RTol:    4 * 2.220446049250313e-16,
		MaxIter: 100,
	}
}

type Result struct {
	Root        float64
	Iterations  int
	Evaluations int
}

// Validate reports ErrInvalidConfig for non-positive tolerances or budgets.
func (c Config) Validate() error {
	if !(c.XTol > 0) {
		return fmt.Errorf("%w: xtol=%g", ErrInvalidConfig, c.XTol)
	}
	if c.RTol < 0 || math.IsNaN(c.RTol) {
		return fmt.Errorf("%w: rtol=%g", ErrInvalidConfig, c.RTol)
	}
	if c.MaxIter <= 0 {
		return fmt.Errorf("%w: max_iter=%d", ErrInvalidConfig, c.MaxIter)
	}
	return nil
}

// Brent finds a zero of fn inside [lo, hi] using Brent's method: bisection
// safeguarding secant and inverse quadratic interpolation steps.
// fn(lo) and fn(hi) must not share a sign. An endpoint that is an exact zero
// is returned without iterating.
func Brent(fn Func, lo, hi float64, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	xpre, xcur := lo, hi
	fpre, fcur := fn(xpre), fn(xcur)
	res := Result{Evaluations: 2}
	if math.IsNaN(fpre) || math.IsNaN(fcur) {
		return res, fmt.Errorf("%w: NaN at bracket end", ErrNotBracketed)
	}
	if fpre*fcur > 0 {
		return res, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNotBracketed, lo, fpre, hi, fcur)
	}
	if fpre == 0 {
		res.Root = xpre
		return res, nil
	}
	if fcur == 0 {
		res.Root = xcur
		return res, nil
	}

	// xblk is the contrapoint: fn(xblk) and fn(xcur) always differ in sign.
	var xblk, fblk, spre, scur float64
	for i := 0; i < cfg.MaxIter; i++ {
		res.Iterations = i + 1
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := (cfg.XTol + cfg.RTol*math.Abs(xcur)) / 2
		sbis := (xblk - xcur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			res.Root = xcur
			return res, nil
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				// secant
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				// inverse quadratic interpolation
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre))
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		xpre, fpre = xcur, fcur
		if math.Abs(scur) > delta {
			xcur += scur
		} else if sbis > 0 {
			xcur += delta
		} else {
			xcur -= delta
		}
		fcur = fn(xcur)
		res.Evaluations++
		if math.IsNaN(fcur) {
			return res, fmt.Errorf("%w: NaN at x=%g", ErrNoConvergence, xcur)
		}
	}
	res.Root = xcur
	return res, fmt.Errorf("%w: %d iterations", ErrNoConvergence, cfg.MaxIter)
}
