package rootfind

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrentFindsRoots(t *testing.T) {
	cases := []struct {
		name   string
		fn     Func
		lo, hi float64
		want   float64
	}{
		{"sqrt2", func(x float64) float64 { return x*x - 2 }, 0, 2, math.Sqrt2},
		{"decreasing", func(x float64) float64 { return 0.3 - x }, 0, 1, 0.3},
		{"cubic", func(x float64) float64 { return x*x*x - x - 1 }, 1, 2, 1.324717957244746},
		{"cosine", math.Cos, 0, 3, math.Pi / 2},
		{"flat tail", func(x float64) float64 { return math.Pow(x, 9) - 0.5 }, 0, 1, math.Pow(0.5, 1.0/9)},
	}
	cfg := DefaultConfig()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Brent(tc.fn, tc.lo, tc.hi, cfg)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, res.Root, 1e-6)
			assert.LessOrEqual(t, res.Iterations, cfg.MaxIter)
			assert.Equal(t, res.Iterations+1, res.Evaluations)
		})
	}
}

func TestBrentReversedBracket(t *testing.T) {
	res, err := Brent(func(x float64) float64 { return x - 0.25 }, 1, 0, DefaultConfig())
	require.NoError(t, err)
	assert.InDelta(t, 0.25, res.Root, 1e-6)
}

func TestBrentEndpointRoot(t *testing.T) {
	res, err := Brent(func(x float64) float64 { return x }, 0, 1, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Root)
	assert.Equal(t, 0, res.Iterations)

	res, err = Brent(func(x float64) float64 { return x - 1 }, 0, 1, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Root)
}

func TestBrentNotBracketed(t *testing.T) {
	_, err := Brent(func(x float64) float64 { return x*x + 1 }, -1, 1, DefaultConfig())
	assert.ErrorIs(t, err, ErrNotBracketed)

	_, err = Brent(func(x float64) float64 { return math.NaN() }, 0, 1, DefaultConfig())
	assert.ErrorIs(t, err, ErrNotBracketed)
}

func TestBrentIterationBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIter = 1
	_, err := Brent(func(x float64) float64 { return x*x - 2 }, 0, 2, cfg)
	assert.ErrorIs(t, err, ErrNoConvergence)
}

func TestBrentTolerance(t *testing.T) {
	fn := func(x float64) float64 { return math.Exp(x) - 2 }
	loose := DefaultConfig()
	loose.XTol = 1e-2
	tight := DefaultConfig()
	tight.XTol = 1e-12

	a, err := Brent(fn, 0, 2, loose)
	require.NoError(t, err)
	b, err := Brent(fn, 0, 2, tight)
	require.NoError(t, err)
	assert.InDelta(t, math.Ln2, a.Root, 1e-2)
	assert.InDelta(t, math.Ln2, b.Root, 1e-11)
}

func TestBrentInvalidConfig(t *testing.T) {
	fn := func(x float64) float64 { return x - 0.5 }
	for _, cfg := range []Config{
		{XTol: 0, RTol: 0, MaxIter: 10},
		{XTol: 1e-6, RTol: -1, MaxIter: 10},
		{XTol: 1e-6, RTol: 0, MaxIter: 0},
	} {
		_, err := Brent(fn, 0, 1, cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
}
