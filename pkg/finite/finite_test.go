package finite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasi-python/relistats/pkg/binomial"
)

const tolConfidence = 0.001

func TestConfidenceNoRemainingSamples(t *testing.T) {
	want := []float64{1, 1, 1, 0, 0}
	for f, c := range want {
		est, err := Confidence(4, f, 0.5, 0)
		require.NoError(t, err)
		assert.Equal(t, Estimate{Confidence: c, Reliability: 0.5}, est, "f=%d", f)
	}
}

func TestConfidenceRemainingSamples(t *testing.T) {
	cases := []struct {
		f    int
		r    float64
		want Estimate
	}{
		{0, 0.5, Estimate{1, 0.5}},
		{1, 0.5, Estimate{0.949, 0.5}},
		{2, 0.5, Estimate{0.313, 0.5}},
		{3, 0.5, Estimate{0.004, 0.5}},
		{3, 0.25, Estimate{0.316, 0.25}},
	}
	for _, tc := range cases {
		est, err := Confidence(4, tc.f, tc.r, 4)
		require.NoError(t, err)
		assert.InDelta(t, tc.want.Confidence, est.Confidence, tolConfidence, "f=%d r=%g", tc.f, tc.r)
		assert.InDelta(t, tc.want.Reliability, est.Reliability, tolConfidence, "f=%d r=%g", tc.f, tc.r)
	}
}

func TestConfidenceZeroBudgetAddsSample(t *testing.T) {
	// r = 1 over 8 leaves no failure budget; the estimate asks about one
	// failure in five remaining samples instead
	est, err := Confidence(4, 0, 1, 4)
	require.NoError(t, err)
	c, err := binomial.Confidence(4, 0, 0.8)
	require.NoError(t, err)
	assert.InDelta(t, c, est.Confidence, 1e-12)
	assert.Equal(t, 1.0, est.Reliability)
}

func TestConfidenceInvalid(t *testing.T) {
	cases := []struct {
		n, f int
		r    float64
		m    int
	}{
		{2, 0, 2, 2},
		{2, -2, 0.5, 2},
		{-2, 0, 0.5, 2},
		{2, 0, -0.5, 2},
		{2, 0, 0.5, -1},
		{2, 3, 0.5, 1},
	}
	for _, tc := range cases {
		est, err := Confidence(tc.n, tc.f, tc.r, tc.m)
		assert.ErrorIs(t, err, binomial.ErrInvalidDomain)
		assert.Equal(t, tc.r, est.Reliability)
	}
}

func TestReliabilityNoRemainingSamples(t *testing.T) {
	want := []float64{1, 0.75, 0.5, 0.25, 0}
	for f, r := range want {
		est, err := Reliability(4, f, 0.5, 0)
		require.NoError(t, err)
		assert.InDelta(t, r, est.Reliability, 1e-12, "f=%d", f)
		assert.Equal(t, 1.0, est.Confidence, "f=%d", f)
	}
}

func TestReliabilityRemainingSamples(t *testing.T) {
	cases := []struct {
		f    int
		c    float64
		want Estimate
	}{
		{0, 0.5, Estimate{Reliability: 1, Confidence: 0.590}},
		{1, 0.94, Estimate{Reliability: 0.5, Confidence: 0.949}},
		{2, 0.31, Estimate{Reliability: 0.5, Confidence: 0.313}},
		{3, 0.0039, Estimate{Reliability: 0.5, Confidence: 0.004}},
		{3, 0.315, Estimate{Reliability: 0.25, Confidence: 0.316}},
	}
	for _, tc := range cases {
		est, err := Reliability(4, tc.f, tc.c, 4)
		require.NoError(t, err)
		assert.InDelta(t, tc.want.Reliability, est.Reliability, tolConfidence, "f=%d c=%g", tc.f, tc.c)
		assert.InDelta(t, tc.want.Confidence, est.Confidence, tolConfidence, "f=%d c=%g", tc.f, tc.c)
	}
}

func TestReliabilityInvalid(t *testing.T) {
	for _, tc := range []struct {
		n, f int
		c    float64
	}{{2, 0, 2}, {2, -2, 0.5}, {-2, 0, 0.5}, {2, 0, -0.5}} {
		est, err := Reliability(tc.n, tc.f, tc.c, 2)
		assert.ErrorIs(t, err, binomial.ErrInvalidDomain)
		assert.Equal(t, tc.c, est.Confidence)
	}
}

func TestAssurance(t *testing.T) {
	est, err := Assurance(4, 0, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, est.Assurance, 1e-9)
	assert.InDelta(t, 0.9375, est.Confidence, 1e-9)

	est, err = Assurance(22, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, AssuranceEstimate{1, 1, 1}, est)

	est, err = Assurance(22, 0, 10)
	require.NoError(t, err)
	assert.InDelta(t, 0.9375, est.Assurance, 1e-9)
	assert.InDelta(t, 0.9926, est.Confidence, 1e-3)

	_, err = Assurance(0, 0, 3)
	assert.ErrorIs(t, err, binomial.ErrInvalidDomain)
}

func TestMaxAdditionalFailuresNoRemaining(t *testing.T) {
	opts := DefaultOptions()

	got, err := MaxAdditionalFailures(22, 0, 0, 0.90, KindAssurance, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = MaxAdditionalFailures(21, 0, 0, 0.90, KindAssurance, opts)
	assert.ErrorIs(t, err, binomial.ErrNoSolution)

	// m = 0 mirrors a direct evaluation at (n, f) for each statistic
	for _, kind := range []Kind{KindReliability, KindConfidence, KindAssurance} {
		opts := DefaultOptions()
		if kind == KindConfidence {
			opts.Level = 0.9
		}
		v, err := Statistic(40, 2, kind, opts)
		require.NoError(t, err)

		got, err := MaxAdditionalFailures(40, 2, 0, v-1e-9, kind, opts)
		require.NoError(t, err, kind)
		assert.Equal(t, 0, got, kind)

		_, err = MaxAdditionalFailures(40, 2, 0, v+1e-3, kind, opts)
		assert.ErrorIs(t, err, binomial.ErrNoSolution, kind)
	}
}

func TestMaxAdditionalFailuresAssurance(t *testing.T) {
	opts := DefaultOptions()
	got, err := MaxAdditionalFailures(100, 0, 100, 0.90, KindAssurance, opts)
	require.NoError(t, err)
	assert.Equal(t, 14, got)

	got, err = MaxAdditionalFailures(50, 2, 150, 0.90, KindAssurance, opts)
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	_, err = MaxAdditionalFailures(30, 5, 10, 0.99, KindAssurance, opts)
	assert.ErrorIs(t, err, binomial.ErrNoSolution)
}

func TestMaxAdditionalFailuresIsTight(t *testing.T) {
	for _, kind := range []Kind{KindReliability, KindConfidence, KindAssurance} {
		opts := DefaultOptions()
		opts.Level = 0.9
		n, f, m, target := 60, 1, 140, 0.85
		got, err := MaxAdditionalFailures(n, f, m, target, kind, opts)
		require.NoError(t, err, kind)
		require.Less(t, got, m, kind)

		v, err := Statistic(n+m, f+got, kind, opts)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, target, kind)

		v, err = Statistic(n+m, f+got+1, kind, opts)
		require.NoError(t, err)
		assert.Less(t, v, target, kind)
	}
}

func TestMaxAdditionalFailuresWholeBudget(t *testing.T) {
	// a target of zero tolerates every remaining sample failing
	got, err := MaxAdditionalFailures(10, 0, 5, 0, KindAssurance, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

func TestMaxAdditionalFailuresInvalid(t *testing.T) {
	opts := DefaultOptions()
	_, err := MaxAdditionalFailures(10, 11, 5, 0.9, KindAssurance, opts)
	assert.ErrorIs(t, err, binomial.ErrInvalidDomain)
	_, err = MaxAdditionalFailures(10, 0, -1, 0.9, KindAssurance, opts)
	assert.ErrorIs(t, err, binomial.ErrInvalidDomain)
	_, err = MaxAdditionalFailures(10, 0, 5, 1.5, KindAssurance, opts)
	assert.ErrorIs(t, err, binomial.ErrInvalidDomain)
	_, err = MaxAdditionalFailures(10, 0, 5, 0.9, Kind("mtbf"), opts)
	assert.ErrorIs(t, err, binomial.ErrInvalidDomain)

	opts.Level = 2
	_, err = MaxAdditionalFailures(10, 0, 5, 0.9, KindReliability, opts)
	assert.ErrorIs(t, err, binomial.ErrInvalidDomain)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Assurance ")
	require.NoError(t, err)
	assert.Equal(t, KindAssurance, k)

	_, err = ParseKind("availability")
	assert.ErrorIs(t, err, binomial.ErrInvalidDomain)
}
