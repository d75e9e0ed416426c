package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWilsonLB(t *testing.T) {
	z := 2.575829 // ~99%
	// all successes over 200 attempts -> LB close to 1, just sanity
	lb := WilsonLowerBound(200, 200, z)
	assert.GreaterOrEqual(t, lb, 0.967)
	// no successes
	assert.InDelta(t, 0.0, WilsonLowerBound(0, 200, z), 1e-6)
	assert.Equal(t, 0.0, WilsonLowerBound(0, 0, z))
}

func TestWilsonLowerBoundValues(t *testing.T) {
	z := 1.6448536269514715
	assert.InDelta(t, 0.7870580, WilsonLowerBound(10, 10, z), 1e-6)
	assert.InDelta(t, 0.8084625, WilsonLowerBound(45, 50, z), 1e-6)
}

func TestWilsonLowerBoundCorrected(t *testing.T) {
	z := 1.6448536269514715
	assert.InDelta(t, 0.7152626, WilsonLowerBoundCorrected(10, 10, z), 1e-6)
	assert.InDelta(t, 0.7963165, WilsonLowerBoundCorrected(45, 50, z), 1e-6)
	// the correction only ever lowers the bound
	for n := 1; n <= 40; n++ {
		for s := 0; s <= n; s++ {
			assert.LessOrEqual(t, WilsonLowerBoundCorrected(s, n, z), WilsonLowerBound(s, n, z)+1e-12)
		}
	}
	assert.Equal(t, 0.0, WilsonLowerBoundCorrected(3, 0, z))
}

func TestZScore(t *testing.T) {
	assert.InDelta(t, 0.0, ZScore(0.5), 1e-12)
	assert.InDelta(t, 1.6448536, ZScore(0.95), 1e-6)
	assert.InDelta(t, 1.9599640, ZScore(0.975), 1e-6)
	assert.InDelta(t, -ZScore(0.9), ZScore(0.1), 1e-9)
	assert.True(t, math.IsInf(ZScore(1), 1))
	assert.True(t, math.IsInf(ZScore(0), -1))
}
