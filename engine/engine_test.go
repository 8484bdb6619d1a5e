package engine

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/noriah/fastsum/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// ballPoints draws count points uniformly from the cube inscribed in the
// ball of the given radius.
func ballPoints(rng *rand.Rand, count, d int, radius float64) []float64 {
	side := radius / float64(d)
	x := make([]float64, count*d)
	for i := range x {
		x[i] = (2*rng.Float64() - 1) * side
	}
	return x
}

func maxRelative(got, want []complex128, norm float64) float64 {
	worst := 0.0
	for j := range got {
		if e := cmplx.Abs(got[j]-want[j]) / norm; e > worst {
			worst = e
		}
	}
	return worst
}

func TestReferenceScenario(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := Config{
		D: 1, N: 2, M: 2,
		Bandwidth: 32, Cutoff: 4, Smoothness: 8,
		Kernel: kernel.Gaussian, Param: 1.0,
		EpsI: 0.1, EpsB: 0.1,
	}

	plan, err := New(2).NewPlan(cfg)
	require.NoError(t, err)

	x := []float64{0.0, 0.1}
	y := []float64{0.05, 0.15}
	alpha := []complex128{1, 2}

	fast := make([]complex128, 2)
	exact := make([]complex128, 2)

	require.NoError(t, plan.Precompute(x, y))
	require.NoError(t, plan.Trafo(alpha, fast))
	require.NoError(t, plan.Exact(x, y, alpha, exact))

	for j := range exact {
		assert.InDelta(t, 0, cmplx.Abs(fast[j]-exact[j])/cmplx.Abs(exact[j]), 1e-3, "target %d", j)
	}
	assert.Len(t, plan.Coefficients(), 32)
}

func TestFastMatchesExact(t *testing.T) {
	defer goleak.VerifyNone(t)

	cases := []struct {
		name   string
		d      int
		kind   kernel.Kind
		param  float64
		n, p   int
		tol    float64
		nodesN int
		nodesM int
	}{
		{"gaussian-1d", 1, kernel.Gaussian, 0.5, 64, 8, 1e-3, 50, 40},
		{"gaussian-2d", 2, kernel.Gaussian, 0.5, 32, 8, 1e-3, 60, 45},
		{"multiquadric-2d", 2, kernel.InverseMultiquadric, 1, 32, 8, 1e-3, 30, 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(3))
			cfg := Config{
				D: tc.d, N: tc.nodesN, M: tc.nodesM,
				Bandwidth: tc.n, Cutoff: 4, Smoothness: tc.p,
				Kernel: tc.kind, Param: tc.param,
				EpsI: 0.05, EpsB: 0.1,
			}

			plan, err := New(3).NewPlan(cfg)
			require.NoError(t, err)

			x := ballPoints(rng, cfg.N, cfg.D, cfg.Radius())
			y := ballPoints(rng, cfg.M, cfg.D, cfg.Radius())
			alpha := make([]complex128, cfg.N)
			norm := 0.0
			for k := range alpha {
				alpha[k] = complex(rng.Float64(), rng.Float64()-0.5)
				norm += cmplx.Abs(alpha[k])
			}

			fast := make([]complex128, cfg.M)
			exact := make([]complex128, cfg.M)
			require.NoError(t, plan.Precompute(x, y))
			require.NoError(t, plan.Trafo(alpha, fast))
			require.NoError(t, plan.Exact(x, y, alpha, exact))

			assert.Less(t, maxRelative(fast, exact, norm), tc.tol)
		})
	}
}

func TestExactIsDirectSum(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := Config{
		D: 2, N: 3, M: 5,
		Bandwidth: 8, Cutoff: 2, Smoothness: 3,
		Kernel: kernel.OneOverModulus, Param: 1,
		EpsI: 0.05, EpsB: 0.1,
	}

	x := []float64{0, 0, 0.1, 0, 0, -0.1}
	y := []float64{0, 0, 0.1, 0, 0.05, 0.05, -0.1, 0.1, 0.2, 0}
	alpha := []complex128{1, 2i, -1}

	for _, threads := range []int{1, 2, 8} {
		plan, err := New(threads).NewPlan(cfg)
		require.NoError(t, err)

		f := make([]complex128, cfg.M)
		require.NoError(t, plan.Exact(x, y, alpha, f))

		// target 0 coincides with source 0, which contributes nothing
		assert.InDelta(t, 0, cmplx.Abs(f[0]-(2i/0.1-1/0.1)), 1e-12)
		// target 1 coincides with source 1
		assert.InDelta(t, 0, cmplx.Abs(f[1]-(1/0.1-1/0.1414213562373095)), 1e-9)
	}
}

func TestPlanLifecycleErrors(t *testing.T) {
	cfg := Config{
		D: 1, N: 2, M: 1,
		Bandwidth: 16, Cutoff: 2, Smoothness: 4,
		Kernel: kernel.Gaussian, Param: 1,
		EpsI: 0, EpsB: 0.1,
	}

	plan, err := New(1).NewPlan(cfg)
	require.NoError(t, err)

	assert.Nil(t, plan.Coefficients())
	require.ErrorIs(t, plan.Trafo(make([]complex128, 2), make([]complex128, 1)), ErrNotPrecomputed)
	require.ErrorIs(t, plan.Precompute([]float64{0}, []float64{0}), ErrLength)

	require.NoError(t, plan.Precompute([]float64{0, 0.1}, []float64{0.05}))
	require.ErrorIs(t, plan.Trafo(make([]complex128, 3), make([]complex128, 1)), ErrLength)

	plan.Release()
	plan.Release()
	require.ErrorIs(t, plan.Precompute([]float64{0, 0.1}, []float64{0.05}), ErrReleased)
	require.ErrorIs(t, plan.Trafo(make([]complex128, 2), make([]complex128, 1)), ErrReleased)
}

func TestConfigValidate(t *testing.T) {
	good := Config{
		D: 1, N: 1, M: 1,
		Bandwidth: 8, Cutoff: 2, Smoothness: 2,
		Kernel: kernel.Gaussian, Param: 1,
		EpsI: 0.1, EpsB: 0.1,
	}
	require.NoError(t, good.Validate())

	mutations := map[string]func(*Config){
		"d":        func(c *Config) { c.D = 0 },
		"N":        func(c *Config) { c.N = 0 },
		"M":        func(c *Config) { c.M = -1 },
		"n":        func(c *Config) { c.Bandwidth = 0 },
		"m":        func(c *Config) { c.Cutoff = 0 },
		"p":        func(c *Config) { c.Smoothness = 0 },
		"m>n":      func(c *Config) { c.Cutoff = 9 },
		"kernel":   func(c *Config) { c.Kernel = kernel.Kind(42) },
		"epsB<0":   func(c *Config) { c.EpsB = -0.1 },
		"epsB=0.5": func(c *Config) { c.EpsB = 0.5 },
		"epsI<0":   func(c *Config) { c.EpsI = -1 },
		"overlap":  func(c *Config) { c.EpsI, c.EpsB = 0.3, 0.3 },
		"grid":     func(c *Config) { c.D, c.Bandwidth = 3, 1<<21 },
		"wrap":     func(c *Config) { c.D, c.Bandwidth = 64, 1<<20 },
		"sources":  func(c *Config) { c.N = 1 << 25 },
		"targets":  func(c *Config) { c.D, c.M = 2, 1<<24 },
	}

	for name, mutate := range mutations {
		cfg := good
		mutate(&cfg)
		assert.ErrorIs(t, cfg.Validate(), ErrConfig, name)
	}

	largest := good
	largest.D, largest.Bandwidth, largest.Cutoff = 2, 1<<12, 2
	require.NoError(t, largest.Validate(), "a grid of exactly MaxSize values")
}

func TestBoundedMul(t *testing.T) {
	v, ok := boundedMul(1<<13, 1<<13)
	assert.True(t, ok)
	assert.Equal(t, MaxSize, v)

	_, ok = boundedMul(MaxSize, 2)
	assert.False(t, ok)

	_, ok = boundedMul(3, 1<<62)
	assert.False(t, ok)
}

func TestParallelCoversRange(t *testing.T) {
	defer goleak.VerifyNone(t)

	for _, workers := range []int{0, 1, 3, 7, 100} {
		seen := make([]int, 23)
		parallel(workers, len(seen), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				seen[i]++
			}
		})
		for i, v := range seen {
			assert.Equal(t, 1, v, "workers=%d index=%d", workers, i)
		}
	}
}
