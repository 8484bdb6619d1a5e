package kernel

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupRoundTrip(t *testing.T) {
	names := Names()
	require.Len(t, names, 12)

	seen := map[Kind]bool{}
	for _, name := range names {
		k, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, k.String())
		assert.False(t, seen[k], "duplicate kind for %s", name)
		seen[k] = true
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, name := range []string{"", "Gaussian", "gauss", "cot ", "kcot"} {
		_, err := Lookup(name)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrUnknown))
	}
}

func TestSingular(t *testing.T) {
	assert.False(t, Gaussian.Singular())
	assert.False(t, InverseMultiquadric3.Singular())
	assert.True(t, Logarithm.Singular())
	assert.True(t, OneOverX.Singular())
	assert.False(t, Kind(99).Valid())
	assert.Equal(t, "unknown", Kind(-1).String())
}
