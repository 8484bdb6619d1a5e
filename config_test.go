package fastsum

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cfg := NewZeroConfig()
	require.NoError(t, cfg.Sanitize())

	assert.Equal(t, PlansMax, cfg.Capacity)
	assert.True(t, cfg.ValidateDomain)
	assert.True(t, cfg.EnforceOrder)
	assert.Equal(t, io.Discard, cfg.Output)
	assert.NotNil(t, cfg.Logger)

	cfg.Capacity = 0
	assert.Error(t, cfg.Sanitize())

	cfg = NewZeroConfig()
	cfg.Threads = -2
	assert.Error(t, cfg.Sanitize())

	_, err := NewSession(Config{})
	assert.Error(t, err, "zero capacity")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "created", State(0).String())
	assert.Equal(t, "source|target|weights", Loaded.String())
	assert.Equal(t, "weights|transformed", (WeightsLoaded | Transformed).String())
}

func TestInvalidate(t *testing.T) {
	p := &Plan{state: Loaded | Precomputed | Transformed}

	p.invalidate(WeightsLoaded)
	assert.Equal(t, Loaded|Precomputed, p.state)

	p.state |= Transformed
	p.invalidate(SourceLoaded)
	assert.Equal(t, Loaded, p.state)
}

func TestErrorMatching(t *testing.T) {
	err := withCommand(newError(CodeDomainViolation, "point %d", 3), "set_x")

	assert.ErrorIs(t, err, ErrDomainViolation)
	assert.NotErrorIs(t, err, ErrInvalidHandle)
	assert.Equal(t, "set_x: DOMAIN_VIOLATION: point 3", err.Error())
	assert.Equal(t, CodeDomainViolation, GetCode(err))
	assert.Equal(t, Code(""), GetCode(errInjected))

	wrapped := wrapError(CodeEngineFailure, errInjected, "")
	assert.ErrorIs(t, wrapped, errInjected)
	assert.Equal(t, "ENGINE_FAILURE: injected failure", wrapped.Error())
}
