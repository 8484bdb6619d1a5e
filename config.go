package fastsum

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// PlansMax is the default number of plan slots.
	PlansMax = 100
	// CmdLenMax is the longest accepted command name.
	CmdLenMax = 40
)

// Config configures a Session.
type Config struct {
	// Number of plan slots
	Capacity int
	// Worker goroutines per plan. 0 uses GOMAXPROCS
	Threads int

	// Reject points outside the ball of radius 1/4 - eps_B/2
	ValidateDomain bool
	// Reject precompute and trafo commands issued out of order
	EnforceOrder bool

	// Where display writes
	Output io.Writer
	// Lifecycle events
	Logger *zap.Logger
}

// NewZeroConfig returns the default config.
func NewZeroConfig() Config {
	return Config{
		Capacity:       PlansMax,
		ValidateDomain: true,
		EnforceOrder:   true,
	}
}

// Sanitize fills unset fields and rejects unusable ones.
func (cfg *Config) Sanitize() error {
	switch {
	case cfg.Capacity < 1:
		return errors.Errorf("capacity too small (%d, 1 min)", cfg.Capacity)
	case cfg.Threads < 0:
		return errors.Errorf("negative thread count (%d)", cfg.Threads)
	}

	if cfg.Output == nil {
		cfg.Output = io.Discard
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return nil
}
