package main

import (
	"errors"

	"github.com/noriah/fastsum"
)

// config holds the command line settings.
type config struct {
	// capacity is the number of plan slots
	capacity int
	// threads is the number of engine workers, 0 for GOMAXPROCS
	threads int
	// precision is the number of significant digits printed
	precision int
	// noDomainCheck accepts points outside the summation ball
	noDomainCheck bool
	// noOrderCheck lets trafo run on stale or missing precomputations
	noOrderCheck bool
	// verbose logs plan lifecycle events
	verbose bool
	// script is the path of the command script
	script string
}

func newZeroConfig() config {
	return config{
		capacity:  fastsum.PlansMax,
		precision: 6,
	}
}

// Sanitize cleans things up
func (cfg *config) Sanitize() error {
	switch {
	case cfg.capacity < 1:
		return errors.New("capacity too small (1 min)")

	case cfg.threads < 0:
		return errors.New("thread count must not be negative")
	}

	switch {
	case cfg.precision < 1:
		cfg.precision = 1
	case cfg.precision > 17:
		cfg.precision = 17
	}

	return nil
}

func (cfg *config) session() fastsum.Config {
	scfg := fastsum.NewZeroConfig()
	scfg.Capacity = cfg.capacity
	scfg.Threads = cfg.threads
	scfg.ValidateDomain = !cfg.noDomainCheck
	scfg.EnforceOrder = !cfg.noOrderCheck
	return scfg
}
