// Package fastsum is a handle-based command interface to fast summation of
// radial kernels,
//
//	f(y_j) = sum_k alpha_k K(y_j - x_k).
//
// A Session owns a fixed-capacity registry of plans. Callers address plans by
// integer handle and drive them with named commands such as init, set_x,
// precompute and trafo, either decoded from (name, args) pairs through
// Dispatch or built directly as Request values and run with Do.
package fastsum

import (
	"go.uber.org/zap"
)

// Session is a registry of plans plus the settings commands run under. It is
// not safe for concurrent use.
type Session struct {
	cfg      Config
	engine   Engine
	registry *Registry
	log      *zap.Logger
}

// NewSession returns a session backed by the bundled engine.
func NewSession(cfg Config) (*Session, error) {
	return NewSessionWithEngine(cfg, nil)
}

// NewSessionWithEngine returns a session whose plans are built by eng. A nil
// eng selects the bundled engine.
func NewSessionWithEngine(cfg Config, eng Engine) (*Session, error) {
	if err := cfg.Sanitize(); err != nil {
		return nil, err
	}

	if eng == nil {
		eng = NewEngine(cfg.Threads)
	}

	return &Session{
		cfg:      cfg,
		engine:   eng,
		registry: NewRegistry(cfg.Capacity, eng, cfg.Logger),
		log:      cfg.Logger,
	}, nil
}

// Registry returns the plans owned by the session.
func (s *Session) Registry() *Registry {
	return s.registry
}

// Config returns the sanitized session config.
func (s *Session) Config() Config {
	return s.cfg
}

// Close finalizes every live plan.
func (s *Session) Close() {
	s.registry.Close()
}
