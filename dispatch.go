package fastsum

import (
	"github.com/noriah/fastsum/engine"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Dispatch decodes and runs one command.
func (s *Session) Dispatch(name string, args []Value) ([]Value, error) {
	req, err := Decode(name, args)
	if err != nil {
		return nil, err
	}
	return s.Do(req)
}

// Do runs a decoded request. A failed request leaves every plan as it was.
func (s *Session) Do(req Request) ([]Value, error) {
	if req == nil {
		return nil, newError(CodeInvalidCommand, "nil request")
	}

	out, err := s.do(req)
	if err != nil {
		return nil, withCommand(err, req.Command())
	}
	return out, nil
}

func (s *Session) do(req Request) ([]Value, error) {
	switch req := req.(type) {
	case GetNumThreads:
		return []Value{Scalar(s.engine.NumThreads())}, nil

	case Init:
		h, err := s.registry.Create(req.Options)
		if err != nil {
			return nil, err
		}
		return []Value{Scalar(h)}, nil

	case SetX:
		return nil, s.setPoints(req.Handle, req.Points, SourceLoaded)

	case SetY:
		return nil, s.setPoints(req.Handle, req.Points, TargetLoaded)

	case SetAlpha:
		p, err := s.registry.Get(req.Handle)
		if err != nil {
			return nil, err
		}
		alpha, err := importWeights(req.Alpha, p.opts.N)
		if err != nil {
			return nil, err
		}
		p.alpha = alpha
		p.invalidate(WeightsLoaded)
		return nil, nil

	case Precompute:
		return nil, s.precompute(req.Handle)

	case Trafo:
		return nil, s.trafo(req.Handle)

	case TrafoDirect:
		return nil, s.trafoDirect(req.Handle)

	case GetF:
		p, err := s.registry.Get(req.Handle)
		if err != nil {
			return nil, err
		}
		return []Value{exportComplex(p.f, p.opts.M)}, nil

	case GetX:
		p, err := s.registry.Get(req.Handle)
		if err != nil {
			return nil, err
		}
		return []Value{exportPoints(p.x, p.opts.N, p.opts.D)}, nil

	case GetY:
		p, err := s.registry.Get(req.Handle)
		if err != nil {
			return nil, err
		}
		return []Value{exportPoints(p.y, p.opts.M, p.opts.D)}, nil

	case GetAlpha:
		p, err := s.registry.Get(req.Handle)
		if err != nil {
			return nil, err
		}
		return []Value{exportComplex(p.alpha, p.opts.N)}, nil

	case GetB:
		p, err := s.registry.Get(req.Handle)
		if err != nil {
			return nil, err
		}
		dims := make([]int, p.opts.D)
		for t := range dims {
			dims[t] = p.opts.Bandwidth
		}
		return []Value{exportComplex(p.b, dims...)}, nil

	case Finalize:
		return nil, s.registry.Destroy(req.Handle)

	case Display:
		p, err := s.registry.Get(req.Handle)
		if err != nil {
			return nil, err
		}
		if err := writeDisplay(s.cfg.Output, p); err != nil {
			return nil, errors.Wrap(err, "display")
		}
		return nil, nil
	}

	return nil, newError(CodeInvalidCommand, "unhandled request %T", req)
}

func (s *Session) setPoints(h Handle, m Matrix, which State) error {
	p, err := s.registry.Get(h)
	if err != nil {
		return err
	}

	count := p.opts.N
	if which == TargetLoaded {
		count = p.opts.M
	}

	pts, err := importPoints(m, count, p.opts.D, p.opts.Radius(), s.cfg.ValidateDomain)
	if err != nil {
		return err
	}

	if which == SourceLoaded {
		p.x = pts
	} else {
		p.y = pts
	}
	p.invalidate(which)

	return nil
}

func (s *Session) precompute(h Handle) error {
	p, err := s.registry.Get(h)
	if err != nil {
		return err
	}

	if s.cfg.EnforceOrder && !p.state.Has(Loaded) {
		return newError(CodeInvalidState, "plan %d has %s loaded, precompute needs source|target|weights", h, p.state)
	}

	if err := p.engine.Precompute(p.x, p.y); err != nil {
		return engineError(err)
	}

	copy(p.b, p.engine.Coefficients())
	p.state = (p.state | Precomputed) &^ Transformed

	s.log.Debug("precompute", zap.Int("handle", int(h)))
	return nil
}

func (s *Session) trafo(h Handle) error {
	p, err := s.registry.Get(h)
	if err != nil {
		return err
	}

	if s.cfg.EnforceOrder && !p.state.Has(Precomputed) {
		return newError(CodeInvalidState, "plan %d is not precomputed for its current nodes", h)
	}

	f := make([]complex128, len(p.f))
	if err := p.engine.Trafo(p.alpha, f); err != nil {
		return engineError(err)
	}

	p.f = f
	p.state |= Transformed

	s.log.Debug("trafo", zap.Int("handle", int(h)))
	return nil
}

func (s *Session) trafoDirect(h Handle) error {
	p, err := s.registry.Get(h)
	if err != nil {
		return err
	}

	if s.cfg.EnforceOrder && !p.state.Has(Loaded) {
		return newError(CodeInvalidState, "plan %d has %s loaded, trafo_direct needs source|target|weights", h, p.state)
	}

	f := make([]complex128, len(p.f))
	if err := p.engine.Exact(p.x, p.y, p.alpha, f); err != nil {
		return engineError(err)
	}

	p.f = f
	p.state |= Transformed

	s.log.Debug("trafo_direct", zap.Int("handle", int(h)))
	return nil
}

// engineError maps an engine refusal onto the protocol codes.
func engineError(err error) error {
	if errors.Is(err, engine.ErrNotPrecomputed) {
		return wrapError(CodeInvalidState, err, "")
	}
	return wrapError(CodeEngineFailure, err, "")
}
