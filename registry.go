package fastsum

import (
	"go.uber.org/zap"
)

// Registry is a fixed-capacity table of plans indexed by handle. It is not
// safe for concurrent use.
type Registry struct {
	slots  []*Plan
	gens   []uint32
	live   int
	engine Engine
	log    *zap.Logger
}

// NewRegistry returns an empty registry with capacity slots whose plans are
// built by eng.
func NewRegistry(capacity int, eng Engine, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{
		slots:  make([]*Plan, capacity),
		gens:   make([]uint32, capacity),
		engine: eng,
		log:    logger,
	}
}

// Capacity returns the number of slots.
func (r *Registry) Capacity() int {
	return len(r.slots)
}

// Live returns the number of occupied slots.
func (r *Registry) Live() int {
	return r.live
}

// Create builds a plan in the lowest free slot. Nothing changes on failure.
func (r *Registry) Create(opts Options) (Handle, error) {
	if err := opts.Validate(); err != nil {
		return -1, err
	}

	slot := -1
	for i, p := range r.slots {
		if p == nil {
			slot = i
			break
		}
	}

	if slot < 0 {
		return -1, newError(CodeCapacityExceeded, "all %d plan slots in use", len(r.slots))
	}

	ep, err := r.engine.NewPlan(opts.engineConfig())
	if err != nil {
		return -1, wrapError(CodeEngineFailure, err, "allocating plan")
	}

	h := Handle(slot)
	r.slots[slot] = newPlan(h, r.gens[slot], opts, ep)
	r.live++

	r.log.Debug("plan created",
		zap.Int("handle", slot),
		zap.Uint32("gen", r.gens[slot]),
		zap.Stringer("kernel", opts.Kernel),
		zap.Int("d", opts.D),
		zap.Int("N", opts.N),
		zap.Int("M", opts.M),
	)

	return h, nil
}

// Get returns the plan at h.
func (r *Registry) Get(h Handle) (*Plan, error) {
	if h < 0 || int(h) >= len(r.slots) {
		return nil, newError(CodeInvalidHandle, "handle %d outside [0, %d)", h, len(r.slots))
	}

	p := r.slots[h]
	if p == nil {
		return nil, newError(CodeUninitializedPlan, "no plan at handle %d", h)
	}

	return p, nil
}

// Resolve returns the plan ref points to, failing if the slot has been
// finalized and reused since the ref was taken.
func (r *Registry) Resolve(ref Ref) (*Plan, error) {
	p, err := r.Get(ref.Handle)
	if err != nil {
		return nil, err
	}

	if p.gen != ref.Gen {
		return nil, newError(CodeUninitializedPlan,
			"stale handle %d (generation %d, slot at %d)", ref.Handle, ref.Gen, p.gen)
	}

	return p, nil
}

// Destroy releases the plan at h and frees its slot.
func (r *Registry) Destroy(h Handle) error {
	p, err := r.Get(h)
	if err != nil {
		return err
	}

	r.free(p)
	r.log.Debug("plan finalized", zap.Int("handle", int(h)))

	return nil
}

func (r *Registry) free(p *Plan) {
	p.release()
	r.slots[p.handle] = nil
	r.gens[p.handle]++
	r.live--
}

// Close finalizes every live plan in slot order. It may be called more than
// once.
func (r *Registry) Close() {
	count := r.live

	for _, p := range r.slots {
		if p != nil {
			r.free(p)
		}
	}

	if count > 0 {
		r.log.Info("registry closed", zap.Int("finalized", count))
	}
}
