// Package sim owns a particle store and advances it one fixed step at a
// time: tree build and force evaluation, Verlet integration, then
// constraint relaxation.
package sim

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/bhverlet/internal/constraints"
	"github.com/san-kum/bhverlet/internal/dynamo"
	"github.com/san-kum/bhverlet/internal/forces"
	"github.com/san-kum/bhverlet/internal/integrators"
	"github.com/san-kum/bhverlet/internal/quadtree"
	"github.com/san-kum/bhverlet/internal/warp"
)

// Simulation is not safe for concurrent use. Callers read particles, the
// tree and the view only between steps.
type Simulation struct {
	cfg        Config
	particles  *dynamo.Particles
	tree       *quadtree.Tree
	field      *forces.Field
	integrator *integrators.Verlet
	solver     *constraints.Solver
	warp       warp.Warp
	lens       *warp.Fisheye
	trackers   []dynamo.Tracker
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	counters   Counters
	err        error
}

// New validates cfg, generates the particles and builds every component.
// No step is taken.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	// Toggles address primitives by name, so names must be unique.
	prims := make([]forces.Primitive, len(cfg.Forces))
	names := make(map[string]bool, len(cfg.Forces))
	for i, spec := range cfg.Forces {
		field := fmt.Sprintf("forces[%d].name", i)
		switch {
		case spec.Name == "":
			return nil, &dynamo.ConfigError{Field: field, Value: spec.Name, Reason: "must not be empty"}
		case names[spec.Name]:
			return nil, &dynamo.ConfigError{Field: field, Value: spec.Name, Reason: "duplicate force name"}
		}
		names[spec.Name] = true

		prim, err := spec.Build()
		if err != nil {
			return nil, &dynamo.ConfigError{Field: fmt.Sprintf("forces[%d]", i), Value: spec.Name, Reason: err.Error()}
		}
		prims[i] = prim
	}

	s := &Simulation{
		cfg:        cfg,
		tree:       quadtree.New(cfg.MaxDepth),
		integrator: integrators.NewVerlet(cfg.Dt, cfg.Drag),
		warp:       warp.Identity{},
		field: &forces.Field{
			Query:      quadtree.Query{Theta: cfg.Theta, G: cfg.G, Softening: cfg.Softening},
			Primitives: prims,
			Workers:    cfg.Workers,
		},
	}
	s.field.Tree = s.tree

	if cfg.Lens != nil {
		lens, err := warp.NewFisheye(*cfg.Lens)
		if err != nil {
			return nil, &dynamo.ConfigError{Field: "lens", Value: *cfg.Lens, Reason: err.Error()}
		}
		s.lens = lens
		s.warp = lens
		s.trackers = append(s.trackers, lens)
	}
	for _, prim := range prims {
		if tr, ok := prim.(dynamo.Tracker); ok {
			s.trackers = append(s.trackers, tr)
		}
	}

	s.solver = constraints.New(cfg.Iterations, cfg.Width, cfg.Height, cfg.Bounds, s.warp)

	if err := s.populate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulation) populate() error {
	cfg := s.cfg
	rng := rand.New(rand.NewSource(cfg.Seed))
	p := dynamo.NewParticles(cfg.N)

	for i := 0; i < cfg.N; i++ {
		if cfg.Fixed != nil {
			p.Fixed[i] = cfg.Fixed(i)
		}
		p.Mass[i] = cfg.Mass(i, rng)
		p.Radius[i] = cfg.Radius(p.Mass[i])
		p.Color[i] = cfg.Color(i)
		x, y := cfg.Position(i, p.Radius[i], rng)
		p.Place(i, x, y)
	}

	if err := p.Validate(); err != nil {
		return err
	}
	if buf, i, ok := p.CheckFinite(); !ok {
		return &dynamo.ConfigError{Field: "position", Value: i, Reason: fmt.Sprintf("non-finite %s", buf)}
	}

	s.particles = p
	return nil
}

func (s *Simulation) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Step advances the simulation by one fixed timestep. A non-finite value
// after integration or after constraint solving is returned as an
// *dynamo.InvariantError, and every later call returns the same error.
func (s *Simulation) Step() error {
	if s.err != nil {
		return s.err
	}
	p := s.particles

	s.tree.Build(p, s.cfg.Width, s.cfg.Height)
	st := s.field.Apply(p)

	s.integrator.Step(p)
	if err := s.check("integration"); err != nil {
		return err
	}

	n := s.solver.Solve(p)
	if err := s.check("constraint solving"); err != nil {
		return err
	}

	s.counters.add(StepCounters{Approximated: st.Approximated, Exact: st.Exact, Corrections: n})

	t := s.integrator.Time()
	for _, m := range s.metrics {
		m.Observe(p, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(p, t)
	}
	return nil
}

func (s *Simulation) check(phase string) error {
	buf, i, ok := s.particles.CheckFinite()
	if ok {
		return nil
	}
	s.err = &dynamo.InvariantError{
		Step:     s.integrator.Steps(),
		Time:     s.integrator.Time(),
		Particle: i,
		Buffer:   buf,
		Phase:    phase,
	}
	return s.err
}

// Run steps until steps have been taken, ctx is cancelled or fn returns
// false. fn runs after every step and may be nil. steps <= 0 runs until
// cancelled.
func (s *Simulation) Run(ctx context.Context, steps int, fn func(*Simulation) bool) error {
	for i := 0; steps <= 0 || i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.Step(); err != nil {
			return err
		}
		if fn != nil && !fn(s) {
			return nil
		}
	}
	return nil
}

// Reset regenerates the particles from the configured seed and clears
// time, counters, metrics and any recorded invariant error. Force toggles
// and the pointer state are kept.
func (s *Simulation) Reset() error {
	if err := s.populate(); err != nil {
		return err
	}
	s.integrator.Reset()
	s.counters = Counters{}
	s.err = nil
	for _, m := range s.metrics {
		m.Reset()
	}
	return nil
}

func (s *Simulation) Time() float64 { return s.integrator.Time() }
func (s *Simulation) Steps() int    { return s.integrator.Steps() }

func (s *Simulation) Counters() Counters { return s.counters }
func (s *Simulation) Config() Config     { return s.cfg }

// Err returns the invariant violation that stopped the simulation, if any.
func (s *Simulation) Err() error { return s.err }

// Particles exposes the store. Callers must treat it as read-only.
func (s *Simulation) Particles() *dynamo.Particles { return s.particles }

// Tree is the tree built during the last step.
func (s *Simulation) Tree() *quadtree.Tree { return s.tree }

// Lens returns the fisheye, or nil when none is configured.
func (s *Simulation) Lens() *warp.Fisheye { return s.lens }

// View returns the render form of every particle, in index order.
func (s *Simulation) View() []RenderParticle {
	return s.ViewInto(nil)
}

// ViewInto is View reusing dst's storage.
func (s *Simulation) ViewInto(dst []RenderParticle) []RenderParticle {
	p := s.particles
	dst = dst[:0]
	for i := 0; i < p.N; i++ {
		pt := s.warp.Apply(p.Pos[i*2], p.Pos[i*2+1])
		dst = append(dst, RenderParticle{
			X:      pt.X,
			Y:      pt.Y,
			Radius: p.Radius[i] * pt.Scale,
			Color:  p.Color[i],
			Fixed:  p.Fixed[i],
		})
	}
	return dst
}

// UpdatePointerTarget forwards the pointer to every tracking primitive and
// to a tracking lens.
func (s *Simulation) UpdatePointerTarget(x, y float64) {
	for _, tr := range s.trackers {
		tr.TrackTarget(x, y)
	}
}

// ReleasePointer tells trackers the pointer has left the world.
func (s *Simulation) ReleasePointer() {
	for _, tr := range s.trackers {
		tr.ReleaseTarget()
	}
}

// Forces lists the primitives in configuration order.
func (s *Simulation) Forces() []ForceState {
	out := make([]ForceState, len(s.field.Primitives))
	for i, prim := range s.field.Primitives {
		out[i] = ForceState{Name: prim.Name(), Enabled: prim.Enabled()}
	}
	return out
}

func (s *Simulation) SetForceEnabled(name string, on bool) error {
	prim, ok := s.field.Find(name)
	if !ok {
		return fmt.Errorf("unknown force %q", name)
	}
	prim.SetEnabled(on)
	return nil
}

// ToggleForce flips a primitive and returns its new state.
func (s *Simulation) ToggleForce(name string) (bool, error) {
	prim, ok := s.field.Find(name)
	if !ok {
		return false, fmt.Errorf("unknown force %q", name)
	}
	prim.SetEnabled(!prim.Enabled())
	return prim.Enabled(), nil
}
