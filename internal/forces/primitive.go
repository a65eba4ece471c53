// Package forces evaluates the accelerations applied to particles before
// integration: local field primitives and the tree-approximated pairwise
// attraction.
package forces

import (
	"fmt"
	"math"
)

// Primitive is a local force field evaluated at a point.
type Primitive interface {
	Name() string
	Evaluate(x, y float64) (fx, fy float64)
	Enabled() bool
	SetEnabled(on bool)
}

// Params configures a primitive. Positive Strength·Damping pushes points
// away from the anchor, negative pulls them in.
type Params struct {
	Name     string
	AnchorX  float64
	AnchorY  float64
	Radius   float64
	Strength float64
	Damping  float64
	// Track makes the anchor follow the pointer. A tracking primitive is
	// inactive until the first target arrives and after the target is
	// released.
	Track bool
}

func (p Params) validate() error {
	if !(p.Radius > 0) {
		return fmt.Errorf("force %q: radius must be positive, got %v", p.Name, p.Radius)
	}
	for _, v := range []float64{p.AnchorX, p.AnchorY, p.Strength, p.Damping} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("force %q: parameters must be finite", p.Name)
		}
	}
	return nil
}

type base struct {
	Params
	enabled   bool
	suspended bool
}

func newBase(p Params) (base, error) {
	if err := p.validate(); err != nil {
		return base{}, err
	}
	return base{Params: p, enabled: true, suspended: p.Track}, nil
}

func (b *base) Name() string       { return b.Params.Name }
func (b *base) Enabled() bool      { return b.enabled }
func (b *base) SetEnabled(on bool) { b.enabled = on }

// Anchor returns the current anchor, which moves for tracking primitives.
func (b *base) Anchor() (x, y float64) { return b.AnchorX, b.AnchorY }

// Active reports whether the primitive currently contributes.
func (b *base) Active() bool { return b.enabled && !b.suspended }

func (b *base) TrackTarget(x, y float64) {
	if !b.Track {
		return
	}
	b.AnchorX, b.AnchorY = x, y
	b.suspended = false
}

func (b *base) ReleaseTarget() {
	if b.Track {
		b.suspended = true
	}
}

// magnitude applies the shared falloff; ok is false outside the radius and
// at zero distance, where no direction exists.
func (b *base) magnitude(d float64) (float64, bool) {
	if !b.Active() || d == 0 || d > b.Radius {
		return 0, false
	}
	return (b.Radius - d) * b.Strength * b.Damping / d, true
}

// Radial acts along the line from the anchor to the point.
type Radial struct {
	base
}

func NewRadial(p Params) (*Radial, error) {
	b, err := newBase(p)
	if err != nil {
		return nil, err
	}
	return &Radial{base: b}, nil
}

func (r *Radial) Evaluate(x, y float64) (float64, float64) {
	dx := x - r.AnchorX
	dy := y - r.AnchorY
	mag, ok := r.magnitude(math.Sqrt(dx*dx + dy*dy))
	if !ok {
		return 0, 0
	}
	return dx * mag, dy * mag
}

type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// ParseAxis accepts "x" or "y".
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y", "":
		return AxisY, nil
	}
	return AxisY, fmt.Errorf("unknown axis: %s", s)
}

// Linear acts along a single axis, using only the distance from the
// anchor's coordinate on that axis.
type Linear struct {
	base
	Axis Axis
}

func NewLinear(p Params, axis Axis) (*Linear, error) {
	b, err := newBase(p)
	if err != nil {
		return nil, err
	}
	return &Linear{base: b, Axis: axis}, nil
}

func (l *Linear) Evaluate(x, y float64) (float64, float64) {
	delta := y - l.AnchorY
	if l.Axis == AxisX {
		delta = x - l.AnchorX
	}
	mag, ok := l.magnitude(math.Abs(delta))
	if !ok {
		return 0, 0
	}
	if l.Axis == AxisX {
		return delta * mag, 0
	}
	return 0, delta * mag
}

// Kinds accepted by Spec.
const (
	KindRadial = "radial"
	KindLinear = "linear"
)

// Spec describes a primitive without its runtime state, so one
// configuration can build any number of independent simulations.
type Spec struct {
	Kind     string
	Axis     Axis
	Disabled bool
	Params
}

// Build creates a fresh primitive from the spec.
func (s Spec) Build() (Primitive, error) {
	var (
		prim Primitive
		err  error
	)
	switch s.Kind {
	case KindRadial, "":
		prim, err = NewRadial(s.Params)
	case KindLinear:
		prim, err = NewLinear(s.Params, s.Axis)
	default:
		return nil, fmt.Errorf("force %q: unknown kind %q", s.Name, s.Kind)
	}
	if err != nil {
		return nil, err
	}
	prim.SetEnabled(!s.Disabled)
	return prim, nil
}
