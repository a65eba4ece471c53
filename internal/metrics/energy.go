package metrics

import (
	"math"

	"github.com/san-kum/bhverlet/internal/dynamo"
)

// KineticEnergy sums ½·m·v² over mobile particles, with v the implicit
// Verlet velocity (position - previous) / dt.
func KineticEnergy(p *dynamo.Particles, dt float64) float64 {
	inv := 1 / dt
	total := 0.0
	for i := 0; i < p.N; i++ {
		if p.Fixed[i] {
			continue
		}
		vx, vy := p.Velocity(i)
		vx *= inv
		vy *= inv
		total += 0.5 * p.Mass[i] * (vx*vx + vy*vy)
	}
	return total
}

// Momentum returns the net linear momentum of the mobile particles.
func Momentum(p *dynamo.Particles, dt float64) (px, py float64) {
	inv := 1 / dt
	for i := 0; i < p.N; i++ {
		if p.Fixed[i] {
			continue
		}
		vx, vy := p.Velocity(i)
		px += p.Mass[i] * vx * inv
		py += p.Mass[i] * vy * inv
	}
	return px, py
}

// Kinetic reports the mean kinetic energy over the observed steps.
type Kinetic struct {
	name    string
	dt      float64
	samples int
	total   float64
	last    float64
}

func NewKinetic(dt float64) *Kinetic {
	return &Kinetic{
		name: "kinetic",
		dt:   dt,
	}
}

func (k *Kinetic) Name() string { return k.name }

func (k *Kinetic) Observe(p *dynamo.Particles, t float64) {
	k.last = KineticEnergy(p, k.dt)
	k.total += k.last
	k.samples++
}

// Last is the kinetic energy at the most recent step.
func (k *Kinetic) Last() float64 { return k.last }

func (k *Kinetic) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *Kinetic) Reset() {
	k.total = 0
	k.last = 0
	k.samples = 0
}

// MomentumDrift tracks the largest change of net momentum per unit mass
// from the first observed step. Tree approximation, constraints and
// field forces all break pairwise symmetry, so this is rarely zero.
type MomentumDrift struct {
	name     string
	dt       float64
	px0, py0 float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift(dt float64) *MomentumDrift {
	return &MomentumDrift{
		name: "momentum_drift",
		dt:   dt,
	}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(p *dynamo.Particles, t float64) {
	px, py := Momentum(p, m.dt)

	if m.samples == 0 {
		m.px0, m.py0 = px, py
	}
	m.samples++

	mass := p.TotalMass()
	if mass > 0 {
		drift := math.Hypot(px-m.px0, py-m.py0) / mass
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.px0, m.py0 = 0, 0
	m.maxDrift = 0
	m.samples = 0
}
