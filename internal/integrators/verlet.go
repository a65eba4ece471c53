package integrators

import "github.com/san-kum/bhverlet/internal/dynamo"

// DefaultDrag is the fraction of implicit velocity lost per step.
const DefaultDrag = 0.05

// Verlet is a fixed-step position-based integrator. Velocity is implicit in
// the difference between the current and previous positions.
type Verlet struct {
	Dt    float64
	Drag  float64
	time  float64
	steps int
}

func NewVerlet(dt, drag float64) *Verlet {
	return &Verlet{Dt: dt, Drag: drag}
}

// Step advances every mobile particle and consumes its acceleration.
// Fixed particles are left untouched.
func (v *Verlet) Step(p *dynamo.Particles) {
	damp := 1 - v.Drag
	dt2 := v.Dt * v.Dt * damp

	for i := 0; i < p.N; i++ {
		if p.Fixed[i] {
			continue
		}

		idx := i * 2
		x, y := p.Pos[idx], p.Pos[idx+1]

		vx := (x - p.Prev[idx]) * damp
		vy := (y - p.Prev[idx+1]) * damp

		p.Pos[idx] = x + vx + p.Acc[idx]*dt2
		p.Pos[idx+1] = y + vy + p.Acc[idx+1]*dt2

		p.Prev[idx], p.Prev[idx+1] = x, y
		p.Acc[idx], p.Acc[idx+1] = 0, 0
	}

	v.time += v.Dt
	v.steps++
}

func (v *Verlet) Time() float64 { return v.time }
func (v *Verlet) Steps() int    { return v.steps }

func (v *Verlet) Reset() {
	v.time = 0
	v.steps = 0
}
