package dynamo

import "math"

// Buffer names one of the vector buffers of a particle store.
type Buffer uint8

const (
	BufferPosition Buffer = iota
	BufferPrevious
	BufferAcceleration
)

func (b Buffer) String() string {
	switch b {
	case BufferPosition:
		return "position"
	case BufferPrevious:
		return "previous position"
	case BufferAcceleration:
		return "acceleration"
	}
	return "unknown"
}

// Particles holds N particles as parallel fixed-length buffers.
type Particles struct {
	N      int
	Pos    []float64
	Prev   []float64
	Acc    []float64
	Mass   []float64
	Radius []float64
	Fixed  []bool
	Color  []string
}

// NewParticles allocates zeroed buffers for n particles.
func NewParticles(n int) *Particles {
	return &Particles{
		N:      n,
		Pos:    make([]float64, n*2),
		Prev:   make([]float64, n*2),
		Acc:    make([]float64, n*2),
		Mass:   make([]float64, n),
		Radius: make([]float64, n),
		Fixed:  make([]bool, n),
		Color:  make([]string, n),
	}
}

func (p *Particles) Position(i int) (x, y float64) {
	return p.Pos[i*2], p.Pos[i*2+1]
}

func (p *Particles) Previous(i int) (x, y float64) {
	return p.Prev[i*2], p.Prev[i*2+1]
}

func (p *Particles) Acceleration(i int) (x, y float64) {
	return p.Acc[i*2], p.Acc[i*2+1]
}

// Place puts particle i at rest at (x, y).
func (p *Particles) Place(i int, x, y float64) {
	p.Pos[i*2], p.Pos[i*2+1] = x, y
	p.Prev[i*2], p.Prev[i*2+1] = x, y
}

// Velocity returns the implicit per-step displacement of particle i.
func (p *Particles) Velocity(i int) (vx, vy float64) {
	return p.Pos[i*2] - p.Prev[i*2], p.Pos[i*2+1] - p.Prev[i*2+1]
}

// TotalMass sums the mass buffer in index order.
func (p *Particles) TotalMass() float64 {
	total := 0.0
	for _, m := range p.Mass {
		total += m
	}
	return total
}

// Validate checks buffer lengths and that mobile particles have positive mass.
func (p *Particles) Validate() error {
	n := p.N
	if len(p.Pos) != n*2 || len(p.Prev) != n*2 || len(p.Acc) != n*2 ||
		len(p.Mass) != n || len(p.Radius) != n || len(p.Fixed) != n || len(p.Color) != n {
		return ErrDimensionMismatch
	}
	for i := 0; i < n; i++ {
		if p.Fixed[i] {
			continue
		}
		if !(p.Mass[i] > 0) || math.IsInf(p.Mass[i], 0) {
			return &ConfigError{Field: "mass", Value: p.Mass[i], Reason: "must be positive and finite for mobile particles"}
		}
		if p.Radius[i] < 0 || math.IsNaN(p.Radius[i]) || math.IsInf(p.Radius[i], 0) {
			return &ConfigError{Field: "radius", Value: p.Radius[i], Reason: "must be finite and non-negative"}
		}
	}
	return nil
}

// CheckFinite returns the first buffer and particle holding NaN or Inf.
func (p *Particles) CheckFinite() (Buffer, int, bool) {
	bufs := [...]struct {
		name Buffer
		data []float64
	}{
		{BufferPosition, p.Pos},
		{BufferPrevious, p.Prev},
		{BufferAcceleration, p.Acc},
	}
	for _, b := range bufs {
		for k, v := range b.data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return b.name, k / 2, false
			}
		}
	}
	return 0, -1, true
}
