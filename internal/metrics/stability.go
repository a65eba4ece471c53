package metrics

import (
	"math"

	"github.com/san-kum/bhverlet/internal/dynamo"
)

// Containment is the fraction of observed steps in which every particle
// centre lay inside the world rectangle.
type Containment struct {
	name       string
	width      float64
	height     float64
	violations int
	samples    int
}

func NewContainment(width, height float64) *Containment {
	return &Containment{
		name:   "containment",
		width:  width,
		height: height,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(p *dynamo.Particles, t float64) {
	c.samples++
	for i := 0; i < p.N; i++ {
		x, y := p.Position(i)
		if x < 0 || x > c.width || y < 0 || y > c.height {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// MaxOverlap returns the deepest circle-circle penetration using true
// positions and radii. O(N²).
func MaxOverlap(p *dynamo.Particles) float64 {
	worst := 0.0
	for i := 0; i < p.N; i++ {
		xi, yi := p.Position(i)
		for j := i + 1; j < p.N; j++ {
			xj, yj := p.Position(j)
			sum := p.Radius[i] + p.Radius[j]
			d := math.Hypot(xj-xi, yj-yi)
			if d < sum {
				worst = math.Max(worst, sum-d)
			}
		}
	}
	return worst
}

// Overlap reports the deepest penetration seen over the run.
type Overlap struct {
	name  string
	worst float64
	last  float64
}

func NewOverlap() *Overlap {
	return &Overlap{name: "max_overlap"}
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(p *dynamo.Particles, t float64) {
	o.last = MaxOverlap(p)
	o.worst = math.Max(o.worst, o.last)
}

// Last is the deepest penetration at the most recent step.
func (o *Overlap) Last() float64 { return o.last }

func (o *Overlap) Value() float64 { return o.worst }

func (o *Overlap) Reset() {
	o.worst = 0
	o.last = 0
}
