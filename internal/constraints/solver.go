// Package constraints relaxes particle positions after integration so that
// circles do not overlap and stay inside the world.
//
// Both checks run on apparent positions and radii produced by a warp, so a
// lens that magnifies a region also makes the particles in it collide at
// their displayed size. Corrections are written to true positions.
package constraints

import (
	"math"

	"github.com/san-kum/bhverlet/internal/dynamo"
	"github.com/san-kum/bhverlet/internal/warp"
)

// DefaultIterations is the number of relaxation passes per step.
const DefaultIterations = 4

// Solver runs a fixed number of Gauss-Seidel style relaxation passes.
type Solver struct {
	Iterations int
	Bounds     bool
	Width      float64
	Height     float64
	Warp       warp.Warp
}

func New(iterations int, width, height float64, bounds bool, w warp.Warp) *Solver {
	if w == nil {
		w = warp.Identity{}
	}
	return &Solver{
		Iterations: iterations,
		Bounds:     bounds,
		Width:      width,
		Height:     height,
		Warp:       w,
	}
}

// Solve runs all passes and returns the number of corrections applied.
// Cost is O(Iterations·N²).
func (s *Solver) Solve(p *dynamo.Particles) int {
	corrections := 0
	for it := 0; it < s.Iterations; it++ {
		for j := 0; j < p.N; j++ {
			a, ra := s.apparent(p, j)

			if s.Bounds && !p.Fixed[j] && s.contain(p, j, a, ra) {
				corrections++
				a, ra = s.apparent(p, j)
			}

			for k := 0; k < p.N; k++ {
				if k == j {
					continue
				}
				if s.separate(p, j, k, a, ra) {
					corrections++
					a, ra = s.apparent(p, j)
				}
			}
		}
	}
	return corrections
}

func (s *Solver) apparent(p *dynamo.Particles, i int) (warp.Point, float64) {
	pt := s.Warp.Apply(p.Pos[i*2], p.Pos[i*2+1])
	return pt, p.Radius[i] * pt.Scale
}

// contain clamps particle j into [r, max-r] on each axis. The previous
// coordinate is rewritten so the next implicit velocity is
// (previous - current)·0.5: reflected off the wall at half speed.
func (s *Solver) contain(p *dynamo.Particles, j int, a warp.Point, r float64) bool {
	moved := false
	idx := j * 2

	switch {
	case a.X < r:
		reflect(p, idx, r)
		moved = true
	case a.X > s.Width-r:
		reflect(p, idx, s.Width-r)
		moved = true
	}

	switch {
	case a.Y < r:
		reflect(p, idx+1, r)
		moved = true
	case a.Y > s.Height-r:
		reflect(p, idx+1, s.Height-r)
		moved = true
	}

	return moved
}

func reflect(p *dynamo.Particles, k int, boundary float64) {
	v := (p.Prev[k] - p.Pos[k]) * 0.5
	p.Pos[k] = boundary
	p.Prev[k] = boundary - v
}

// separate pushes j and k apart along the line joining their apparent
// centres until the apparent circles touch. Coincident centres are split
// along +x from j to k.
func (s *Solver) separate(p *dynamo.Particles, j, k int, a warp.Point, ra float64) bool {
	wj, wk := 1.0, 1.0
	switch {
	case p.Fixed[j] && p.Fixed[k]:
		return false
	case p.Fixed[j]:
		wj, wk = 0, 2
	case p.Fixed[k]:
		wj, wk = 2, 0
	}

	b, rb := s.apparent(p, k)
	dx := b.X - a.X
	dy := b.Y - a.Y
	d2 := dx*dx + dy*dy
	sum := ra + rb
	if d2 >= sum*sum {
		return false
	}

	var cx, cy float64
	if d2 == 0 {
		cx = -sum * 0.5
	} else {
		d := math.Sqrt(d2)
		diff := (d - sum) / d
		cx = dx * 0.5 * diff
		cy = dy * 0.5 * diff
	}

	p.Pos[j*2] += cx * wj
	p.Pos[j*2+1] += cy * wj
	p.Pos[k*2] -= cx * wk
	p.Pos[k*2+1] -= cy * wk
	return true
}
