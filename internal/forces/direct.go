package forces

import (
	"math"

	"github.com/san-kum/bhverlet/internal/dynamo"
)

// DirectSum computes the exact pairwise attraction on every particle in
// O(N²), writing accelerations into ax and ay. It is the reference the tree
// approximation is measured against.
func DirectSum(p *dynamo.Particles, g, softening float64, ax, ay []float64) {
	n := p.N
	for i := range ax[:n] {
		ax[i] = 0
		ay[i] = 0
	}
	eps2 := softening * softening

	for i := 0; i < n; i++ {
		xi, yi := p.Position(i)

		for j := i + 1; j < n; j++ {
			xj, yj := p.Position(j)

			rx := xj - xi
			ry := yj - yi
			d2 := rx*rx + ry*ry
			if d2 == 0 {
				continue
			}

			d := math.Sqrt(d2)
			inv := 1.0 / ((d2 + eps2) * d)

			fij := g * p.Mass[j] * inv
			ax[i] += fij * rx
			ay[i] += fij * ry

			fji := g * p.Mass[i] * inv
			ax[j] -= fji * rx
			ay[j] -= fji * ry
		}
	}
}
