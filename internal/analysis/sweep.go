package analysis

import (
	"math"
	"time"

	"github.com/san-kum/bhverlet/internal/forces"
	"github.com/san-kum/bhverlet/internal/quadtree"
	"github.com/san-kum/bhverlet/internal/sim"
)

// SweepPoint is the result for one opening angle.
type SweepPoint struct {
	Theta float64
	// MeanError is the mean over particles of |a_tree - a_exact| / |a_exact|.
	MeanError float64
	MaxError  float64
	// TotalError is Σ|a_tree - a_exact| / Σ|a_exact|, which is not
	// dominated by particles whose pulls nearly cancel.
	TotalError   float64
	Approximated int64
	Exact        int64
	Duration     time.Duration
}

// ThetaSweep places particles as cfg describes, computes the exact pairwise
// attraction once, then evaluates the tree at each θ on the same placement.
// Particles with zero exact acceleration are left out of the error.
func ThetaSweep(cfg sim.Config, thetas []float64) ([]SweepPoint, error) {
	s, err := sim.New(cfg)
	if err != nil {
		return nil, err
	}
	p := s.Particles()

	exactX := make([]float64, p.N)
	exactY := make([]float64, p.N)
	forces.DirectSum(p, cfg.G, cfg.Softening, exactX, exactY)

	tree := quadtree.New(cfg.MaxDepth)
	results := make([]SweepPoint, 0, len(thetas))

	for _, theta := range thetas {
		pt := SweepPoint{Theta: theta}
		q := quadtree.Query{Theta: theta, G: cfg.G, Softening: cfg.Softening}

		start := time.Now()
		tree.Build(p, cfg.Width, cfg.Height)

		sum, count := 0.0, 0
		errSum, refSum := 0.0, 0.0
		for i := 0; i < p.N; i++ {
			x, y := p.Position(i)
			ax, ay, st := tree.Acceleration(i, x, y, q)
			pt.Approximated += st.Approximated
			pt.Exact += st.Exact

			ref := math.Hypot(exactX[i], exactY[i])
			if ref == 0 {
				continue
			}
			diff := math.Hypot(ax-exactX[i], ay-exactY[i])
			errSum += diff
			refSum += ref
			e := diff / ref
			sum += e
			count++
			pt.MaxError = math.Max(pt.MaxError, e)
		}
		pt.Duration = time.Since(start)

		if count > 0 {
			pt.MeanError = sum / float64(count)
			pt.TotalError = errSum / refSum
		}
		results = append(results, pt)
	}

	return results, nil
}
