package constraints_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bhverlet/internal/constraints"
	"github.com/san-kum/bhverlet/internal/dynamo"
	"github.com/san-kum/bhverlet/internal/warp"
)

func particles(radius float64, pts ...[2]float64) *dynamo.Particles {
	p := dynamo.NewParticles(len(pts))
	for i, pt := range pts {
		p.Place(i, pt[0], pt[1])
		p.Mass[i] = 1
		p.Radius[i] = radius
	}
	return p
}

func distance(p *dynamo.Particles, i, j int) float64 {
	xi, yi := p.Position(i)
	xj, yj := p.Position(j)
	return math.Hypot(xj-xi, yj-yi)
}

var _ = Describe("Solver", func() {
	Describe("pairwise overlap", func() {
		It("separates two overlapping circles to the sum of their radii", func() {
			p := particles(5, [2]float64{50, 50}, [2]float64{56, 50})
			s := constraints.New(1, 100, 100, false, nil)

			Expect(s.Solve(p)).To(Equal(1))
			Expect(distance(p, 0, 1)).To(BeNumerically("~", 10, 1e-9))

			x0, _ := p.Position(0)
			x1, _ := p.Position(1)
			Expect(x0).To(BeNumerically("~", 48, 1e-9))
			Expect(x1).To(BeNumerically("~", 58, 1e-9))
		})

		It("leaves touching circles alone", func() {
			p := particles(5, [2]float64{20, 20}, [2]float64{30, 20})
			s := constraints.New(3, 100, 100, false, nil)
			Expect(s.Solve(p)).To(BeZero())
			Expect(distance(p, 0, 1)).To(Equal(10.0))
		})

		It("splits coincident circles along x without NaN", func() {
			p := particles(5, [2]float64{40, 40}, [2]float64{40, 40})
			s := constraints.New(1, 100, 100, false, nil)
			s.Solve(p)

			x0, y0 := p.Position(0)
			x1, y1 := p.Position(1)
			Expect(x0).To(Equal(35.0))
			Expect(x1).To(Equal(45.0))
			Expect(y0).To(Equal(40.0))
			Expect(y1).To(Equal(40.0))
			_, _, ok := p.CheckFinite()
			Expect(ok).To(BeTrue())
		})

		It("moves only the mobile side when its partner is fixed", func() {
			p := particles(5, [2]float64{50, 50}, [2]float64{56, 50})
			p.Fixed[0] = true
			constraints.New(1, 100, 100, false, nil).Solve(p)

			x0, _ := p.Position(0)
			Expect(x0).To(Equal(50.0))
			Expect(distance(p, 0, 1)).To(BeNumerically("~", 10, 1e-9))
		})

		It("never moves two fixed particles", func() {
			p := particles(5, [2]float64{50, 50}, [2]float64{52, 50})
			p.Fixed[0], p.Fixed[1] = true, true
			Expect(constraints.New(2, 100, 100, true, nil).Solve(p)).To(BeZero())
		})

		It("relaxes a pile towards non-overlap over several passes", func() {
			p := particles(4,
				[2]float64{50, 50}, [2]float64{53, 50}, [2]float64{56, 50},
				[2]float64{50, 53}, [2]float64{53, 53}, [2]float64{56, 53},
			)
			constraints.New(20, 200, 200, true, nil).Solve(p)

			for i := 0; i < p.N; i++ {
				for j := i + 1; j < p.N; j++ {
					Expect(distance(p, i, j)).To(BeNumerically(">", 8*0.98))
				}
			}
		})

		It("collides at the magnified size inside a lens", func() {
			cfg := warp.DefaultFisheyeConfig()
			cfg.FocusX, cfg.FocusY = 50, 50
			lens, err := warp.NewFisheye(cfg)
			Expect(err).NotTo(HaveOccurred())

			p := particles(5, [2]float64{47, 50}, [2]float64{53, 50})
			constraints.New(1, 100, 100, false, lens).Solve(p)
			Expect(distance(p, 0, 1)).To(BeNumerically(">", 10))
		})
	})

	Describe("bounds", func() {
		It("clamps a particle that crossed the left wall", func() {
			p := particles(5, [2]float64{-3, 50})
			constraints.New(1, 100, 100, true, nil).Solve(p)

			x, y := p.Position(0)
			Expect(x).To(BeNumerically(">=", 5))
			Expect(y).To(Equal(50.0))
		})

		It("reflects the implicit velocity at half speed", func() {
			p := particles(5, [2]float64{-3, 50})
			p.Prev[0] = 1 // moving left at 4 units per step
			constraints.New(1, 100, 100, true, nil).Solve(p)

			x, _ := p.Position(0)
			vx, vy := p.Velocity(0)
			Expect(x).To(Equal(5.0))
			Expect(vx).To(BeNumerically("~", 2, 1e-12))
			Expect(vy).To(BeZero())
		})

		It("clamps against the far walls", func() {
			p := particles(5, [2]float64{99, 120})
			constraints.New(1, 100, 100, true, nil).Solve(p)

			x, y := p.Position(0)
			Expect(x).To(Equal(95.0))
			Expect(y).To(Equal(95.0))
		})

		It("ignores the walls when bounds are off", func() {
			p := particles(5, [2]float64{-3, 50})
			Expect(constraints.New(1, 100, 100, false, nil).Solve(p)).To(BeZero())
			x, _ := p.Position(0)
			Expect(x).To(Equal(-3.0))
		})

		It("keeps fixed particles where they are", func() {
			p := particles(5, [2]float64{-3, 50})
			p.Fixed[0] = true
			constraints.New(1, 100, 100, true, nil).Solve(p)
			x, _ := p.Position(0)
			Expect(x).To(Equal(-3.0))
		})
	})
})
