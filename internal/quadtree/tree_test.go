package quadtree_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bhverlet/internal/dynamo"
	"github.com/san-kum/bhverlet/internal/quadtree"
)

func randomParticles(n int, seed int64, size float64) *dynamo.Particles {
	rng := rand.New(rand.NewSource(seed))
	p := dynamo.NewParticles(n)
	for i := 0; i < n; i++ {
		p.Place(i, rng.Float64()*size, rng.Float64()*size)
		p.Mass[i] = 1 + rng.Float64()*100
	}
	return p
}

func directAcceleration(p *dynamo.Particles, target int, g float64) (float64, float64) {
	x, y := p.Position(target)
	ax, ay := 0.0, 0.0
	for j := 0; j < p.N; j++ {
		if j == target {
			continue
		}
		jx, jy := p.Position(j)
		dx, dy := jx-x, jy-y
		d2 := dx*dx + dy*dy
		if d2 == 0 {
			continue
		}
		d := math.Sqrt(d2)
		ax += g * p.Mass[j] / d2 * dx / d
		ay += g * p.Mass[j] / d2 * dy / d
	}
	return ax, ay
}

var _ = Describe("QuadrantOf", func() {
	DescribeTable("assigns points deterministically",
		func(px, py float64, want quadtree.Quadrant) {
			Expect(quadtree.QuadrantOf(10, 10, px, py)).To(Equal(want))
		},
		Entry("strictly north-west", 5.0, 5.0, quadtree.NW),
		Entry("strictly north-east", 15.0, 5.0, quadtree.NE),
		Entry("strictly south-west", 5.0, 15.0, quadtree.SW),
		Entry("strictly south-east", 15.0, 15.0, quadtree.SE),
		Entry("exact centre", 10.0, 10.0, quadtree.NW),
		Entry("on vertical line, north", 10.0, 5.0, quadtree.NW),
		Entry("on vertical line, south", 10.0, 15.0, quadtree.SW),
		Entry("on horizontal line, east", 15.0, 10.0, quadtree.NE),
		Entry("on horizontal line, west", 5.0, 10.0, quadtree.NW),
	)

	It("is reproducible across calls", func() {
		for i := 0; i < 100; i++ {
			Expect(quadtree.QuadrantOf(0, 0, 0, 0)).To(Equal(quadtree.NW))
		}
	})
})

var _ = Describe("Tree", func() {
	var tree *quadtree.Tree

	BeforeEach(func() {
		tree = quadtree.New(quadtree.DefaultMaxDepth)
	})

	Describe("Build", func() {
		It("produces an empty root for an empty store", func() {
			tree.Build(dynamo.NewParticles(0), 100, 100)
			Expect(tree.Root().Kind).To(Equal(quadtree.Empty))
			Expect(tree.Len()).To(Equal(1))
		})

		It("makes a single particle a leaf with its own aggregate", func() {
			p := dynamo.NewParticles(1)
			p.Place(0, 30, 70)
			p.Mass[0] = 4
			tree.Build(p, 100, 100)

			root := tree.Root()
			Expect(root.Kind).To(Equal(quadtree.Leaf))
			Expect(root.Body).To(Equal(0))
			Expect(root.Mass).To(Equal(4.0))
			Expect(root.ComX).To(Equal(30.0))
			Expect(root.ComY).To(Equal(70.0))
		})

		It("covers the world with a square root", func() {
			tree.Build(randomParticles(3, 1, 50), 200, 100)
			root := tree.Root()
			Expect(root.CX).To(Equal(100.0))
			Expect(root.CY).To(Equal(50.0))
			Expect(root.Size).To(Equal(200.0))
		})

		It("places children a quarter size off the parent centre", func() {
			p := dynamo.NewParticles(2)
			p.Place(0, 10, 10)
			p.Place(1, 90, 90)
			p.Mass[0], p.Mass[1] = 1, 1
			tree.Build(p, 100, 100)

			root := tree.Root()
			Expect(root.Kind).To(Equal(quadtree.Internal))
			nw := tree.Node(root.Children[quadtree.NW])
			se := tree.Node(root.Children[quadtree.SE])
			Expect([]float64{nw.CX, nw.CY, nw.Size}).To(Equal([]float64{25, 25, 50}))
			Expect([]float64{se.CX, se.CY, se.Size}).To(Equal([]float64{75, 75, 50}))
			Expect(root.Children[quadtree.NE]).To(Equal(quadtree.None))
			Expect(root.Children[quadtree.SW]).To(Equal(quadtree.None))
		})

		DescribeTable("conserves mass at the root",
			func(n int, seed int64) {
				p := randomParticles(n, seed, 800)
				tree.Build(p, 800, 800)
				Expect(tree.Root().Mass).To(BeNumerically("~", p.TotalMass(), 1e-9*p.TotalMass()))
			},
			Entry("two bodies", 2, int64(1)),
			Entry("small cloud", 17, int64(2)),
			Entry("medium cloud", 200, int64(3)),
			Entry("large cloud", 2000, int64(4)),
		)

		It("accumulates the true centre of mass in every node", func() {
			tree = quadtree.New(32)
			p := randomParticles(40, 7, 100)
			tree.Build(p, 100, 100)

			tree.Walk(func(h quadtree.Handle, n quadtree.Node) bool {
				if n.Kind == quadtree.Empty {
					return true
				}
				bodies := tree.Bodies(h)
				mass, cx, cy := 0.0, 0.0, 0.0
				for _, b := range bodies {
					x, y := p.Position(b)
					mass += p.Mass[b]
					cx += x * p.Mass[b]
					cy += y * p.Mass[b]
				}
				Expect(n.Mass).To(BeNumerically("~", mass, 1e-9))
				Expect(n.ComX).To(BeNumerically("~", cx/mass, 1e-9))
				Expect(n.ComY).To(BeNumerically("~", cy/mass, 1e-9))
				return true
			})
		})

		It("holds every particle in exactly one leaf", func() {
			tree = quadtree.New(32)
			p := randomParticles(300, 11, 500)
			tree.Build(p, 500, 500)
			bodies := tree.Bodies(0)
			Expect(bodies).To(HaveLen(300))
			Expect(bodies).To(ConsistOf(func() []any {
				out := make([]any, 300)
				for i := range out {
					out[i] = i
				}
				return out
			}()...))
		})

		It("overwrites the resident body at the depth limit", func() {
			tree = quadtree.New(3)
			p := dynamo.NewParticles(2)
			p.Place(0, 40, 40)
			p.Place(1, 40, 40)
			p.Mass[0], p.Mass[1] = 2, 3
			tree.Build(p, 100, 100)

			Expect(tree.Root().Mass).To(Equal(5.0))
			Expect(tree.Bodies(0)).To(Equal([]int{1}))

			maxDepth := 0
			tree.Walk(func(_ quadtree.Handle, n quadtree.Node) bool {
				if n.Depth > maxDepth {
					maxDepth = n.Depth
				}
				return true
			})
			Expect(maxDepth).To(Equal(3))
		})

		It("reuses the arena between builds", func() {
			p := randomParticles(100, 5, 100)
			tree.Build(p, 100, 100)
			first := tree.Len()
			tree.Build(p, 100, 100)
			Expect(tree.Len()).To(Equal(first))
		})
	})

	Describe("Acceleration", func() {
		q := quadtree.Query{Theta: 0.5, G: 1}

		It("excludes the target itself", func() {
			p := dynamo.NewParticles(1)
			p.Place(0, 10, 10)
			p.Mass[0] = 1
			tree.Build(p, 100, 100)
			ax, ay, st := tree.Acceleration(0, 10, 10, q)
			Expect(ax).To(BeZero())
			Expect(ay).To(BeZero())
			Expect(st).To(Equal(quadtree.Stats{}))
		})

		It("follows the inverse-square law for a pair", func() {
			p := dynamo.NewParticles(2)
			p.Place(0, 10, 50)
			p.Place(1, 30, 50)
			p.Mass[0], p.Mass[1] = 1, 8
			tree.Build(p, 100, 100)

			ax, ay, st := tree.Acceleration(0, 10, 50, quadtree.Query{Theta: 0.5, G: 2})
			Expect(ax).To(BeNumerically("~", 2*8.0/400, 1e-12))
			Expect(ay).To(BeNumerically("~", 0, 1e-12))
			Expect(st.Exact).To(Equal(int64(1)))
		})

		It("matches the direct sum when theta is tiny", func() {
			tree = quadtree.New(32)
			p := randomParticles(64, 21, 400)
			tree.Build(p, 400, 400)

			for i := 0; i < p.N; i++ {
				x, y := p.Position(i)
				ax, ay, st := tree.Acceleration(i, x, y, quadtree.Query{Theta: 1e-9, G: 1})
				ex, ey := directAcceleration(p, i, 1)
				Expect(ax).To(BeNumerically("~", ex, 1e-9*(1+math.Abs(ex))))
				Expect(ay).To(BeNumerically("~", ey, 1e-9*(1+math.Abs(ey))))
				Expect(st.Approximated).To(BeZero())
				Expect(st.Exact).To(Equal(int64(p.N - 1)))
			}
		})

		It("approximates distant clusters with a larger theta", func() {
			tree = quadtree.New(32)
			p := randomParticles(500, 33, 1000)
			tree.Build(p, 1000, 1000)

			var total quadtree.Stats
			errSum, magSum := 0.0, 0.0
			for i := 0; i < p.N; i++ {
				x, y := p.Position(i)
				ax, ay, st := tree.Acceleration(i, x, y, quadtree.Query{Theta: 0.5, G: 1})
				total.Add(st)
				ex, ey := directAcceleration(p, i, 1)
				errSum += math.Hypot(ax-ex, ay-ey)
				magSum += math.Hypot(ex, ey)
			}
			Expect(total.Approximated).To(BeNumerically(">", 0))
			Expect(total.Approximated + total.Exact).To(BeNumerically("<", int64(p.N*(p.N-1))))
			Expect(errSum / magSum).To(BeNumerically("<", 0.1))
		})

		It("stays finite for coincident bodies", func() {
			tree = quadtree.New(2)
			p := dynamo.NewParticles(3)
			p.Place(0, 20, 20)
			p.Place(1, 20, 20)
			p.Place(2, 80, 80)
			for i := range p.Mass {
				p.Mass[i] = 1
			}
			tree.Build(p, 100, 100)

			for i := 0; i < p.N; i++ {
				x, y := p.Position(i)
				ax, ay, _ := tree.Acceleration(i, x, y, q)
				Expect(math.IsNaN(ax) || math.IsInf(ax, 0)).To(BeFalse())
				Expect(math.IsNaN(ay) || math.IsInf(ay, 0)).To(BeFalse())
			}
		})

		It("applies softening to the squared distance", func() {
			p := dynamo.NewParticles(2)
			p.Place(0, 0, 0)
			p.Place(1, 3, 4)
			p.Mass[0], p.Mass[1] = 1, 1
			tree.Build(p, 10, 10)

			ax, ay, _ := tree.Acceleration(0, 0, 0, quadtree.Query{Theta: 0.5, G: 1, Softening: 5})
			Expect(math.Hypot(ax, ay)).To(BeNumerically("~", 1.0/50, 1e-12))
		})
	})
})
