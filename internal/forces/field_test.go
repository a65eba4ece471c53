package forces_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bhverlet/internal/dynamo"
	"github.com/san-kum/bhverlet/internal/forces"
	"github.com/san-kum/bhverlet/internal/quadtree"
)

func cloud(n int, seed int64) *dynamo.Particles {
	rng := rand.New(rand.NewSource(seed))
	p := dynamo.NewParticles(n)
	for i := 0; i < n; i++ {
		p.Place(i, rng.Float64()*400, rng.Float64()*400)
		p.Mass[i] = 50 + rng.Float64()*100
	}
	return p
}

var _ = Describe("Field", func() {
	It("applies primitives without a tree", func() {
		r := mustRadial(forces.Params{Name: "push", Radius: 10, Strength: 1, Damping: 1})

		p := dynamo.NewParticles(2)
		p.Place(0, 5, 0)
		p.Place(1, 50, 0)
		p.Mass[0], p.Mass[1] = 1, 1

		st := (&forces.Field{Primitives: []forces.Primitive{r}}).Apply(p)
		Expect(st).To(Equal(quadtree.Stats{}))
		Expect(p.Acc[0]).To(BeNumerically("~", 5.0, 1e-12))
		Expect(p.Acc[2]).To(BeZero())
	})

	It("leaves fixed particles alone", func() {
		p := cloud(10, 3)
		p.Fixed[4] = true
		tree := quadtree.New(quadtree.DefaultMaxDepth)
		tree.Build(p, 400, 400)

		(&forces.Field{Tree: tree, Query: quadtree.Query{Theta: 0.5, G: 1}}).Apply(p)

		ax, ay := p.Acceleration(4)
		Expect([]float64{ax, ay}).To(Equal([]float64{0, 0}))
		ax, _ = p.Acceleration(5)
		Expect(ax).NotTo(BeZero())
	})

	It("gives the same result across workers", func() {
		seq := cloud(500, 9)
		par := cloud(500, 9)

		tree := quadtree.New(quadtree.DefaultMaxDepth)
		tree.Build(seq, 400, 400)
		q := quadtree.Query{Theta: 0.7, G: 1}

		s1 := (&forces.Field{Tree: tree, Query: q, Workers: 1}).Apply(seq)
		s2 := (&forces.Field{Tree: tree, Query: q, Workers: 4}).Apply(par)

		Expect(s2).To(Equal(s1))
		Expect(par.Acc).To(Equal(seq.Acc))
	})
})

var _ = Describe("DirectSum", func() {
	It("conserves momentum", func() {
		p := cloud(50, 5)
		ax := make([]float64, p.N)
		ay := make([]float64, p.N)
		forces.DirectSum(p, 1, 0, ax, ay)

		px, py, scale := 0.0, 0.0, 0.0
		for i := 0; i < p.N; i++ {
			px += p.Mass[i] * ax[i]
			py += p.Mass[i] * ay[i]
			scale += p.Mass[i] * math.Hypot(ax[i], ay[i])
		}
		Expect(px).To(BeNumerically("~", 0, 1e-9*scale))
		Expect(py).To(BeNumerically("~", 0, 1e-9*scale))
	})

	It("matches the tree at a tiny opening angle", func() {
		p := cloud(40, 13)
		ax := make([]float64, p.N)
		ay := make([]float64, p.N)
		forces.DirectSum(p, 2, 0, ax, ay)

		tree := quadtree.New(32)
		tree.Build(p, 400, 400)
		for i := 0; i < p.N; i++ {
			x, y := p.Position(i)
			tx, ty, _ := tree.Acceleration(i, x, y, quadtree.Query{Theta: 1e-9, G: 2})
			Expect(tx).To(BeNumerically("~", ax[i], 1e-9*(1+math.Abs(ax[i]))))
			Expect(ty).To(BeNumerically("~", ay[i], 1e-9*(1+math.Abs(ay[i]))))
		}
	})
})
