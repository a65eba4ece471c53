package forces

import (
	"sync/atomic"

	"github.com/san-kum/bhverlet/internal/dynamo"
	"github.com/san-kum/bhverlet/internal/quadtree"
)

const minChunk = 64

// Field sums the tree attraction and all primitives into each mobile
// particle's acceleration.
type Field struct {
	Tree       *quadtree.Tree
	Query      quadtree.Query
	Primitives []Primitive
	Workers    int
}

// Apply accumulates accelerations for every non-fixed particle. The tree
// must already be built from p. Each worker owns a disjoint index range.
func (f *Field) Apply(p *dynamo.Particles) quadtree.Stats {
	var approx, exact atomic.Int64

	dynamo.ParallelFor(p.N, f.Workers, minChunk, func(start, end int) {
		var local quadtree.Stats
		for i := start; i < end; i++ {
			if p.Fixed[i] {
				continue
			}
			x, y := p.Position(i)
			ax, ay := f.Evaluate(x, y)
			if f.Tree != nil {
				tx, ty, st := f.Tree.Acceleration(i, x, y, f.Query)
				ax += tx
				ay += ty
				local.Add(st)
			}
			p.Acc[i*2] += ax
			p.Acc[i*2+1] += ay
		}
		approx.Add(local.Approximated)
		exact.Add(local.Exact)
	})

	return quadtree.Stats{Approximated: approx.Load(), Exact: exact.Load()}
}

// Evaluate sums the enabled primitives at (x, y).
func (f *Field) Evaluate(x, y float64) (fx, fy float64) {
	for _, prim := range f.Primitives {
		if !prim.Enabled() {
			continue
		}
		px, py := prim.Evaluate(x, y)
		fx += px
		fy += py
	}
	return fx, fy
}

// Find returns the primitive with the given name.
func (f *Field) Find(name string) (Primitive, bool) {
	for _, prim := range f.Primitives {
		if prim.Name() == name {
			return prim, true
		}
	}
	return nil, false
}
