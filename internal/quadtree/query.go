package quadtree

import "math"

// Query holds the parameters of a force evaluation.
type Query struct {
	Theta     float64
	G         float64
	Softening float64
}

// Stats counts how a query resolved the tree.
type Stats struct {
	Approximated int64
	Exact        int64
}

func (s *Stats) Add(o Stats) {
	s.Approximated += o.Approximated
	s.Exact += o.Exact
}

type accum struct {
	ax, ay float64
	stats  Stats
}

// Acceleration returns the tree-approximated attraction on particle target
// located at (x, y). The tree is only read, so concurrent queries are safe.
func (t *Tree) Acceleration(target int, x, y float64, q Query) (ax, ay float64, st Stats) {
	if len(t.nodes) == 0 {
		return 0, 0, Stats{}
	}
	var acc accum
	t.visit(0, target, x, y, &q, &acc)
	return acc.ax, acc.ay, acc.stats
}

func (t *Tree) visit(h Handle, target int, x, y float64, q *Query, acc *accum) {
	n := &t.nodes[h]
	switch n.Kind {
	case Empty:
		return

	case Leaf:
		if n.Body == target {
			return
		}
		if pull(n, x, y, q, acc) {
			acc.stats.Exact++
		}

	case Internal:
		dx := n.ComX - x
		dy := n.ComY - y
		d := math.Sqrt(dx*dx + dy*dy)
		if n.Size/d < q.Theta {
			if pull(n, x, y, q, acc) {
				acc.stats.Approximated++
			}
			return
		}
		for _, c := range n.Children {
			if c != None {
				t.visit(c, target, x, y, q, acc)
			}
		}
	}
}

// pull adds the attraction of n's aggregate body. A body at distance zero
// has no direction and contributes nothing.
func pull(n *Node, x, y float64, q *Query, acc *accum) bool {
	dx := n.ComX - x
	dy := n.ComY - y
	d2 := dx*dx + dy*dy
	if d2 == 0 {
		return false
	}
	d := math.Sqrt(d2)
	mag := q.G * n.Mass / (d2 + q.Softening*q.Softening)
	acc.ax += mag * dx / d
	acc.ay += mag * dy / d
	return true
}
