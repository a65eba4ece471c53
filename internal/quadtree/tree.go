package quadtree

import (
	"math"

	"github.com/san-kum/bhverlet/internal/dynamo"
)

// DefaultMaxDepth bounds recursion for coincident or near-coincident bodies.
const DefaultMaxDepth = 8

type Kind uint8

const (
	Empty Kind = iota
	Leaf
	Internal
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Leaf:
		return "leaf"
	case Internal:
		return "internal"
	}
	return "unknown"
}

// Quadrant indexes the children of a node.
type Quadrant uint8

const (
	NW Quadrant = iota
	NE
	SW
	SE
)

// QuadrantOf assigns (px, py) to a quadrant of a node centred at (cx, cy).
// Points on the vertical centre line go west, points on the horizontal
// centre line go north.
func QuadrantOf(cx, cy, px, py float64) Quadrant {
	switch {
	case px <= cx && py <= cy:
		return NW
	case px > cx && py <= cy:
		return NE
	case px <= cx && py > cy:
		return SW
	default:
		return SE
	}
}

// Handle addresses a node in the arena.
type Handle int32

// None marks a missing child.
const None Handle = -1

// Node is a square cell of the tree.
type Node struct {
	Kind     Kind
	Body     int
	CX, CY   float64
	Size     float64
	Depth    int
	Mass     float64
	ComX     float64
	ComY     float64
	Children [4]Handle
}

// Tree is an arena-backed quadtree over a particle store.
type Tree struct {
	nodes     []Node
	maxDepth  int
	particles *dynamo.Particles
}

func New(maxDepth int) *Tree {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Tree{maxDepth: maxDepth}
}

func (t *Tree) MaxDepth() int { return t.maxDepth }

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns a copy of the root node.
func (t *Tree) Root() Node {
	if len(t.nodes) == 0 {
		return Node{Kind: Empty, Body: -1, Children: [4]Handle{None, None, None, None}}
	}
	return t.nodes[0]
}

// Node returns a copy of the node behind h.
func (t *Tree) Node(h Handle) Node { return t.nodes[h] }

// Reset clears the arena and creates an empty root covering the square of
// side size centred at (cx, cy).
func (t *Tree) Reset(cx, cy, size float64) {
	t.nodes = t.nodes[:0]
	t.alloc(cx, cy, size, 0)
}

// Build rebuilds the tree from p, covering a width x height world, by
// inserting every particle in index order.
func (t *Tree) Build(p *dynamo.Particles, width, height float64) {
	t.particles = p
	t.Reset(width/2, height/2, math.Max(width, height))
	for i := 0; i < p.N; i++ {
		t.insert(0, i)
	}
}

// Insert adds particle i of the store passed to the last Build.
func (t *Tree) Insert(i int) {
	t.insert(0, i)
}

func (t *Tree) alloc(cx, cy, size float64, depth int) Handle {
	t.nodes = append(t.nodes, Node{
		Kind:     Empty,
		Body:     -1,
		CX:       cx,
		CY:       cy,
		Size:     size,
		Depth:    depth,
		Children: [4]Handle{None, None, None, None},
	})
	return Handle(len(t.nodes) - 1)
}

func (t *Tree) insert(h Handle, i int) {
	px, py := t.particles.Position(i)
	m := t.particles.Mass[i]

	for {
		n := &t.nodes[h]
		switch n.Kind {
		case Empty:
			n.Kind = Leaf
			n.Body = i
			n.Mass = m
			n.ComX, n.ComY = px, py
			return

		case Leaf:
			if n.Depth >= t.maxDepth {
				n.Body = i
				n.Mass = m
				n.ComX, n.ComY = px, py
				return
			}
			held := n.Body
			n.Kind = Internal
			n.Body = -1
			// the aggregate already holds the resident body
			t.accumulate(h, px, py, m)
			t.insert(t.child(h, held), held)
			h = t.child(h, i)

		case Internal:
			t.accumulate(h, px, py, m)
			h = t.child(h, i)
		}
	}
}

func (t *Tree) accumulate(h Handle, px, py, m float64) {
	n := &t.nodes[h]
	total := n.Mass + m
	if total != 0 {
		n.ComX = (n.ComX*n.Mass + px*m) / total
		n.ComY = (n.ComY*n.Mass + py*m) / total
	}
	n.Mass = total
}

// child returns the child of h that particle i routes to, creating it.
func (t *Tree) child(h Handle, i int) Handle {
	px, py := t.particles.Position(i)
	n := t.nodes[h]
	q := QuadrantOf(n.CX, n.CY, px, py)
	if c := n.Children[q]; c != None {
		return c
	}

	quarter := n.Size / 4
	cx, cy := n.CX-quarter, n.CY-quarter
	if q == NE || q == SE {
		cx = n.CX + quarter
	}
	if q == SW || q == SE {
		cy = n.CY + quarter
	}

	c := t.alloc(cx, cy, n.Size/2, n.Depth+1)
	t.nodes[h].Children[q] = c
	return c
}

// Walk visits nodes depth first, parents before children. Returning false
// from fn skips the node's subtree.
func (t *Tree) Walk(fn func(h Handle, n Node) bool) {
	if len(t.nodes) == 0 {
		return
	}
	t.walk(0, fn)
}

func (t *Tree) walk(h Handle, fn func(Handle, Node) bool) {
	n := t.nodes[h]
	if !fn(h, n) {
		return
	}
	for _, c := range n.Children {
		if c != None {
			t.walk(c, fn)
		}
	}
}

// Bodies returns the particle indices held by leaves under h.
func (t *Tree) Bodies(h Handle) []int {
	var out []int
	t.walk(h, func(_ Handle, n Node) bool {
		if n.Kind == Leaf {
			out = append(out, n.Body)
		}
		return true
	})
	return out
}
