// Package heaps implements the separation-logic-inspired heap theory
// of spec.md §4.8: in/dom/sep/eq/sub/alloc/assign constraints over a
// points-to graph, plus rewrite rules for their negations. The graph
// itself is gonum's directed simple.Graph (pack: gonum.org/v1/gonum),
// letting reachability/separation queries (dom, sub) reuse gonum's
// traversal rather than a hand-rolled walk.
package heaps

import (
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/term"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// cellNode wraps a term.Var as a gonum graph.Node, one per heap cell.
type cellNode struct {
	id int64
	v  *term.Var
}

func (n cellNode) ID() int64 { return n.id }

// Heap is the points-to graph: an edge x->y means "x points to y"
// (the `assign`/`alloc` relation), one cell per allocated variable.
type Heap struct {
	g      *simple.DirectedGraph
	nodes  map[*term.Var]cellNode
	nextID int64
}

func NewHeap() *Heap {
	return &Heap{g: simple.NewDirectedGraph(), nodes: make(map[*term.Var]cellNode)}
}

func (h *Heap) nodeFor(v *term.Var) cellNode {
	n, ok := h.nodes[v]
	if !ok {
		n = cellNode{id: h.nextID, v: v}
		h.nextID++
		h.nodes[v] = n
		h.g.AddNode(n)
	}
	return n
}

// Alloc records that x is allocated (a fresh heap cell with no
// outgoing edges yet).
func (h *Heap) Alloc(x *term.Var) { h.nodeFor(x) }

// Assign records x -> y (x's cell now points to y's cell), the
// `assign` constraint of spec.md §4.8.
func (h *Heap) Assign(x, y *term.Var) {
	h.g.SetEdge(h.g.NewEdge(h.nodeFor(x), h.nodeFor(y)))
}

// In reports whether y is in the heap reachable from x (the `in`
// constraint), via a breadth-first traverse.Walk over gonum's graph.
func (h *Heap) In(x, y *term.Var) bool {
	target := h.nodeFor(y)
	found := false
	bf := traverse.BreadthFirst{}
	bf.Walk(h.g, h.nodeFor(x), func(n graph.Node, depth int) bool {
		if n.ID() == target.ID() {
			found = true
			return true
		}
		return false
	})
	return found
}

// Sep reports whether the heap reachable from x and the heap
// reachable from y share no cell (the `sep`, separation, constraint).
func (h *Heap) Sep(x, y *term.Var) bool {
	reachX := h.reachableSet(x)
	bf := traverse.BreadthFirst{}
	disjoint := true
	bf.Walk(h.g, h.nodeFor(y), func(n graph.Node, depth int) bool {
		if reachX[n.ID()] {
			disjoint = false
			return true
		}
		return false
	})
	return disjoint
}

// reachableSet returns the cells x points to, transitively, not
// including x's own cell.
func (h *Heap) reachableSet(x *term.Var) map[int64]bool {
	set := make(map[int64]bool)
	bf := traverse.BreadthFirst{}
	bf.Walk(h.g, h.nodeFor(x), func(n graph.Node, depth int) bool {
		if depth > 0 {
			set[n.ID()] = true
		}
		return false
	})
	return set
}

// Sub reports whether every cell reachable from x is also reachable
// from y (the `sub`, sub-heap, constraint).
func (h *Heap) Sub(x, y *term.Var) bool {
	reachY := h.reachableSet(y)
	for id := range h.reachableSet(x) {
		if !reachY[id] {
			return false
		}
	}
	return true
}

// Dom computes the dominance set of x: cells reachable from the heap
// root only through x (the `dom` constraint), approximated here as
// the reachable set from x restricted to cells not reachable from any
// other allocated root.
func (h *Heap) Dom(x *term.Var, roots []*term.Var) (map[*term.Var]bool, error) {
	if _, ok := h.nodes[x]; !ok {
		return nil, core.Errorf(core.KindInternal, "heaps", "Dom",
			"Dom queried against an unallocated cell %s", x.Name)
	}
	own := h.reachableSet(x)
	dom := make(map[*term.Var]bool, len(own))
	for v, n := range h.nodes {
		if own[n.ID()] {
			dom[v] = true
		}
	}
	for _, r := range roots {
		if r == x {
			continue
		}
		for id := range h.reachableSet(r) {
			for v, n := range h.nodes {
				if n.ID() == id {
					delete(dom, v)
				}
			}
		}
	}
	return dom, nil
}
