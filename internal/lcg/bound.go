package lcg

import (
	"strconv"

	"github.com/aretw0/anreach/pkg/domain"
)

// Bound is a step count derived from the graph, or Unbounded.
type Bound int

// Unbounded is the sentinel for a vertex with no finite bound.
const Unbounded Bound = -1

// Finite reports whether b is a usable step count.
func (b Bound) Finite() bool {
	return b >= 0
}

func (b Bound) String() string {
	if !b.Finite() {
		return "unbounded"
	}
	return strconv.Itoa(int(b))
}

type boundRule struct {
	seed Bound
	max  bool
}

// LocalState and Objective take the maximum over alternatives, where an
// unbounded alternative is ignored when a finite one exists. Solution and
// Transition sum their dependencies and any unbounded dependency makes the
// whole vertex unbounded.
var boundRules = [...]boundRule{
	KindLocalState: {seed: Unbounded, max: true},
	KindObjective:  {seed: Unbounded, max: true},
	KindSolution:   {seed: 0},
	KindTransition: {seed: 1},
}

// Combine computes the bound of a vertex of kind k from the bounds of its
// successors.
func Combine(k Kind, succ []Bound) Bound {
	r := boundRules[k]
	acc := r.seed
	for _, b := range succ {
		if r.max {
			if b > acc {
				acc = b
			}
			continue
		}
		if !b.Finite() {
			return Unbounded
		}
		acc += b
	}
	return acc
}

// ComputeBound returns the recommended path length for the goal: the bound
// of the root plus one. The graph must be acyclic; on a cyclic graph it
// returns ErrCyclicGraph without evaluating anything.
func (g *Graph) ComputeBound() (Bound, error) {
	g.Build()
	if g.HasCycle() {
		return Unbounded, domain.ErrCyclicGraph
	}
	bounds := g.evaluate()
	root := bounds[g.root]
	g.logger.Debug("lcg bound computed", "root_bound", root.String())
	if !root.Finite() {
		return Unbounded, nil
	}
	return root + 1, nil
}

// Bounds returns the bound of every vertex. The graph must be acyclic.
func (g *Graph) Bounds() ([]Bound, error) {
	g.Build()
	if g.HasCycle() {
		return nil, domain.ErrCyclicGraph
	}
	return g.evaluate(), nil
}

// evaluate runs the post-order evaluation from the root. Vertices not
// reachable from the root keep Unbounded.
func (g *Graph) evaluate() []Bound {
	status := make([]colour, len(g.vertices))
	bounds := make([]Bound, len(g.vertices))
	for i := range bounds {
		bounds[i] = Unbounded
	}

	pending := []int{g.root}
	succ := make([]Bound, 0, 8)
	for len(pending) > 0 {
		top := pending[len(pending)-1]
		switch status[top] {
		case finished:
			pending = pending[:len(pending)-1]
		case open:
			succ = succ[:0]
			for _, s := range g.vertices[top].Succ {
				succ = append(succ, bounds[s])
			}
			bounds[top] = Combine(g.vertices[top].Kind, succ)
			status[top] = finished
			pending = pending[:len(pending)-1]
		case unvisited:
			status[top] = open
			children := g.vertices[top].Succ
			for i := len(children) - 1; i >= 0; i-- {
				if status[children[i]] == unvisited {
					pending = append(pending, children[i])
				}
			}
		}
	}
	return bounds
}
