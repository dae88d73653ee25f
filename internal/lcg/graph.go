// Package lcg builds the local causality graph of a reachability goal and
// derives from it a bound on the length of the paths to explore.
//
// Vertices live in an arena and reference each other by index, so the graph
// may hold cycles while traversals stay iterative.
package lcg

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/anreach/internal/logging"
	"github.com/aretw0/anreach/pkg/domain"
)

const none = -1

type colour uint8

const (
	unvisited colour = iota
	open
	finished
)

// Graph is the local causality graph of one (network, initial, goal) query.
// It is single-use and not safe for concurrent mutation.
type Graph struct {
	net    *domain.Network
	init   domain.Context
	goal   domain.LocalState
	logger *slog.Logger

	vertices []Vertex
	root     int
	built    bool

	// memoization caches, none when absent
	localStates [][]int
	objectives  [][][]int
	transitions [][]int

	// creation order, iterated by the fixpoint
	lsOrder []int
	trOrder []int
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// New prepares the graph of goal from init. The goal and the context must
// exist in net; no vertex is created until Build.
func New(net *domain.Network, init domain.Context, goal domain.LocalState, opts ...Option) (*Graph, error) {
	if err := net.CheckLocalState(goal); err != nil {
		return nil, fmt.Errorf("goal: %w", err)
	}
	if err := net.CheckContext(init); err != nil {
		return nil, fmt.Errorf("initial context: %w", err)
	}
	g := &Graph{
		net:    net,
		init:   init.Clone(),
		goal:   goal,
		logger: logging.NewNop(),
		root:   none,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.localStates = make([][]int, net.NumAutomata())
	g.objectives = make([][][]int, net.NumAutomata())
	g.transitions = make([][]int, net.NumAutomata())
	for a, aut := range net.Automata {
		g.localStates[a] = filled(aut.NumStates())
		g.objectives[a] = make([][]int, aut.NumStates())
		for s := range g.objectives[a] {
			g.objectives[a][s] = filled(aut.NumStates())
		}
		g.transitions[a] = filled(len(aut.Transitions))
	}
	return g, nil
}

func filled(n int) []int {
	res := make([]int, n)
	for i := range res {
		res[i] = none
	}
	return res
}

// Build creates the root and saturates the graph. Calling it again is a
// no-op.
func (g *Graph) Build() {
	if g.built {
		return
	}
	g.built = true
	g.root = g.localState(g.goal.Automaton, g.goal.State)

	rounds := 0
	for changed := true; changed; {
		changed = false
		rounds++
		// lsOrder grows while objectives are created.
		for i := 0; i < len(g.lsOrder); i++ {
			if g.discoverObjectives(g.lsOrder[i]) {
				changed = true
			}
		}
		if g.recenter() {
			changed = true
		}
	}

	st := g.Stats()
	g.logger.Debug("lcg built",
		"root", g.Label(g.root),
		"rounds", rounds,
		"vertices", st.Vertices,
		"edges", st.Edges,
		"local_states", st.LocalStates,
		"objectives", st.Objectives,
	)
}

// discoverObjectives links the local state vertex v to an objective from
// every state its automaton could already occupy.
func (g *Graph) discoverObjectives(v int) bool {
	a, s := g.vertices[v].Automaton, g.vertices[v].State
	modified := false
	for from := 0; from < g.net.Automata[a].NumStates(); from++ {
		if g.objectives[a][from][s] != none {
			continue
		}
		if g.localStates[a][from] == none && g.init[a] != from {
			continue
		}
		if a == g.goal.Automaton && from == g.goal.State {
			continue
		}
		obj := g.objective(a, from, s)
		g.link(v, obj)
		modified = true
	}
	return modified
}

// recenter adds an edge from a transition vertex to the local state of its
// origin when the transition depends, directly or not, on another state of
// its own automaton.
func (g *Graph) recenter() bool {
	changed := false
	for i := 0; i < len(g.trOrder); i++ {
		tv := g.trOrder[i]
		a := g.vertices[tv].Automaton
		origin := g.net.Automata[a].Transitions[g.vertices[tv].Transition].Origin
		for _, d := range g.Descendants(tv) {
			dv := &g.vertices[d]
			if dv.Kind != KindLocalState || dv.Automaton != a || dv.State == origin {
				continue
			}
			rec := g.localState(a, origin)
			if !contains(g.vertices[tv].Succ, rec) {
				g.link(tv, rec)
				changed = true
			}
			break
		}
	}
	return changed
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (g *Graph) add(v Vertex) int {
	g.vertices = append(g.vertices, v)
	return len(g.vertices) - 1
}

func (g *Graph) link(from, to int) {
	g.vertices[from].Succ = append(g.vertices[from].Succ, to)
	g.vertices[to].Pred = append(g.vertices[to].Pred, from)
}

func (g *Graph) localState(a, s int) int {
	if v := g.localStates[a][s]; v != none {
		return v
	}
	v := g.add(Vertex{Kind: KindLocalState, Automaton: a, State: s})
	g.localStates[a][s] = v
	g.lsOrder = append(g.lsOrder, v)
	return v
}

// objective creates the objective and its solutions eagerly.
func (g *Graph) objective(a, from, to int) int {
	if v := g.objectives[a][from][to]; v != none {
		return v
	}
	v := g.add(Vertex{Kind: KindObjective, Automaton: a, From: from, To: to})
	g.objectives[a][from][to] = v

	if from == to {
		g.link(v, g.solution(a, nil))
		return v
	}
	for _, seq := range localPaths(g.net.Automata[a], from, to) {
		g.link(v, g.solution(a, seq))
	}
	return v
}

// solution vertices are never shared between objectives.
func (g *Graph) solution(a int, seq []int) int {
	v := g.add(Vertex{Kind: KindSolution, Automaton: a, Sequence: seq})
	for _, t := range seq {
		g.link(v, g.transition(a, t))
	}
	return v
}

func (g *Graph) transition(a, t int) int {
	if v := g.transitions[a][t]; v != none {
		return v
	}
	v := g.add(Vertex{Kind: KindTransition, Automaton: a, Transition: t})
	g.transitions[a][t] = v
	g.trOrder = append(g.trOrder, v)
	for _, c := range g.net.Automata[a].Transitions[t].Conditions {
		g.link(v, g.localState(c.Automaton, c.State))
	}
	return v
}

// localPaths enumerates every sequence of transitions of aut leading from
// `from` to `to` without visiting a state twice.
func localPaths(aut *domain.Automaton, from, to int) [][]int {
	var res [][]int
	visited := make([]bool, aut.NumStates())
	visited[from] = true
	var seq []int

	var walk func(at int)
	walk = func(at int) {
		if len(seq) > 0 && at == to {
			res = append(res, append([]int(nil), seq...))
			return
		}
		for t, tr := range aut.Transitions {
			if tr.Origin != at || visited[tr.Target] {
				continue
			}
			visited[tr.Target] = true
			seq = append(seq, t)
			walk(tr.Target)
			seq = seq[:len(seq)-1]
			visited[tr.Target] = false
		}
	}
	walk(from)
	return res
}

// HasCycle reports whether a cycle is reachable from the root. It does not
// locate the cycle.
func (g *Graph) HasCycle() bool {
	g.Build()
	status := make([]colour, len(g.vertices))
	pending := []int{g.root}
	for len(pending) > 0 {
		top := pending[len(pending)-1]
		switch status[top] {
		case unvisited:
			status[top] = open
			for _, s := range g.vertices[top].Succ {
				switch status[s] {
				case unvisited:
					pending = append(pending, s)
				case open:
					return true
				}
			}
		case open:
			status[top] = finished
			pending = pending[:len(pending)-1]
		default:
			pending = pending[:len(pending)-1]
		}
	}
	return false
}

// Descendants returns every vertex reachable from v through one or more
// edges, in discovery order.
func (g *Graph) Descendants(v int) []int {
	visited := make([]bool, len(g.vertices))
	var res []int
	pending := make([]int, 0, len(g.vertices[v].Succ))
	for _, s := range g.vertices[v].Succ {
		if !visited[s] {
			visited[s] = true
			res = append(res, s)
			pending = append(pending, s)
		}
	}
	for len(pending) > 0 {
		top := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for _, s := range g.vertices[top].Succ {
			if !visited[s] {
				visited[s] = true
				res = append(res, s)
				pending = append(pending, s)
			}
		}
	}
	return res
}

// Root returns the arena index of LocalState(goal), or -1 before Build.
func (g *Graph) Root() int {
	return g.root
}

// Network returns the network the graph was built on.
func (g *Graph) Network() *domain.Network {
	return g.net
}

// Goal returns the goal local state.
func (g *Graph) Goal() domain.LocalState {
	return g.goal
}

// Vertices returns the arena. The slice must not be modified.
func (g *Graph) Vertices() []Vertex {
	return g.vertices
}

// Vertex returns the vertex at arena index i.
func (g *Graph) Vertex(i int) Vertex {
	return g.vertices[i]
}

// Label renders vertex i, e.g. "a_0 ~> a_1" or "a_0 -> a_1 {b_0}".
func (g *Graph) Label(i int) string {
	return g.vertices[i].label(g.net)
}

// Stats counts the vertices of each kind and the edges.
type Stats struct {
	Vertices    int `json:"vertices"`
	Edges       int `json:"edges"`
	LocalStates int `json:"local_states"`
	Objectives  int `json:"objectives"`
	Solutions   int `json:"solutions"`
	Transitions int `json:"transitions"`
}

// Stats returns the size of the graph.
func (g *Graph) Stats() Stats {
	st := Stats{Vertices: len(g.vertices)}
	for _, v := range g.vertices {
		st.Edges += len(v.Succ)
		switch v.Kind {
		case KindLocalState:
			st.LocalStates++
		case KindObjective:
			st.Objectives++
		case KindSolution:
			st.Solutions++
		case KindTransition:
			st.Transitions++
		}
	}
	return st
}
