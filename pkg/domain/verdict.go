package domain

import (
	"fmt"
	"time"
)

// Outcome classifies the answer to a query. Negative answers are outcomes,
// not errors.
type Outcome string

const (
	// OutcomeReachable means a witnessing trace was found.
	OutcomeReachable Outcome = "reachable"
	// OutcomeUnreachable means no path exists up to a completeness bound
	// derived from the causality graph.
	OutcomeUnreachable Outcome = "unreachable"
	// OutcomeInconclusive means no path exists for the tested length only.
	OutcomeInconclusive Outcome = "inconclusive"
	// OutcomeCyclic means the causality graph has a cycle and no bound exists.
	OutcomeCyclic Outcome = "cyclic"
	// OutcomeUnbounded means the causality graph is acyclic but yields no
	// finite bound.
	OutcomeUnbounded Outcome = "unbounded"
	// OutcomeComplete means the induction check proved the length is a
	// completeness bound.
	OutcomeComplete Outcome = "complete"
	// OutcomeNotComplete means the induction check found a counterexample.
	OutcomeNotComplete Outcome = "not-complete"
)

// Positive reports whether the outcome carries a trace.
func (o Outcome) Positive() bool {
	return o == OutcomeReachable || o == OutcomeNotComplete
}

// Step is one global context of a trace.
type Step struct {
	Index   int     `json:"index"`
	State   Context `json:"state"`
	Changed []int   `json:"changed,omitempty"`
}

// HasChanged reports whether automaton a moved into this step.
func (s Step) HasChanged(a int) bool {
	for _, c := range s.Changed {
		if c == a {
			return true
		}
	}
	return false
}

// Trace is the sequence of global contexts of a path, one entry per BMC step.
type Trace struct {
	Steps []Step `json:"steps"`
}

// NewTrace builds a trace from consecutive global contexts, flagging the
// automata that change at each step.
func NewTrace(states []Context) *Trace {
	t := &Trace{Steps: make([]Step, len(states))}
	var prev Context
	for k, st := range states {
		t.Steps[k] = Step{Index: k, State: st.Clone(), Changed: Diff(prev, st)}
		prev = st
	}
	return t
}

// Len returns the number of steps.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Steps)
}

// States returns the global contexts of the trace.
func (t *Trace) States() []Context {
	out := make([]Context, len(t.Steps))
	for i, s := range t.Steps {
		out[i] = s.State
	}
	return out
}

// Move counts how often an automaton went from one state to another.
type Move struct {
	Automaton int `json:"automaton"`
	From      int `json:"from"`
	To        int `json:"to"`
	Count     int `json:"count"`
}

// Moves returns the occurrence count of every local move of the trace, in
// order of first occurrence.
func (t *Trace) Moves() []Move {
	var moves []Move
	index := make(map[[3]int]int)
	for k := 1; k < len(t.Steps); k++ {
		prev, cur := t.Steps[k-1].State, t.Steps[k].State
		for _, a := range t.Steps[k].Changed {
			key := [3]int{a, prev[a], cur[a]}
			if i, ok := index[key]; ok {
				moves[i].Count++
				continue
			}
			index[key] = len(moves)
			moves = append(moves, Move{Automaton: a, From: prev[a], To: cur[a], Count: 1})
		}
	}
	return moves
}

// Replay checks the trace against the execution semantics of n: at most one
// automaton changes per step, through one of its transitions whose origin
// and guards hold in the previous context.
func (t *Trace) Replay(n *Network) error {
	for k := 1; k < len(t.Steps); k++ {
		prev, cur := t.Steps[k-1].State, t.Steps[k].State
		changed := Diff(prev, cur)
		if len(changed) == 0 {
			continue
		}
		if len(changed) > 1 {
			return fmt.Errorf("step %d: %d automata changed", k, len(changed))
		}
		a := changed[0]
		if !n.fires(a, prev, cur[a]) {
			return fmt.Errorf("step %d: no transition of %q leads %s to %s",
				k, n.Automata[a].Name, n.Automata[a].StateName(prev[a]), n.Automata[a].StateName(cur[a]))
		}
	}
	return nil
}

func (n *Network) fires(a int, ctx Context, target int) bool {
	for _, tr := range n.Automata[a].Transitions {
		if tr.Origin != ctx[a] || tr.Target != target {
			continue
		}
		ok := true
		for _, c := range tr.Conditions {
			if ctx[c.Automaton] != c.State {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Report is the result of one query.
type Report struct {
	Outcome Outcome    `json:"outcome"`
	Initial Context    `json:"initial,omitempty"`
	Goal    LocalState `json:"goal"`

	// Length is the path length handed to the encoder, 0 when the encoder
	// did not run.
	Length int `json:"length"`

	// Bound is the causality graph bound, Unconstrained when not computed.
	Bound int `json:"bound"`

	// Manual is set when Length was supplied by the caller.
	Manual bool `json:"manual,omitempty"`

	Trace   *Trace        `json:"trace,omitempty"`
	Solver  string        `json:"solver,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Clone returns a deep copy of the report.
func (r *Report) Clone() *Report {
	c := *r
	c.Initial = r.Initial.Clone()
	if r.Trace != nil {
		c.Trace = &Trace{Steps: make([]Step, len(r.Trace.Steps))}
		for i, s := range r.Trace.Steps {
			c.Trace.Steps[i] = Step{
				Index:   s.Index,
				State:   s.State.Clone(),
				Changed: append([]int(nil), s.Changed...),
			}
		}
	}
	return &c
}

// Message renders the verdict as a sentence using the names of n.
func (r *Report) Message(n *Network) string {
	goal := n.LocalStateName(r.Goal.Automaton, r.Goal.State)
	switch r.Outcome {
	case OutcomeReachable:
		return fmt.Sprintf("%s is reachable", goal)
	case OutcomeUnreachable:
		return fmt.Sprintf("%s is unreachable", goal)
	case OutcomeInconclusive:
		return fmt.Sprintf("%s is unreachable for sequences of length %d, inconclusive in the general case", goal, r.Length)
	case OutcomeCyclic:
		return fmt.Sprintf("the local causality graph of %s is cyclic, the bound cannot be computed", goal)
	case OutcomeUnbounded:
		return fmt.Sprintf("the local causality graph of %s yields no finite bound", goal)
	case OutcomeComplete:
		return fmt.Sprintf("%d is a completeness bound for %s", r.Length, goal)
	case OutcomeNotComplete:
		return fmt.Sprintf("%d may not be a completeness bound for %s", r.Length, goal)
	default:
		return fmt.Sprintf("%s: unknown outcome %q", goal, r.Outcome)
	}
}
