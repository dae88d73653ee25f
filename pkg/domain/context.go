package domain

import (
	"fmt"
	"strings"
)

// Unconstrained marks a context entry that does not fix a local state.
const Unconstrained = -1

// Context assigns at most one local state to every automaton of a network.
// Entry i is the state index of automaton i, or Unconstrained.
type Context []int

// NewContext returns a context of n unconstrained entries.
func NewContext(n int) Context {
	ctx := make(Context, n)
	for i := range ctx {
		ctx[i] = Unconstrained
	}
	return ctx
}

// Clone returns an independent copy of the context.
func (c Context) Clone() Context {
	if c == nil {
		return nil
	}
	out := make(Context, len(c))
	copy(out, c)
	return out
}

// Constrained returns the indices of the automata with a specific entry.
func (c Context) Constrained() []int {
	var res []int
	for i, s := range c {
		if s != Unconstrained {
			res = append(res, i)
		}
	}
	return res
}

// Equal reports whether both contexts hold the same entries.
func (c Context) Equal(other Context) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Format renders the context with the names of the network, skipping
// unconstrained entries.
func (c Context) Format(n *Network) string {
	parts := make([]string, 0, len(c))
	for i, s := range c {
		if s == Unconstrained {
			continue
		}
		a := n.Automata[i]
		parts = append(parts, fmt.Sprintf("%s=%s", a.Name, a.StateName(s)))
	}
	return strings.Join(parts, ", ")
}

// Diff returns the indices of the automata whose entry differs between
// prev and next. A nil prev reports no change.
func Diff(prev, next Context) []int {
	if prev == nil {
		return nil
	}
	var changed []int
	for i := range next {
		if i >= len(prev) || prev[i] != next[i] {
			changed = append(changed, i)
		}
	}
	return changed
}

// LocalState references one local state of one automaton.
type LocalState struct {
	Automaton int `json:"automaton"`
	State     int `json:"state"`
}

// Context returns the goal context fixing only this local state.
func (ls LocalState) Context(n *Network) Context {
	ctx := NewContext(n.NumAutomata())
	ctx[ls.Automaton] = ls.State
	return ctx
}

// GoalOf extracts the single local state fixed by a goal context.
func GoalOf(goal Context) (LocalState, error) {
	constrained := goal.Constrained()
	if len(constrained) != 1 {
		return LocalState{}, fmt.Errorf("%w: goal fixes %d automata", ErrGoalArity, len(constrained))
	}
	a := constrained[0]
	return LocalState{Automaton: a, State: goal[a]}, nil
}

// CheckContext verifies that ctx is shaped for network n.
func (n *Network) CheckContext(ctx Context) error {
	if len(ctx) != n.NumAutomata() {
		return fmt.Errorf("context has %d entries, network has %d automata", len(ctx), n.NumAutomata())
	}
	for i, s := range ctx {
		if s == Unconstrained {
			continue
		}
		if s < 0 || s >= n.Automata[i].NumStates() {
			return &ContextError{Automaton: n.Automata[i].Name, State: fmt.Sprint(s), Err: ErrUnknownState}
		}
	}
	return nil
}

// CheckLocalState verifies that ls references a local state of n.
func (n *Network) CheckLocalState(ls LocalState) error {
	if ls.Automaton < 0 || ls.Automaton >= n.NumAutomata() {
		return &ContextError{Automaton: fmt.Sprint(ls.Automaton), Err: ErrUnknownAutomaton}
	}
	a := n.Automata[ls.Automaton]
	if ls.State < 0 || ls.State >= a.NumStates() {
		return &ContextError{Automaton: a.Name, State: fmt.Sprint(ls.State), Err: ErrUnknownState}
	}
	return nil
}
