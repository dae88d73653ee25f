package domain

import (
	"fmt"
	"strings"
)

// Condition is a guard of a transition: automaton Automaton must be in State.
type Condition struct {
	Automaton int `json:"automaton" yaml:"automaton"`
	State     int `json:"state" yaml:"state"`
}

// Partner references a transition of another automaton fired synchronously.
type Partner struct {
	Automaton  int `json:"automaton" yaml:"automaton"`
	Transition int `json:"transition" yaml:"transition"`
}

// Transition moves its owning automaton from Origin to Target when every
// condition holds. Indices are local to the owning automaton.
type Transition struct {
	Origin     int         `json:"origin" yaml:"origin"`
	Target     int         `json:"target" yaml:"target"`
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`

	// Synchro lists the partners of a synchronised transition.
	// The encoders do not consume it.
	Synchro []Partner `json:"synchro,omitempty" yaml:"synchro,omitempty"`
}

// Automaton is one component of the network.
type Automaton struct {
	Name        string       `json:"name" yaml:"name"`
	States      []string     `json:"states" yaml:"states"`
	Transitions []Transition `json:"transitions" yaml:"transitions"`

	stateIndex map[string]int
}

// NumStates returns the number of local states of the automaton.
func (a *Automaton) NumStates() int {
	return len(a.States)
}

// StateIndex returns the index of the named local state, or -1.
func (a *Automaton) StateIndex(name string) int {
	if a.stateIndex == nil {
		a.stateIndex = make(map[string]int, len(a.States))
		for i, s := range a.States {
			a.stateIndex[s] = i
		}
	}
	if i, ok := a.stateIndex[name]; ok {
		return i
	}
	return -1
}

// AddState appends a local state and returns its index. Adding an existing
// name returns the existing index.
func (a *Automaton) AddState(name string) int {
	if i := a.StateIndex(name); i >= 0 {
		return i
	}
	a.States = append(a.States, name)
	a.stateIndex[name] = len(a.States) - 1
	return len(a.States) - 1
}

// StateName returns the name of local state s.
func (a *Automaton) StateName(s int) string {
	if s < 0 || s >= len(a.States) {
		return "?"
	}
	return a.States[s]
}

// Network is an asynchronous automata network.
type Network struct {
	Automata []*Automaton `json:"automata" yaml:"automata"`

	// Initial is the declared initial context. When nil, every automaton
	// starts in its first declared state.
	Initial Context `json:"initial,omitempty" yaml:"initial,omitempty"`

	autIndex map[string]int
}

// NewNetwork returns an empty network.
func NewNetwork() *Network {
	return &Network{autIndex: make(map[string]int)}
}

// AddAutomaton declares a new automaton with the given local states.
// It fails if the name is already declared.
func (n *Network) AddAutomaton(name string, states ...string) (*Automaton, error) {
	if n.AutomatonIndex(name) >= 0 {
		return nil, fmt.Errorf("automaton %q declared twice", name)
	}
	aut := &Automaton{Name: name, stateIndex: make(map[string]int)}
	for _, s := range states {
		aut.AddState(s)
	}
	n.Automata = append(n.Automata, aut)
	n.autIndex[name] = len(n.Automata) - 1
	return aut, nil
}

// AutomatonIndex returns the index of the named automaton, or -1.
func (n *Network) AutomatonIndex(name string) int {
	if n.autIndex == nil {
		n.autIndex = make(map[string]int, len(n.Automata))
		for i, a := range n.Automata {
			n.autIndex[a.Name] = i
		}
	}
	if i, ok := n.autIndex[name]; ok {
		return i
	}
	return -1
}

// Automaton returns the automaton at index i.
func (n *Network) Automaton(i int) *Automaton {
	return n.Automata[i]
}

// NumAutomata returns the number of automata.
func (n *Network) NumAutomata() int {
	return len(n.Automata)
}

// NumLocalStates returns the total number of local states.
func (n *Network) NumLocalStates() int {
	res := 0
	for _, a := range n.Automata {
		res += a.NumStates()
	}
	return res
}

// NumTransitions returns the total number of transitions.
func (n *Network) NumTransitions() int {
	res := 0
	for _, a := range n.Automata {
		res += len(a.Transitions)
	}
	return res
}

// InitialContext returns a copy of the declared initial context, defaulting
// every automaton to its first declared state.
func (n *Network) InitialContext() Context {
	ctx := make(Context, n.NumAutomata())
	for i := range ctx {
		ctx[i] = 0
		if i < len(n.Initial) && n.Initial[i] != Unconstrained {
			ctx[i] = n.Initial[i]
		}
	}
	return ctx
}

// SetInitialState overrides the initial state of automaton aut.
func (n *Network) SetInitialState(aut, state int) {
	if len(n.Initial) != n.NumAutomata() {
		n.Initial = n.InitialContext()
	}
	n.Initial[aut] = state
}

// LocalStateName renders (aut, state) as "name_state".
func (n *Network) LocalStateName(aut, state int) string {
	a := n.Automata[aut]
	return a.Name + "_" + a.StateName(state)
}

// Resolve returns the LocalState named by automaton and state names.
func (n *Network) Resolve(automaton, state string) (LocalState, error) {
	autInd := n.AutomatonIndex(automaton)
	if autInd < 0 {
		return LocalState{}, &ContextError{Automaton: automaton, State: state, Err: ErrUnknownAutomaton}
	}
	stateInd := n.Automata[autInd].StateIndex(state)
	if stateInd < 0 {
		return LocalState{}, &ContextError{Automaton: automaton, State: state, Err: ErrUnknownState}
	}
	return LocalState{Automaton: autInd, State: stateInd}, nil
}

// Validate checks that every index stored in the network is in range.
func (n *Network) Validate() error {
	for ai, a := range n.Automata {
		if len(a.States) == 0 {
			return fmt.Errorf("automaton %q has no local state", a.Name)
		}
		for ti, tr := range a.Transitions {
			if tr.Origin < 0 || tr.Origin >= len(a.States) || tr.Target < 0 || tr.Target >= len(a.States) {
				return fmt.Errorf("automaton %q transition %d: state index out of range", a.Name, ti)
			}
			for _, c := range tr.Conditions {
				if c.Automaton < 0 || c.Automaton >= len(n.Automata) {
					return fmt.Errorf("automaton %q transition %d: condition on unknown automaton %d", a.Name, ti, c.Automaton)
				}
				if c.Automaton == ai {
					return fmt.Errorf("automaton %q transition %d: condition on its own automaton", a.Name, ti)
				}
				if c.State < 0 || c.State >= n.Automata[c.Automaton].NumStates() {
					return fmt.Errorf("automaton %q transition %d: condition state out of range", a.Name, ti)
				}
			}
		}
	}
	for i, s := range n.Initial {
		if i >= len(n.Automata) || (s != Unconstrained && (s < 0 || s >= n.Automata[i].NumStates())) {
			return fmt.Errorf("initial context entry %d out of range", i)
		}
	}
	return nil
}

// TransitionString renders a transition as "a_0 -> a_1 {b_0, c_1}".
func (n *Network) TransitionString(aut, tr int) string {
	a := n.Automata[aut]
	t := a.Transitions[tr]
	conds := make([]string, 0, len(t.Conditions))
	for _, c := range t.Conditions {
		conds = append(conds, n.LocalStateName(c.Automaton, c.State))
	}
	return fmt.Sprintf("%s -> %s {%s}", n.LocalStateName(aut, t.Origin), n.LocalStateName(aut, t.Target), strings.Join(conds, ", "))
}

// String renders the network in the textual model format.
func (n *Network) String() string {
	var sb strings.Builder
	for _, a := range n.Automata {
		fmt.Fprintf(&sb, "%q [%s]\n", a.Name, strings.Join(a.States, ", "))
	}
	sb.WriteString("\n")
	for _, a := range n.Automata {
		for _, t := range a.Transitions {
			fmt.Fprintf(&sb, "%q %s -> %s", a.Name, a.StateName(t.Origin), a.StateName(t.Target))
			for i, c := range t.Conditions {
				if i == 0 {
					sb.WriteString(" when ")
				} else {
					sb.WriteString(" and ")
				}
				ca := n.Automata[c.Automaton]
				fmt.Fprintf(&sb, "%q=%s", ca.Name, ca.StateName(c.State))
			}
			sb.WriteString("\n")
		}
	}
	init := n.InitialContext()
	parts := make([]string, len(init))
	for i, s := range init {
		parts[i] = fmt.Sprintf("%q=%s", n.Automata[i].Name, n.Automata[i].StateName(s))
	}
	if len(parts) > 0 {
		fmt.Fprintf(&sb, "\ninitial_context %s\n", strings.Join(parts, ", "))
	}
	return sb.String()
}
