package lcg

import (
	"fmt"
	"strings"

	"github.com/aretw0/anreach/pkg/domain"
)

// Kind tags the four vertex variants of the graph.
type Kind uint8

const (
	// KindLocalState: automaton must at some point be in State.
	KindLocalState Kind = iota
	// KindObjective: automaton must move from From to To.
	KindObjective
	// KindSolution: one sequence of local transitions achieving an objective.
	KindSolution
	// KindTransition: fire Transition of automaton.
	KindTransition
)

func (k Kind) String() string {
	switch k {
	case KindLocalState:
		return "local-state"
	case KindObjective:
		return "objective"
	case KindSolution:
		return "solution"
	case KindTransition:
		return "transition"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Vertex is an arena entry. Only the fields of its Kind are meaningful.
// Succ and Pred hold arena indices.
type Vertex struct {
	Kind      Kind
	Automaton int

	// KindLocalState
	State int

	// KindObjective
	From, To int

	// KindSolution: transition indices of the sequence, in order.
	Sequence []int

	// KindTransition
	Transition int

	Succ []int
	Pred []int
}

// label renders the vertex with the names of n.
func (v *Vertex) label(n *domain.Network) string {
	switch v.Kind {
	case KindLocalState:
		return n.LocalStateName(v.Automaton, v.State)
	case KindObjective:
		return n.LocalStateName(v.Automaton, v.From) + " ~> " + n.LocalStateName(v.Automaton, v.To)
	case KindSolution:
		if len(v.Sequence) == 0 {
			return "o"
		}
		steps := make([]string, 0, len(v.Sequence)+1)
		a := n.Automaton(v.Automaton)
		steps = append(steps, a.StateName(a.Transitions[v.Sequence[0]].Origin))
		for _, t := range v.Sequence {
			steps = append(steps, a.StateName(a.Transitions[t].Target))
		}
		return "o " + a.Name + ":" + strings.Join(steps, ">")
	case KindTransition:
		return n.TransitionString(v.Automaton, v.Transition)
	default:
		return v.Kind.String()
	}
}
