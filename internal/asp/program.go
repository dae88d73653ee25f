// Package asp encodes bounded reachability as an answer set program for
// clingo, an alternative to the SAT encoder.
package asp

import (
	"fmt"
	"strings"

	"github.com/aretw0/anreach/pkg/domain"
)

// Program returns the clingo program whose answer sets are the paths of
// length contexts from init reaching goal. Unconstrained entries of init
// are chosen freely; constrained entries of goal must hold together at
// some step.
func Program(net *domain.Network, init, goal domain.Context, length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("%w: %d", domain.ErrInvalidLength, length)
	}
	if err := net.CheckContext(init); err != nil {
		return "", err
	}
	if err := net.CheckContext(goal); err != nil {
		return "", err
	}

	var sb strings.Builder
	writeNetwork(&sb, net)
	writePath(&sb, length)

	for a, s := range init {
		name := net.Automaton(a).Name
		if s == domain.Unconstrained {
			fmt.Fprintf(&sb, "1 { active(level(%q,L),0) : automatonLevel(%q,L) } 1.\n", name, name)
			continue
		}
		fmt.Fprintf(&sb, "active(level(%q,%d),0).\n", name, s)
	}
	for a, s := range goal {
		if s != domain.Unconstrained {
			fmt.Fprintf(&sb, "goal(level(%q,%d)).\n", net.Automaton(a).Name, s)
		}
	}
	sb.WriteString("#show active/2.\n")
	return sb.String(), nil
}

// writeNetwork emits the facts of the network. Transitions are numbered
// globally; the origin of a transition is one of its conditions.
func writeNetwork(sb *strings.Builder, net *domain.Network) {
	id := 0
	for _, a := range net.Automata {
		if a.NumStates() > 1 {
			fmt.Fprintf(sb, "automatonLevel(%q,0..%d).\n\n", a.Name, a.NumStates()-1)
		} else {
			fmt.Fprintf(sb, "automatonLevel(%q,0).\n\n", a.Name)
		}
		for _, tr := range a.Transitions {
			fmt.Fprintf(sb, "condition(%d,%q,%d).\n", id, a.Name, tr.Origin)
			fmt.Fprintf(sb, "target(%d,%q,%d).\n", id, a.Name, tr.Target)
			for _, c := range tr.Conditions {
				fmt.Fprintf(sb, "condition(%d,%q,%d).\n", id, net.Automaton(c.Automaton).Name, c.State)
			}
			sb.WriteString("\n")
			id++
		}
	}

	sb.WriteString("transition(T) :- target(T,_,_).\n")
	sb.WriteString("automaton(A) :- automatonLevel(A,_).\n")

	sb.WriteString("unReached(S) :- goal(Lv), not active(Lv,S), step(S).\n")
	sb.WriteString("reached :- step(S), not unReached(S).\n")
	sb.WriteString(":- not reached.\n")
}

// writePath emits the execution rules: contexts at steps 0..length-1, at
// most one transition played between two consecutive steps.
func writePath(sb *strings.Builder, length int) {
	fmt.Fprintf(sb, "step(0..%d).\n", length-1)
	fmt.Fprintf(sb, "move(0..%d).\n", length-2)
	sb.WriteString("unPlayable(T,S) :- active(level(A,I),S), condition(T,A,J), I!=J, move(S).\n")
	sb.WriteString("{ played(T,S) } :- not unPlayable(T,S), transition(T), move(S).\n")
	sb.WriteString(":- 2 { played(_,S) }, move(S).\n")
	sb.WriteString("change(A,I,J,S) :- played(T,S), target(T,A,J), condition(T,A,I).\n")
	sb.WriteString("active(level(B,K),S+1) :- not change(B,_,_,S), active(level(B,K),S), move(S).\n")
	sb.WriteString("active(level(B,K),S+1) :- change(B,_,K,S).\n")
}
