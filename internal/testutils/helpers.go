package testutils

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/aretw0/anreach/pkg/domain"
	"github.com/stretchr/testify/require"
)

// Guard is a condition "automaton Automaton is in State".
type Guard struct {
	Automaton string
	State     int
}

// Move declares a transition of automaton Automaton.
type Move struct {
	Automaton string
	From, To  int
	When      []Guard
}

// BuildNetwork creates a network whose automata have states named "0".."n-1".
// sizes lists (name, number of states) in declaration order.
func BuildNetwork(t *testing.T, names []string, sizes []int, moves ...Move) *domain.Network {
	t.Helper()
	require.Len(t, sizes, len(names))

	n := domain.NewNetwork()
	for i, name := range names {
		states := make([]string, sizes[i])
		for s := range states {
			states[s] = strconv.Itoa(s)
		}
		_, err := n.AddAutomaton(name, states...)
		require.NoError(t, err)
	}
	for _, m := range moves {
		a := n.AutomatonIndex(m.Automaton)
		require.GreaterOrEqual(t, a, 0, "unknown automaton %q", m.Automaton)
		tr := domain.Transition{Origin: m.From, Target: m.To}
		for _, g := range m.When {
			b := n.AutomatonIndex(g.Automaton)
			require.GreaterOrEqual(t, b, 0, "unknown automaton %q", g.Automaton)
			tr.Conditions = append(tr.Conditions, domain.Condition{Automaton: b, State: g.State})
		}
		n.Automata[a].Transitions = append(n.Automata[a].Transitions, tr)
	}
	require.NoError(t, n.Validate())
	return n
}

// FourAutomata is a, b, c, d with states 0..3 and the single transition
// a: 0 -> 1 when b=0.
func FourAutomata(t *testing.T) *domain.Network {
	t.Helper()
	return BuildNetwork(t,
		[]string{"a", "b", "c", "d"}, []int{4, 4, 4, 4},
		Move{Automaton: "a", From: 0, To: 1, When: []Guard{{"b", 0}}},
	)
}

// MutualGuards is a: 0 -> 1 when b=1 and b: 0 -> 1 when a=1, a guard cycle
// for the goal a=1.
func MutualGuards(t *testing.T) *domain.Network {
	t.Helper()
	return BuildNetwork(t,
		[]string{"a", "b"}, []int{2, 2},
		Move{Automaton: "a", From: 0, To: 1, When: []Guard{{"b", 1}}},
		Move{Automaton: "b", From: 0, To: 1, When: []Guard{{"a", 1}}},
	)
}

// Handshake needs b to move while a is still at 0 before a can reach 2:
// a: 0 -> 1, a: 1 -> 2 when b=1, b: 0 -> 1 when a=0.
func Handshake(t *testing.T) *domain.Network {
	t.Helper()
	return BuildNetwork(t,
		[]string{"a", "b"}, []int{3, 2},
		Move{Automaton: "a", From: 0, To: 1},
		Move{Automaton: "a", From: 1, To: 2, When: []Guard{{"b", 1}}},
		Move{Automaton: "b", From: 0, To: 1, When: []Guard{{"a", 0}}},
	)
}

// OneWaySwitch has a finite bound for a=2 but no path to it: a needs b=1
// to leave 0 and b=0 to reach 2, and b never goes back.
// a: 0 -> 1 when b=1, a: 1 -> 2 when b=0, b: 0 -> 1.
func OneWaySwitch(t *testing.T) *domain.Network {
	t.Helper()
	return BuildNetwork(t,
		[]string{"a", "b"}, []int{3, 2},
		Move{Automaton: "a", From: 0, To: 1, When: []Guard{{"b", 1}}},
		Move{Automaton: "a", From: 1, To: 2, When: []Guard{{"b", 0}}},
		Move{Automaton: "b", From: 0, To: 1},
	)
}

// Frozen is a single automaton with two states and no transition.
func Frozen(t *testing.T) *domain.Network {
	t.Helper()
	return BuildNetwork(t, []string{"a"}, []int{2})
}

// WriteFile writes content to name inside a fresh temporary directory and
// returns the absolute path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
