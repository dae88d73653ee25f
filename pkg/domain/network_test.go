package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/anreach/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourAutomata(t *testing.T) *domain.Network {
	t.Helper()
	n := domain.NewNetwork()
	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := n.AddAutomaton(name, "0", "1", "2", "3")
		require.NoError(t, err)
	}
	a := n.Automaton(0)
	a.Transitions = append(a.Transitions, domain.Transition{
		Origin: 0, Target: 1,
		Conditions: []domain.Condition{{Automaton: 1, State: 0}},
	})
	require.NoError(t, n.Validate())
	return n
}

func TestNetwork_Counts(t *testing.T) {
	n := fourAutomata(t)
	assert.Equal(t, 4, n.NumAutomata())
	assert.Equal(t, 16, n.NumLocalStates())
	assert.Equal(t, 1, n.NumTransitions())
	assert.Equal(t, "a_0 -> a_1 {b_0}", n.TransitionString(0, 0))
}

func TestNetwork_AddAutomatonTwice(t *testing.T) {
	n := domain.NewNetwork()
	_, err := n.AddAutomaton("a", "0")
	require.NoError(t, err)
	_, err = n.AddAutomaton("a", "1")
	assert.Error(t, err)
}

func TestNetwork_Resolve(t *testing.T) {
	n := fourAutomata(t)

	ls, err := n.Resolve("c", "2")
	require.NoError(t, err)
	assert.Equal(t, domain.LocalState{Automaton: 2, State: 2}, ls)

	tests := []struct {
		name      string
		automaton string
		state     string
		want      error
	}{
		{"unknown automaton", "z", "0", domain.ErrUnknownAutomaton},
		{"unknown state", "a", "9", domain.ErrUnknownState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Resolve(tt.automaton, tt.state)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))

			var ctxErr *domain.ContextError
			require.True(t, errors.As(err, &ctxErr))
			assert.Equal(t, tt.automaton, ctxErr.Automaton)
		})
	}
}

func TestNetwork_InitialContext(t *testing.T) {
	n := fourAutomata(t)
	assert.Equal(t, domain.Context{0, 0, 0, 0}, n.InitialContext())

	n.SetInitialState(2, 3)
	init := n.InitialContext()
	assert.Equal(t, domain.Context{0, 0, 3, 0}, init)

	init[0] = 2
	assert.Equal(t, 0, n.InitialContext()[0], "InitialContext must return a copy")
}

func TestNetwork_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(n *domain.Network)
	}{
		{"target out of range", func(n *domain.Network) {
			n.Automaton(0).Transitions[0].Target = 7
		}},
		{"condition on own automaton", func(n *domain.Network) {
			n.Automaton(0).Transitions[0].Conditions = []domain.Condition{{Automaton: 0, State: 1}}
		}},
		{"condition on unknown automaton", func(n *domain.Network) {
			n.Automaton(0).Transitions[0].Conditions = []domain.Condition{{Automaton: 9, State: 0}}
		}},
		{"initial out of range", func(n *domain.Network) {
			n.Initial = domain.Context{0, 0, 0, 12}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := fourAutomata(t)
			tt.mutate(n)
			assert.Error(t, n.Validate())
		})
	}
}

func TestNetwork_String(t *testing.T) {
	n := fourAutomata(t)
	out := n.String()
	assert.Contains(t, out, `"a" [0, 1, 2, 3]`)
	assert.Contains(t, out, `"a" 0 -> 1 when "b"=0`)
	assert.Contains(t, out, `initial_context "a"=0, "b"=0, "c"=0, "d"=0`)
}

func TestContext_Helpers(t *testing.T) {
	n := fourAutomata(t)

	goal := domain.LocalState{Automaton: 0, State: 1}.Context(n)
	assert.Equal(t, domain.Context{1, -1, -1, -1}, goal)
	assert.Equal(t, []int{0}, goal.Constrained())
	assert.Equal(t, "a=1", goal.Format(n))

	ls, err := domain.GoalOf(goal)
	require.NoError(t, err)
	assert.Equal(t, domain.LocalState{Automaton: 0, State: 1}, ls)

	_, err = domain.GoalOf(domain.Context{1, 0, -1, -1})
	assert.ErrorIs(t, err, domain.ErrGoalArity)
	_, err = domain.GoalOf(domain.NewContext(4))
	assert.ErrorIs(t, err, domain.ErrGoalArity)

	assert.NoError(t, n.CheckContext(goal))
	assert.Error(t, n.CheckContext(domain.Context{0, 0}))
	assert.ErrorIs(t, n.CheckContext(domain.Context{0, 0, 0, 4}), domain.ErrUnknownState)
	assert.ErrorIs(t, n.CheckLocalState(domain.LocalState{Automaton: 5}), domain.ErrUnknownAutomaton)
}

func TestDiff(t *testing.T) {
	assert.Nil(t, domain.Diff(nil, domain.Context{0, 1}))
	assert.Empty(t, domain.Diff(domain.Context{0, 1}, domain.Context{0, 1}))
	assert.Equal(t, []int{1}, domain.Diff(domain.Context{0, 1}, domain.Context{0, 2}))
	assert.Equal(t, []int{0, 1}, domain.Diff(domain.Context{0, 1}, domain.Context{3, 2}))
}
