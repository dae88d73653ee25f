package analysis_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/anreach/internal/analysis"
	"github.com/aretw0/anreach/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomNetwork draws three automata of two or three states and a few
// guarded transitions between them.
func randomNetwork(t *testing.T, rng *rand.Rand) *domain.Network {
	t.Helper()
	n := domain.NewNetwork()
	for _, name := range []string{"a", "b", "c"} {
		states := []string{"0", "1", "2"}[:2+rng.IntN(2)]
		_, err := n.AddAutomaton(name, states...)
		require.NoError(t, err)
	}

	for range 3 + rng.IntN(5) {
		a := rng.IntN(n.NumAutomata())
		aut := n.Automaton(a)
		from := rng.IntN(aut.NumStates())
		to := (from + 1 + rng.IntN(aut.NumStates()-1)) % aut.NumStates()
		tr := domain.Transition{Origin: from, Target: to}
		for other := range n.Automata {
			if other == a || rng.IntN(2) == 0 {
				continue
			}
			tr.Conditions = append(tr.Conditions, domain.Condition{
				Automaton: other, State: rng.IntN(n.Automaton(other).NumStates()),
			})
		}
		aut.Transitions = append(aut.Transitions, tr)
	}
	require.NoError(t, n.Validate())
	return n
}

// shortestPath returns the fewest moves from init to a context where goal
// holds, or -1 when no such context is reachable.
func shortestPath(n *domain.Network, init domain.Context, goal domain.LocalState) int {
	key := func(c domain.Context) [3]int { return [3]int{c[0], c[1], c[2]} }
	seen := map[[3]int]bool{key(init): true}
	frontier := []domain.Context{init}
	for dist := 0; len(frontier) > 0; dist++ {
		var next []domain.Context
		for _, cur := range frontier {
			if cur[goal.Automaton] == goal.State {
				return dist
			}
			for a, aut := range n.Automata {
				for _, tr := range aut.Transitions {
					if tr.Origin != cur[a] || !holds(cur, tr.Conditions) {
						continue
					}
					succ := cur.Clone()
					succ[a] = tr.Target
					if !seen[key(succ)] {
						seen[key(succ)] = true
						next = append(next, succ)
					}
				}
			}
		}
		frontier = next
	}
	return -1
}

func holds(ctx domain.Context, conds []domain.Condition) bool {
	for _, c := range conds {
		if ctx[c.Automaton] != c.State {
			return false
		}
	}
	return true
}

func checkWitness(t *testing.T, n *domain.Network, init domain.Context, goal domain.LocalState, tr *domain.Trace) {
	t.Helper()
	require.NotNil(t, tr)
	require.NotZero(t, tr.Len())
	require.NoError(t, tr.Replay(n))
	states := tr.States()
	assert.Equal(t, init, states[0])
	assert.Equal(t, goal.State, states[len(states)-1][goal.Automaton])
}

func TestReachability_AgreesWithExplicitSearch(t *testing.T) {
	const maxLength = 5
	rng := rand.New(rand.NewPCG(2024, 7))
	ctx := context.Background()

	networks := 400
	if testing.Short() {
		networks = 50
	}
	var cyclic, unbounded int
	for i := range networks {
		n := randomNetwork(t, rng)
		init := domain.Context{
			rng.IntN(n.Automaton(0).NumStates()),
			rng.IntN(n.Automaton(1).NumStates()),
			rng.IntN(n.Automaton(2).NumStates()),
		}
		goal := domain.LocalState{Automaton: rng.IntN(3)}
		goal.State = rng.IntN(n.Automaton(goal.Automaton).NumStates())
		dist := shortestPath(n, init, goal)
		engine := analysis.New(n)

		for length := 1; length <= maxLength; length++ {
			report, err := engine.Reachability(ctx, analysis.Query{
				Initial: init, Goal: goal.Context(n), Length: length,
			})
			require.NoError(t, err, "network %d:\n%s", i, n)
			want := dist >= 0 && dist <= length-1
			if !assert.Equal(t, want, report.Outcome == domain.OutcomeReachable,
				"network %d, length %d, shortest path %d:\n%s", i, length, dist, n) {
				continue
			}
			if want {
				checkWitness(t, n, init, goal, report.Trace)
			} else {
				assert.Equal(t, domain.OutcomeInconclusive, report.Outcome)
			}
		}

		report, err := engine.Reachability(ctx, analysis.Query{Initial: init, Goal: goal.Context(n)})
		require.NoError(t, err)
		switch report.Outcome {
		case domain.OutcomeCyclic:
			cyclic++
		case domain.OutcomeUnbounded:
			unbounded++
		case domain.OutcomeUnreachable:
			assert.Equal(t, -1, dist, "network %d reaches the goal past its bound %d:\n%s", i, report.Bound, n)
		case domain.OutcomeReachable:
			require.GreaterOrEqual(t, dist, 0, "network %d:\n%s", i, n)
			checkWitness(t, n, init, goal, report.Trace)
			if dist > 0 {
				assert.GreaterOrEqual(t, report.Bound, dist+1, "network %d:\n%s", i, n)
			}
		default:
			t.Fatalf("network %d: unexpected outcome %q", i, report.Outcome)
		}
	}
	t.Logf("%d networks, %d cyclic, %d unbounded", networks, cyclic, unbounded)
}
