package analysis_test

import (
	"context"
	"testing"

	"github.com/aretw0/anreach/internal/analysis"
	"github.com/aretw0/anreach/internal/asp"
	"github.com/aretw0/anreach/internal/testutils"
	"github.com/aretw0/anreach/pkg/adapters/gini"
	"github.com/aretw0/anreach/pkg/adapters/memory"
	"github.com/aretw0/anreach/pkg/adapters/process"
	"github.com/aretw0/anreach/pkg/cnf"
	"github.com/aretw0/anreach/pkg/domain"
	"github.com/aretw0/anreach/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSolver counts the calls reaching the wrapped solver.
type countingSolver struct {
	inner *gini.Solver
	calls int
}

func (s *countingSolver) Name() string { return "counting" }
func (s *countingSolver) Solve(ctx context.Context, f *cnf.Formula) (cnf.Result, error) {
	s.calls++
	return s.inner.Solve(ctx, f)
}

func goalOf(n *domain.Network, aut string, state int) domain.Context {
	return domain.LocalState{Automaton: n.AutomatonIndex(aut), State: state}.Context(n)
}

func TestReachability_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		net     func(*testing.T) *domain.Network
		goal    [2]any
		length  int
		outcome domain.Outcome
		bound   int
		want    int // length handed to the encoder
	}{
		{"reachable with computed bound", testutils.FourAutomata, [2]any{"a", 1}, 0, domain.OutcomeReachable, 2, 2},
		{"handshake needs recentering", testutils.Handshake, [2]any{"a", 2}, 0, domain.OutcomeReachable, 5, 5},
		{"unreachable under the bound", testutils.OneWaySwitch, [2]any{"a", 2}, 0, domain.OutcomeUnreachable, 4, 4},
		{"cyclic graph", testutils.MutualGuards, [2]any{"a", 1}, 0, domain.OutcomeCyclic, -1, 0},
		{"no local path", testutils.Frozen, [2]any{"a", 1}, 0, domain.OutcomeUnbounded, -1, 0},
		{"manual bound too short", testutils.Handshake, [2]any{"a", 2}, 3, domain.OutcomeInconclusive, -1, 3},
		{"manual bound long enough", testutils.Handshake, [2]any{"a", 2}, 4, domain.OutcomeReachable, -1, 4},
		{"manual bound on cyclic graph", testutils.MutualGuards, [2]any{"a", 1}, 6, domain.OutcomeInconclusive, -1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.net(t)
			engine := analysis.New(n)

			report, err := engine.Reachability(context.Background(), analysis.Query{
				Goal:   goalOf(n, tt.goal[0].(string), tt.goal[1].(int)),
				Length: tt.length,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, report.Outcome)
			assert.Equal(t, tt.bound, report.Bound)
			assert.Equal(t, tt.want, report.Length)
			assert.Equal(t, tt.length > 0, report.Manual)
			assert.Equal(t, gini.Name, report.Solver)

			if tt.outcome.Positive() {
				require.NotNil(t, report.Trace)
				assert.Equal(t, report.Length, report.Trace.Len())
				assert.NoError(t, report.Trace.Replay(n))
			} else {
				assert.Nil(t, report.Trace)
			}
		})
	}
}

func TestReachability_GoalHoldsInitially(t *testing.T) {
	n := testutils.FourAutomata(t)
	solver := &countingSolver{inner: gini.New()}
	engine := analysis.New(n, analysis.WithSolver(solver))

	report, err := engine.Reachability(context.Background(), analysis.Query{
		Initial: domain.Context{1, -1, -1, -1},
		Goal:    goalOf(n, "a", 1),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeReachable, report.Outcome)
	assert.Equal(t, 1, report.Length)
	assert.Equal(t, []domain.Context{{1, 0, 0, 0}}, report.Trace.States())
	assert.False(t, report.Manual)
	assert.Zero(t, solver.calls)

	t.Run("Manual Length Is Kept", func(t *testing.T) {
		report, err := engine.Reachability(context.Background(), analysis.Query{
			Initial: domain.Context{1, -1, -1, -1},
			Goal:    goalOf(n, "a", 1),
			Length:  6,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeReachable, report.Outcome)
		assert.True(t, report.Manual)
		assert.Equal(t, 6, report.Length)
		assert.Equal(t, 1, report.Trace.Len())
		assert.Zero(t, solver.calls)
	})
}

func TestReachability_InitialOverride(t *testing.T) {
	n := testutils.FourAutomata(t)
	engine := analysis.New(n)

	// a=0 -> a=1 needs b=0 and b never moves.
	report, err := engine.Reachability(context.Background(), analysis.Query{
		Initial: domain.Context{-1, 1, -1, -1},
		Goal:    goalOf(n, "a", 1),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Context{0, 1, 0, 0}, report.Initial)
	assert.Equal(t, domain.OutcomeUnreachable, report.Outcome)
	assert.Equal(t, 2, report.Bound)
}

func TestReachability_InvalidQueries(t *testing.T) {
	n := testutils.FourAutomata(t)
	engine := analysis.New(n)
	ctx := context.Background()

	_, err := engine.Reachability(ctx, analysis.Query{Goal: domain.Context{1, 1, -1, -1}})
	assert.ErrorIs(t, err, domain.ErrGoalArity)

	_, err = engine.Reachability(ctx, analysis.Query{Goal: domain.Context{-1, -1, -1, -1}})
	assert.ErrorIs(t, err, domain.ErrGoalArity)

	_, err = engine.Reachability(ctx, analysis.Query{Goal: domain.Context{9, -1, -1, -1}})
	assert.ErrorIs(t, err, domain.ErrUnknownState)

	_, err = engine.Reachability(ctx, analysis.Query{Initial: domain.Context{0}, Goal: goalOf(n, "a", 1)})
	assert.Error(t, err)

	_, err = engine.Reachability(ctx, analysis.Query{Goal: goalOf(n, "a", 1), Length: -2})
	assert.ErrorIs(t, err, domain.ErrInvalidLength)
}

func TestReachability_Cache(t *testing.T) {
	n := testutils.Handshake(t)
	store := memory.NewStore()
	solver := &countingSolver{inner: gini.New()}
	engine := analysis.New(n, analysis.WithSolver(solver), analysis.WithStore(store))
	ctx := context.Background()
	q := analysis.Query{Goal: goalOf(n, "a", 2)}

	first, err := engine.Reachability(ctx, q)
	require.NoError(t, err)
	second, err := engine.Reachability(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, 1, solver.calls, "second query must be answered from the cache")
	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.Trace.States(), second.Trace.States())

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{analysis.Key(n, analysis.ModeReachability, n.InitialContext(), domain.LocalState{Automaton: 0, State: 2}, 0)}, keys)

	// A manual length is a distinct question.
	_, err = engine.Reachability(ctx, analysis.Query{Goal: q.Goal, Length: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, solver.calls)
}

func TestInduction(t *testing.T) {
	n := testutils.FourAutomata(t)
	engine := analysis.New(n)
	ctx := context.Background()
	goal := goalOf(n, "a", 1)

	report, err := engine.Induction(ctx, goal, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNotComplete, report.Outcome)
	require.NotNil(t, report.Trace)
	assert.NoError(t, report.Trace.Replay(n))
	assert.Equal(t, "2 may not be a completeness bound for a_1", report.Message(n))

	report, err = engine.Induction(ctx, goal, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeComplete, report.Outcome)
	assert.Nil(t, report.Trace)
	assert.Equal(t, "3 is a completeness bound for a_1", report.Message(n))

	_, err = engine.Induction(ctx, goal, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidLength)
}

func TestBound(t *testing.T) {
	t.Run("Finite", func(t *testing.T) {
		n := testutils.FourAutomata(t)
		res, err := analysis.New(n).Bound(analysis.Query{Goal: goalOf(n, "a", 1)})
		require.NoError(t, err)
		assert.False(t, res.Cyclic)
		assert.Equal(t, 2, int(res.Bound))
		assert.Equal(t, 7, res.Stats.Vertices)
	})

	t.Run("Cyclic", func(t *testing.T) {
		n := testutils.MutualGuards(t)
		res, err := analysis.New(n).Bound(analysis.Query{Goal: goalOf(n, "a", 1)})
		require.NoError(t, err)
		assert.True(t, res.Cyclic)
		assert.False(t, res.Bound.Finite())
	})
}

func TestEngine_Metrics(t *testing.T) {
	n := testutils.FourAutomata(t)
	m := observability.NewMetrics()
	engine := analysis.New(n, analysis.WithMetrics(m), analysis.WithStore(memory.NewStore()))
	ctx := context.Background()
	q := analysis.Query{Goal: goalOf(n, "a", 1)}

	_, err := engine.Reachability(ctx, q)
	require.NoError(t, err)
	_, err = engine.Reachability(ctx, q)
	require.NoError(t, err)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"anreach_lcg_vertices",
		"anreach_lcg_bound",
		"anreach_cnf_clauses",
		"anreach_solve_duration_seconds",
		"anreach_queries_total",
		"anreach_cache_requests_total",
	} {
		assert.True(t, names[want], want)
	}
}

func TestEngine_SolverName(t *testing.T) {
	n := testutils.FourAutomata(t)
	assert.Equal(t, gini.Name, analysis.New(n).SolverName())

	solver, err := asp.NewSolver(process.NewRunner())
	require.NoError(t, err)
	assert.Equal(t, asp.DefaultProgram, analysis.New(n, analysis.WithASP(solver)).SolverName())
}

func TestKey(t *testing.T) {
	n := testutils.FourAutomata(t)
	init := n.InitialContext()
	goal := domain.LocalState{Automaton: 0, State: 1}

	base := analysis.Key(n, analysis.ModeReachability, init, goal, 0)
	assert.Len(t, base, 64)
	assert.Equal(t, base, analysis.Key(n, analysis.ModeReachability, init.Clone(), goal, 0))
	assert.NotEqual(t, base, analysis.Key(n, analysis.ModeInduction, init, goal, 0))
	assert.NotEqual(t, base, analysis.Key(n, analysis.ModeReachability, init, goal, 2))
	assert.NotEqual(t, base, analysis.Key(n, analysis.ModeReachability, domain.Context{0, 1, 0, 0}, goal, 0))
	assert.NotEqual(t, base, analysis.Key(testutils.Handshake(t), analysis.ModeReachability, domain.Context{0, 0}, goal, 0))
}
