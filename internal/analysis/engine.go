// Package analysis answers reachability questions on a network: it builds
// the local causality graph to bound the search, runs the bounded encoder
// on a solver and caches the verdicts.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/anreach/internal/asp"
	"github.com/aretw0/anreach/internal/encoding"
	"github.com/aretw0/anreach/internal/lcg"
	"github.com/aretw0/anreach/internal/logging"
	"github.com/aretw0/anreach/pkg/adapters/gini"
	"github.com/aretw0/anreach/pkg/domain"
	"github.com/aretw0/anreach/pkg/observability"
	"github.com/aretw0/anreach/pkg/persistence/middleware"
	"github.com/aretw0/anreach/pkg/ports"
)

// Query is one reachability question.
type Query struct {
	// Initial overrides entries of the network initial context. Nil keeps
	// the network initial context.
	Initial domain.Context

	// Goal must fix exactly one automaton.
	Goal domain.Context

	// Length, when positive, replaces the bound computed from the graph.
	Length int
}

// Engine runs queries on one network. It is not safe for concurrent use.
type Engine struct {
	net     *domain.Network
	solver  ports.Solver
	asp     *asp.Solver
	store   ports.VerdictStore
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSolver sets the SAT backend. The default is the in-process gini solver.
func WithSolver(s ports.Solver) Option {
	return func(e *Engine) {
		e.solver = s
	}
}

// WithASP answers reachability queries with an answer set program instead
// of the SAT encoding. Induction always uses the SAT encoding.
func WithASP(s *asp.Solver) Option {
	return func(e *Engine) {
		e.asp = s
	}
}

// WithStore caches verdicts in store.
func WithStore(store ports.VerdictStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithMetrics records the run in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine for net.
func New(net *domain.Network, opts ...Option) *Engine {
	e := &Engine{net: net, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.solver == nil {
		e.solver = gini.New(gini.WithLogger(e.logger))
	}
	if e.store != nil {
		e.store = middleware.Chain(e.store,
			middleware.NewLoggingMiddleware(e.logger),
			middleware.NewMetricsMiddleware(e.metrics),
		)
	}
	return e
}

// Network returns the analysed network.
func (e *Engine) Network() *domain.Network {
	return e.net
}

// SolverName names the backend answering reachability queries.
func (e *Engine) SolverName() string {
	if e.asp != nil {
		return e.asp.Name()
	}
	return e.solver.Name()
}

// Initial returns the initial context of q: the network initial context
// overridden by q.Initial.
func (e *Engine) Initial(q Query) (domain.Context, error) {
	init := e.net.InitialContext()
	if q.Initial == nil {
		return init, nil
	}
	if err := e.net.CheckContext(q.Initial); err != nil {
		return nil, fmt.Errorf("initial context: %w", err)
	}
	for i, s := range q.Initial {
		if s != domain.Unconstrained {
			init[i] = s
		}
	}
	return init, nil
}

// Graph builds the local causality graph of q.
func (e *Engine) Graph(q Query) (*lcg.Graph, error) {
	init, err := e.Initial(q)
	if err != nil {
		return nil, err
	}
	goal, err := e.goal(q.Goal)
	if err != nil {
		return nil, err
	}
	g, err := lcg.New(e.net, init, goal, lcg.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	g.Build()
	return g, nil
}

// BoundResult is the completeness bound of a query.
type BoundResult struct {
	// Bound is Unbounded when the graph is cyclic or yields no finite bound.
	Bound  lcg.Bound
	Cyclic bool
	Stats  lcg.Stats
}

// Bound computes the completeness bound of q from its causality graph.
// A cyclic graph is a result, not an error.
func (e *Engine) Bound(q Query) (BoundResult, error) {
	g, err := e.Graph(q)
	if err != nil {
		return BoundResult{}, err
	}
	st := g.Stats()
	e.metrics.ObserveGraph(map[string]int{
		lcg.KindLocalState.String(): st.LocalStates,
		lcg.KindObjective.String():  st.Objectives,
		lcg.KindSolution.String():   st.Solutions,
		lcg.KindTransition.String(): st.Transitions,
	})

	b, err := g.ComputeBound()
	res := BoundResult{Bound: b, Stats: st}
	switch {
	case errors.Is(err, domain.ErrCyclicGraph):
		res.Cyclic = true
		e.logger.Info("local causality graph is cyclic", "goal", g.Label(g.Root()))
	case err != nil:
		return BoundResult{}, err
	default:
		e.metrics.ObserveBound(int(b))
		e.logger.Info("local causality bound", "bound", b.String(), "vertices", st.Vertices)
	}
	return res, nil
}

func (e *Engine) goal(goal domain.Context) (domain.LocalState, error) {
	if err := e.net.CheckContext(goal); err != nil {
		return domain.LocalState{}, fmt.Errorf("goal: %w", err)
	}
	return domain.GoalOf(goal)
}

// Reachability answers q. Negative answers are reports, not errors.
func (e *Engine) Reachability(ctx context.Context, q Query) (*domain.Report, error) {
	start := time.Now()
	init, err := e.Initial(q)
	if err != nil {
		return nil, err
	}
	goal, err := e.goal(q.Goal)
	if err != nil {
		return nil, err
	}
	if q.Length < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLength, q.Length)
	}

	key := Key(e.net, ModeReachability, init, goal, q.Length)
	if report := e.cached(ctx, key); report != nil {
		return report, nil
	}

	report := &domain.Report{
		Initial: init,
		Goal:    goal,
		Bound:   domain.Unconstrained,
		Solver:  e.SolverName(),
	}
	if err := e.reach(ctx, q, init, goal, report); err != nil {
		return nil, err
	}
	report.Elapsed = time.Since(start)
	e.finish(ctx, key, report)
	return report, nil
}

func (e *Engine) reach(ctx context.Context, q Query, init domain.Context, goal domain.LocalState, report *domain.Report) error {
	if init[goal.Automaton] == goal.State {
		e.logger.Info("goal holds in the initial context")
		report.Outcome = domain.OutcomeReachable
		report.Length = 1
		if q.Length > 0 {
			report.Manual = true
			report.Length = q.Length
		}
		report.Trace = domain.NewTrace([]domain.Context{init})
		return nil
	}

	length := q.Length
	if length > 0 {
		report.Manual = true
		e.logger.Info("bound manually set", "length", length)
	} else {
		b, err := e.Bound(q)
		if err != nil {
			return err
		}
		if b.Cyclic {
			report.Outcome = domain.OutcomeCyclic
			return nil
		}
		if !b.Bound.Finite() {
			report.Outcome = domain.OutcomeUnbounded
			return nil
		}
		report.Bound = int(b.Bound)
		length = int(b.Bound)
	}
	report.Length = length

	satisfiable, trace, err := e.solve(ctx, init, goal.Context(e.net), length)
	if err != nil {
		return err
	}
	switch {
	case satisfiable:
		report.Outcome = domain.OutcomeReachable
		report.Trace = trace
	case report.Manual:
		report.Outcome = domain.OutcomeInconclusive
	default:
		report.Outcome = domain.OutcomeUnreachable
	}
	return nil
}

func (e *Engine) solve(ctx context.Context, init, goal domain.Context, length int) (bool, *domain.Trace, error) {
	start := time.Now()
	if e.asp != nil {
		res, err := e.asp.Reachability(ctx, e.net, init, goal, length)
		e.metrics.ObserveSolve(e.asp.Name(), time.Since(start))
		if err != nil {
			return false, nil, err
		}
		return res.Reachable, res.Trace, nil
	}

	enc := encoding.New(e.net, encoding.WithLogger(e.logger))
	res, err := enc.Reachability(ctx, e.solver, init, goal, length)
	e.metrics.ObserveFormula(res.Vars, res.Clauses)
	e.metrics.ObserveSolve(e.solver.Name(), time.Since(start))
	if err != nil {
		return false, nil, err
	}
	return res.Satisfiable, res.Trace, nil
}

// Induction checks whether length is a completeness bound for goal: the
// report is complete when no path of length contexts reaches goal only at
// its last step through pairwise distinct contexts.
func (e *Engine) Induction(ctx context.Context, goal domain.Context, length int) (*domain.Report, error) {
	start := time.Now()
	ls, err := e.goal(goal)
	if err != nil {
		return nil, err
	}

	key := Key(e.net, ModeInduction, nil, ls, length)
	if report := e.cached(ctx, key); report != nil {
		return report, nil
	}

	enc := encoding.New(e.net, encoding.WithLogger(e.logger))
	res, err := enc.Induction(ctx, e.solver, goal, length)
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveFormula(res.Vars, res.Clauses)
	e.metrics.ObserveSolve(e.solver.Name(), time.Since(start))

	report := &domain.Report{
		Outcome: domain.OutcomeComplete,
		Goal:    ls,
		Length:  length,
		Bound:   domain.Unconstrained,
		Manual:  true,
		Solver:  e.solver.Name(),
	}
	if res.Satisfiable {
		report.Outcome = domain.OutcomeNotComplete
		report.Trace = res.Trace
	}
	report.Elapsed = time.Since(start)
	e.finish(ctx, key, report)
	return report, nil
}

func (e *Engine) cached(ctx context.Context, key string) *domain.Report {
	if e.store == nil {
		return nil
	}
	report, err := e.store.Load(ctx, key)
	if err != nil {
		return nil
	}
	e.metrics.ObserveOutcome(report.Outcome)
	return report
}

// finish records the outcome and caches the report. Cache failures are
// logged by the store middleware and do not fail the query.
func (e *Engine) finish(ctx context.Context, key string, report *domain.Report) {
	e.metrics.ObserveOutcome(report.Outcome)
	e.logger.Info("query answered", "outcome", report.Outcome, "length", report.Length, "elapsed", report.Elapsed)
	if e.store != nil {
		_ = e.store.Save(ctx, key, report)
	}
}
