package anreach

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/anreach/internal/analysis"
	"github.com/aretw0/anreach/internal/asp"
	"github.com/aretw0/anreach/internal/compiler"
	"github.com/aretw0/anreach/internal/encoding"
	"github.com/aretw0/anreach/internal/lcg"
	"github.com/aretw0/anreach/internal/logging"
	"github.com/aretw0/anreach/pkg/cnf"
	"github.com/aretw0/anreach/pkg/domain"
	"github.com/aretw0/anreach/pkg/observability"
	"github.com/aretw0/anreach/pkg/ports"
)

// Engine is the high-level entry point for the anreach library.
// It wraps the internal analysis engine and accepts queries written as
// context expressions.
type Engine struct {
	analysis *analysis.Engine
	net      *domain.Network
	solver   ports.Solver
	asp      *asp.Solver
	store    ports.VerdictStore
	metrics  *observability.Metrics
	logger   *slog.Logger
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithNetwork injects an already built network, bypassing model loading.
func WithNetwork(net *domain.Network) Option {
	return func(e *Engine) {
		e.net = net
	}
}

// WithSolver sets the SAT backend (default: in-process gini).
func WithSolver(s ports.Solver) Option {
	return func(e *Engine) {
		e.solver = s
	}
}

// WithASP answers reachability queries with the answer set encoding.
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

// WithMetrics records every query in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New loads the model at modelPath and prepares an engine for it.
// If WithNetwork is provided, modelPath can be empty and is only used as a
// name.
func New(modelPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.net == nil {
		if modelPath == "" {
			return nil, fmt.Errorf("modelPath is required when no network is provided")
		}
		net, err := compiler.LoadFile(modelPath)
		if err != nil {
			return nil, err
		}
		eng.net = net
	}
	if modelPath != "" {
		eng.Name = strings.TrimSuffix(filepath.Base(modelPath), filepath.Ext(modelPath))
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("model", eng.Name)
	}

	analysisOpts := []analysis.Option{
		analysis.WithLogger(eng.logger),
		analysis.WithMetrics(eng.metrics),
	}
	if eng.solver != nil {
		analysisOpts = append(analysisOpts, analysis.WithSolver(eng.solver))
	}
	if eng.asp != nil {
		analysisOpts = append(analysisOpts, analysis.WithASP(eng.asp))
	}
	if eng.store != nil {
		analysisOpts = append(analysisOpts, analysis.WithStore(eng.store))
	}
	eng.analysis = analysis.New(eng.net, analysisOpts...)
	return eng, nil
}

// Query is a reachability question written with context expressions such
// as `a=1` or `"a"=0, "b"=1`.
type Query struct {
	// Initial overrides the model initial context. Empty keeps it.
	Initial string
	// Goal fixes exactly one automaton.
	Goal string
	// Length, when positive, replaces the computed bound.
	Length int
}

func (e *Engine) resolve(q Query) (analysis.Query, error) {
	out := analysis.Query{Length: q.Length}
	if strings.TrimSpace(q.Initial) != "" {
		init, err := compiler.ParseContext(e.net, q.Initial)
		if err != nil {
			return out, fmt.Errorf("initial context: %w", err)
		}
		out.Initial = init
	}
	goal, err := e.ParseGoal(q.Goal)
	if err != nil {
		return out, err
	}
	out.Goal = goal
	return out, nil
}

// ParseGoal reads a goal expression. It must fix exactly one automaton.
func (e *Engine) ParseGoal(expr string) (domain.Context, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("goal: %w", domain.ErrGoalArity)
	}
	goal, err := compiler.ParseContext(e.net, expr)
	if err != nil {
		return nil, fmt.Errorf("goal: %w", err)
	}
	if _, err := domain.GoalOf(goal); err != nil {
		return nil, fmt.Errorf("goal: %w", err)
	}
	return goal, nil
}

// Network returns the analysed network.
func (e *Engine) Network() *domain.Network {
	return e.net
}

// SolverName names the backend answering reachability queries.
func (e *Engine) SolverName() string {
	return e.analysis.SolverName()
}

// Reachability answers q.
func (e *Engine) Reachability(ctx context.Context, q Query) (*domain.Report, error) {
	aq, err := e.resolve(q)
	if err != nil {
		return nil, err
	}
	return e.analysis.Reachability(ctx, aq)
}

// Bound computes the completeness bound of q. q.Length is ignored.
func (e *Engine) Bound(q Query) (analysis.BoundResult, error) {
	aq, err := e.resolve(q)
	if err != nil {
		return analysis.BoundResult{}, err
	}
	return e.analysis.Bound(aq)
}

// Induction checks whether length is a completeness bound for goal.
func (e *Engine) Induction(ctx context.Context, goal string, length int) (*domain.Report, error) {
	g, err := e.ParseGoal(goal)
	if err != nil {
		return nil, err
	}
	return e.analysis.Induction(ctx, g, length)
}

// Graph builds the local causality graph of q.
func (e *Engine) Graph(q Query) (*lcg.Graph, error) {
	aq, err := e.resolve(q)
	if err != nil {
		return nil, err
	}
	return e.analysis.Graph(aq)
}

// Formula encodes the reachability question of q without solving it and
// returns the clause set with the path length used.
func (e *Engine) Formula(q Query) (*cnf.Formula, int, error) {
	aq, init, length, err := e.encodable(q)
	if err != nil {
		return nil, 0, err
	}
	enc := encoding.New(e.net, encoding.WithLogger(e.logger))
	if err := enc.EncodeReachability(init, aq.Goal, length); err != nil {
		return nil, 0, err
	}
	f, err := enc.Formula()
	if err != nil {
		return nil, 0, err
	}
	return f, length, nil
}

// Program generates the answer set program of q without running it.
func (e *Engine) Program(q Query) (string, error) {
	aq, init, length, err := e.encodable(q)
	if err != nil {
		return "", err
	}
	return asp.Program(e.net, init, aq.Goal, length)
}

// encodable resolves q and its path length: q.Length when positive, the
// computed bound otherwise.
func (e *Engine) encodable(q Query) (analysis.Query, domain.Context, int, error) {
	aq, err := e.resolve(q)
	if err != nil {
		return aq, nil, 0, err
	}
	init, err := e.analysis.Initial(aq)
	if err != nil {
		return aq, nil, 0, err
	}
	if aq.Length > 0 {
		return aq, init, aq.Length, nil
	}
	b, err := e.analysis.Bound(aq)
	if err != nil {
		return aq, nil, 0, err
	}
	if b.Cyclic {
		return aq, nil, 0, domain.ErrCyclicGraph
	}
	if !b.Bound.Finite() {
		return aq, nil, 0, domain.ErrUnbounded
	}
	return aq, init, int(b.Bound), nil
}
