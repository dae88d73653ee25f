// Package encoding turns a bounded reachability question on an automata
// network into a propositional formula and decodes satisfying assignments
// back into traces.
package encoding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/anreach/internal/logging"
	"github.com/aretw0/anreach/pkg/cnf"
	"github.com/aretw0/anreach/pkg/domain"
	"github.com/aretw0/anreach/pkg/ports"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Encoder builds the path formula of a network. Each Encode call starts a
// fresh circuit, so an Encoder may be reused sequentially but not
// concurrently.
type Encoder struct {
	net    *domain.Network
	logger *slog.Logger

	c        *logic.C
	length   int
	vars     [][][]z.Lit // step, automaton, state
	noChange [][]z.Lit   // step, automaton; LitNull until built
	terms    []z.Lit
	root     z.Lit
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithLogger sets the logger used for encoding diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Encoder) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an encoder for net.
func New(net *domain.Network, opts ...Option) *Encoder {
	e := &Encoder{net: net, logger: logging.NewNop(), root: z.LitNull}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the decoded answer for one encoded question.
type Result struct {
	// Satisfiable is true when a path was found. For Reachability it means
	// the goal is reachable; for Induction it is a counterexample.
	Satisfiable bool
	Trace       *domain.Trace
	Vars        int
	Clauses     int
}

// EncodeReachability builds the formula of the paths of length steps from
// init to goal. Both contexts may leave entries unconstrained.
func (e *Encoder) EncodeReachability(init, goal domain.Context, length int) error {
	if length < 1 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidLength, length)
	}
	if err := e.net.CheckContext(init); err != nil {
		return fmt.Errorf("initial context: %w", err)
	}
	if err := e.net.CheckContext(goal); err != nil {
		return fmt.Errorf("goal: %w", err)
	}

	e.reset(length)
	e.logger.Debug("create logical variables", "steps", length, "per_step", e.net.NumLocalStates())

	e.pin(0, init)
	e.pin(length-1, goal)
	// Unconstrained initial entries still start in exactly one state.
	for a, s := range init {
		if s == domain.Unconstrained {
			e.exclusive(0, a)
		}
	}
	e.totality()
	e.transitions()

	e.root = ands(e.c, e.terms...)
	return nil
}

// EncodeInduction builds the counterexample search of the induction check:
// a path of length steps with pairwise distinct global states, starting
// anywhere, where the goal holds only at the last step.
func (e *Encoder) EncodeInduction(goal domain.Context, length int) error {
	if length < 2 {
		return fmt.Errorf("%w: induction needs at least 2 steps, got %d", domain.ErrInvalidLength, length)
	}
	if err := e.net.CheckContext(goal); err != nil {
		return fmt.Errorf("goal: %w", err)
	}
	target, err := domain.GoalOf(goal)
	if err != nil {
		return err
	}

	e.reset(length)
	e.pin(length-1, goal)
	for k := 0; k < length-1; k++ {
		e.terms = append(e.terms, e.vars[k][target.Automaton][target.State].Not())
	}
	e.totality()
	e.transitions()
	e.allDifferent()
	for a := range e.net.Automata {
		e.exclusive(0, a)
	}

	e.root = ands(e.c, e.terms...)
	return nil
}

func (e *Encoder) reset(length int) {
	e.c = logic.NewC()
	e.length = length
	e.terms = e.terms[:0]
	e.root = z.LitNull

	e.vars = make([][][]z.Lit, length)
	e.noChange = make([][]z.Lit, length)
	for k := 0; k < length; k++ {
		e.vars[k] = make([][]z.Lit, e.net.NumAutomata())
		e.noChange[k] = make([]z.Lit, e.net.NumAutomata())
		for a, aut := range e.net.Automata {
			e.vars[k][a] = make([]z.Lit, aut.NumStates())
			for s := range e.vars[k][a] {
				e.vars[k][a][s] = e.c.Lit()
			}
		}
	}
}

// Var returns the variable "automaton a is in state s at step k" of the
// last encoded formula.
func (e *Encoder) Var(k, a, s int) z.Lit {
	return e.vars[k][a][s]
}

// pin forces the specific entries of ctx at step k.
func (e *Encoder) pin(k int, ctx domain.Context) {
	for a, want := range ctx {
		if want == domain.Unconstrained {
			continue
		}
		for s, v := range e.vars[k][a] {
			if s == want {
				e.terms = append(e.terms, v)
			} else {
				e.terms = append(e.terms, v.Not())
			}
		}
	}
}

// totality: at every step every automaton is in at least one state.
func (e *Encoder) totality() {
	for k := 0; k < e.length; k++ {
		for a := range e.net.Automata {
			e.terms = append(e.terms, ors(e.c, e.vars[k][a]...))
		}
	}
}

// exclusive: at step k automaton a is in at most one state.
func (e *Encoder) exclusive(k, a int) {
	vs := e.vars[k][a]
	for s1 := 0; s1 < len(vs)-1; s1++ {
		for s2 := s1 + 1; s2 < len(vs); s2++ {
			e.terms = append(e.terms, e.c.And(vs[s1], vs[s2]).Not())
		}
	}
}

func (e *Encoder) transitions() {
	for k := 0; k+1 < e.length; k++ {
		for a, aut := range e.net.Automata {
			for s := 0; s < aut.NumStates(); s++ {
				e.activation(k, a, s)
			}
		}
	}
}

// activation: state s of a can be active at k+1 only if it was active at k,
// or one transition into s was enabled at k while nothing else moved.
func (e *Encoder) activation(k, a, s int) {
	aut := e.net.Automata[a]
	cur, next := e.vars[k], e.vars[k+1]

	var entering []domain.Transition
	for _, tr := range aut.Transitions {
		if tr.Target == s {
			entering = append(entering, tr)
		}
	}

	act := cur[a][s]
	if len(entering) > 0 {
		var fire []z.Lit
		if len(entering) == 1 {
			fire = e.enabled(cur, a, entering[0])
		} else {
			choices := make([]z.Lit, len(entering))
			for i, tr := range entering {
				choices[i] = ands(e.c, e.enabled(cur, a, tr)...)
			}
			fire = []z.Lit{ors(e.c, choices...)}
		}
		for b := range e.net.Automata {
			if b != a {
				fire = append(fire, e.unchanged(k+1, b))
			}
		}
		for s2 := range next[a] {
			if s2 != s {
				fire = append(fire, next[a][s2].Not())
			}
		}
		act = e.c.Or(cur[a][s], ands(e.c, fire...))
	}
	e.terms = append(e.terms, implies(e.c, next[a][s], act))
}

// enabled lists the literals that must hold at a step for tr to fire.
func (e *Encoder) enabled(at [][]z.Lit, a int, tr domain.Transition) []z.Lit {
	lits := make([]z.Lit, 0, len(tr.Conditions)+1)
	lits = append(lits, at[a][tr.Origin])
	for _, c := range tr.Conditions {
		lits = append(lits, at[c.Automaton][c.State])
	}
	return lits
}

// unchanged returns, memoized per (k, a), the sub-formula "automaton a keeps
// its state between steps k-1 and k".
func (e *Encoder) unchanged(k, a int) z.Lit {
	if m := e.noChange[k][a]; m != z.LitNull {
		return m
	}
	prev, cur := e.vars[k-1][a], e.vars[k][a]
	keep := make([]z.Lit, len(cur))
	for s := range cur {
		keep[s] = implies(e.c, prev[s], cur[s])
	}
	m := ands(e.c, keep...)
	e.noChange[k][a] = m
	return m
}

// allDifferent: every pair of steps differs on at least one automaton.
func (e *Encoder) allDifferent() {
	for k1 := 0; k1 < e.length-1; k1++ {
		for k2 := k1 + 1; k2 < e.length; k2++ {
			diff := make([]z.Lit, e.net.NumAutomata())
			for a := range e.net.Automata {
				left := make([]z.Lit, len(e.vars[k1][a]))
				for s := range left {
					left[s] = implies(e.c, e.vars[k1][a][s], e.vars[k2][a][s].Not())
				}
				diff[a] = ands(e.c, left...)
			}
			e.terms = append(e.terms, ors(e.c, diff...))
		}
	}
}

// Formula converts the last encoded circuit to CNF. The variables of the
// circuit keep their index in the clause set.
func (e *Encoder) Formula() (*cnf.Formula, error) {
	if e.root == z.LitNull {
		return nil, fmt.Errorf("encoder: nothing encoded")
	}
	f := cnf.New()
	e.ToCnf(f)
	return f, nil
}

// ToCnf writes the clauses of the last encoded circuit into dst, including
// the unit clauses asserting the root and the constant true.
func (e *Encoder) ToCnf(dst inter.Adder) {
	e.c.ToCnf(dst)
	dst.Add(e.c.T)
	dst.Add(z.LitNull)
	dst.Add(e.root)
	dst.Add(z.LitNull)
}

// Decode rebuilds the global context of every step from a model. It panics
// with an *InvariantError when an automaton is not in exactly one state.
func (e *Encoder) Decode(model inter.Model) *domain.Trace {
	states := make([]domain.Context, e.length)
	for k := range states {
		ctx := make(domain.Context, e.net.NumAutomata())
		for a := range e.net.Automata {
			var active []int
			for s, v := range e.vars[k][a] {
				if model.Value(v) {
					active = append(active, s)
				}
			}
			if len(active) != 1 {
				panic(&InvariantError{Step: k, Automaton: e.net.Automata[a].Name, Active: active})
			}
			ctx[a] = active[0]
		}
		states[k] = ctx
	}
	return domain.NewTrace(states)
}

// Reachability encodes and solves the paths of length steps from init to
// goal.
func (e *Encoder) Reachability(ctx context.Context, solver ports.Solver, init, goal domain.Context, length int) (Result, error) {
	if err := e.EncodeReachability(init, goal, length); err != nil {
		return Result{}, err
	}
	return e.solve(ctx, solver)
}

// Induction encodes and solves the induction check of length steps.
func (e *Encoder) Induction(ctx context.Context, solver ports.Solver, goal domain.Context, length int) (Result, error) {
	if err := e.EncodeInduction(goal, length); err != nil {
		return Result{}, err
	}
	return e.solve(ctx, solver)
}

func (e *Encoder) solve(ctx context.Context, solver ports.Solver) (Result, error) {
	f, err := e.Formula()
	if err != nil {
		return Result{}, err
	}
	res := Result{Vars: f.NumVars(), Clauses: f.NumClauses()}
	e.logger.Info("sat solver launched", "solver", solver.Name(), "vars", res.Vars, "clauses", res.Clauses)

	out, err := solver.Solve(ctx, f)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %w", domain.ErrSolverFailed, solver.Name(), err)
	}
	e.logger.Info("sat solving done", "solver", solver.Name(), "sat", out.Satisfiable)
	if !out.Satisfiable {
		return res, nil
	}
	res.Satisfiable = true
	res.Trace = e.Decode(out.Model)
	return res, nil
}

func implies(c *logic.C, a, b z.Lit) z.Lit {
	return c.Or(a.Not(), b)
}

func ands(c *logic.C, ms ...z.Lit) z.Lit {
	switch len(ms) {
	case 0:
		return c.T
	case 1:
		return ms[0]
	default:
		return c.Ands(ms...)
	}
}

func ors(c *logic.C, ms ...z.Lit) z.Lit {
	switch len(ms) {
	case 0:
		return c.F
	case 1:
		return ms[0]
	default:
		return c.Ors(ms...)
	}
}
