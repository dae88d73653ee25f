// Package gini provides the in-process SAT backend.
package gini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/anreach/pkg/cnf"
	"github.com/aretw0/anreach/pkg/ports"
	backend "github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// Name is the registry name of the backend.
const Name = "gini"

// Solver implements ports.Solver with github.com/go-air/gini.
// Each call uses a fresh solver instance.
type Solver struct {
	logger *slog.Logger
}

var _ ports.Solver = (*Solver)(nil)

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		s.logger = l
	}
}

// New returns the in-process solver.
func New(opts ...Option) *Solver {
	s := &Solver{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements ports.Solver.
func (s *Solver) Name() string {
	return Name
}

// Solve implements ports.Solver. The search itself cannot be interrupted;
// ctx is only checked before it starts.
func (s *Solver) Solve(ctx context.Context, f *cnf.Formula) (cnf.Result, error) {
	if err := ctx.Err(); err != nil {
		return cnf.Result{}, err
	}

	g := backend.New()
	f.AddTo(g)

	switch res := g.Solve(); res {
	case 1:
		model := cnf.NewAssignment(f.NumVars())
		for v := 1; v <= f.NumVars(); v++ {
			m := z.Var(v).Pos()
			if !g.Value(m) {
				m = m.Not()
			}
			model.Set(m)
		}
		s.logger.Debug("gini answered", "result", cnf.MarkerSat)
		return cnf.Result{Satisfiable: true, Model: model}, nil
	case -1:
		s.logger.Debug("gini answered", "result", cnf.MarkerUnsat)
		return cnf.Result{}, nil
	default:
		return cnf.Result{}, fmt.Errorf("gini returned undetermined result %d", res)
	}
}
