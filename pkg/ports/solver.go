package ports

import (
	"context"

	"github.com/aretw0/anreach/pkg/cnf"
)

// Solver decides the satisfiability of a clause set.
// An UNSAT answer is a Result, not an error; errors are reserved for
// solvers that could not produce an answer.
type Solver interface {
	// Name identifies the backend in logs and reports.
	Name() string
	// Solve blocks until the solver answers or ctx is cancelled.
	Solve(ctx context.Context, f *cnf.Formula) (cnf.Result, error)
}
