package process

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/anreach/pkg/cnf"
	"github.com/aretw0/anreach/pkg/ports"
)

// Solver implements ports.Solver by exporting the clause set as DIMACS,
// running a registered program and reading back its result file.
type Solver struct {
	runner  *Runner
	name    string
	workDir string
	logger  *slog.Logger
}

var _ ports.Solver = (*Solver)(nil)

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// WithWorkDir keeps the exchanged files in dir instead of a temporary
// directory removed after each call.
func WithWorkDir(dir string) SolverOption {
	return func(s *Solver) {
		s.workDir = dir
	}
}

// WithSolverLogger sets the logger.
func WithSolverLogger(l *slog.Logger) SolverOption {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSolver binds the registered program name of runner as a SAT backend.
func NewSolver(runner *Runner, name string, opts ...SolverOption) (*Solver, error) {
	if _, ok := runner.Lookup(name); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	s := &Solver{runner: runner, name: name, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements ports.Solver.
func (s *Solver) Name() string {
	return s.name
}

// Solve implements ports.Solver. Exit statuses are ignored as long as the
// result file parses: minisat exits with 10 on SAT and 20 on UNSAT.
func (s *Solver) Solve(ctx context.Context, f *cnf.Formula) (cnf.Result, error) {
	dir := s.workDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "anreach-")
		if err != nil {
			return cnf.Result{}, err
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}
	cnfPath := filepath.Join(dir, "problem.cnf")
	resPath := filepath.Join(dir, "result")
	_ = os.Remove(resPath)

	if err := writeDimacs(cnfPath, f); err != nil {
		return cnf.Result{}, err
	}

	out, err := s.runner.Run(ctx, s.name, map[string]string{
		PlaceholderCNF:    cnfPath,
		PlaceholderResult: resPath,
	})
	if err != nil {
		return cnf.Result{}, err
	}

	file, err := os.Open(resPath)
	if err != nil {
		return cnf.Result{}, fmt.Errorf("result file unreadable (exit code %d, stderr %q): %w",
			out.ExitCode, strings.TrimSpace(out.Stderr), err)
	}
	defer file.Close()

	res, err := cnf.ReadResult(file)
	if err != nil {
		return cnf.Result{}, err
	}
	s.logger.Debug("external solver answered", "solver", s.name, "sat", res.Satisfiable, "exit_code", out.ExitCode)
	return res, nil
}

func writeDimacs(path string, f *cnf.Formula) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.WriteDimacs(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
