package asp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/anreach/internal/logging"
	"github.com/aretw0/anreach/pkg/adapters/process"
	"github.com/aretw0/anreach/pkg/domain"
)

// DefaultProgram is the registry entry used to run programs.
const DefaultProgram = "clingo"

const (
	markerUnsat = "UNSATISFIABLE"
	markerSat   = "SATISFIABLE"
)

var activeAtom = regexp.MustCompile(`active\(level\("((?:[^"\\]|\\.)*)",(\d+)\),(\d+)\)`)

// Result is the answer of one program run.
type Result struct {
	Reachable bool
	// Trace is decoded from the first answer set, nil when unreachable.
	Trace *domain.Trace
}

// Solver runs programs through a registered clingo-like executable.
type Solver struct {
	runner  *process.Runner
	name    string
	workDir string
	logger  *slog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithProgram selects the registry entry, "clingo" by default.
func WithProgram(name string) Option {
	return func(s *Solver) {
		s.name = name
	}
}

// WithWorkDir keeps the program file in dir.
func WithWorkDir(dir string) Option {
	return func(s *Solver) {
		s.workDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSolver creates a Solver on runner.
func NewSolver(runner *process.Runner, opts ...Option) (*Solver, error) {
	s := &Solver{runner: runner, name: DefaultProgram, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if _, ok := runner.Lookup(s.name); !ok {
		return nil, fmt.Errorf("%w: %s", process.ErrNotRegistered, s.name)
	}
	return s, nil
}

// Name returns the registry entry the solver runs.
func (s *Solver) Name() string {
	return s.name
}

// Reachability builds and runs the program of the query.
func (s *Solver) Reachability(ctx context.Context, net *domain.Network, init, goal domain.Context, length int) (Result, error) {
	program, err := Program(net, init, goal, length)
	if err != nil {
		return Result{}, err
	}

	dir := s.workDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "anreach-asp-")
		if err != nil {
			return Result{}, err
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}
	path := filepath.Join(dir, "reachability.lp")
	if err := os.WriteFile(path, []byte(program), 0o644); err != nil {
		return Result{}, fmt.Errorf("failed to write program: %w", err)
	}

	s.logger.Info("running answer set solver", "program", s.name, "length", length)
	out, err := s.runner.Run(ctx, s.name, map[string]string{process.PlaceholderProgram: path})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", domain.ErrSolverFailed, s.name, err)
	}

	// UNSATISFIABLE contains SATISFIABLE, test it first.
	switch {
	case strings.Contains(out.Stdout, markerUnsat):
		return Result{}, nil
	case strings.Contains(out.Stdout, markerSat):
		trace, err := Decode(net, out.Stdout, length)
		if err != nil {
			return Result{}, err
		}
		return Result{Reachable: true, Trace: trace}, nil
	default:
		return Result{}, fmt.Errorf("%w: %s: no verdict in output (exit code %d, stderr %q)",
			domain.ErrSolverFailed, s.name, out.ExitCode, strings.TrimSpace(out.Stderr))
	}
}

// Decode reads the active/2 atoms of the first answer set of output into a
// trace of length contexts.
func Decode(net *domain.Network, output string, length int) (*domain.Trace, error) {
	answer := output
	if i := strings.Index(answer, "Answer:"); i >= 0 {
		answer = answer[i:]
		if nl := strings.IndexByte(answer, '\n'); nl >= 0 {
			answer = answer[nl+1:]
		}
		if nl := strings.IndexByte(answer, '\n'); nl >= 0 {
			answer = answer[:nl]
		}
	}

	states := make([]domain.Context, length)
	for k := range states {
		states[k] = domain.NewContext(net.NumAutomata())
	}
	for _, m := range activeAtom.FindAllStringSubmatch(answer, -1) {
		a := net.AutomatonIndex(m[1])
		if a < 0 {
			return nil, fmt.Errorf("answer set mentions unknown automaton %q", m[1])
		}
		state, _ := strconv.Atoi(m[2])
		step, _ := strconv.Atoi(m[3])
		if step >= length {
			continue
		}
		states[step][a] = state
	}
	for k, st := range states {
		for a, s := range st {
			if s == domain.Unconstrained {
				return nil, fmt.Errorf("answer set has no state for %q at step %d", net.Automaton(a).Name, k)
			}
		}
	}
	return domain.NewTrace(states), nil
}
