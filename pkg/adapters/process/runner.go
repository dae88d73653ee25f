package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
)

// Runner executes registered external programs (SAT solvers, clingo).
// It follows a strict registry pattern: only registered names can run.
type Runner struct {
	registry map[string]RegisteredProcess
	baseDir  string
	logger   *slog.Logger
}

// RegisteredProcess is an allowed command line. Args may hold {name}
// placeholders expanded at run time.
type RegisteredProcess struct {
	Command string
	Args    []string
	Env     map[string]string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list from a loaded config.
func WithRegistry(solvers map[string]SolverConfig) RunnerOption {
	return func(r *Runner) {
		for name, s := range solvers {
			r.registry[name] = RegisteredProcess{Command: s.Command, Args: s.Args, Env: s.Environment}
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner pre-loaded with DefaultSolvers.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[string]RegisteredProcess),
		logger:   slog.New(slog.DiscardHandler),
	}
	WithRegistry(DefaultSolvers())(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted command to the allow-list, replacing any
// previous entry of the same name.
func (r *Runner) Register(name string, command string, args ...string) {
	r.registry[name] = RegisteredProcess{
		Command: command,
		Args:    args,
	}
}

// Lookup returns the registered command of name.
func (r *Runner) Lookup(name string) (RegisteredProcess, bool) {
	p, ok := r.registry[name]
	return p, ok
}

// Names lists the registered commands, sorted.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Output is what a finished process left behind.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ErrNotRegistered is returned when running a name absent from the registry.
var ErrNotRegistered = errors.New("process not registered")

// Run executes the registered command name after replacing every {key}
// of its arguments with vars[key]. A non-zero exit status is reported in
// Output, not as an error, because SAT solvers encode their answer in it.
func (r *Runner) Run(ctx context.Context, name string, vars map[string]string) (Output, error) {
	proc, ok := r.registry[name]
	if !ok {
		return Output{}, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	args := make([]string, len(proc.Args))
	for i, a := range proc.Args {
		args[i] = expand(a, vars)
	}

	cmd := exec.CommandContext(ctx, proc.Command, args...)
	cmd.Dir = r.baseDir
	cmd.Env = cmd.Environ()
	for k, v := range proc.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("process started", "name", name, "command", proc.Command, "args", args)
	err := cmd.Run()

	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		out.ExitCode = exitErr.ExitCode()
	default:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, fmt.Errorf("%s: %w", name, ctxErr)
		}
		return out, fmt.Errorf("%s: execution failed: %w", name, err)
	}
	r.logger.Debug("process finished", "name", name, "exit_code", out.ExitCode)
	return out, nil
}

func expand(arg string, vars map[string]string) string {
	if !strings.Contains(arg, "{") {
		return arg
	}
	for k, v := range vars {
		arg = strings.ReplaceAll(arg, "{"+k+"}", v)
	}
	return arg
}
