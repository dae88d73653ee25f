// Package cli wires a run configuration into the components of an analysis:
// verdict store, solver backend, metrics and logger.
package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/aretw0/anreach/internal/asp"
	"github.com/aretw0/anreach/pkg/adapters/file"
	"github.com/aretw0/anreach/pkg/adapters/gini"
	"github.com/aretw0/anreach/pkg/adapters/memory"
	"github.com/aretw0/anreach/pkg/adapters/process"
	"github.com/aretw0/anreach/pkg/adapters/redis"
	"github.com/aretw0/anreach/pkg/adapters/sqlite"
	"github.com/aretw0/anreach/pkg/config"
	"github.com/aretw0/anreach/pkg/ports"
)

func nopClose() error { return nil }

// OpenStore opens the verdict cache selected by c. The store is nil when
// caching is disabled. The returned function releases the connections the
// store holds.
func OpenStore(c config.Cache) (ports.VerdictStore, func() error, error) {
	switch c.Backend {
	case "", config.CacheNone:
		return nil, nopClose, nil
	case config.CacheMemory:
		return memory.NewStore(), nopClose, nil
	case config.CacheFile:
		return file.New(c.Path), nopClose, nil
	case config.CacheSQLite:
		path := c.Path
		if path == "" {
			path = filepath.Join(".anreach", "verdicts.db")
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.CacheRedis:
		var opts []redis.Option
		if c.Prefix != "" {
			opts = append(opts, redis.WithPrefix(c.Prefix))
		}
		if c.TTL > 0 {
			opts = append(opts, redis.WithTTL(c.TTL))
		}
		store := redis.New(c.Addr, c.Password, c.DB, opts...)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", c.Backend)
	}
}

// NewRunner creates the external program runner, registering the solvers
// of cfg.SolversFile on top of the defaults.
func NewRunner(cfg config.Config, logger *slog.Logger) (*process.Runner, error) {
	opts := []process.RunnerOption{process.WithLogger(logger)}
	if cfg.SolversFile != "" {
		solvers, err := process.LoadSolvers(cfg.SolversFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, process.WithRegistry(solvers))
	}
	return process.NewRunner(opts...), nil
}

// Backends are the solvers selected by a configuration. ASP is set when
// the selected program reads answer set programs; SAT then stays on gini
// for the induction check.
type Backends struct {
	SAT ports.Solver
	ASP *asp.Solver
}

// NewBackends selects the solver named by cfg.Solver: the in-process gini
// solver, or a program of the runner registry.
func NewBackends(cfg config.Config, runner *process.Runner, logger *slog.Logger) (Backends, error) {
	inProcess := gini.New(gini.WithLogger(logger))
	if cfg.Solver == "" || cfg.Solver == config.DefaultSolver {
		return Backends{SAT: inProcess}, nil
	}

	registered, ok := runner.Lookup(cfg.Solver)
	if !ok {
		return Backends{}, fmt.Errorf("%w: %s", process.ErrNotRegistered, cfg.Solver)
	}
	if readsProgram(registered) {
		s, err := asp.NewSolver(runner,
			asp.WithProgram(cfg.Solver),
			asp.WithWorkDir(cfg.WorkDir),
			asp.WithLogger(logger),
		)
		if err != nil {
			return Backends{}, err
		}
		return Backends{SAT: inProcess, ASP: s}, nil
	}

	s, err := process.NewSolver(runner, cfg.Solver,
		process.WithWorkDir(cfg.WorkDir),
		process.WithSolverLogger(logger),
	)
	if err != nil {
		return Backends{}, err
	}
	return Backends{SAT: s}, nil
}

func readsProgram(p process.RegisteredProcess) bool {
	return slices.Contains(p.Args, "{"+process.PlaceholderProgram+"}")
}
