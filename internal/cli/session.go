package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/anreach"
	"github.com/aretw0/anreach/internal/logging"
	"github.com/aretw0/anreach/pkg/config"
	"github.com/aretw0/anreach/pkg/observability"
)

// Session is an engine opened from a configuration together with the
// resources it holds. Close must be called when the run ends.
type Session struct {
	Engine  *anreach.Engine
	Config  config.Config
	Logger  *slog.Logger
	Metrics *observability.Metrics

	closeStore func() error
}

// Open validates cfg and builds the engine for the model at modelPath.
// extra options are applied after the configured ones.
func Open(cfg config.Config, modelPath string, extra ...anreach.Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger := logging.ForDebugLevel(cfg.Debug)

	runner, err := NewRunner(cfg, logger)
	if err != nil {
		return nil, err
	}
	backends, err := NewBackends(cfg, runner, logger)
	if err != nil {
		return nil, err
	}
	store, closeStore, err := OpenStore(cfg.Cache)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Config:     cfg,
		Logger:     logger,
		Metrics:    observability.NewMetrics(),
		closeStore: closeStore,
	}

	opts := []anreach.Option{
		anreach.WithLogger(logger),
		anreach.WithMetrics(s.Metrics),
		anreach.WithSolver(backends.SAT),
	}
	if backends.ASP != nil {
		opts = append(opts, anreach.WithASP(backends.ASP))
	}
	if store != nil {
		opts = append(opts, anreach.WithStore(store))
	}
	opts = append(opts, extra...)

	eng, err := anreach.New(modelPath, opts...)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	s.Engine = eng

	logger.Debug("session opened",
		"model", eng.Name,
		"solver", eng.SolverName(),
		"cache", cfg.Cache.Backend,
	)
	return s, nil
}

// Close writes the metrics file when one is configured and releases the
// verdict store.
func (s *Session) Close() error {
	var errs []error
	if s.Config.MetricsFile != "" {
		if err := s.Metrics.WriteToTextfile(s.Config.MetricsFile); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	if s.closeStore != nil {
		errs = append(errs, s.closeStore())
	}
	return errors.Join(errs...)
}
