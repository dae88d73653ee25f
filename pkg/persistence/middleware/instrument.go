package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/anreach/pkg/domain"
	"github.com/aretw0/anreach/pkg/observability"
	"github.com/aretw0/anreach/pkg/ports"
)

type metricsMiddleware struct {
	ports.VerdictStore
	metrics *observability.Metrics
}

// NewMetricsMiddleware counts cache hits and misses on Load.
func NewMetricsMiddleware(m *observability.Metrics) Middleware {
	return func(next ports.VerdictStore) ports.VerdictStore {
		return &metricsMiddleware{VerdictStore: next, metrics: m}
	}
}

func (m *metricsMiddleware) Load(ctx context.Context, key string) (*domain.Report, error) {
	report, err := m.VerdictStore.Load(ctx, key)
	switch {
	case err == nil:
		m.metrics.ObserveCache(true)
	case errors.Is(err, domain.ErrVerdictNotFound):
		m.metrics.ObserveCache(false)
	}
	return report, err
}

type loggingMiddleware struct {
	ports.VerdictStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every load and save at debug level, and store
// failures at warn level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.VerdictStore) ports.VerdictStore {
		return &loggingMiddleware{VerdictStore: next, logger: logger}
	}
}

func (m *loggingMiddleware) Save(ctx context.Context, key string, report *domain.Report) error {
	err := m.VerdictStore.Save(ctx, key, report)
	if err != nil {
		m.logger.Warn("verdict cache save failed", "key", key, "err", err)
		return err
	}
	m.logger.Debug("verdict cached", "key", key, "outcome", report.Outcome)
	return nil
}

func (m *loggingMiddleware) Load(ctx context.Context, key string) (*domain.Report, error) {
	report, err := m.VerdictStore.Load(ctx, key)
	switch {
	case err == nil:
		m.logger.Debug("verdict cache hit", "key", key, "outcome", report.Outcome)
	case errors.Is(err, domain.ErrVerdictNotFound):
		m.logger.Debug("verdict cache miss", "key", key)
	default:
		m.logger.Warn("verdict cache load failed", "key", key, "err", err)
	}
	return report, err
}
