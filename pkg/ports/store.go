package ports

import (
	"context"

	"github.com/aretw0/anreach/pkg/domain"
)

// VerdictStore caches the reports of past queries.
// Keys are digests of (network, initial context, goal, mode, length).
type VerdictStore interface {
	// Save persists the report under key, replacing any previous one.
	Save(ctx context.Context, key string, report *domain.Report) error

	// Load retrieves the report stored under key.
	// Returns domain.ErrVerdictNotFound if there is none.
	Load(ctx context.Context, key string) (*domain.Report, error)

	// Delete removes the report stored under key.
	Delete(ctx context.Context, key string) error

	// List returns the stored keys.
	List(ctx context.Context) ([]string, error)
}
