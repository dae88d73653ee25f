package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/anreach/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunVerdictStoreContract runs a suite of tests to verify that a VerdictStore
// implementation adheres to the defined interface contract.
func RunVerdictStoreContract(t *testing.T, store VerdictStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	reachable := func() *domain.Report {
		return &domain.Report{
			Outcome: domain.OutcomeReachable,
			Initial: domain.Context{0, 0},
			Goal:    domain.LocalState{Automaton: 0, State: 1},
			Length:  2,
			Bound:   2,
			Trace:   domain.NewTrace([]domain.Context{{0, 0}, {1, 0}}),
			Solver:  "gini",
			Elapsed: 3 * time.Millisecond,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		report := reachable()
		require.NoError(t, store.Save(ctx, key, report), "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report.Outcome, loaded.Outcome)
		assert.Equal(t, report.Goal, loaded.Goal)
		assert.Equal(t, report.Length, loaded.Length)
		assert.Equal(t, report.Bound, loaded.Bound)
		assert.Equal(t, report.Solver, loaded.Solver)
		require.NotNil(t, loaded.Trace)
		assert.Equal(t, report.Trace.States(), loaded.Trace.States())
		assert.Equal(t, []int{0}, loaded.Trace.Steps[1].Changed)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		report := reachable()
		report.Outcome = domain.OutcomeInconclusive
		report.Trace = nil
		require.NoError(t, store.Save(ctx, key, report))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeInconclusive, loaded.Outcome)
		assert.Nil(t, loaded.Trace)
	})

	t.Run("Stored Copy Is Isolated", func(t *testing.T) {
		report := reachable()
		require.NoError(t, store.Save(ctx, key, report))
		report.Outcome = domain.OutcomeCyclic
		report.Initial[0] = 7

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeReachable, loaded.Outcome)
		assert.Equal(t, domain.Context{0, 0}, loaded.Initial)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrVerdictNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, reachable()))
		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrVerdictNotFound, "Load after Delete should return ErrVerdictNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		require.NoError(t, store.Save(ctx, id1, reachable()))
		require.NoError(t, store.Save(ctx, id2, reachable()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}
