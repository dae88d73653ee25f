package gini_test

import (
	"context"
	"testing"

	"github.com/aretw0/anreach/pkg/adapters/gini"
	"github.com/aretw0/anreach/pkg/cnf"
	"github.com/go-air/gini/z"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(d int) z.Lit { return z.Dimacs2Lit(d) }

func TestSolver_Sat(t *testing.T) {
	f := cnf.New()
	f.AddClause(lit(1), lit(2))
	f.AddClause(lit(-1))

	res, err := gini.New().Solve(context.Background(), f)
	require.NoError(t, err)
	require.True(t, res.Satisfiable)
	assert.False(t, res.Model.Value(lit(1)))
	assert.True(t, res.Model.Value(lit(2)))
}

func TestSolver_Unsat(t *testing.T) {
	f := cnf.New()
	f.AddClause(lit(1))
	f.AddClause(lit(-1))

	res, err := gini.New().Solve(context.Background(), f)
	require.NoError(t, err)
	assert.False(t, res.Satisfiable)
	assert.Nil(t, res.Model)
}

func TestSolver_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gini.New().Solve(ctx, cnf.New())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolver_Name(t *testing.T) {
	assert.Equal(t, "gini", gini.New().Name())
}
