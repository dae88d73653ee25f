package dsl_test

import (
	"testing"

	"github.com/aretw0/anreach/internal/testutils"
	"github.com/aretw0/anreach/pkg/domain"
	"github.com/aretw0/anreach/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Handshake(t *testing.T) {
	net, err := dsl.New().
		Automaton("a", "0", "1", "2").
		Automaton("b", "0", "1").
		Move("a", "0", "1").
		Move("a", "1", "2").When("b", "1").
		Move("b", "0", "1").When("a", "0").
		Build()
	require.NoError(t, err)
	assert.Equal(t, testutils.Handshake(t).String(), net.String())
}

func TestBuilder_Initial(t *testing.T) {
	b := dsl.New().
		Automaton("gate", "closed", "open").
		Initial("gate", "open")
	net, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, domain.Context{1}, net.InitialContext())
}

func TestBuilder_Synchronised(t *testing.T) {
	net, err := dsl.New().
		Automaton("a", "0", "1").
		Automaton("b", "0", "1").
		Move("a", "0", "1").With("b", "0", "1").
		Build()
	require.NoError(t, err)

	assert.Equal(t, []domain.Partner{{Automaton: 1, Transition: 0}}, net.Automaton(0).Transitions[0].Synchro)
	assert.Equal(t, []domain.Partner{{Automaton: 0, Transition: 0}}, net.Automaton(1).Transitions[0].Synchro)
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*domain.Network, error)
		is    error
	}{
		{"unknown automaton in move", func() (*domain.Network, error) {
			return dsl.New().Automaton("a", "0", "1").Move("z", "0", "1").Build()
		}, domain.ErrUnknownAutomaton},
		{"unknown state in guard", func() (*domain.Network, error) {
			return dsl.New().Automaton("a", "0", "1").Automaton("b", "0").
				Move("a", "0", "1").When("b", "4").Build()
		}, domain.ErrUnknownState},
		{"unknown initial state", func() (*domain.Network, error) {
			return dsl.New().Automaton("a", "0", "1").Initial("a", "2").Build()
		}, domain.ErrUnknownState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			assert.ErrorIs(t, err, tt.is)
		})
	}

	t.Run("Duplicate Automaton", func(t *testing.T) {
		_, err := dsl.New().Automaton("a", "0").Automaton("a", "1").Build()
		assert.Error(t, err)
	})
}
