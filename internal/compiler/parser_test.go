package compiler_test

import (
	"testing"

	"github.com/aretw0/anreach/internal/compiler"
	"github.com/aretw0/anreach/internal/testutils"
	"github.com/aretw0/anreach/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repressilator = `
(** three genes
    repressing each other **)
"a" [0, 1]
"b" [0, 1]
c [0, 1, 2]

"a" 0 -> 1 when "c"=0
"a" 1 -> 0 when "c"=2
b 0 -> 1 when a=1 and c=0
"b" 1 -> 0
"c" 0 -> 1 when "b"=1   (** trailing comment **)
"c" 1 -> 2
"c" 2 -> 0, "a" 1 -> 0

initial_context "a"=0, c=0
`

func TestParse(t *testing.T) {
	net, err := compiler.Parse([]byte(repressilator))
	require.NoError(t, err)

	require.Equal(t, 3, net.NumAutomata())
	assert.Equal(t, 7, net.NumLocalStates())
	assert.Equal(t, 8, net.NumTransitions())

	a := net.Automaton(0)
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, []string{"0", "1"}, a.States)
	assert.Equal(t, domain.Transition{
		Origin: 0, Target: 1,
		Conditions: []domain.Condition{{Automaton: 2, State: 0}},
	}, a.Transitions[0])

	b := net.Automaton(1)
	assert.Equal(t, []domain.Condition{{Automaton: 0, State: 1}, {Automaton: 2, State: 0}}, b.Transitions[0].Conditions)
	assert.Empty(t, b.Transitions[1].Conditions)

	t.Run("Synchronised Parts Reference Each Other", func(t *testing.T) {
		c := net.Automaton(2)
		sync := c.Transitions[2]
		assert.Equal(t, 2, sync.Origin)
		assert.Equal(t, 0, sync.Target)
		assert.Equal(t, []domain.Partner{{Automaton: 0, Transition: 2}}, sync.Synchro)
		assert.Equal(t, []domain.Partner{{Automaton: 2, Transition: 2}}, a.Transitions[2].Synchro)
	})

	t.Run("Initial Context Defaults To First State", func(t *testing.T) {
		assert.Equal(t, domain.Context{0, 0, 0}, net.InitialContext())
	})
}

func TestParse_RoundTrip(t *testing.T) {
	net, err := compiler.Parse([]byte(repressilator))
	require.NoError(t, err)
	net.SetInitialState(2, 1)

	again, err := compiler.Parse([]byte(net.String()))
	require.NoError(t, err)
	assert.Equal(t, net.String(), again.String())
	assert.Equal(t, domain.Context{0, 0, 1}, again.InitialContext())
}

func TestParse_SyncGuardOnPartner(t *testing.T) {
	net, err := compiler.Parse([]byte(`
"a" [0, 1]
"b" [0, 1]
"c" [0, 1]
"a" 0 -> 1, "b" 0 -> 1 when "b"=0 and "c"=1
"a" 1 -> 0 when "a"=1
`))
	require.NoError(t, err)

	a, b := net.Automaton(0), net.Automaton(1)
	assert.Equal(t, []domain.Condition{{Automaton: 1, State: 0}, {Automaton: 2, State: 1}}, a.Transitions[0].Conditions)
	assert.Equal(t, []domain.Condition{{Automaton: 2, State: 1}}, b.Transitions[0].Conditions)
	assert.Equal(t, []domain.Partner{{Automaton: 1, Transition: 0}}, a.Transitions[0].Synchro)
	assert.Empty(t, a.Transitions[1].Conditions)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
		is      error
	}{
		{"unknown automaton", "a [0, 1]\nz 0 -> 1\n", "line 2", domain.ErrUnknownAutomaton},
		{"unknown target", "a [0, 1]\na 0 -> 5\n", "line 2", domain.ErrUnknownState},
		{"unknown guard state", "a [0, 1]\nb [0]\na 0 -> 1 when b=3\n", "line 3", domain.ErrUnknownState},
		{"duplicate automaton", "a [0]\na [1]\n", "declared twice", nil},
		{"duplicate state", "a [0, 0]\n", "declares state", nil},
		{"empty automaton", "a []\n", "no local state", nil},
		{"unterminated comment", "a [0]\n(** open\n", "unterminated comment", nil},
		{"garbage", "a [0, 1]\nhello world\n", `unexpected statement starting with "hello"`, nil},
		{"missing guard", "a [0, 1]\nb [0]\na 0 -> 1 when\n", "expected a name", nil},
		{"self guard contradicts origin", "a [0, 1]\na 0 -> 1 when a=1\n", "line 2: invalid transition", nil},
		{"partner guard contradicts origin", "a [0, 1]\nb [0, 1]\na 0 -> 1, b 0 -> 1 when b=1\n", "line 3: invalid transition", nil},
		{"bad character", "a [0, 1] ;\n", "invalid token", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestParseContext(t *testing.T) {
	net := testutils.FourAutomata(t)

	tests := []struct {
		expr string
		want domain.Context
	}{
		{"", domain.Context{-1, -1, -1, -1}},
		{"a=1", domain.Context{1, -1, -1, -1}},
		{`"b"="0", d=1`, domain.Context{-1, 0, -1, 1}},
		{"a=0 c=1", domain.Context{0, -1, 1, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			ctx, err := compiler.ParseContext(net, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ctx)
		})
	}

	t.Run("Unknown Automaton", func(t *testing.T) {
		_, err := compiler.ParseContext(net, "z=0")
		var ce *domain.ContextError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "z", ce.Automaton)
		assert.ErrorIs(t, err, domain.ErrUnknownAutomaton)
	})

	t.Run("Missing Value", func(t *testing.T) {
		_, err := compiler.ParseContext(net, "a=")
		assert.ErrorContains(t, err, `invalid context "a="`)
	})
}

func TestOverlay(t *testing.T) {
	base := domain.Context{0, 0, 0}
	got := compiler.Overlay(base, domain.Context{-1, 1, -1})
	assert.Equal(t, domain.Context{0, 1, 0}, got)
	assert.Equal(t, domain.Context{0, 0, 0}, base)
}
