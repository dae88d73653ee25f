package compiler_test

import (
	"testing"

	"github.com/aretw0/anreach/internal/compiler"
	"github.com/aretw0/anreach/internal/testutils"
	"github.com/aretw0/anreach/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handshakeYAML = `
automata:
  - name: a
    states: [0, 1, 2]
  - name: b
    states: ["0", "1"]
transitions:
  - {automaton: a, from: 0, to: 1}
  - automaton: a
    from: 1
    to: 2
    when: {b: 1}
  - automaton: b
    from: 0
    to: 1
    when: {a: 0}
initial:
  b: 0
`

func TestParseYAML(t *testing.T) {
	net, err := compiler.ParseYAML([]byte(handshakeYAML))
	require.NoError(t, err)
	assert.Equal(t, testutils.Handshake(t).String(), net.String())
}

func TestParseYAML_Sync(t *testing.T) {
	net, err := compiler.ParseYAML([]byte(`
automata:
  - {name: a, states: [0, 1]}
  - {name: b, states: [0, 1]}
  - {name: c, states: [0, 1]}
transitions:
  - automaton: a
    from: 0
    to: 1
    when: {c: 1, b: 0}
    sync:
      - {automaton: b, from: 0, to: 1}
`))
	require.NoError(t, err)

	a, b := net.Automaton(0), net.Automaton(1)
	require.Len(t, a.Transitions, 1)
	require.Len(t, b.Transitions, 1)
	assert.Equal(t, []domain.Condition{{Automaton: 1, State: 0}, {Automaton: 2, State: 1}}, a.Transitions[0].Conditions)
	assert.Equal(t, []domain.Condition{{Automaton: 2, State: 1}}, b.Transitions[0].Conditions)
	assert.Equal(t, []domain.Partner{{Automaton: 1, Transition: 0}}, a.Transitions[0].Synchro)
	assert.Equal(t, []domain.Partner{{Automaton: 0, Transition: 0}}, b.Transitions[0].Synchro)
}

func TestParseYAML_SyncGuardContradictsOrigin(t *testing.T) {
	_, err := compiler.ParseYAML([]byte(`
automata:
  - {name: a, states: [0, 1]}
  - {name: b, states: [0, 1]}
transitions:
  - automaton: a
    from: 0
    to: 1
    when: {b: 1}
    sync:
      - {automaton: b, from: 0, to: 1}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transition 0")
	assert.Contains(t, err.Error(), "contradicts the origin")
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		is   error
	}{
		{"unknown field", "automata: []\nedges: []\n", nil},
		{"malformed", "automata: [\n", nil},
		{"unknown automaton", "automata: [{name: a, states: [0]}]\ninitial: {z: 0}\n", domain.ErrUnknownAutomaton},
		{"unknown state", "automata: [{name: a, states: [0, 1]}]\ntransitions: [{automaton: a, from: 0, to: 7}]\n", domain.ErrUnknownState},
		{"no states", "automata: [{name: a}]\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.ParseYAML([]byte(tt.src))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("AN", func(t *testing.T) {
		path := testutils.WriteFile(t, "model.an", repressilator)
		net, err := compiler.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 3, net.NumAutomata())
	})

	t.Run("YAML", func(t *testing.T) {
		path := testutils.WriteFile(t, "model.yml", handshakeYAML)
		net, err := compiler.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 2, net.NumAutomata())
	})

	t.Run("JSON", func(t *testing.T) {
		path := testutils.WriteFile(t, "model.json", `{"automata":[{"name":"x","states":["off","on"]}],"transitions":[{"automaton":"x","from":"off","to":"on"}]}`)
		net, err := compiler.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "x_on", net.LocalStateName(0, 1))
	})

	t.Run("Errors Name The File", func(t *testing.T) {
		path := testutils.WriteFile(t, "broken.an", "a [0]\nb 0 -> 1\n")
		_, err := compiler.LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := compiler.LoadFile("does-not-exist.an")
		assert.Error(t, err)
	})
}
