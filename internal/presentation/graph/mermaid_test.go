package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/anreach/internal/lcg"
	"github.com/aretw0/anreach/internal/presentation/graph"
	"github.com/aretw0/anreach/internal/testutils"
	"github.com/aretw0/anreach/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T) *lcg.Graph {
	t.Helper()
	n := testutils.FourAutomata(t)
	g, err := lcg.New(n, n.InitialContext(), domain.LocalState{Automaton: 0, State: 1})
	require.NoError(t, err)
	g.Build()
	return g
}

func TestGenerateMermaid(t *testing.T) {
	g := build(t)
	out := graph.GenerateMermaid(g, nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	for _, want := range []string{
		`v0["a_1"]`,
		`(["a_0 ~> a_1"])`,
		`[["a_0 -> a_1 #123;b_0#125;"]]`,
		`["b_0"]`,
		"v0 --> v1",
		"class v0 root;",
	} {
		assert.Contains(t, out, want)
	}

	st := g.Stats()
	assert.Equal(t, st.Edges, strings.Count(out, " --> "))
	assert.NotContains(t, out, "<br/>")
}

func TestGenerateMermaid_Bounds(t *testing.T) {
	g := build(t)
	bounds, err := g.Bounds()
	require.NoError(t, err)

	out := graph.GenerateMermaid(g, &graph.Overlay{Bounds: bounds})
	assert.Contains(t, out, `v0["a_1 <br/> 1"]`)
}
