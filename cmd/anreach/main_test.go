package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handshake = "../../testdata/handshake.an"
	oneWay    = "../../testdata/switch.yaml"
)

// resetFlags undoes the flags parsed by a previous run of the shared
// command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReach(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		out, err := run(t, "reach", "-m", handshake, "-g", "a=2")
		require.NoError(t, err)
		assert.Equal(t, "a_2 is reachable\n", out)
	})

	t.Run("Model As Argument", func(t *testing.T) {
		out, err := run(t, "reach", oneWay, "-g", "a=2")
		require.NoError(t, err)
		assert.Equal(t, "a_2 is unreachable\n", out)
	})

	t.Run("Verbose Trace", func(t *testing.T) {
		out, err := run(t, "reach", handshake, "-g", "a=2", "-v")
		require.NoError(t, err)
		assert.Contains(t, out, "b 0 -> 1  x1")
		assert.Contains(t, out, "a 1 -> 2  x1")
	})

	t.Run("Manual Bound", func(t *testing.T) {
		out, err := run(t, "reach", handshake, "-g", "a=2", "--bound", "3")
		require.NoError(t, err)
		assert.Contains(t, out, "unreachable for sequences of length 3")
	})

	t.Run("JSON", func(t *testing.T) {
		out, err := run(t, "reach", handshake, "-g", "a=2", "-f", "json")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "reachable", doc["outcome"])
		assert.EqualValues(t, 5, doc["bound"])
	})

	t.Run("Markdown", func(t *testing.T) {
		out, err := run(t, "reach", handshake, "-g", "a=2", "-f", "markdown")
		require.NoError(t, err)
		assert.Contains(t, out, "reachable")
	})

	t.Run("Unknown Format", func(t *testing.T) {
		_, err := run(t, "reach", handshake, "-g", "a=2", "-f", "xml")
		assert.Error(t, err)
	})

	t.Run("DIMACS Export", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "q.cnf")
		_, err := run(t, "reach", handshake, "-g", "a=2", "--dimacs", path)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("p cnf ")))
	})

	t.Run("Metrics File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.prom")
		_, err := run(t, "reach", handshake, "-g", "a=2", "--metrics", path)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "anreach_lcg_bound 5")
	})

	t.Run("File Cache", func(t *testing.T) {
		dir := t.TempDir()
		for range 2 {
			_, err := run(t, "reach", handshake, "-g", "a=2", "--cache", "file", "--cache-path", dir)
			require.NoError(t, err)
		}
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Missing Model", func(t *testing.T) {
		_, err := run(t, "reach", "-g", "a=2")
		assert.ErrorContains(t, err, "no model")
	})

	t.Run("Bad Goal", func(t *testing.T) {
		_, err := run(t, "reach", handshake, "-g", "a=1, b=1")
		assert.Error(t, err)
	})
}

func TestBound(t *testing.T) {
	out, err := run(t, "bound", oneWay, "-g", "a=2")
	require.NoError(t, err)
	assert.Contains(t, out, "bound: 4\n")
	assert.Contains(t, out, "edges: ")
}

func TestInduction(t *testing.T) {
	t.Run("Requires Bound", func(t *testing.T) {
		_, err := run(t, "induction", handshake, "-g", "a=2")
		assert.Error(t, err)
	})

	t.Run("Runs", func(t *testing.T) {
		out, err := run(t, "induction", handshake, "-g", "a=2", "-b", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "completeness bound for a_2")
	})
}

func TestGraph(t *testing.T) {
	out, err := run(t, "graph", handshake, "-g", "a=2", "--bounds")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD\n")
}

func TestASP_Emit(t *testing.T) {
	out, err := run(t, "asp", handshake, "-g", "a=2", "--emit", "-b", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "step(0..3).")
	assert.Contains(t, out, "#show active/2.")
}

func TestStats(t *testing.T) {
	out, err := run(t, "stats", handshake)
	require.NoError(t, err)
	assert.Equal(t, "automata: 2\nlocal states: 5\ntransitions: 3\ninitial context: a=0, b=0\n", out)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Contains(t, out, "anreach version ")
}
