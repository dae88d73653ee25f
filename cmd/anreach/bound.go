package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var boundCmd = &cobra.Command{
	Use:   "bound [model]",
	Short: "Compute the completeness bound of the goal",
	Long:  `Builds the local causality graph of the goal and prints its size and the bound it yields, without solving.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sess, err := openSession(cmd, args)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, sess.Close()) }()

		b, err := sess.Engine.Bound(query(cmd, sess.Config))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		st := b.Stats
		fmt.Fprintf(out, "vertices: %d (local states %d, objectives %d, solutions %d, transitions %d)\n",
			st.Vertices, st.LocalStates, st.Objectives, st.Solutions, st.Transitions)
		fmt.Fprintf(out, "edges: %d\n", st.Edges)
		switch {
		case b.Cyclic:
			fmt.Fprintln(out, "bound: none, the graph is cyclic")
		case !b.Bound.Finite():
			fmt.Fprintln(out, "bound: unbounded")
		default:
			fmt.Fprintf(out, "bound: %d\n", b.Bound)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boundCmd)
}
