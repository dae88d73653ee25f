package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/anreach/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [model]",
	Short: "Export the local causality graph of the goal",
	Long:  `Builds the local causality graph of the goal and outputs a Mermaid diagram (graph TD) of it.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sess, err := openSession(cmd, args)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, sess.Close()) }()

		g, err := sess.Engine.Graph(query(cmd, sess.Config))
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if withBounds, _ := cmd.Flags().GetBool("bounds"); withBounds {
			bounds, err := g.Bounds()
			if err != nil {
				return fmt.Errorf("cannot annotate bounds: %w", err)
			}
			overlay = &graph.Overlay{Bounds: bounds}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().Bool("bounds", false, "Annotate every vertex with its bound (acyclic graphs only)")
}
