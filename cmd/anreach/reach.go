package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/anreach"
	"github.com/spf13/cobra"
)

var reachCmd = &cobra.Command{
	Use:   "reach [model]",
	Short: "Decide whether the goal is reachable",
	Long: `Computes the completeness bound of the goal from its local causality graph
and runs the bounded encoder on the selected solver. With --bound the graph is
skipped and a negative answer only holds for that length.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sess, err := openSession(cmd, args)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, sess.Close()) }()

		q := query(cmd, sess.Config)
		if path, _ := cmd.Flags().GetString("dimacs"); path != "" {
			if err := exportDimacs(sess.Engine, q, path); err != nil {
				return err
			}
		}

		r, err := sess.Engine.Reachability(cmd.Context(), q)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		verbose, _ := cmd.Flags().GetBool("verbose")
		return writeReport(cmd.OutOrStdout(), sess.Engine.Network(), r, format, verbose)
	},
}

func exportDimacs(eng *anreach.Engine, q anreach.Query, path string) error {
	f, length, err := eng.Formula(q)
	if err != nil {
		return fmt.Errorf("cannot export formula: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.WriteDimacs(out); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, ">>> formula of length %d written to %s\n", length, path)
	return nil
}

func init() {
	rootCmd.AddCommand(reachCmd)

	reachCmd.Flags().IntP("bound", "b", 0, "Path length to test instead of the computed bound")
	reachCmd.Flags().String("dimacs", "", "Also write the formula to this file in DIMACS format")
	reachCmd.Flags().StringP("format", "f", formatText, "Output format: text, markdown or json")
	reachCmd.Flags().BoolP("verbose", "v", false, "Print the witness trace and its moves")
}
