package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var inductionCmd = &cobra.Command{
	Use:   "induction [model]",
	Short: "Check that a length is a completeness bound for the goal",
	Long: `Searches a path of --bound pairwise distinct global states, starting anywhere,
that reaches the goal only at its last step. If none exists the length is a
completeness bound.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sess, err := openSession(cmd, args)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, sess.Close()) }()

		goal, _ := cmd.Flags().GetString("goal")
		r, err := sess.Engine.Induction(cmd.Context(), goal, sess.Config.Bound)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		verbose, _ := cmd.Flags().GetBool("verbose")
		return writeReport(cmd.OutOrStdout(), sess.Engine.Network(), r, format, verbose)
	},
}

func init() {
	rootCmd.AddCommand(inductionCmd)

	inductionCmd.Flags().IntP("bound", "b", 0, "Length to check (at least 2)")
	inductionCmd.Flags().StringP("format", "f", formatText, "Output format: text, markdown or json")
	inductionCmd.Flags().BoolP("verbose", "v", false, "Print the counterexample and its moves")
	_ = inductionCmd.MarkFlagRequired("bound")
}
