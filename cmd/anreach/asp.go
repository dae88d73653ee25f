package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/anreach/internal/asp"
	"github.com/aretw0/anreach/pkg/config"
	"github.com/spf13/cobra"
)

var aspCmd = &cobra.Command{
	Use:   "asp [model]",
	Short: "Answer the reachability question with an answer set program",
	Long: `Generates the answer set program of the question and runs it with clingo
(or the registered program named by --solver). With --emit the program is
printed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sess, err := openSession(cmd, args, func(cfg *config.Config) {
			if !cmd.Flags().Changed("solver") {
				cfg.Solver = asp.DefaultProgram
			}
		})
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, sess.Close()) }()

		q := query(cmd, sess.Config)
		if emit, _ := cmd.Flags().GetBool("emit"); emit {
			program, err := sess.Engine.Program(q)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), program)
			return nil
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

func init() {
	rootCmd.AddCommand(aspCmd)

	aspCmd.Flags().IntP("bound", "b", 0, "Path length to test instead of the computed bound")
	aspCmd.Flags().Bool("emit", false, "Print the program without running it")
	aspCmd.Flags().StringP("format", "f", formatText, "Output format: text, markdown or json")
	aspCmd.Flags().BoolP("verbose", "v", false, "Print the witness trace and its moves")
}
