package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [model]",
	Short: "Print the size of the network",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sess, err := openSession(cmd, args)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, sess.Close()) }()

		net := sess.Engine.Network()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "automata: %d\n", net.NumAutomata())
		fmt.Fprintf(out, "local states: %d\n", net.NumLocalStates())
		fmt.Fprintf(out, "transitions: %d\n", net.NumTransitions())
		fmt.Fprintf(out, "initial context: %s\n", net.InitialContext().Format(net))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
