package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/anreach"
	"github.com/aretw0/anreach/internal/presentation/report"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of anreach",
	Run: func(cmd *cobra.Command, args []string) {
		if quiet, _ := cmd.Flags().GetBool("short"); !quiet {
			report.PrintBanner(cmd.OutOrStdout())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "anreach version %s\n", strings.TrimSpace(anreach.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().Bool("short", false, "Print the version line only")
}
