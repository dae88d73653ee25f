package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/anreach"
	"github.com/aretw0/anreach/internal/cli"
	"github.com/aretw0/anreach/pkg/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "anreach",
	Short: "anreach decides bounded reachability in automata networks",
	Long: `anreach builds the local causality graph of a goal to bound the search,
then encodes the reachability question as a SAT problem of that length.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringP("model", "m", "", "Model file (.an, .yaml or .json)")
	flags.StringP("init", "i", "", `Initial context overrides, e.g. "a=1, b=0"`)
	flags.StringP("goal", "g", "", `Goal local state, e.g. "a=1"`)
	flags.StringP("solver", "s", config.DefaultSolver, "Solver backend: gini or a registered program")
	flags.CountP("debug", "d", "Verbosity (-d info, -dd debug)")
	flags.String("config", "", "Configuration file (YAML)")
	flags.String("solvers", "", "Solver registry file (YAML or JSON)")
	flags.String("cache", "", "Verdict cache: none, memory, file, sqlite or redis")
	flags.String("cache-path", "", "Directory or database file of the verdict cache")
	flags.String("metrics", "", "Write run metrics to this file in the Prometheus text format")
}

// loadConfig reads --config and applies the flags the user set on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("solver") {
		cfg.Solver, _ = flags.GetString("solver")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetCount("debug")
	}
	if flags.Changed("solvers") {
		cfg.SolversFile, _ = flags.GetString("solvers")
	}
	if flags.Changed("cache") {
		cfg.Cache.Backend, _ = flags.GetString("cache")
	}
	if flags.Changed("cache-path") {
		cfg.Cache.Path, _ = flags.GetString("cache-path")
	}
	if flags.Changed("metrics") {
		cfg.MetricsFile, _ = flags.GetString("metrics")
	}
	if flags.Changed("bound") {
		cfg.Bound, _ = flags.GetInt("bound")
	}
	return cfg, nil
}

// openSession loads the configuration and the model named by --model or
// the first argument. adjust runs on the configuration before it is used.
func openSession(cmd *cobra.Command, args []string, adjust ...func(*config.Config)) (*cli.Session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	for _, fn := range adjust {
		fn(&cfg)
	}
	model, _ := cmd.Flags().GetString("model")
	if !cmd.Flags().Changed("model") && len(args) > 0 {
		model = args[0]
	}
	if model == "" {
		return nil, fmt.Errorf("no model given, use --model or pass the file as argument")
	}
	return cli.Open(cfg, model)
}

// query reads the question flags. Length comes from the configuration
// bound, 0 meaning computed.
func query(cmd *cobra.Command, cfg config.Config) anreach.Query {
	init, _ := cmd.Flags().GetString("init")
	goal, _ := cmd.Flags().GetString("goal")
	return anreach.Query{Initial: init, Goal: goal, Length: cfg.Bound}
}
