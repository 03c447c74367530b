// Package main implements the explorer binary: a command line front end for
// comparing calculation runs and rendering saved lenses.
package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/climatevision/explorer/internal/config"
	apperrors "github.com/climatevision/explorer/internal/errors"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if apperrors.IsRetryable(err) {
			log.Printf("The failure looks transient, the command may succeed when retried")
		}
		log.Fatalf("Error executing command: %v", err)
	}
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configFile string
	envFile    string
	dataDir    string
	tolerance  float64
}

// env carries the resolved configuration into the subcommands.
type env struct {
	flags globalFlags
	cfg   *config.Config
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "explorer",
		Short: "Compare calculation runs and render saved lenses",
		Long: `explorer loads results of the climate calculation service, diffs them
with a relative tolerance and renders saved lenses over the stored runs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, e.flags)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			e.cfg = cfg
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&e.flags.configFile, "config", "", "Path to configuration file (YAML or JSON)")
	pf.StringVar(&e.flags.envFile, "env-file", ".env", "Path to a dotenv file with EXPLORER_* variables")
	pf.StringVar(&e.flags.dataDir, "data-dir", "", "Base directory for the run store and documents")
	pf.Float64Var(&e.flags.tolerance, "tolerance", 0, "Relative diff tolerance in percent")

	root.AddCommand(
		newDiffCmd(e),
		newFilterCmd(),
		newPathsCmd(),
		newRunsCmd(e),
		newLensCmd(e),
		newVersionCmd(),
	)
	return root
}

// loadConfig loads configuration from file, environment, and command line flags.
func loadConfig(cmd *cobra.Command, flags globalFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if err := config.LoadDotEnv(flags.envFile); err != nil {
		return nil, err
	}

	if flags.configFile != "" {
		cfg, err = config.LoadFromFile(flags.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	config.LoadFromEnv(cfg)

	// Command line flags take precedence
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Diff.TolerancePercent = flags.tolerance
	}

	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "explorer version %s (commit: %s)\n", version, commit)
		},
	}
}

