package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modelbench",
		Short: "Modelbench - compare LLM outputs across providers",
		Long: `Modelbench sends one prompt to several model providers concurrently and
reports latency, token usage, cost, and text-quality analysis side by side.

Provider API keys are read from the environment; a .env file in the working
directory is loaded automatically.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to modelbench.yaml (default: walk up from the working directory)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		// Missing .env is the normal case, not an error.
		_ = godotenv.Load()
	}

	// Add subcommands
	cmd.AddCommand(newCompareCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newModelsCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

var configPath string

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
