package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelbench/modelbench/internal/config"
	"github.com/modelbench/modelbench/internal/wizard"
)

var initForce bool

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a modelbench.yaml interactively",
		RunE:  initCommandE,
	}
	cmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing modelbench.yaml")
	return cmd
}

func initCommandE(cmd *cobra.Command, _ []string) error {
	if !initForce {
		if _, err := os.Stat(config.ConfigFileName); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", config.ConfigFileName)
		}
	}

	spec, err := wizard.RunConfigWizard(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	content, err := wizard.GenerateConfigYAML(spec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(config.ConfigFileName, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", config.ConfigFileName, err)
	}

	fmt.Printf("Wrote %s with %d provider(s).\n", config.ConfigFileName, len(spec.Providers))
	fmt.Println("Set the API key environment variables (or a .env file) before running `modelbench compare`.")
	return nil
}
