package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the configured models and their rates",
		RunE:  modelsCommandE,
	}
}

func modelsCommandE(*cobra.Command, []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	fmt.Fprintf(os.Stdout, "%s  %s\n", padRight("MODEL", 24), "RATE (USD/1M tokens)")
	for _, id := range rt.registry.IDs() {
		rateStr := "-"
		if rate, ok := rt.rates.Rate(id); ok {
			rateStr = fmt.Sprintf("%.2f", rate)
		}
		fmt.Fprintf(os.Stdout, "%s  %s\n", padRight(id, 24), rateStr)
	}
	return nil
}
