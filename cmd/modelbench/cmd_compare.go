package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/modelbench/modelbench/internal/models"
	"github.com/modelbench/modelbench/internal/orchestration"
)

var (
	compareModelIDs []string
	referenceModel  string
	outputJSON      bool
	compareVerbose  bool
	reportPath      string
)

func newCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <prompt>",
		Short: "Send one prompt to several models and compare the results",
		Long: `Send one prompt to the configured models concurrently and print a
side-by-side comparison of latency, tokens, cost, and text quality.

With no --model flags, all configured models are compared. A failing model
never blocks the others; its row shows the failure instead.`,
		Args: cobra.ExactArgs(1),
		RunE: compareCommandE,
	}

	cmd.Flags().StringArrayVarP(&compareModelIDs, "model", "m", nil, "Model to compare (can be repeated; default: all configured)")
	cmd.Flags().StringVar(&referenceModel, "reference", "", "Model whose output the others are scored against")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the raw result as JSON")
	cmd.Flags().BoolVarP(&compareVerbose, "verbose", "v", false, "Verbose output with per-call progress")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write an HTML report to this path")

	return cmd
}

func compareCommandE(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ids := compareModelIDs
	if len(ids) == 0 {
		ids = rt.registry.IDs()
	}

	req := &models.ComparisonRequest{
		Prompt:         args[0],
		Models:         ids,
		ReferenceModel: referenceModel,
	}

	if !outputJSON {
		if compareVerbose {
			rt.runner.OnProgress(verboseProgressListener)
		} else {
			rt.runner.OnProgress(simpleProgressListener)
		}
	}

	result, err := rt.runner.Compare(cmd.Context(), req)
	if err != nil {
		return err
	}

	if outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		printComparisonTable(os.Stdout, result)
	}

	if reportPath != "" {
		html, err := renderHTMLReport(result)
		if err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}
		if err := os.WriteFile(reportPath, html, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		if !outputJSON {
			fmt.Printf("Report written to %s\n", reportPath)
		}
	}

	if result.Digest.Succeeded == 0 {
		return &AllModelsFailedError{
			Message: fmt.Sprintf("all %d model(s) failed", result.Digest.TotalModels),
		}
	}
	return nil
}

func verboseProgressListener(event orchestration.ProgressEvent) {
	switch event.EventType {
	case orchestration.EventComparisonStart:
		fmt.Printf("Comparing %d model(s)...\n\n", event.TotalModels)
	case orchestration.EventCallStart:
		fmt.Printf("[%d/%d] Calling %s\n", event.ModelNum, event.TotalModels, event.Model)
	case orchestration.EventCallSettled:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Printf("[%d/%d] %s: %s (%v)\n", event.ModelNum, event.TotalModels, event.Model, event.Status, duration)
	case orchestration.EventAnalysisComplete:
		fmt.Printf("  Analysis done: %s\n", event.Model)
	case orchestration.EventComparisonComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Printf("\nComparison completed in %v\n\n", duration)
	}
}

func simpleProgressListener(event orchestration.ProgressEvent) {
	if event.EventType != orchestration.EventCallSettled {
		return
	}
	status := "✓"
	if event.Status != models.StatusSuccess {
		status = "✗"
	}
	fmt.Printf("%s [%d/%d] %s\n", status, event.ModelNum, event.TotalModels, event.Model)
}
