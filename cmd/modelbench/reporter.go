package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/modelbench/modelbench/internal/models"
)

// numPrinter formats token counts with thousands separators.
var numPrinter = message.NewPrinter(language.English)

// formatDuration formats a duration in a consistent, human-readable way.
// This ensures stable output regardless of Go version changes.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// printComparisonTable renders the comparison result as an aligned table.
func printComparisonTable(w io.Writer, result *models.ComparisonResult) {
	const (
		colModel   = 20
		colStatus  = 8
		colLatency = 9
		colTokens  = 10
		colCost    = 11
		colRead    = 6
		colSent    = 10
		colTox     = 5
		colSim     = 5
	)

	fmt.Fprintln(w, strings.Repeat("=", 51))
	fmt.Fprintln(w, " COMPARISON RESULTS")
	fmt.Fprintln(w, strings.Repeat("=", 51))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s  %s  %s  %s\n",
		padRight("MODEL", colModel),
		padRight("STATUS", colStatus),
		padRight("LATENCY", colLatency),
		padRight("TOKENS", colTokens),
		padRight("COST", colCost),
		padRight("READ", colRead),
		padRight("SENTIMENT", colSent),
		padRight("TOX", colTox),
		"SIM")

	for i := range result.Results {
		o := &result.Results[i]
		latency := formatDuration(time.Duration(o.LatencyMs) * time.Millisecond)

		if !o.Succeeded() {
			detail := truncateText(o.ErrorDetail, 40)
			fmt.Fprintf(w, "%s  %s  %s  %s\n",
				padRight(truncateText(o.Model, colModel), colModel),
				padRight(string(o.ErrorKind), colStatus+colTokens-6),
				padRight(latency, colLatency),
				detail)
			continue
		}

		tokens := "-"
		if o.TokensUsed != nil {
			tokens = numPrinter.Sprintf("%d", *o.TokensUsed)
			if o.TokensEstimated {
				tokens += "~"
			}
		}
		cost := "-"
		if o.EstimatedCost != nil {
			cost = fmt.Sprintf("$%.6f", *o.EstimatedCost)
		}

		read, sent, tox := "-", "-", "-"
		if o.Analysis != nil {
			if o.Analysis.Readability != nil {
				read = fmt.Sprintf("%.1f", *o.Analysis.Readability)
			}
			if o.Analysis.Sentiment != nil {
				sent = string(o.Analysis.Sentiment.Label)
			}
			if o.Analysis.Toxicity != nil {
				tox = fmt.Sprintf("%.2f", *o.Analysis.Toxicity)
			}
		}
		sim := "-"
		if o.SimilarityToReference != nil {
			sim = fmt.Sprintf("%.2f", *o.SimilarityToReference)
		}

		fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s  %s  %s  %s\n",
			padRight(truncateText(o.Model, colModel), colModel),
			padRight(string(o.Status), colStatus),
			padRight(latency, colLatency),
			padRight(tokens, colTokens),
			padRight(cost, colCost),
			padRight(read, colRead),
			padRight(sent, colSent),
			padRight(tox, colTox),
			sim)
	}
	fmt.Fprintln(w)

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w)
	}

	printDigest(w, &result.Digest)
	printOutputs(w, result)
}

func printDigest(w io.Writer, d *models.ComparisonDigest) {
	fmt.Fprintf(w, "Models:        %d (%d succeeded, %d failed)\n", d.TotalModels, d.Succeeded, d.Failed)
	fmt.Fprintf(w, "Success Rate:  %.1f%%\n", d.SuccessRate*100)
	if d.TotalTokens != nil {
		fmt.Fprintf(w, "Total Tokens:  %s\n", numPrinter.Sprintf("%d", *d.TotalTokens))
	}
	if d.TotalCost != nil {
		fmt.Fprintf(w, "Total Cost:    $%.6f\n", *d.TotalCost)
	}
	fmt.Fprintf(w, "Avg Latency:   %s (max %s, σ=%.0fms)\n",
		formatDuration(time.Duration(d.AvgLatencyMs)*time.Millisecond),
		formatDuration(time.Duration(d.MaxLatencyMs)*time.Millisecond),
		d.LatencyStdDev)
	fmt.Fprintf(w, "Duration:      %s\n\n", formatDuration(time.Duration(d.DurationMs)*time.Millisecond))
}

// printOutputs prints each successful model's output, wrapped to the
// terminal width.
func printOutputs(w io.Writer, result *models.ComparisonResult) {
	width := terminalWidth()
	for i := range result.Results {
		o := &result.Results[i]
		if !o.Succeeded() {
			continue
		}
		fmt.Fprintf(w, "--- %s %s\n", o.Model, strings.Repeat("-", max(0, width-len(o.Model)-5)))
		fmt.Fprintln(w, o.Output)
		fmt.Fprintln(w)
	}
}

// terminalWidth returns the stdout terminal width, or 80 when stdout is not
// a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// truncateText shortens a string to maxLen runes, replacing the last rune
// with "…" if needed.
func truncateText(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

// FormatMarkdownReport formats a ComparisonResult as a markdown document.
func FormatMarkdownReport(result *models.ComparisonResult) string {
	var b strings.Builder

	b.WriteString("## Model Comparison\n\n")
	b.WriteString(fmt.Sprintf("**Prompt:** %s\n\n", result.Prompt))

	d := result.Digest
	b.WriteString(fmt.Sprintf("- **Models:** %d total, %d succeeded, %d failed\n", d.TotalModels, d.Succeeded, d.Failed))
	b.WriteString(fmt.Sprintf("- **Success Rate:** %.1f%%\n", d.SuccessRate*100))
	if d.TotalTokens != nil {
		b.WriteString(fmt.Sprintf("- **Total Tokens:** %d\n", *d.TotalTokens))
	}
	if d.TotalCost != nil {
		b.WriteString(fmt.Sprintf("- **Total Cost:** $%.6f\n", *d.TotalCost))
	}
	b.WriteString(fmt.Sprintf("- **Duration:** %s\n\n",
		formatDuration(time.Duration(d.DurationMs)*time.Millisecond)))

	b.WriteString("| Model | Status | Latency | Tokens | Cost | Readability | Sentiment | Toxicity | Similarity |\n")
	b.WriteString("|-------|--------|---------|--------|------|-------------|-----------|----------|------------|\n")
	for i := range result.Results {
		o := &result.Results[i]
		status := "✅ success"
		if !o.Succeeded() {
			status = fmt.Sprintf("❌ %s", o.ErrorKind)
		}
		row := []string{
			o.Model,
			status,
			formatDuration(time.Duration(o.LatencyMs) * time.Millisecond),
			optInt(o.TokensUsed, o.TokensEstimated),
			optMoney(o.EstimatedCost),
			"-", "-", "-",
			optScore(o.SimilarityToReference),
		}
		if o.Analysis != nil {
			row[5] = optScore(o.Analysis.Readability)
			if o.Analysis.Sentiment != nil {
				row[6] = string(o.Analysis.Sentiment.Label)
			}
			row[7] = optScore(o.Analysis.Toxicity)
		}
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")

	for _, warning := range result.Warnings {
		b.WriteString(fmt.Sprintf("> ⚠️ %s\n", warning))
	}
	if len(result.Warnings) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("### Outputs\n\n")
	for i := range result.Results {
		o := &result.Results[i]
		b.WriteString(fmt.Sprintf("#### %s\n\n", o.Model))
		if o.Succeeded() {
			b.WriteString(o.Output + "\n\n")
		} else {
			b.WriteString(fmt.Sprintf("_%s: %s_\n\n", o.ErrorKind, o.ErrorDetail))
		}
	}

	b.WriteString("---\n\n")
	b.WriteString(fmt.Sprintf("**Comparison:** %s\n", result.ID))
	return b.String()
}

const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Model Comparison</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }
</style>
</head>
<body>
%s</body>
</html>
`

// renderHTMLReport converts the markdown report to a standalone HTML page.
func renderHTMLReport(result *models.ComparisonResult) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(FormatMarkdownReport(result)), &body); err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, htmlShell, body.String()), nil
}

func optInt(v *int, estimated bool) string {
	if v == nil {
		return "-"
	}
	s := fmt.Sprintf("%d", *v)
	if estimated {
		s += "~"
	}
	return s
}

func optMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("$%.6f", *v)
}

func optScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
