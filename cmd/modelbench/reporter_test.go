package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelbench/modelbench/internal/models"
)

func sampleResult() *models.ComparisonResult {
	tokens := 1500
	cost := 0.01875
	read := 72.5
	tox := 0.04
	sim := 0.91
	outcomes := []models.ModelOutcome{
		{
			Model:         "gpt-4o",
			Status:        models.StatusSuccess,
			Output:        "The mitochondria is the powerhouse of the cell.",
			TokensUsed:    &tokens,
			EstimatedCost: &cost,
			LatencyMs:     820,
			Analysis: &models.AnalysisResult{
				Readability: &read,
				Sentiment:   &models.Sentiment{Label: models.SentimentNeutral, Confidence: 0.8},
				Toxicity:    &tox,
			},
			SimilarityToReference: &sim,
		},
		{
			Model:       "claude-sonnet",
			Status:      models.StatusFailed,
			ErrorKind:   models.ErrorKindTimeout,
			ErrorDetail: "no response within 30s",
			LatencyMs:   30000,
		},
	}
	return &models.ComparisonResult{
		ID:       "b7a9a0e2-0000-4000-8000-000000000000",
		Prompt:   "explain mitochondria",
		Results:  outcomes,
		Warnings: []string{"similarity unavailable: reference model \"x\" did not produce output"},
		Digest:   models.BuildDigest(outcomes, 30120),
	}
}

func TestPrintComparisonTable(t *testing.T) {
	var b strings.Builder
	printComparisonTable(&b, sampleResult())
	out := b.String()

	assert.Contains(t, out, "COMPARISON RESULTS")
	assert.Contains(t, out, "gpt-4o")
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "$0.018750")
	assert.Contains(t, out, "72.5")
	assert.Contains(t, out, "neutral")
	assert.Contains(t, out, "timeout")
	assert.Contains(t, out, "warning: similarity unavailable")
	assert.Contains(t, out, "Success Rate:  50.0%")
	assert.Contains(t, out, "The mitochondria is the powerhouse of the cell.")
	assert.NotContains(t, out, "no response within 30s\n\n--- claude-sonnet",
		"failed models must not get an output section")
}

func TestPrintComparisonTableEstimatedTokens(t *testing.T) {
	tokens := 42
	outcomes := []models.ModelOutcome{{
		Model:           "local",
		Status:          models.StatusSuccess,
		Output:          "ok",
		TokensUsed:      &tokens,
		TokensEstimated: true,
	}}
	result := &models.ComparisonResult{
		Results: outcomes,
		Digest:  models.BuildDigest(outcomes, 5),
	}

	var b strings.Builder
	printComparisonTable(&b, result)
	assert.Contains(t, b.String(), "42~", "estimated token counts are marked")
}

func TestFormatMarkdownReport(t *testing.T) {
	out := FormatMarkdownReport(sampleResult())

	assert.Contains(t, out, "## Model Comparison")
	assert.Contains(t, out, "**Prompt:** explain mitochondria")
	assert.Contains(t, out, "| gpt-4o | ✅ success |")
	assert.Contains(t, out, "❌ timeout")
	assert.Contains(t, out, "0.91")
	assert.Contains(t, out, "#### claude-sonnet")
	assert.Contains(t, out, "b7a9a0e2")
}

func TestRenderHTMLReport(t *testing.T) {
	html, err := renderHTMLReport(sampleResult())
	require.NoError(t, err)

	s := string(html)
	assert.Contains(t, s, "<!DOCTYPE html>")
	assert.Contains(t, s, "<table>")
	assert.Contains(t, s, "gpt-4o")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "820ms", formatDuration(820*time.Millisecond))
	assert.Equal(t, "2.5s", formatDuration(2500*time.Millisecond))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "exactly-te", truncateText("exactly-te", 10))
	assert.Equal(t, "much too …", truncateText("much too long", 10))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 5))
}
