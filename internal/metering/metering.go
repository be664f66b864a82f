// Package metering derives token usage and estimated cost from settled
// provider invocations using a read-only per-provider rate table.
package metering

import (
	"sort"
	"unicode/utf8"
)

// RateTable maps model identifiers to a blended price in USD per one million
// tokens. It is built once at process start and never mutated afterwards, so
// it is safe to share across concurrent requests without locking.
type RateTable struct {
	rates map[string]float64
}

// NewRateTable copies the given rates into an immutable table.
func NewRateTable(rates map[string]float64) *RateTable {
	copied := make(map[string]float64, len(rates))
	for k, v := range rates {
		copied[k] = v
	}
	return &RateTable{rates: copied}
}

// Rate returns the price per 1M tokens for a model, and whether it is known.
func (t *RateTable) Rate(model string) (float64, bool) {
	r, ok := t.rates[model]
	return r, ok
}

// Models returns the model identifiers with a known rate, sorted.
func (t *RateTable) Models() []string {
	out := make([]string, 0, len(t.rates))
	for m := range t.rates {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Reading is the metering result for one successful invocation.
type Reading struct {
	Tokens int
	// Estimated is true when the provider did not report usage and Tokens
	// was derived from text length instead.
	Estimated bool
	// Cost is nil when the model has no configured rate. Reporting zero
	// would claim a precision we don't have.
	Cost *float64
}

// Meter computes Readings against a fixed rate table.
type Meter struct {
	rates *RateTable
}

// NewMeter creates a Meter backed by the given rate table.
func NewMeter(rates *RateTable) *Meter {
	return &Meter{rates: rates}
}

// Measure derives tokens and cost for one successful call. reportedTokens is
// the provider-reported total usage, or nil when the provider omitted it, in
// which case tokens are estimated from the prompt and output text.
func (m *Meter) Measure(model, prompt, output string, reportedTokens *int) Reading {
	r := Reading{}
	if reportedTokens != nil && *reportedTokens > 0 {
		r.Tokens = *reportedTokens
	} else {
		r.Tokens = EstimateTokens(prompt, output)
		r.Estimated = true
	}

	if rate, ok := m.rates.Rate(model); ok {
		cost := float64(r.Tokens) / 1_000_000 * rate
		r.Cost = &cost
	}
	return r
}

// EstimateTokens approximates token usage as one token per four runes of
// combined input and output text, rounded up. This is the usual rule of
// thumb for BPE vocabularies on English text; it is an estimate, not a
// measurement, and callers must surface it as such.
func EstimateTokens(prompt, output string) int {
	runes := utf8.RuneCountInString(prompt) + utf8.RuneCountInString(output)
	return (runes + 3) / 4
}
