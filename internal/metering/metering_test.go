package metering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureReportedTokens(t *testing.T) {
	meter := NewMeter(NewRateTable(map[string]float64{"openai": 10.0}))

	reported := 2000
	r := meter.Measure("openai", "prompt", "output", &reported)

	assert.Equal(t, 2000, r.Tokens)
	assert.False(t, r.Estimated)
	require.NotNil(t, r.Cost)
	assert.InDelta(t, 0.02, *r.Cost, 1e-9)
}

func TestMeasureEstimatesWhenUsageMissing(t *testing.T) {
	meter := NewMeter(NewRateTable(map[string]float64{"openai": 10.0}))

	// 8 runes of prompt + 8 runes of output = 16 runes -> 4 tokens.
	r := meter.Measure("openai", "abcdefgh", "ijklmnop", nil)

	assert.Equal(t, 4, r.Tokens)
	assert.True(t, r.Estimated)
	require.NotNil(t, r.Cost)
}

func TestMeasureUnknownRate(t *testing.T) {
	meter := NewMeter(NewRateTable(nil))

	reported := 500
	r := meter.Measure("mystery", "p", "o", &reported)

	assert.Equal(t, 500, r.Tokens)
	assert.Nil(t, r.Cost, "unknown rate must yield nil cost, not zero")
}

func TestMeasureZeroReportedFallsBack(t *testing.T) {
	meter := NewMeter(NewRateTable(nil))

	// Some providers report usage as zero instead of omitting it.
	zero := 0
	r := meter.Measure("gemini", "abcd", "efgh", &zero)

	assert.Equal(t, 2, r.Tokens)
	assert.True(t, r.Estimated)
}

func TestEstimateTokensRoundsUp(t *testing.T) {
	assert.Equal(t, 1, EstimateTokens("a", ""))
	assert.Equal(t, 1, EstimateTokens("abcd", ""))
	assert.Equal(t, 2, EstimateTokens("abcde", ""))
	assert.Equal(t, 0, EstimateTokens("", ""))
}

func TestRateTableIsCopied(t *testing.T) {
	src := map[string]float64{"a": 1.0}
	table := NewRateTable(src)
	src["a"] = 99.0

	rate, ok := table.Rate("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, rate)
	assert.Equal(t, []string{"a"}, table.Models())
}
