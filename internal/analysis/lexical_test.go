package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelbench/modelbench/internal/models"
)

func TestReadability(t *testing.T) {
	engine := NewLexicalEngine()

	simple, err := engine.Readability("The cat sat. The dog ran. It was fun.")
	require.NoError(t, err)

	dense, err := engine.Readability(
		"Notwithstanding considerable organizational heterogeneity, " +
			"institutional particularities necessitate comprehensive " +
			"interdisciplinary collaboration methodologies.")
	require.NoError(t, err)

	assert.Greater(t, simple, dense, "short words and sentences must score easier")
	assert.Greater(t, simple, 80.0)
}

func TestReadabilityEmpty(t *testing.T) {
	engine := NewLexicalEngine()
	_, err := engine.Readability("   ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestSentiment(t *testing.T) {
	engine := NewLexicalEngine()

	tests := []struct {
		name string
		text string
		want models.SentimentLabel
	}{
		{"positive", "This is a great, helpful and clear answer. Excellent work.", models.SentimentPositive},
		{"negative", "A terrible, confusing and wrong answer. Awful.", models.SentimentNegative},
		{"neutral", "The function returns an integer between zero and ten.", models.SentimentNeutral},
		{"mixed leans neutral", "good good bad bad", models.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Sentiment(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Label)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestToxicity(t *testing.T) {
	engine := NewLexicalEngine()

	clean, err := engine.Toxicity("The quick brown fox jumps over the lazy dog.")
	require.NoError(t, err)
	assert.Equal(t, 0.0, clean)

	toxic, err := engine.Toxicity("you stupid worthless idiot")
	require.NoError(t, err)
	assert.Greater(t, toxic, 0.5)
	assert.LessOrEqual(t, toxic, 1.0)
}

func TestEmbedCosine(t *testing.T) {
	engine := NewLexicalEngine()

	a, err := engine.Embed("the recursive fibonacci function computes numbers")
	require.NoError(t, err)
	b, err := engine.Embed("the recursive fibonacci function computes numbers")
	require.NoError(t, err)
	c, err := engine.Embed("bananas are an excellent source of potassium nutrition")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, Cosine(a, b), 1e-9, "identical text must have similarity 1")
	assert.Less(t, Cosine(a, c), 0.5, "unrelated text must score lower")
}

func TestCosineEdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, Cosine(nil, nil))
	assert.Equal(t, 0.0, Cosine([]float64{1, 0}, []float64{1}))
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}))
}

func TestEmbedEmpty(t *testing.T) {
	engine := NewLexicalEngine()
	_, err := engine.Embed("")
	assert.ErrorIs(t, err, ErrEmptyText)
}
