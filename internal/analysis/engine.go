// Package analysis defines the text-quality analysis capability consumed by
// the comparison orchestrator, plus a self-contained lexical implementation.
package analysis

import (
	"errors"
	"math"

	"github.com/modelbench/modelbench/internal/models"
)

// ErrEmptyText is returned when an analysis is requested for empty input.
var ErrEmptyText = errors.New("analysis: text is empty")

// Engine is the uniform analysis capability. Each method is an independent
// sub-task: one failing never implies the others fail. Implementations are
// CPU-bound and synchronous; callers are responsible for offloading them to
// a bounded worker pool. Implementations must be safe for concurrent use.
type Engine interface {
	// Readability returns a Flesch reading ease score. Higher is easier.
	Readability(text string) (float64, error)

	// Sentiment classifies the text as positive, negative, or neutral.
	Sentiment(text string) (models.Sentiment, error)

	// Toxicity returns a toxicity score in [0, 1].
	Toxicity(text string) (float64, error)

	// Embed maps the text to a fixed-dimension vector suitable for cosine
	// similarity.
	Embed(text string) ([]float64, error)
}

// Cosine returns the cosine similarity of two equal-length vectors, in
// [-1, 1]. It returns 0 for mismatched lengths or zero vectors.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
