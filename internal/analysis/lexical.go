package analysis

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/modelbench/modelbench/internal/models"
)

// classifierMaxRunes caps the text fed to the sentiment and toxicity
// classifiers. Long outputs add latency without changing the verdict much.
const classifierMaxRunes = 512

// embeddingDim is the dimensionality of the hashed bag-of-words embedding.
const embeddingDim = 256

// LexicalEngine is a dependency-free Engine built on word lexicons and a
// hashed bag-of-words embedding. It trades accuracy for zero model-loading
// cost and is the default engine when no external inference service is
// configured. All state is immutable after construction.
type LexicalEngine struct {
	positive map[string]bool
	negative map[string]bool
	toxic    map[string]bool
}

// NewLexicalEngine builds the default engine with its built-in lexicons.
func NewLexicalEngine() *LexicalEngine {
	return &LexicalEngine{
		positive: toSet(positiveWords),
		negative: toSet(negativeWords),
		toxic:    toSet(toxicWords),
	}
}

// Readability returns the Flesch reading ease score of the full text:
//
//	206.835 − 1.015·(words/sentences) − 84.6·(syllables/words)
//
// Typical English prose lands between 0 and 100; scores outside that range
// are possible and are not clamped.
func (e *LexicalEngine) Readability(text string) (float64, error) {
	words := tokenize(text)
	if len(words) == 0 {
		return 0, ErrEmptyText
	}

	sentences := countSentences(text)
	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))
	return 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord, nil
}

// Sentiment classifies the leading classifierMaxRunes of the text by lexicon
// polarity counts. Texts with no polar words are neutral.
func (e *LexicalEngine) Sentiment(text string) (models.Sentiment, error) {
	words := tokenize(truncateRunes(text, classifierMaxRunes))
	if len(words) == 0 {
		return models.Sentiment{}, ErrEmptyText
	}

	pos, neg := 0, 0
	for _, w := range words {
		if e.positive[w] {
			pos++
		}
		if e.negative[w] {
			neg++
		}
	}

	if pos+neg == 0 {
		return models.Sentiment{Label: models.SentimentNeutral, Confidence: 1.0}, nil
	}

	polarity := float64(pos-neg) / float64(pos+neg)
	switch {
	case polarity > 0.25:
		return models.Sentiment{Label: models.SentimentPositive, Confidence: polarity}, nil
	case polarity < -0.25:
		return models.Sentiment{Label: models.SentimentNegative, Confidence: -polarity}, nil
	default:
		return models.Sentiment{Label: models.SentimentNeutral, Confidence: 1.0 - absFloat(polarity)}, nil
	}
}

// Toxicity scores the leading classifierMaxRunes of the text as the share of
// tokens found in the toxicity lexicon, amplified and clamped to [0, 1].
func (e *LexicalEngine) Toxicity(text string) (float64, error) {
	words := tokenize(truncateRunes(text, classifierMaxRunes))
	if len(words) == 0 {
		return 0, ErrEmptyText
	}

	hits := 0
	for _, w := range words {
		if e.toxic[w] {
			hits++
		}
	}

	// A single slur in a short reply should already score high, so the raw
	// ratio is amplified before clamping.
	score := float64(hits) / float64(len(words)) * 5.0
	if score > 1.0 {
		score = 1.0
	}
	return score, nil
}

// Embed maps the text to an L2-normalized signed hashed bag-of-words vector.
// Identical texts embed identically, so their cosine similarity is 1.
func (e *LexicalEngine) Embed(text string) ([]float64, error) {
	words := tokenize(text)
	if len(words) == 0 {
		return nil, ErrEmptyText
	}

	vec := make([]float64, embeddingDim)
	for _, w := range words {
		h := fnv.New32a()
		h.Write([]byte(w)) //nolint:errcheck
		sum := h.Sum32()
		idx := sum % embeddingDim
		// Use one hash bit as the sign so unrelated words cancel rather
		// than accumulate.
		if sum&(1<<31) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		scale := 1.0 / math.Sqrt(norm)
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func countSentences(text string) int {
	count := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

// countSyllables approximates syllables as vowel groups, with a silent-e
// adjustment. Every word has at least one syllable.
func countSyllables(word string) int {
	count := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
