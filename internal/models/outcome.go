package models

import "math"

// Status represents the settled state of a single provider invocation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// ErrorKind classifies why a model outcome failed.
type ErrorKind string

const (
	// ErrorKindProvider covers upstream rejections, transport failures, and
	// unparseable responses.
	ErrorKindProvider ErrorKind = "provider_error"
	// ErrorKindTimeout means the per-call deadline elapsed before the
	// provider settled.
	ErrorKindTimeout ErrorKind = "timeout"
)

// Sentiment is a classified sentiment label with the classifier's confidence.
type Sentiment struct {
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
}

// SentimentLabel is one of positive, negative, or neutral.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// AnalysisResult holds the per-output quality scores. Each field is
// independently optional: a nil field means that analysis sub-task failed,
// which degrades the result but never fails the outcome.
type AnalysisResult struct {
	Readability *float64   `json:"readability_score,omitempty"`
	Sentiment   *Sentiment `json:"sentiment,omitempty"`
	Toxicity    *float64   `json:"toxicity_score,omitempty"`
}

// ModelOutcome is the settled result for one requested model. Exactly one
// outcome exists per requested model, success or not.
//
// Optional numeric fields use pointers so that "unknown" is distinguishable
// from a real zero — an unknown cost is nil, never 0.
type ModelOutcome struct {
	Model  string `json:"model"`
	Status Status `json:"status"`

	// Success fields.
	Output                string          `json:"output,omitempty"`
	TokensUsed            *int            `json:"tokens_used,omitempty"`
	EstimatedCost         *float64        `json:"estimated_cost,omitempty"`
	TokensEstimated       bool            `json:"tokens_estimated,omitempty"`
	Analysis              *AnalysisResult `json:"analysis,omitempty"`
	SimilarityToReference *float64        `json:"similarity_to_reference,omitempty"`

	// LatencyMs is wall-clock time from call start to settle. It is recorded
	// for failed and timed-out invocations too.
	LatencyMs int64 `json:"latency_ms"`

	// Failure fields.
	ErrorKind   ErrorKind `json:"error_kind,omitempty"`
	ErrorDetail string    `json:"error_detail,omitempty"`
}

// Succeeded reports whether the invocation produced usable output.
func (o *ModelOutcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// ComparisonDigest summarizes a comparison across all requested models.
type ComparisonDigest struct {
	TotalModels   int      `json:"total_models"`
	Succeeded     int      `json:"succeeded"`
	Failed        int      `json:"failed"`
	SuccessRate   float64  `json:"success_rate"`
	TotalTokens   *int     `json:"total_tokens,omitempty"`
	TotalCost     *float64 `json:"total_cost,omitempty"`
	AvgLatencyMs  int64    `json:"avg_latency_ms"`
	MaxLatencyMs  int64    `json:"max_latency_ms"`
	LatencyStdDev float64  `json:"latency_std_dev"`
	DurationMs    int64    `json:"duration_ms"`
}

// ComparisonResult is the ordered, partial-failure-tolerant result of one
// comparison request. Results preserve the request's model order regardless
// of completion order.
type ComparisonResult struct {
	ID       string           `json:"comparison_id"`
	Prompt   string           `json:"prompt"`
	Results  []ModelOutcome   `json:"results"`
	Warnings []string         `json:"warnings,omitempty"`
	Digest   ComparisonDigest `json:"summary"`
}

// Outcome returns the outcome for the given model ID, or nil if absent.
func (r *ComparisonResult) Outcome(model string) *ModelOutcome {
	for i := range r.Results {
		if r.Results[i].Model == model {
			return &r.Results[i]
		}
	}
	return nil
}

// BuildDigest computes the comparison summary from settled outcomes.
// Token and cost totals are present only when at least one outcome reported
// a known value; summing unknowns as zero would be a false precision claim.
func BuildDigest(outcomes []ModelOutcome, durationMs int64) ComparisonDigest {
	d := ComparisonDigest{
		TotalModels: len(outcomes),
		DurationMs:  durationMs,
	}

	latencies := make([]float64, 0, len(outcomes))
	var totalLatency int64
	var tokens int
	var cost float64
	tokensKnown := false
	costKnown := false

	for _, o := range outcomes {
		if o.Succeeded() {
			d.Succeeded++
		} else {
			d.Failed++
		}
		latencies = append(latencies, float64(o.LatencyMs))
		totalLatency += o.LatencyMs
		if o.LatencyMs > d.MaxLatencyMs {
			d.MaxLatencyMs = o.LatencyMs
		}
		if o.TokensUsed != nil {
			tokens += *o.TokensUsed
			tokensKnown = true
		}
		if o.EstimatedCost != nil {
			cost += *o.EstimatedCost
			costKnown = true
		}
	}

	if len(outcomes) > 0 {
		d.SuccessRate = float64(d.Succeeded) / float64(len(outcomes))
		d.AvgLatencyMs = totalLatency / int64(len(outcomes))
	}
	d.LatencyStdDev = ComputeStdDev(latencies)
	if tokensKnown {
		d.TotalTokens = &tokens
	}
	if costKnown {
		d.TotalCost = &cost
	}
	return d
}

// ComputeStdDev returns the population standard deviation for a slice of float64 values.
func ComputeStdDev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(n))
}
