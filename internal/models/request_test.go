package models

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       ComparisonRequest
		wantField string // empty means the request is valid
	}{
		{
			name: "valid minimal",
			req:  ComparisonRequest{Prompt: "explain fibonacci", Models: []string{"openai"}},
		},
		{
			name: "valid with reference",
			req: ComparisonRequest{
				Prompt:         "explain fibonacci",
				Models:         []string{"openai", "anthropic"},
				ReferenceModel: "openai",
			},
		},
		{
			name:      "empty prompt",
			req:       ComparisonRequest{Prompt: "", Models: []string{"openai"}},
			wantField: "prompt",
		},
		{
			name:      "whitespace prompt",
			req:       ComparisonRequest{Prompt: "   \n\t", Models: []string{"openai"}},
			wantField: "prompt",
		},
		{
			name:      "no models",
			req:       ComparisonRequest{Prompt: "hello", Models: []string{}},
			wantField: "models",
		},
		{
			name:      "duplicate models",
			req:       ComparisonRequest{Prompt: "hello", Models: []string{"openai", "openai"}},
			wantField: "models",
		},
		{
			name:      "blank model id",
			req:       ComparisonRequest{Prompt: "hello", Models: []string{"openai", " "}},
			wantField: "models",
		},
		{
			name: "reference not in models",
			req: ComparisonRequest{
				Prompt:         "hello",
				Models:         []string{"openai", "anthropic"},
				ReferenceModel: "gemini",
			},
			wantField: "reference_model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestBuildDigest(t *testing.T) {
	tokens := func(n int) *int { return &n }
	cost := func(c float64) *float64 { return &c }

	outcomes := []ModelOutcome{
		{Model: "a", Status: StatusSuccess, LatencyMs: 500, TokensUsed: tokens(100), EstimatedCost: cost(0.0005)},
		{Model: "b", Status: StatusSuccess, LatencyMs: 900, TokensUsed: tokens(300)},
		{Model: "c", Status: StatusFailed, LatencyMs: 100, ErrorKind: ErrorKindTimeout},
	}

	d := BuildDigest(outcomes, 950)

	if d.TotalModels != 3 || d.Succeeded != 2 || d.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", d.TotalModels, d.Succeeded, d.Failed)
	}
	if d.SuccessRate < 0.66 || d.SuccessRate > 0.67 {
		t.Errorf("SuccessRate = %f, want ~0.667", d.SuccessRate)
	}
	if d.TotalTokens == nil || *d.TotalTokens != 400 {
		t.Errorf("TotalTokens = %v, want 400", d.TotalTokens)
	}
	if d.TotalCost == nil || *d.TotalCost != 0.0005 {
		t.Errorf("TotalCost = %v, want 0.0005", d.TotalCost)
	}
	if d.AvgLatencyMs != 500 {
		t.Errorf("AvgLatencyMs = %d, want 500", d.AvgLatencyMs)
	}
	if d.MaxLatencyMs != 900 {
		t.Errorf("MaxLatencyMs = %d, want 900", d.MaxLatencyMs)
	}
	if d.DurationMs != 950 {
		t.Errorf("DurationMs = %d, want 950", d.DurationMs)
	}
}

func TestBuildDigestAllUnknown(t *testing.T) {
	outcomes := []ModelOutcome{
		{Model: "a", Status: StatusFailed, ErrorKind: ErrorKindProvider},
	}
	d := BuildDigest(outcomes, 10)
	if d.TotalTokens != nil {
		t.Errorf("TotalTokens = %v, want nil when no outcome reported tokens", d.TotalTokens)
	}
	if d.TotalCost != nil {
		t.Errorf("TotalCost = %v, want nil when no outcome reported cost", d.TotalCost)
	}
}

func TestOutcomeLookup(t *testing.T) {
	r := ComparisonResult{Results: []ModelOutcome{{Model: "a"}, {Model: "b"}}}
	if got := r.Outcome("b"); got == nil || got.Model != "b" {
		t.Errorf("Outcome(b) = %v, want outcome for b", got)
	}
	if got := r.Outcome("missing"); got != nil {
		t.Errorf("Outcome(missing) = %v, want nil", got)
	}
}
