package models

import (
	"fmt"
	"strings"
)

// ComparisonRequest is the validated input for one comparison. It is treated
// as immutable once Validate has accepted it.
type ComparisonRequest struct {
	Prompt string `json:"prompt"`
	// Models is the ordered list of provider identifiers to invoke. The
	// final result list preserves this order.
	Models []string `json:"models"`
	// ReferenceModel, when set, designates the similarity baseline. It must
	// be a member of Models.
	ReferenceModel string `json:"reference_model,omitempty"`
}

// ValidationError indicates a malformed request. It is request-fatal and is
// raised before any upstream call is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

// Validate checks the request shape. It returns a *ValidationError on the
// first violation found; the request must not be processed further.
func (r *ComparisonRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return &ValidationError{Field: "prompt", Message: "must not be empty"}
	}
	if len(r.Models) == 0 {
		return &ValidationError{Field: "models", Message: "at least one model is required"}
	}

	seen := make(map[string]bool, len(r.Models))
	for _, m := range r.Models {
		if strings.TrimSpace(m) == "" {
			return &ValidationError{Field: "models", Message: "model identifiers must not be empty"}
		}
		if seen[m] {
			return &ValidationError{Field: "models", Message: fmt.Sprintf("duplicate model %q", m)}
		}
		seen[m] = true
	}

	if r.ReferenceModel != "" && !seen[r.ReferenceModel] {
		return &ValidationError{
			Field:   "reference_model",
			Message: fmt.Sprintf("%q is not in the requested models", r.ReferenceModel),
		}
	}
	return nil
}

// HasReference reports whether a similarity baseline was requested.
func (r *ComparisonRequest) HasReference() bool {
	return r.ReferenceModel != ""
}
