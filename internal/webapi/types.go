package webapi

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ModelInfo describes one configured model.
type ModelInfo struct {
	ID string `json:"id"`
	// RatePerMTok is the configured blended price in USD per one million
	// tokens, or null when no rate is configured.
	RatePerMTok *float64 `json:"rate_per_mtok,omitempty"`
}

// ModelsResponse is returned by GET /api/models.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ErrorResponse is the uniform error body for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
