package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GeminiClient talks to the Google generative language API. The API key
// travels as a query parameter rather than a header.
type GeminiClient struct {
	endpoint string
	model    string
	apiKey   string
	httpc    *http.Client
}

// NewGeminiClient creates a client for the generateContent endpoint.
// endpoint is the API base, e.g. "https://generativelanguage.googleapis.com/v1beta".
func NewGeminiClient(endpoint, model, apiKey string) *GeminiClient {
	return &GeminiClient{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		httpc:    newHTTPClient(),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Invoke sends the prompt as a single content part.
func (c *GeminiClient) Invoke(ctx context.Context, prompt string) (*Invocation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key for model %q is not set", c.model)
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, raw)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("response contained no candidates")
	}

	inv := &Invocation{Text: parsed.Candidates[0].Content.Parts[0].Text}
	if total := parsed.UsageMetadata.TotalTokenCount; total > 0 {
		inv.TokensUsed = &total
	}
	return inv, nil
}
