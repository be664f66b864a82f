package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const anthropicVersion = "2023-06-01"

// AnthropicClient talks to the Anthropic messages API.
type AnthropicClient struct {
	endpoint  string
	model     string
	apiKey    string
	maxTokens int
	httpc     *http.Client
}

// NewAnthropicClient creates a client for the Anthropic messages endpoint.
func NewAnthropicClient(endpoint, model, apiKey string, maxTokens int) *AnthropicClient {
	return &AnthropicClient{
		endpoint:  endpoint,
		model:     model,
		apiKey:    apiKey,
		maxTokens: maxTokens,
		httpc:     newHTTPClient(),
	}
}

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Invoke sends the prompt as a single user message.
func (c *AnthropicClient) Invoke(ctx context.Context, prompt string) (*Invocation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key for model %q is not set", c.model)
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

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

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return nil, fmt.Errorf("response contained no content blocks")
	}

	inv := &Invocation{Text: parsed.Content[0].Text}
	if sum := parsed.Usage.InputTokens + parsed.Usage.OutputTokens; sum > 0 {
		inv.TokensUsed = &sum
	}
	return inv, nil
}
