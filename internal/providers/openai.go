package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OpenAIClient talks to the OpenAI chat completions API, or any endpoint
// implementing the same wire format (Mistral's la plateforme does).
type OpenAIClient struct {
	endpoint  string
	model     string
	apiKey    string
	maxTokens int
	httpc     *http.Client
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint.
func NewOpenAIClient(endpoint, model, apiKey string, maxTokens int) *OpenAIClient {
	return &OpenAIClient{
		endpoint:  endpoint,
		model:     model,
		apiKey:    apiKey,
		maxTokens: maxTokens,
		httpc:     newHTTPClient(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Invoke sends the prompt as a single user message.
func (c *OpenAIClient) Invoke(ctx context.Context, prompt string) (*Invocation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key for model %q is not set", c.model)
	}

	body, err := json.Marshal(chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("response contained no choices")
	}

	inv := &Invocation{Text: parsed.Choices[0].Message.Content}
	if total := parsed.Usage.TotalTokens; total > 0 {
		inv.TokensUsed = &total
	} else if sum := parsed.Usage.PromptTokens + parsed.Usage.CompletionTokens; sum > 0 {
		inv.TokensUsed = &sum
	}
	return inv, nil
}
