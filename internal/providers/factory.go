package providers

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
)

// Kind identifies the wire format a provider speaks.
type Kind string

const (
	// KindOpenAI is the OpenAI chat completions format, also spoken by
	// Mistral and many self-hosted gateways.
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
	KindGemini    Kind = "gemini"
)

// Default endpoints per kind, overridable in configuration.
const (
	defaultOpenAIEndpoint    = "https://api.openai.com/v1/chat/completions"
	defaultAnthropicEndpoint = "https://api.anthropic.com/v1/messages"
	defaultGeminiEndpoint    = "https://generativelanguage.googleapis.com/v1beta"

	defaultMaxTokens = 1024
)

// Create builds an invoker of the given kind from decoded configuration
// parameters. The API key is resolved from the environment variable named in
// api_key_env; a missing key is not an error here — the invoker reports it
// at call time so one unconfigured provider doesn't block the others.
func Create(kind Kind, id string, params map[string]any) (Invoker, error) {
	var v struct {
		Endpoint  string `mapstructure:"endpoint"`
		Model     string `mapstructure:"model"`
		APIKeyEnv string `mapstructure:"api_key_env"`
		MaxTokens int    `mapstructure:"max_tokens"`
	}
	if err := mapstructure.Decode(params, &v); err != nil {
		return nil, fmt.Errorf("provider %q: %w", id, err)
	}
	if v.Model == "" {
		return nil, fmt.Errorf("provider %q: model is required", id)
	}
	if v.MaxTokens <= 0 {
		v.MaxTokens = defaultMaxTokens
	}

	apiKey := ""
	if v.APIKeyEnv != "" {
		apiKey = os.Getenv(v.APIKeyEnv)
	}

	switch kind {
	case KindOpenAI:
		if v.Endpoint == "" {
			v.Endpoint = defaultOpenAIEndpoint
		}
		return NewOpenAIClient(v.Endpoint, v.Model, apiKey, v.MaxTokens), nil
	case KindAnthropic:
		if v.Endpoint == "" {
			v.Endpoint = defaultAnthropicEndpoint
		}
		return NewAnthropicClient(v.Endpoint, v.Model, apiKey, v.MaxTokens), nil
	case KindGemini:
		if v.Endpoint == "" {
			v.Endpoint = defaultGeminiEndpoint
		}
		return NewGeminiClient(v.Endpoint, v.Model, apiKey), nil
	default:
		return nil, fmt.Errorf("provider %q: %q is not a valid provider kind", id, kind)
	}
}
