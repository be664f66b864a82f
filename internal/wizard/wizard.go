// Package wizard provides the interactive form used by `modelbench init` to
// generate a modelbench.yaml configuration file.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ProviderPreset is a ready-made provider entry offered by the wizard.
type ProviderPreset struct {
	ID        string
	Kind      string
	Model     string
	APIKeyEnv string
	Endpoint  string
	// RatePerMTok is a starting-point blended price in USD per 1M tokens.
	// Users are expected to adjust it to their actual contract.
	RatePerMTok float64
}

// Presets are the provider entries the wizard offers. Order is display order.
var Presets = []ProviderPreset{
	{ID: "gpt-4o", Kind: "openai", Model: "gpt-4o", APIKeyEnv: "OPENAI_API_KEY", RatePerMTok: 12.5},
	{ID: "claude-sonnet", Kind: "anthropic", Model: "claude-sonnet-4-5", APIKeyEnv: "ANTHROPIC_API_KEY", RatePerMTok: 18.0},
	{ID: "gemini-pro", Kind: "gemini", Model: "gemini-2.5-pro", APIKeyEnv: "GEMINI_API_KEY", RatePerMTok: 10.0},
	{ID: "mistral-large", Kind: "openai", Model: "mistral-large-latest", APIKeyEnv: "MISTRAL_API_KEY", Endpoint: "https://api.mistral.ai/v1/chat/completions", RatePerMTok: 8.0},
}

// ConfigSpec holds all fields collected during the interactive wizard.
type ConfigSpec struct {
	Port               int
	CallTimeoutSeconds int
	Providers          []ProviderPreset
}

const configTemplate = `server:
  port: {{ .Port }}

runtime:
  call_timeout_seconds: {{ .CallTimeoutSeconds }}

providers:
{{- range .Providers }}
  {{ .ID }}:
    kind: {{ .Kind }}
    model: {{ .Model }}
    api_key_env: {{ .APIKeyEnv }}
{{- if .Endpoint }}
    endpoint: {{ .Endpoint }}
{{- end }}
{{- end }}

rates:
{{- range .Providers }}
  {{ .ID }}: {{ .RatePerMTok }}
{{- end }}
`

// RunConfigWizard runs an interactive huh form to collect configuration.
func RunConfigWizard(in io.Reader, out io.Writer) (*ConfigSpec, error) {
	var (
		portRaw    = "8080"
		timeoutRaw = "30"
		selected   []string
	)

	options := make([]huh.Option[string], 0, len(Presets))
	for _, p := range Presets {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", p.ID, p.Model), p.ID))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server port").
				Description("Port for `modelbench serve`").
				Value(&portRaw).
				Validate(validatePort),
			huh.NewInput().
				Title("Per-call timeout (seconds)").
				Description("How long to wait for each provider before giving up").
				Value(&timeoutRaw).
				Validate(validateTimeout),
			huh.NewMultiSelect[string]().
				Title("Providers").
				Description("Models to configure; API keys are read from the environment").
				Options(options...).
				Value(&selected).
				Validate(func(vals []string) error {
					if len(vals) == 0 {
						return fmt.Errorf("select at least one provider")
					}
					return nil
				}),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	port, _ := strconv.Atoi(strings.TrimSpace(portRaw))
	timeout, _ := strconv.Atoi(strings.TrimSpace(timeoutRaw))

	spec := &ConfigSpec{Port: port, CallTimeoutSeconds: timeout}
	for _, p := range Presets {
		for _, id := range selected {
			if p.ID == id {
				spec.Providers = append(spec.Providers, p)
			}
		}
	}
	return spec, nil
}

// GenerateConfigYAML renders a modelbench.yaml from the given spec.
func GenerateConfigYAML(spec *ConfigSpec) (string, error) {
	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func validateTimeout(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("timeout must be a positive number of seconds")
	}
	return nil
}
