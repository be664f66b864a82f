// Package providers defines the uniform model-provider invocation capability
// and the HTTP clients implementing it for the supported upstream APIs.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// Invocation is the raw result of one successful provider call.
type Invocation struct {
	// Text is the model's completion.
	Text string
	// TokensUsed is the provider-reported total token usage. It is nil when
	// the provider does not report usage; metering estimates in that case.
	TokensUsed *int
}

// Invoker is the uniform invocation capability for a single configured
// model. Implementations must be safe to call concurrently and must honor
// context cancellation and deadlines.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (*Invocation, error)
}

// Registry holds the process-wide set of configured providers, keyed by
// model identifier. It is populated at startup and read-only afterwards.
type Registry struct {
	invokers map[string]Invoker
	ids      []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{invokers: make(map[string]Invoker)}
}

// Register adds an invoker under the given model identifier.
func (r *Registry) Register(id string, inv Invoker) error {
	if id == "" {
		return fmt.Errorf("provider id must not be empty")
	}
	if _, exists := r.invokers[id]; exists {
		return fmt.Errorf("provider %q registered twice", id)
	}
	r.invokers[id] = inv
	r.ids = append(r.ids, id)
	return nil
}

// Invoker returns the invoker for a model identifier.
func (r *Registry) Invoker(id string) (Invoker, bool) {
	inv, ok := r.invokers[id]
	return inv, ok
}

// IDs returns all registered model identifiers, sorted.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	sort.Strings(out)
	return out
}

// newHTTPClient returns the http.Client shared by the provider
// implementations. Per-call deadlines come from the caller's context; the
// client itself only bounds dialing and header reads.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   4,
			ResponseHeaderTimeout: 60 * time.Second,
		},
	}
}

// statusError renders an upstream non-2xx response as an error, keeping a
// short body excerpt for diagnosis.
func statusError(status int, body []byte) error {
	const maxExcerpt = 256
	excerpt := string(body)
	if len(excerpt) > maxExcerpt {
		excerpt = excerpt[:maxExcerpt] + "..."
	}
	return fmt.Errorf("upstream returned status %d: %s", status, excerpt)
}
