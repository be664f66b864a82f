package webserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelbench/modelbench/internal/analysis"
	"github.com/modelbench/modelbench/internal/metering"
	"github.com/modelbench/modelbench/internal/orchestration"
	"github.com/modelbench/modelbench/internal/pool"
	"github.com/modelbench/modelbench/internal/providers"
	"github.com/modelbench/modelbench/internal/telemetry"
)

type echoInvoker struct{}

func (echoInvoker) Invoke(_ context.Context, prompt string) (*providers.Invocation, error) {
	return &providers.Invocation{Text: prompt}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	reg := providers.NewRegistry()
	require.NoError(t, reg.Register("echo", echoInvoker{}))

	rates := metering.NewRateTable(nil)
	p := pool.New(1)
	t.Cleanup(p.Close)
	runner := orchestration.NewRunner(reg, metering.NewMeter(rates), analysis.NewLexicalEngine(), p)

	srv, err := New(Config{
		Port:     8080,
		Runner:   runner,
		Registry: reg,
		Rates:    rates,
		Metrics:  telemetry.New(),
	})
	require.NoError(t, err)
	return srv
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"health", http.MethodGet, "/api/health", http.StatusOK},
		{"models", http.MethodGet, "/api/models", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"unknown", http.MethodGet, "/api/nope", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/api/compare", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestServerRequiresRunner(t *testing.T) {
	_, err := New(Config{Port: 8080})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runner is required")
}

func TestServerGzipNegotiation(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// Small bodies may be served identity; the handler must not break either way.
	enc := rec.Header().Get("Content-Encoding")
	assert.Contains(t, []string{"", "gzip"}, enc)
}
