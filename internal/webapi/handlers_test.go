package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelbench/modelbench/internal/analysis"
	"github.com/modelbench/modelbench/internal/metering"
	"github.com/modelbench/modelbench/internal/models"
	"github.com/modelbench/modelbench/internal/orchestration"
	"github.com/modelbench/modelbench/internal/pool"
	"github.com/modelbench/modelbench/internal/providers"
)

type stubInvoker struct {
	text string
	fail bool
}

func (s *stubInvoker) Invoke(_ context.Context, _ string) (*providers.Invocation, error) {
	if s.fail {
		return nil, assert.AnError
	}
	return &providers.Invocation{Text: s.text}, nil
}

func newTestHandlers(t *testing.T) (*Handlers, *http.ServeMux) {
	t.Helper()

	reg := providers.NewRegistry()
	require.NoError(t, reg.Register("alpha", &stubInvoker{text: "a fine answer"}))
	require.NoError(t, reg.Register("beta", &stubInvoker{fail: true}))

	rates := metering.NewRateTable(map[string]float64{"alpha": 5.0})
	p := pool.New(2)
	t.Cleanup(p.Close)
	runner := orchestration.NewRunner(reg, metering.NewMeter(rates), analysis.NewLexicalEngine(), p)

	h := NewHandlers(runner, reg, rates, nil)
	mux := http.NewServeMux()
	RegisterRoutes(mux, h, 0)
	return h, mux
}

func TestHandleHealth(t *testing.T) {
	_, mux := newTestHandlers(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Version)
}

func TestHandleModels(t *testing.T) {
	_, mux := newTestHandlers(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ModelsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Models, 2)
	assert.Equal(t, "alpha", resp.Models[0].ID)
	require.NotNil(t, resp.Models[0].RatePerMTok)
	assert.Equal(t, 5.0, *resp.Models[0].RatePerMTok)
	assert.Nil(t, resp.Models[1].RatePerMTok)
}

func TestHandleCompare(t *testing.T) {
	_, mux := newTestHandlers(t)

	body := `{"prompt": "say something", "models": ["alpha", "beta"]}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/compare", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result models.ComparisonResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	require.Len(t, result.Results, 2)
	assert.Equal(t, "alpha", result.Results[0].Model)
	assert.Equal(t, models.StatusSuccess, result.Results[0].Status)
	assert.Equal(t, models.StatusFailed, result.Results[1].Status,
		"per-model failure stays inside a 200 response")
	assert.Equal(t, 1, result.Digest.Succeeded)
}

func TestHandleCompareValidationError(t *testing.T) {
	_, mux := newTestHandlers(t)

	body := `{"prompt": "", "models": ["alpha"]}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/compare", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "invalid request")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleCompareMalformedBody(t *testing.T) {
	_, mux := newTestHandlers(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/compare", strings.NewReader("{not json")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "malformed request body")
}

func TestCORSMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allowed origin", func(t *testing.T) {
		h := CORSMiddleware(inner, "http://localhost:3000")
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		h := CORSMiddleware(inner, "http://localhost:3000")
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		h := CORSMiddleware(inner, "http://localhost:3000")
		req := httptest.NewRequest(http.MethodOptions, "/api/compare", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
