package webapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	hits := 0
	h := RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}), 2)

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/compare", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:5001").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:5002").Code)

	rec := do("10.0.0.1:5003")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "rate limit")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)

	assert.Equal(t, http.StatusOK, do("10.0.0.2:5001").Code,
		"limits are per client address, not global")
	assert.Equal(t, 3, hits, "limited requests must not reach the handler")
}

func TestCompareRouteRateLimit(t *testing.T) {
	h, _ := newTestHandlers(t)
	mux := http.NewServeMux()
	RegisterRoutes(mux, h, 1)

	body := `{"prompt": "say something", "models": ["alpha"]}`
	do := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		if path != "/api/compare" {
			req = httptest.NewRequest(http.MethodGet, path, nil)
		}
		req.RemoteAddr = "192.0.2.7:4242"
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("/api/compare"))
	assert.Equal(t, http.StatusTooManyRequests, do("/api/compare"))
	assert.Equal(t, http.StatusOK, do("/api/health"), "only compare is limited")
	assert.Equal(t, http.StatusOK, do("/api/models"), "only compare is limited")
}
