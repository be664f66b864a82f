// Package webapi exposes the comparison pipeline over a small REST API.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelbench/modelbench/internal/metering"
	"github.com/modelbench/modelbench/internal/models"
	"github.com/modelbench/modelbench/internal/orchestration"
	"github.com/modelbench/modelbench/internal/providers"
)

// Version is set at build time or defaults to dev.
var Version = "0.2.0"

// maxRequestBody bounds the request body size for POST /api/compare.
const maxRequestBody = 1 << 20

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	runner   *orchestration.Runner
	registry *providers.Registry
	rates    *metering.RateTable
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers over the given runner and registry.
func NewHandlers(runner *orchestration.Runner, registry *providers.Registry, rates *metering.RateTable, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{runner: runner, registry: registry, rates: rates, logger: logger}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleModels returns the configured models with their rates.
func (h *Handlers) HandleModels(w http.ResponseWriter, _ *http.Request) {
	resp := ModelsResponse{Models: []ModelInfo{}}
	for _, id := range h.registry.IDs() {
		info := ModelInfo{ID: id}
		if rate, ok := h.rates.Rate(id); ok {
			info.RatePerMTok = &rate
		}
		resp.Models = append(resp.Models, info)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleCompare runs one comparison. Malformed or invalid requests get a 400
// before any provider is contacted; per-model failures are reported inside a
// 200 response, not as HTTP errors.
func (h *Handlers) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var req models.ComparisonRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	result, err := h.runner.Compare(r.Context(), &req)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, context.Canceled):
			// Client went away; nothing useful to write.
			h.logger.Debug("comparison abandoned", "error", err)
		default:
			h.logger.Error("comparison failed", "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RegisterRoutes registers all web API routes on the given mux. A positive
// compareLimitPerMinute rate-limits POST /api/compare per client address;
// zero disables limiting. Health and models stay unlimited.
func RegisterRoutes(mux *http.ServeMux, h *Handlers, compareLimitPerMinute int) {
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/models", h.HandleModels)

	var compare http.Handler = http.HandlerFunc(h.HandleCompare)
	if compareLimitPerMinute > 0 {
		compare = RateLimitMiddleware(compare, compareLimitPerMinute)
	}
	mux.Handle("POST /api/compare", compare)
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
// Otherwise, the request Origin is checked against the allowed list.
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs one line per request with status and duration.
func LoggingMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
