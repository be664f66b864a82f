package webserver

import (
	"net/http"

	"github.com/modelbench/modelbench/internal/webapi"
)

// registerRoutes sets up API and metrics routes on the given mux.
func registerRoutes(mux *http.ServeMux, cfg Config) {
	h := webapi.NewHandlers(cfg.Runner, cfg.Registry, cfg.Rates, cfg.Logger)
	webapi.RegisterRoutes(mux, h, cfg.CompareRateLimit)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}
}
