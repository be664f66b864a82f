// Package webserver provides the HTTP server that exposes the comparison
// REST API and the prometheus metrics endpoint.
package webserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/modelbench/modelbench/internal/metering"
	"github.com/modelbench/modelbench/internal/orchestration"
	"github.com/modelbench/modelbench/internal/providers"
	"github.com/modelbench/modelbench/internal/telemetry"
	"github.com/modelbench/modelbench/internal/webapi"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port int
	// CompareRateLimit caps POST /api/compare per client per minute;
	// zero disables limiting.
	CompareRateLimit int
	Runner           *orchestration.Runner
	Registry         *providers.Registry
	Rates            *metering.RateTable
	Metrics          *telemetry.Metrics
	AllowedOrigins   []string
	Logger           *slog.Logger
}

// Server wraps the HTTP server with configuration.
type Server struct {
	cfg    Config
	srv    *http.Server
	logger *slog.Logger
}

// New creates a new HTTP server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.Runner == nil {
		return nil, fmt.Errorf("webserver: a runner is required")
	}

	mux := http.NewServeMux()
	registerRoutes(mux, cfg)

	var handler http.Handler = mux
	handler = webapi.CORSMiddleware(handler, cfg.AllowedOrigins...)
	handler = webapi.LoggingMiddleware(handler, cfg.Logger)
	handler = gzhttp.GzipHandler(handler)

	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	return s, nil
}

// ListenAndServe starts the HTTP server and shuts it down gracefully when
// ctx is cancelled. In-flight comparisons get five seconds to settle.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("HTTP server starting", "address", s.srv.Addr)

	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "error", err)
		}
	}()

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Handler returns the underlying http.Handler (useful for testing).
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
