package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modelbench/modelbench/internal/webserver"
)

var (
	servePort   int
	corsOrigins []string
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the comparison HTTP API",
		Long: `Start an HTTP server exposing the comparison pipeline:

  POST /api/compare   run a comparison
  GET  /api/models    list configured models
  GET  /api/health    health check
  GET  /metrics       prometheus metrics

The server shuts down gracefully on SIGINT/SIGTERM.`,
		RunE: serveCommandE,
	}

	cmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default: from configuration)")
	cmd.Flags().StringArrayVar(&corsOrigins, "cors-origin", nil, "Allowed CORS origin (can be repeated)")

	return cmd
}

func serveCommandE(cmd *cobra.Command, _ []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	port := rt.cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	srv, err := webserver.New(webserver.Config{
		Port:             port,
		CompareRateLimit: rt.cfg.Server.RateLimitPerMinute,
		Runner:           rt.runner,
		Registry:       rt.registry,
		Rates:          rt.rates,
		Metrics:        rt.metrics,
		AllowedOrigins: corsOrigins,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
