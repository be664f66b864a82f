package main

import (
	"fmt"
	"time"

	"github.com/modelbench/modelbench/internal/analysis"
	"github.com/modelbench/modelbench/internal/config"
	"github.com/modelbench/modelbench/internal/metering"
	"github.com/modelbench/modelbench/internal/orchestration"
	"github.com/modelbench/modelbench/internal/pool"
	"github.com/modelbench/modelbench/internal/providers"
	"github.com/modelbench/modelbench/internal/telemetry"
)

// runtimeComponents bundles everything a command needs to run comparisons.
type runtimeComponents struct {
	cfg      *config.Config
	registry *providers.Registry
	rates    *metering.RateTable
	pool     *pool.Pool
	metrics  *telemetry.Metrics
	runner   *orchestration.Runner
}

// buildRuntime loads configuration and wires the comparison pipeline.
func buildRuntime() (*runtimeComponents, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	registry, err := cfg.BuildRegistry()
	if err != nil {
		return nil, fmt.Errorf("building providers: %w", err)
	}
	if len(registry.IDs()) == 0 {
		return nil, fmt.Errorf("no providers configured; run `modelbench init` to create a modelbench.yaml")
	}

	rates := cfg.BuildRateTable()
	p := pool.New(cfg.Runtime.AnalysisWorkers)
	metrics := telemetry.New()

	runner := orchestration.NewRunner(
		registry,
		metering.NewMeter(rates),
		analysis.NewLexicalEngine(),
		p,
		orchestration.WithCallTimeout(time.Duration(cfg.Runtime.CallTimeoutSeconds)*time.Second),
		orchestration.WithMaxUpstream(int64(cfg.Runtime.MaxConcurrentCalls)),
		orchestration.WithMetrics(metrics),
	)

	return &runtimeComponents{
		cfg:      cfg,
		registry: registry,
		rates:    rates,
		pool:     p,
		metrics:  metrics,
		runner:   runner,
	}, nil
}

// Close releases the analysis worker pool.
func (rt *runtimeComponents) Close() {
	rt.pool.Close()
}
