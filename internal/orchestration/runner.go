// Package orchestration coordinates the comparison pipeline: concurrent
// provider fan-out, metering, analysis dispatch, similarity scoring, and
// deterministic aggregation.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/modelbench/modelbench/internal/analysis"
	"github.com/modelbench/modelbench/internal/metering"
	"github.com/modelbench/modelbench/internal/models"
	"github.com/modelbench/modelbench/internal/pool"
	"github.com/modelbench/modelbench/internal/providers"
	"github.com/modelbench/modelbench/internal/telemetry"
)

// Defaults for the I/O tier. The upstream ceiling is process-wide; the
// per-call timeout bounds each provider invocation independently.
const (
	DefaultCallTimeout = 30 * time.Second
	DefaultMaxUpstream = 8
)

// ProgressListener receives progress updates during a comparison.
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event.
type EventType string

// EventType constants
const (
	EventComparisonStart    EventType = "comparison_start"
	EventComparisonComplete EventType = "comparison_complete"
	EventCallStart          EventType = "call_start"
	EventCallSettled        EventType = "call_settled"
	EventAnalysisComplete   EventType = "analysis_complete"
)

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	EventType   EventType
	Model       string
	ModelNum    int
	TotalModels int
	Status      models.Status
	DurationMs  int64
}

// Runner drives comparison requests end to end. It is created once at
// process start and shared by all requests; the upstream semaphore and the
// analysis pool are therefore global ceilings, not per-request ones.
type Runner struct {
	registry *providers.Registry
	meter    *metering.Meter
	engine   analysis.Engine
	cpu      *pool.Pool

	upstream    *semaphore.Weighted
	callTimeout time.Duration

	metrics *telemetry.Metrics
	logger  *slog.Logger

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCallTimeout sets the per-provider-call deadline.
func WithCallTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.callTimeout = d
		}
	}
}

// WithMaxUpstream caps in-flight provider calls across all requests.
func WithMaxUpstream(n int64) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.upstream = semaphore.NewWeighted(n)
		}
	}
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *telemetry.Metrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a runner over the given providers, meter, analysis
// engine, and CPU pool.
func NewRunner(reg *providers.Registry, meter *metering.Meter, engine analysis.Engine, cpu *pool.Pool, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry:    reg,
		meter:       meter,
		engine:      engine,
		cpu:         cpu,
		upstream:    semaphore.NewWeighted(DefaultMaxUpstream),
		callTimeout: DefaultCallTimeout,
		logger:      slog.Default(),
		listeners:   []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener.
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Compare runs one comparison request through the full pipeline. The request
// is validated before any upstream call is issued; a *models.ValidationError
// means no provider was contacted. Per-model failures never fail the
// comparison, they settle as failed outcomes in the result. A cancelled
// parent context fails the whole comparison; partial results are not
// returned.
func (r *Runner) Compare(ctx context.Context, req *models.ComparisonRequest) (*models.ComparisonResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	r.notifyProgress(ProgressEvent{
		EventType:   EventComparisonStart,
		TotalModels: len(req.Models),
	})
	r.logger.Debug("comparison started", "models", len(req.Models), "reference", req.ReferenceModel)

	outcomes := r.fanOut(ctx, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.dispatchAnalysis(ctx, outcomes)
	warnings := r.scoreSimilarity(ctx, req, outcomes)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	durationMs := time.Since(start).Milliseconds()
	result := &models.ComparisonResult{
		ID:       uuid.NewString(),
		Prompt:   req.Prompt,
		Results:  outcomes,
		Warnings: warnings,
		Digest:   models.BuildDigest(outcomes, durationMs),
	}

	if r.metrics != nil {
		r.metrics.ComparisonsTotal.Inc()
		r.metrics.ComparisonDuration.Observe(time.Since(start).Seconds())
	}
	r.notifyProgress(ProgressEvent{
		EventType:  EventComparisonComplete,
		DurationMs: durationMs,
	})
	r.logger.Debug("comparison complete",
		"id", result.ID,
		"succeeded", result.Digest.Succeeded,
		"failed", result.Digest.Failed,
		"duration_ms", durationMs)
	return result, nil
}

// fanOut invokes every requested model concurrently and returns one settled
// outcome per model, in request order regardless of completion order.
func (r *Runner) fanOut(ctx context.Context, req *models.ComparisonRequest) []models.ModelOutcome {
	type result struct {
		index   int
		outcome models.ModelOutcome
	}

	resultChan := make(chan result, len(req.Models))

	var wg sync.WaitGroup
	for i, id := range req.Models {
		wg.Add(1)
		go func(idx int, model string) {
			defer wg.Done()

			r.notifyProgress(ProgressEvent{
				EventType:   EventCallStart,
				Model:       model,
				ModelNum:    idx + 1,
				TotalModels: len(req.Models),
			})

			outcome := r.invokeOne(ctx, model, req.Prompt)
			resultChan <- result{index: idx, outcome: outcome}

			r.notifyProgress(ProgressEvent{
				EventType:   EventCallSettled,
				Model:       model,
				ModelNum:    idx + 1,
				TotalModels: len(req.Models),
				Status:      outcome.Status,
				DurationMs:  outcome.LatencyMs,
			})
		}(i, id)
	}
	wg.Wait()
	close(resultChan)

	outcomes := make([]models.ModelOutcome, len(req.Models))
	for res := range resultChan {
		outcomes[res.index] = res.outcome
	}
	return outcomes
}

// invokeOne runs a single provider call to a settled outcome. It never
// returns an error and never panics outward: every failure mode becomes a
// failed outcome so sibling calls are untouched.
func (r *Runner) invokeOne(ctx context.Context, model, prompt string) models.ModelOutcome {
	outcome := models.ModelOutcome{Model: model, Status: models.StatusFailed}

	if err := r.upstream.Acquire(ctx, 1); err != nil {
		outcome.ErrorKind = models.ErrorKindProvider
		outcome.ErrorDetail = fmt.Sprintf("waiting for an upstream slot: %v", err)
		return outcome
	}
	defer r.upstream.Release(1)

	inv, ok := r.registry.Invoker(model)
	if !ok {
		outcome.ErrorKind = models.ErrorKindProvider
		outcome.ErrorDetail = fmt.Sprintf("no provider configured for model %q", model)
		r.recordCall(model, outcome.Status, 0)
		return outcome
	}

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	start := time.Now()
	result, err := safeInvoke(callCtx, inv, prompt)
	elapsed := time.Since(start)
	outcome.LatencyMs = elapsed.Milliseconds()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			outcome.ErrorKind = models.ErrorKindTimeout
			outcome.ErrorDetail = fmt.Sprintf("no response within %s", r.callTimeout)
		} else {
			outcome.ErrorKind = models.ErrorKindProvider
			outcome.ErrorDetail = err.Error()
		}
		r.logger.Debug("provider call failed", "model", model, "kind", outcome.ErrorKind, "error", err)
		r.recordCall(model, outcome.Status, elapsed)
		return outcome
	}

	reading := r.meter.Measure(model, prompt, result.Text, result.TokensUsed)
	outcome.Status = models.StatusSuccess
	outcome.Output = result.Text
	outcome.TokensUsed = &reading.Tokens
	outcome.TokensEstimated = reading.Estimated
	outcome.EstimatedCost = reading.Cost

	r.recordCall(model, outcome.Status, elapsed)
	return outcome
}

func (r *Runner) recordCall(model string, status models.Status, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}
	r.metrics.ProviderCalls.WithLabelValues(model, string(status)).Inc()
	r.metrics.ProviderLatency.WithLabelValues(model).Observe(elapsed.Seconds())
}

// safeInvoke shields the pipeline from a panicking provider implementation.
// The panic is converted to an ordinary error at the call boundary.
func safeInvoke(ctx context.Context, inv providers.Invoker, prompt string) (result *providers.Invocation, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = fmt.Errorf("provider panicked: %v", p)
		}
	}()
	return inv.Invoke(ctx, prompt)
}
