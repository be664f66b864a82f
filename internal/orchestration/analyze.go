package orchestration

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/modelbench/modelbench/internal/analysis"
	"github.com/modelbench/modelbench/internal/models"
)

// dispatchAnalysis runs the readability, sentiment, and toxicity sub-tasks
// for every successful outcome. The sub-tasks execute on the shared CPU pool;
// each one failing leaves its field nil and never touches the other two.
func (r *Runner) dispatchAnalysis(ctx context.Context, outcomes []models.ModelOutcome) {
	var wg sync.WaitGroup
	for i := range outcomes {
		o := &outcomes[i]
		if !o.Succeeded() {
			continue
		}
		wg.Add(1)
		go func(o *models.ModelOutcome) {
			defer wg.Done()
			o.Analysis = r.analyze(ctx, o.Output)
			r.notifyProgress(ProgressEvent{
				EventType: EventAnalysisComplete,
				Model:     o.Model,
				Status:    o.Status,
			})
		}(o)
	}
	wg.Wait()
}

// analyze runs the three sub-tasks concurrently. Each goroutine writes a
// distinct field of the result, so no locking is needed.
func (r *Runner) analyze(ctx context.Context, text string) *models.AnalysisResult {
	res := &models.AnalysisResult{}

	var g errgroup.Group
	g.Go(func() error {
		err := r.cpu.Do(ctx, func() {
			if v, err := r.engine.Readability(text); err == nil {
				res.Readability = &v
			} else {
				r.recordAnalysisFailure("readability", err)
			}
		})
		if err != nil {
			r.recordAnalysisFailure("readability", err)
		}
		return nil
	})
	g.Go(func() error {
		err := r.cpu.Do(ctx, func() {
			if v, err := r.engine.Sentiment(text); err == nil {
				res.Sentiment = &v
			} else {
				r.recordAnalysisFailure("sentiment", err)
			}
		})
		if err != nil {
			r.recordAnalysisFailure("sentiment", err)
		}
		return nil
	})
	g.Go(func() error {
		err := r.cpu.Do(ctx, func() {
			if v, err := r.engine.Toxicity(text); err == nil {
				res.Toxicity = &v
			} else {
				r.recordAnalysisFailure("toxicity", err)
			}
		})
		if err != nil {
			r.recordAnalysisFailure("toxicity", err)
		}
		return nil
	})
	_ = g.Wait()
	return res
}

func (r *Runner) recordAnalysisFailure(task string, err error) {
	r.logger.Debug("analysis sub-task failed", "task", task, "error", err)
	if r.metrics != nil {
		r.metrics.AnalysisFailures.WithLabelValues(task).Inc()
	}
}

// scoreSimilarity fills SimilarityToReference on every successful non-reference
// outcome. The reference output is embedded once and compared against each
// candidate. When the reference itself failed or cannot be embedded, no
// similarity is produced and a warning explains why.
func (r *Runner) scoreSimilarity(ctx context.Context, req *models.ComparisonRequest, outcomes []models.ModelOutcome) []string {
	if !req.HasReference() {
		return nil
	}

	var ref *models.ModelOutcome
	for i := range outcomes {
		if outcomes[i].Model == req.ReferenceModel {
			ref = &outcomes[i]
			break
		}
	}
	if ref == nil || !ref.Succeeded() {
		return []string{fmt.Sprintf("similarity unavailable: reference model %q did not produce output", req.ReferenceModel)}
	}

	var refVec []float64
	err := r.cpu.Do(ctx, func() {
		refVec, _ = r.engine.Embed(ref.Output)
	})
	if err != nil || refVec == nil {
		return []string{fmt.Sprintf("similarity unavailable: could not embed output of reference model %q", req.ReferenceModel)}
	}

	var wg sync.WaitGroup
	for i := range outcomes {
		o := &outcomes[i]
		if !o.Succeeded() || o.Model == req.ReferenceModel {
			continue
		}
		wg.Add(1)
		go func(o *models.ModelOutcome) {
			defer wg.Done()
			err := r.cpu.Do(ctx, func() {
				vec, err := r.engine.Embed(o.Output)
				if err != nil {
					r.recordAnalysisFailure("similarity", err)
					return
				}
				s := analysis.Cosine(refVec, vec)
				o.SimilarityToReference = &s
			})
			if err != nil {
				r.recordAnalysisFailure("similarity", err)
			}
		}(o)
	}
	wg.Wait()
	return nil
}
