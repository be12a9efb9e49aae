package routing

import (
	"context"
	"time"
)

const defaultSweepBatch = 50

// SweepResult reports one pass over unprocessed leads.
type SweepResult struct {
	Found     int       `json:"found"`
	Processed int       `json:"processed"`
	Errors    int       `json:"errors"`
	Timestamp time.Time `json:"timestamp"`
}

// SweepUnprocessed routes NEW leads the pipeline never picked up, oldest
// first. A failing lead is logged and counted; the sweep moves on.
func (r *Router) SweepUnprocessed(ctx context.Context) (SweepResult, error) {
	limit := r.cfg.GetProcessBatchSize()
	if limit <= 0 {
		limit = defaultSweepBatch
	}

	ids, err := r.store.ListUnprocessed(ctx, limit, r.cfg.GetRoutingClaimTTL())
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Found: len(ids)}
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if err := r.ProcessNewLead(ctx, id); err != nil {
			result.Errors++
			r.log.WithContext(ctx).WithLead(id.String()).Error("routing: sweep failed to process lead", "error", err)
			continue
		}
		result.Processed++
	}
	result.Timestamp = time.Now().UTC()

	if result.Found > 0 {
		r.log.WithContext(ctx).Info("routing: sweep finished",
			"found", result.Found,
			"processed", result.Processed,
			"errors", result.Errors)
	}
	return result, ctx.Err()
}
