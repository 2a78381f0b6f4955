package harvest

import (
	"context"
	"fmt"

	rds "jobharvest/internal/platform/redis"
)

// RunTracker records harvest run state in redis so triggers and the HTTP
// surface can observe outcomes.
type RunTracker struct{ redis *rds.Service }

func NewRunTracker(redis *rds.Service) *RunTracker { return &RunTracker{redis: redis} }

func (t *RunTracker) Get(ctx context.Context, runID string) (*HarvestRun, error) {
	var run HarvestRun
	if err := t.redis.CacheGet(ctx, runKey(runID), &run); err != nil {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	return &run, nil
}

func (t *RunTracker) InitPending(ctx context.Context, runID string) error {
	return t.put(ctx, HarvestRun{ID: runID, Status: StatusPending})
}

func (t *RunTracker) SetProcessing(ctx context.Context, runID string) error {
	run, err := t.Get(ctx, runID)
	if err != nil {
		run = &HarvestRun{ID: runID}
	}
	run.Status = StatusProcessing
	return t.put(ctx, *run)
}

func (t *RunTracker) Complete(ctx context.Context, run HarvestRun) error {
	return t.put(ctx, run)
}

func (t *RunTracker) put(ctx context.Context, run HarvestRun) error {
	return t.redis.CacheSet(ctx, runKey(run.ID), run, runTTL(run.Status))
}

func runKey(id string) string { return "run:" + id }

func runTTL(s Status) int {
	switch s {
	case StatusSucceeded, StatusPartial, StatusFailed:
		return 86400
	default:
		return 600
	}
}
