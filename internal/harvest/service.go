package harvest

import (
	"context"
	"encoding/json"
	"time"

	"jobharvest/internal/logger"

	"github.com/hibiken/asynq"
)

// Extractor is the full browser-driven extraction path.
type Extractor interface {
	Extract(ctx context.Context) ([]JobRecord, error)
}

// FallbackExtractor is the static extraction path substituted on engine
// failure.
type FallbackExtractor interface {
	Extract(ctx context.Context, url string) ([]JobRecord, error)
}

// Store is the external upsert-capable record store keyed on (title, company).
type Store interface {
	UpsertJobs(ctx context.Context, records []JobRecord) (int, error)
}

// Service is the persistence and scheduling adapter. It owns the
// engine-or-fallback decision, validation, deduplication and the upsert, and
// it never lets an error escape past this boundary: the calendar trigger
// firing again later is the sole recovery mechanism.
type Service struct {
	log       *logger.Logger
	engine    Extractor
	fallback  FallbackExtractor
	store     Store
	tracker   *RunTracker
	searchURL string
}

func NewService(engine Extractor, fallback FallbackExtractor, store Store, tracker *RunTracker, searchURL string) *Service {
	return &Service{
		log:       logger.New("Harvest"),
		engine:    engine,
		fallback:  fallback,
		store:     store,
		tracker:   tracker,
		searchURL: searchURL,
	}
}

// RunOnce executes one full harvest. It always returns a HarvestRun; the
// terminal status carries the outcome.
func (s *Service) RunOnce(ctx context.Context) HarvestRun {
	run := HarvestRun{StartedAt: time.Now(), Source: "engine"}
	s.log.Info().Str("url", s.searchURL).Msg("harvest run started")

	records, err := s.engine.Extract(ctx)
	run.Status = StatusSucceeded
	if err != nil {
		s.log.LogWarnf("engine failed, substituting fallback: %v", err)
		run.Source = "fallback"
		records, err = s.fallback.Extract(ctx, s.searchURL)
		if err != nil {
			s.log.LogError("fallback failed", err)
			run.Status = StatusFailed
			run.Error = err.Error()
			run.FinishedAt = time.Now()
			return run
		}
		run.Status = StatusPartial
	}

	valid := records[:0:0]
	for _, r := range records {
		if r.Valid() {
			valid = append(valid, r)
		}
	}
	run.Records = Deduplicate(valid)
	run.Extracted = len(run.Records)

	if len(run.Records) > 0 {
		n, err := s.store.UpsertJobs(ctx, run.Records)
		if err != nil {
			s.log.LogError("persisting records", err)
			run.Status = StatusFailed
			run.Error = err.Error()
			run.FinishedAt = time.Now()
			return run
		}
		run.Persisted = n
	}

	run.FinishedAt = time.Now()
	s.log.Info().
		Str("status", string(run.Status)).
		Str("source", run.Source).
		Int("extracted", run.Extracted).
		Int("persisted", run.Persisted).
		Dur("took", run.FinishedAt.Sub(run.StartedAt)).
		Msg("harvest run finished")
	return run
}

// HandleHarvestTask is the asynq handler for a queued run. It always returns
// nil: a failed run is recorded, not retried — the next trigger recovers.
func (s *Service) HandleHarvestTask(ctx context.Context, task *asynq.Task) error {
	var payload TaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		s.log.LogError("invalid harvest task payload", err)
		return nil
	}

	if err := s.tracker.SetProcessing(ctx, payload.RunID); err != nil {
		s.log.LogWarnf("marking run %s processing: %v", payload.RunID, err)
	}

	run := s.RunOnce(ctx)
	run.ID = payload.RunID

	if err := s.tracker.Complete(ctx, run); err != nil {
		s.log.LogWarnf("recording run %s: %v", payload.RunID, err)
	}
	return nil
}
