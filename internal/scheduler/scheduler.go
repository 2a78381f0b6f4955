// Package scheduler wires the calendar trigger: a cron firing in a named
// time zone that enqueues one harvest run per day.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobharvest/internal/harvest"
	"jobharvest/internal/logger"
	tasks "jobharvest/internal/platform/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	log        *logger.Logger
	cron       *cron.Cron
	tasks      *tasks.Client
	tracker    *harvest.RunTracker
	spec       string
	maxRetries int
}

// New builds a scheduler firing daily at the given hour in the given zone.
func New(timezone string, hour int, taskClient *tasks.Client, tracker *harvest.RunTracker, maxRetries int) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Scheduler{
		log:        logger.New("Scheduler"),
		cron:       cron.New(cron.WithLocation(loc)),
		tasks:      taskClient,
		tracker:    tracker,
		spec:       fmt.Sprintf("0 %d * * *", hour),
		maxRetries: maxRetries,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.trigger(context.Background())
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// trigger enqueues one run. The trigger only observes logged outcomes; run
// failures never propagate back to it.
func (s *Scheduler) trigger(ctx context.Context) {
	runID := uuid.NewString()
	if err := s.tracker.InitPending(ctx, runID); err != nil {
		s.log.LogWarnf("marking run %s pending: %v", runID, err)
	}

	payload, _ := json.Marshal(harvest.TaskPayload{RunID: runID})
	if err := s.tasks.Enqueue(asynq.NewTask(tasks.TaskTypeHarvest, payload), "default", s.maxRetries); err != nil {
		s.log.LogError("enqueueing scheduled harvest", err)
		return
	}
	s.log.Info().Str("run_id", runID).Msg("scheduled harvest enqueued")
}
