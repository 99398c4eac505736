package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/ports"
)

// Scheduler wires the cron-like driver with the ingest use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *IngestPipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring ingest runs.
func NewScheduler(driver ports.Scheduler, pipeline *IngestPipeline, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: log}
}

// Start registers the pipeline with the provided scheduler.
// A failed run is logged; the next tick tries again.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		report, err := s.pipeline.Run(ctx)
		if s.logger == nil {
			return
		}
		if err != nil {
			s.logger.Error("scheduled ingest failed", "trigger", trigger, "error", err)
			return
		}
		s.logger.Info("scheduled ingest done", "trigger", trigger, "written", len(report.Written))
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
