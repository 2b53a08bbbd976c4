// Package daemon schedules periodic maintenance for a long-running flatpages
// server. The only job today is a cache reset on a fixed interval, which
// bounds how stale served pages can get without a filesystem watcher.
package daemon

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/flatpages/internal/logfields"
)

// Resetter is the subset of the page cache the scheduler needs.
type Resetter interface {
	Reset()
}

// Scheduler wraps gocron for managing periodic tasks.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// SchedulePeriodicReset registers a job that resets the cache every interval.
// Returns the job ID for later management.
func (s *Scheduler) SchedulePeriodicReset(interval time.Duration, cache Resetter) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("reset interval must be positive, got %s", interval)
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Info("scheduled cache reset")
			cache.Reset()
		}),
		gocron.WithName("cache-reset"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic reset job: %w", err)
	}

	slog.Info("scheduled periodic cache reset",
		slog.Duration("interval", interval))
	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		slog.Warn("scheduler shutdown", logfields.Error(err))
		return err
	}
	return nil
}
