package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"gatekeeper-bot/internal/jobs"
	"gatekeeper-bot/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	cfg := jobRunner.Config().Scheduler

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("Unknown scheduler timezone, falling back to UTC", "timezone", cfg.Timezone, "error", err)
		loc = time.UTC
	}

	// Create cron with the configured timezone and seconds precision
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	// Daily subscription expiry check
	_, err := s.cron.AddFunc(cfg.CheckSubscriptions, s.jobs.CheckSubscriptions)
	if err != nil {
		logger.Error("Failed to register CheckSubscriptions job", "error", err)
	}

	logger.Info("All cron jobs registered successfully", "check_subscriptions", cfg.CheckSubscriptions, "timezone", cfg.Timezone)
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has registered entries
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
