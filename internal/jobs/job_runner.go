package jobs

import (
	"gatekeeper-bot/internal/config"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	gatekeeper *service.Gatekeeper
	config     *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(gatekeeper *service.Gatekeeper, cfg *config.Config) *JobRunner {
	return &JobRunner{
		gatekeeper: gatekeeper,
		config:     cfg,
	}
}

// Config returns the application configuration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
