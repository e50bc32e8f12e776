package jobs

import (
	"draytrack-backend/internal/config"
	"draytrack-backend/internal/logger"
	"draytrack-backend/internal/rates"
	"draytrack-backend/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	moveRepo repository.MoveRepository
	rates    *rates.Table
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(moveRepo repository.MoveRepository, rateTable *rates.Table, cfg *config.Config) *JobRunner {
	return &JobRunner{
		moveRepo: moveRepo,
		rates:    rateTable,
		config:   cfg,
	}
}

// Config returns the runner's configuration
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

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.AccrualSnapshot()
}
