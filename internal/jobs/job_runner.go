package jobs

import (
	"toolshare-booking-backend/internal/config"
	"toolshare-booking-backend/internal/logger"
	"toolshare-booking-backend/internal/repository/postgres"
	"toolshare-booking-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store    *postgres.Store
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email service.EmailService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store *postgres.Store, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:    store,
		services: services,
		config:   cfg,
	}
}

// Config exposes the configuration for schedule lookups
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
	jr.PurgeExpiredDrafts()
	jr.SendPickupReminders()
}
