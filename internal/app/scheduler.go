/**
 * @description
 * Cron scheduler setup for scheduled jobs.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/transfa/bank-client/internal/config"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron   *cron.Cron
	jobs   *Jobs
	logger *slog.Logger
	config config.Config
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(jobs *Jobs, logger *slog.Logger, cfg config.Config) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	return &Scheduler{
		cron:   c,
		jobs:   jobs,
		logger: logger,
		config: cfg,
	}
}

// Start registers the jobs and starts the cron scheduler. It returns the
// number of jobs that were scheduled.
func (s *Scheduler) Start() int {
	scheduled := 0

	if _, err := s.cron.AddFunc(s.config.ReconcileJobSchedule, s.jobs.ReconcileAccountBalances); err != nil {
		s.logger.Error("failed to schedule balance reconciliation job", "error", err)
	} else {
		scheduled++
		s.logger.Info("scheduled balance reconciliation job", "schedule", s.config.ReconcileJobSchedule)
	}

	if s.jobs.store != nil {
		if _, err := s.cron.AddFunc(s.config.StatementPurgeJobSchedule, s.jobs.PurgeExpiredStatements); err != nil {
			s.logger.Error("failed to schedule statement purge job", "error", err)
		} else {
			scheduled++
			s.logger.Info("scheduled statement purge job", "schedule", s.config.StatementPurgeJobSchedule)
		}
	}

	s.cron.Start()
	return scheduled
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
