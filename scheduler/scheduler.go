package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

const (
	purgeResetTokensSpec = "@every 15m"
	sweepUploadsSpec     = "@hourly"
)

// Jobs is the housekeeping work the scheduler drives.
type Jobs interface {
	PurgeExpiredResetTokens() (int64, error)
	SweepOrphanedUploads() (int, error)
}

// Scheduler runs the periodic housekeeping jobs.
type Scheduler struct {
	jobs   Jobs
	cron   *cron.Cron
	logger *slog.Logger
}

func New(jobs Jobs, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		jobs:   jobs,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(purgeResetTokensSpec, s.purgeResetTokens); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(sweepUploadsSpec, s.sweepUploads); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) purgeResetTokens() {
	n, err := s.jobs.PurgeExpiredResetTokens()
	if err != nil {
		s.logger.Error("failed to purge expired reset tokens", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("purged expired reset tokens", "count", n)
	}
}

func (s *Scheduler) sweepUploads() {
	n, err := s.jobs.SweepOrphanedUploads()
	if err != nil {
		s.logger.Error("failed to sweep orphaned uploads", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("removed orphaned uploads", "count", n)
	}
}
