package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/config"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/punch"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
)

// DerivationJobs wires the derivation pipeline to the scheduler.
type DerivationJobs struct {
	derivation summary.DerivationService
	intake     punch.IntakeService
	cfg        config.JobsConfig
	logger     *slog.Logger
}

func NewDerivationJobs(
	derivation summary.DerivationService,
	intake punch.IntakeService,
	cfg config.JobsConfig,
	logger *slog.Logger,
) *DerivationJobs {
	return &DerivationJobs{
		derivation: derivation,
		intake:     intake,
		cfg:        cfg,
		logger:     logger,
	}
}

// Register adds all periodic jobs to the scheduler.
func (j *DerivationJobs) Register(s *Scheduler) {
	s.AddJob("download-punches", j.cfg.DownloadInterval, j.downloadPunches)
	s.AddJob("classify-punches", j.cfg.ClassifyInterval, j.classifyPunches)
	s.AddJob("derive-daily-summaries", j.cfg.DeriveInterval, j.deriveRecentDays)
	s.AddJob("rebuild-period-totals", j.cfg.RebuildInterval, j.rebuildTotals)
}

func (j *DerivationJobs) downloadPunches(ctx context.Context) error {
	return j.intake.DownloadFromTerminals(ctx)
}

func (j *DerivationJobs) classifyPunches(ctx context.Context) error {
	return j.derivation.ClassifyPunches(ctx)
}

// deriveRecentDays recomputes the last few days for everyone. The window
// covers late classifications and overnight shifts closing the next
// morning.
func (j *DerivationJobs) deriveRecentDays(ctx context.Context) error {
	to := time.Now()
	from := to.AddDate(0, 0, -j.cfg.DeriveDaysBack)
	return j.derivation.RunPeriod(ctx, from, to)
}

func (j *DerivationJobs) rebuildTotals(ctx context.Context) error {
	now := time.Now()
	if err := j.derivation.RebuildWeeklyTotals(ctx, now); err != nil {
		return err
	}
	return j.derivation.RebuildMonthlyTotals(ctx, now)
}
