package summary

import (
	"context"
	"time"
)

// DerivationService defines the derivation pipeline operations. Callers
// (HTTP handlers, cron jobs, CLI) invoke these; triggering is external.
type DerivationService interface {
	// ClassifyPunches assigns IN/OUT to every unclassified punch.
	ClassifyPunches(ctx context.Context) error

	// RunDailySummary derives one employee-day from scratch.
	RunDailySummary(ctx context.Context, attendanceID string, date time.Time) error

	// RunPeriod derives every active employee over a date range with
	// bounded parallelism. Per-employee failures are recorded and the
	// batch continues.
	RunPeriod(ctx context.Context, from, to time.Time) error

	// RebuildWeeklyTotals recomputes the weekly rows of the pay period
	// containing date for all active employees.
	RebuildWeeklyTotals(ctx context.Context, date time.Time) error

	// RebuildMonthlyTotals recomputes the monthly row of the pay period
	// containing date for all active employees.
	RebuildMonthlyTotals(ctx context.Context, date time.Time) error

	// ApplyManualCorrection overwrites one day's observed times, locks
	// the row against automatic passes and recomputes its week.
	ApplyManualCorrection(ctx context.Context, req ManualCorrectionRequest) (DailySummary, error)
}

// ManualCorrectionRequest carries an HR correction for one employee-day.
// Times are "HH:MM"; the authorized pair is optional but must come
// together.
type ManualCorrectionRequest struct {
	AttendanceID  string  `json:"attendance_id"`
	Date          string  `json:"date"`
	GetIn         *string `json:"getin"`
	GetOut        *string `json:"getout"`
	AutorizGetOut *string `json:"autoriz_getout"`
	AutorizGetIn  *string `json:"autoriz_getin"`
}
