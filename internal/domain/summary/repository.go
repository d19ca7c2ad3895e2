package summary

import (
	"context"
	"time"
)

// SummaryRepository defines data access methods for daily summaries.
type SummaryRepository interface {
	// Init creates the row for an employee-day if it does not exist and
	// returns the current row either way.
	Init(ctx context.Context, attendanceID string, date time.Time) (DailySummary, error)

	// Get retrieves one employee-day row.
	Get(ctx context.Context, attendanceID string, date time.Time) (DailySummary, error)

	// Save persists a row only while it is not locked. Locked rows are
	// left untouched and ErrRowLocked is returned.
	Save(ctx context.Context, s DailySummary) error

	// SaveLocked persists a row regardless of its lock flag. Only the
	// manual-correction path uses it.
	SaveLocked(ctx context.Context, s DailySummary) error

	// ListRange retrieves rows for one badge between from and to,
	// inclusive, ordered by date.
	ListRange(ctx context.Context, attendanceID string, from, to time.Time) ([]DailySummary, error)

	// PruneVacuousWeekendRows deletes weekend rows with no activity and no
	// flags for the badge in the range, sparing anomalies and today.
	PruneVacuousWeekendRows(ctx context.Context, attendanceID string, from, to time.Time) error
}

// WeeklyRepository defines data access methods for weekly totals.
type WeeklyRepository interface {
	// Upsert inserts or replaces the row keyed by (badge, week start).
	Upsert(ctx context.Context, t WeeklyTotal) error

	// GetForDate retrieves the weekly row whose range covers the date.
	GetForDate(ctx context.Context, attendanceID string, date time.Time) (*WeeklyTotal, error)

	// ListPeriod retrieves the weekly rows for a badge whose week start
	// falls inside the pay period.
	ListPeriod(ctx context.Context, attendanceID string, periodStart, periodEnd time.Time) ([]WeeklyTotal, error)
}

// MonthlyRepository defines data access methods for monthly totals.
type MonthlyRepository interface {
	// Upsert inserts or replaces the row keyed by (badge, period start).
	Upsert(ctx context.Context, t MonthlyTotal) error

	// Get retrieves the monthly row for the pay period containing date.
	Get(ctx context.Context, attendanceID string, periodStart time.Time) (*MonthlyTotal, error)
}
