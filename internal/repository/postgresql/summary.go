package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const summaryColumns = `
	id, attendance_id, date, status,
	getin, getout, getin_ref, getout_ref,
	autoriz_getin, autoriz_getout, night_getin, night_getout,
	hours_worked, missed_hour, penalisable, sup_hour,
	sunday_hour, night_hours, worked_hours_on_holidays,
	is_weekend, is_saturday, is_sunday, isholidays,
	is_conge, islayoff, is_accident, is_maladie, is_congex,
	has_night_shift, is_anomalie, is_today, do_not_touch, get_holiday,
	nbr_absence, nbr_retard, nbr_depanti,
	jf_value, jc_value, jcx_value,
	needs_review, review_reason, created_at, updated_at`

type summaryRepository struct {
	db *database.DB
}

func NewSummaryRepository(db *database.DB) summary.SummaryRepository {
	return &summaryRepository{db: db}
}

// Init implements summary.SummaryRepository.
func (r *summaryRepository) Init(ctx context.Context, attendanceID string, date time.Time) (summary.DailySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_summaries (attendance_id, date, status)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (attendance_id, date) DO NOTHING
	`
	if _, err := q.Exec(ctx, query, attendanceID, date, summary.StatusAbsent); err != nil {
		return summary.DailySummary{}, fmt.Errorf("failed to init daily summary: %w", err)
	}

	return r.Get(ctx, attendanceID, date)
}

// Get implements summary.SummaryRepository.
func (r *summaryRepository) Get(ctx context.Context, attendanceID string, date time.Time) (summary.DailySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + summaryColumns + ` FROM daily_summaries WHERE attendance_id = $1 AND date = $2::date`

	s, err := scanSummary(q.QueryRow(ctx, query, attendanceID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return summary.DailySummary{}, summary.ErrSummaryNotFound
		}
		return summary.DailySummary{}, fmt.Errorf("failed to get daily summary: %w", err)
	}

	return s, nil
}

// Save implements summary.SummaryRepository.
func (r *summaryRepository) Save(ctx context.Context, s summary.DailySummary) error {
	return r.save(ctx, s, false)
}

// SaveLocked implements summary.SummaryRepository.
func (r *summaryRepository) SaveLocked(ctx context.Context, s summary.DailySummary) error {
	return r.save(ctx, s, true)
}

func (r *summaryRepository) save(ctx context.Context, s summary.DailySummary, force bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE daily_summaries SET
			status = $2,
			getin = $3, getout = $4, getin_ref = $5, getout_ref = $6,
			autoriz_getin = $7, autoriz_getout = $8, night_getin = $9, night_getout = $10,
			hours_worked = $11, missed_hour = $12, penalisable = $13, sup_hour = $14,
			sunday_hour = $15, night_hours = $16, worked_hours_on_holidays = $17,
			is_weekend = $18, is_saturday = $19, is_sunday = $20, isholidays = $21,
			is_conge = $22, islayoff = $23, is_accident = $24, is_maladie = $25, is_congex = $26,
			has_night_shift = $27, is_anomalie = $28, is_today = $29, do_not_touch = $30, get_holiday = $31,
			nbr_absence = $32, nbr_retard = $33, nbr_depanti = $34,
			jf_value = $35, jc_value = $36, jcx_value = $37,
			needs_review = $38, review_reason = $39,
			updated_at = NOW()
		WHERE id = $1
	`
	if !force {
		query += ` AND do_not_touch = FALSE`
	}

	tag, err := q.Exec(ctx, query,
		s.ID, s.Status,
		s.GetIn, s.GetOut, s.GetInRef, s.GetOutRef,
		s.AutorizGetIn, s.AutorizGetOut, s.NightGetIn, s.NightGetOut,
		s.HoursWorked, s.MissedHour, s.Penalisable, s.SupHour,
		s.SundayHour, s.NightHours, s.WorkedHoursOnHoliday,
		s.IsWeekend, s.IsSaturday, s.IsSunday, s.IsHolidays,
		s.IsConge, s.IsLayoff, s.IsAccident, s.IsMaladie, s.IsCongex,
		s.HasNightShift, s.IsAnomalie, s.IsToday, s.DoNotTouch, s.GetHoliday,
		s.NbrAbsence, s.NbrRetard, s.NbrDepanti,
		s.JfValue, s.JcValue, s.JcxValue,
		s.NeedsReview, s.ReviewReason,
	)
	if err != nil {
		return fmt.Errorf("failed to save daily summary: %w", err)
	}

	if tag.RowsAffected() == 0 {
		if force {
			return summary.ErrSummaryNotFound
		}
		// The row exists but is locked, or it never existed.
		var locked bool
		err := q.QueryRow(ctx, `SELECT do_not_touch FROM daily_summaries WHERE id = $1`, s.ID).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return summary.ErrSummaryNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check summary lock: %w", err)
		}
		if locked {
			return summary.ErrRowLocked
		}
	}

	return nil
}

// ListRange implements summary.SummaryRepository.
func (r *summaryRepository) ListRange(ctx context.Context, attendanceID string, from, to time.Time) ([]summary.DailySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + summaryColumns + `
		FROM daily_summaries
		WHERE attendance_id = $1 AND date >= $2::date AND date <= $3::date
		ORDER BY date`

	rows, err := q.Query(ctx, query, attendanceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily summaries: %w", err)
	}
	defer rows.Close()

	var summaries []summary.DailySummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// PruneVacuousWeekendRows implements summary.SummaryRepository.
func (r *summaryRepository) PruneVacuousWeekendRows(ctx context.Context, attendanceID string, from, to time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM daily_summaries
		WHERE attendance_id = $1
		  AND date >= $2::date AND date <= $3::date
		  AND is_weekend = TRUE
		  AND hours_worked = 0 AND sunday_hour = 0 AND night_hours = 0 AND sup_hour = 0
		  AND missed_hour = 0 AND penalisable = 0
		  AND isholidays = FALSE AND is_conge = FALSE AND islayoff = FALSE
		  AND is_accident = FALSE AND is_maladie = FALSE AND is_congex = FALSE
		  AND is_anomalie = FALSE AND is_today = FALSE AND do_not_touch = FALSE
		  AND needs_review = FALSE
	`

	if _, err := q.Exec(ctx, query, attendanceID, from, to); err != nil {
		return fmt.Errorf("failed to prune weekend rows: %w", err)
	}

	return nil
}

func scanSummary(row pgx.Row) (summary.DailySummary, error) {
	var s summary.DailySummary
	err := row.Scan(
		&s.ID, &s.AttendanceID, &s.Date, &s.Status,
		&s.GetIn, &s.GetOut, &s.GetInRef, &s.GetOutRef,
		&s.AutorizGetIn, &s.AutorizGetOut, &s.NightGetIn, &s.NightGetOut,
		&s.HoursWorked, &s.MissedHour, &s.Penalisable, &s.SupHour,
		&s.SundayHour, &s.NightHours, &s.WorkedHoursOnHoliday,
		&s.IsWeekend, &s.IsSaturday, &s.IsSunday, &s.IsHolidays,
		&s.IsConge, &s.IsLayoff, &s.IsAccident, &s.IsMaladie, &s.IsCongex,
		&s.HasNightShift, &s.IsAnomalie, &s.IsToday, &s.DoNotTouch, &s.GetHoliday,
		&s.NbrAbsence, &s.NbrRetard, &s.NbrDepanti,
		&s.JfValue, &s.JcValue, &s.JcxValue,
		&s.NeedsReview, &s.ReviewReason, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}
