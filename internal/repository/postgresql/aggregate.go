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

type weeklyRepository struct {
	db *database.DB
}

func NewWeeklyRepository(db *database.DB) summary.WeeklyRepository {
	return &weeklyRepository{db: db}
}

// Upsert implements summary.WeeklyRepository.
func (r *weeklyRepository) Upsert(ctx context.Context, t summary.WeeklyTotal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO weekly_totals (
			attendance_id, week_start, week_end,
			hours_worked, missed_hour, penalisable, sup_hour,
			sunday_hour, night_hours, holiday_hour,
			nbr_absence, nbr_retard, nbr_depanti,
			jf_value, jc_value, jcx_value
		) VALUES ($1, $2::date, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (attendance_id, week_start) DO UPDATE SET
			week_end = EXCLUDED.week_end,
			hours_worked = EXCLUDED.hours_worked,
			missed_hour = EXCLUDED.missed_hour,
			penalisable = EXCLUDED.penalisable,
			sup_hour = EXCLUDED.sup_hour,
			sunday_hour = EXCLUDED.sunday_hour,
			night_hours = EXCLUDED.night_hours,
			holiday_hour = EXCLUDED.holiday_hour,
			nbr_absence = EXCLUDED.nbr_absence,
			nbr_retard = EXCLUDED.nbr_retard,
			nbr_depanti = EXCLUDED.nbr_depanti,
			jf_value = EXCLUDED.jf_value,
			jc_value = EXCLUDED.jc_value,
			jcx_value = EXCLUDED.jcx_value,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		t.AttendanceID, t.WeekStart, t.WeekEnd,
		t.HoursWorked, t.MissedHour, t.Penalisable, t.SupHour,
		t.SundayHour, t.NightHours, t.HolidayHour,
		t.NbrAbsence, t.NbrRetard, t.NbrDepanti,
		t.JfValue, t.JcValue, t.JcxValue,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert weekly total: %w", err)
	}

	return nil
}

// GetForDate implements summary.WeeklyRepository.
func (r *weeklyRepository) GetForDate(ctx context.Context, attendanceID string, date time.Time) (*summary.WeeklyTotal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, week_start, week_end,
		       hours_worked, missed_hour, penalisable, sup_hour,
		       sunday_hour, night_hours, holiday_hour,
		       nbr_absence, nbr_retard, nbr_depanti,
		       jf_value, jc_value, jcx_value, created_at, updated_at
		FROM weekly_totals
		WHERE attendance_id = $1 AND week_start <= $2::date AND week_end >= $2::date
	`

	t, err := scanWeekly(q.QueryRow(ctx, query, attendanceID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get weekly total: %w", err)
	}

	return &t, nil
}

// ListPeriod implements summary.WeeklyRepository.
func (r *weeklyRepository) ListPeriod(ctx context.Context, attendanceID string, periodStart, periodEnd time.Time) ([]summary.WeeklyTotal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, week_start, week_end,
		       hours_worked, missed_hour, penalisable, sup_hour,
		       sunday_hour, night_hours, holiday_hour,
		       nbr_absence, nbr_retard, nbr_depanti,
		       jf_value, jc_value, jcx_value, created_at, updated_at
		FROM weekly_totals
		WHERE attendance_id = $1 AND week_start >= $2::date AND week_start <= $3::date
		ORDER BY week_start
	`

	rows, err := q.Query(ctx, query, attendanceID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly totals: %w", err)
	}
	defer rows.Close()

	var totals []summary.WeeklyTotal
	for rows.Next() {
		t, err := scanWeekly(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weekly total: %w", err)
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

func scanWeekly(row pgx.Row) (summary.WeeklyTotal, error) {
	var t summary.WeeklyTotal
	err := row.Scan(
		&t.ID, &t.AttendanceID, &t.WeekStart, &t.WeekEnd,
		&t.HoursWorked, &t.MissedHour, &t.Penalisable, &t.SupHour,
		&t.SundayHour, &t.NightHours, &t.HolidayHour,
		&t.NbrAbsence, &t.NbrRetard, &t.NbrDepanti,
		&t.JfValue, &t.JcValue, &t.JcxValue, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

type monthlyRepository struct {
	db *database.DB
}

func NewMonthlyRepository(db *database.DB) summary.MonthlyRepository {
	return &monthlyRepository{db: db}
}

// Upsert implements summary.MonthlyRepository.
func (r *monthlyRepository) Upsert(ctx context.Context, t summary.MonthlyTotal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO monthly_totals (
			attendance_id, period_start, period_end,
			hours_worked, missed_hour, penalisable, sup_hour,
			sunday_hour, night_hours, holiday_hour,
			nbr_absence, nbr_retard, nbr_depanti,
			jf_value, jc_value, jcx_value
		) VALUES ($1, $2::date, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (attendance_id, period_start) DO UPDATE SET
			period_end = EXCLUDED.period_end,
			hours_worked = EXCLUDED.hours_worked,
			missed_hour = EXCLUDED.missed_hour,
			penalisable = EXCLUDED.penalisable,
			sup_hour = EXCLUDED.sup_hour,
			sunday_hour = EXCLUDED.sunday_hour,
			night_hours = EXCLUDED.night_hours,
			holiday_hour = EXCLUDED.holiday_hour,
			nbr_absence = EXCLUDED.nbr_absence,
			nbr_retard = EXCLUDED.nbr_retard,
			nbr_depanti = EXCLUDED.nbr_depanti,
			jf_value = EXCLUDED.jf_value,
			jc_value = EXCLUDED.jc_value,
			jcx_value = EXCLUDED.jcx_value,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		t.AttendanceID, t.PeriodStart, t.PeriodEnd,
		t.HoursWorked, t.MissedHour, t.Penalisable, t.SupHour,
		t.SundayHour, t.NightHours, t.HolidayHour,
		t.NbrAbsence, t.NbrRetard, t.NbrDepanti,
		t.JfValue, t.JcValue, t.JcxValue,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert monthly total: %w", err)
	}

	return nil
}

// Get implements summary.MonthlyRepository.
func (r *monthlyRepository) Get(ctx context.Context, attendanceID string, periodStart time.Time) (*summary.MonthlyTotal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, period_start, period_end,
		       hours_worked, missed_hour, penalisable, sup_hour,
		       sunday_hour, night_hours, holiday_hour,
		       nbr_absence, nbr_retard, nbr_depanti,
		       jf_value, jc_value, jcx_value, created_at, updated_at
		FROM monthly_totals
		WHERE attendance_id = $1 AND period_start = $2::date
	`

	var t summary.MonthlyTotal
	err := q.QueryRow(ctx, query, attendanceID, periodStart).Scan(
		&t.ID, &t.AttendanceID, &t.PeriodStart, &t.PeriodEnd,
		&t.HoursWorked, &t.MissedHour, &t.Penalisable, &t.SupHour,
		&t.SundayHour, &t.NightHours, &t.HolidayHour,
		&t.NbrAbsence, &t.NbrRetard, &t.NbrDepanti,
		&t.JfValue, &t.JcValue, &t.JcxValue, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get monthly total: %w", err)
	}

	return &t, nil
}
