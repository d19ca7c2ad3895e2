package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/schedule"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}

// GetDayPlan implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetDayPlan(ctx context.Context, attendanceID string, date time.Time) (*schedule.DayPlan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.start_min, d.end_min, d.break_min, d.is_off
		FROM employee_work_shifts a
		JOIN work_shift_days d ON d.work_shift_id = a.work_shift_id
		WHERE a.attendance_id = $1
		  AND a.start_date <= $2
		  AND (a.end_date IS NULL OR a.end_date >= $2)
		  AND d.weekday = $3
		ORDER BY a.start_date DESC
		LIMIT 1
	`

	var plan schedule.DayPlan
	err := q.QueryRow(ctx, query, attendanceID, date, int(date.Weekday())).Scan(
		&plan.StartMin, &plan.EndMin, &plan.BreakMin, &plan.IsOff,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve day plan: %w", err)
	}

	return &plan, nil
}

// GetShift implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetShift(ctx context.Context, id int64) (schedule.WorkShift, []schedule.WorkShiftDay, error) {
	q := GetQuerier(ctx, r.db)

	var shift schedule.WorkShift
	err := q.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM work_shifts WHERE id = $1`, id,
	).Scan(&shift.ID, &shift.Name, &shift.CreatedAt, &shift.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.WorkShift{}, nil, schedule.ErrShiftNotFound
		}
		return schedule.WorkShift{}, nil, fmt.Errorf("failed to get work shift: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, work_shift_id, weekday, start_min, end_min, break_min, is_off
		FROM work_shift_days
		WHERE work_shift_id = $1
		ORDER BY weekday
	`, id)
	if err != nil {
		return schedule.WorkShift{}, nil, fmt.Errorf("failed to list shift days: %w", err)
	}
	defer rows.Close()

	var days []schedule.WorkShiftDay
	for rows.Next() {
		var d schedule.WorkShiftDay
		if err := rows.Scan(&d.ID, &d.WorkShiftID, &d.Weekday, &d.StartMin, &d.EndMin, &d.BreakMin, &d.IsOff); err != nil {
			return schedule.WorkShift{}, nil, fmt.Errorf("failed to scan shift day: %w", err)
		}
		days = append(days, d)
	}

	return shift, days, rows.Err()
}
