package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/absence"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type absenceRepository struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.AbsenceRepository {
	return &absenceRepository{db: db}
}

// GetHoliday implements absence.AbsenceRepository.
func (r *absenceRepository) GetHoliday(ctx context.Context, date time.Time) (*absence.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, date, previous_working_day, next_working_day
		FROM holidays
		WHERE date = $1::date
	`

	var h absence.Holiday
	err := q.QueryRow(ctx, query, date).Scan(
		&h.ID, &h.Name, &h.Date, &h.PreviousWorkingDay, &h.NextWorkingDay,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holiday: %w", err)
	}

	return &h, nil
}

// GetActiveLayoff implements absence.AbsenceRepository.
func (r *absenceRepository) GetActiveLayoff(ctx context.Context, attendanceID string, date time.Time) (*absence.Layoff, error) {
	q := GetQuerier(ctx, r.db)

	// At most one layoff covers a day per employee; pick the oldest row
	// anyway so reruns stay deterministic.
	query := `
		SELECT id, attendance_id, type, start_date, end_date, is_purged, created_at
		FROM layoffs
		WHERE attendance_id = $1
		  AND start_date <= $2::date
		  AND end_date >= $2::date
		  AND is_purged = FALSE
		ORDER BY created_at
		LIMIT 1
	`

	var l absence.Layoff
	err := q.QueryRow(ctx, query, attendanceID, date).Scan(
		&l.ID, &l.AttendanceID, &l.Type, &l.StartDate, &l.EndDate, &l.IsPurged, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active layoff: %w", err)
	}

	return &l, nil
}
