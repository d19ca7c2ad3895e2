package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/punch"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepository{db: db}
}

// Insert implements punch.PunchRepository.
// The duplicate check and insert run in one transaction so concurrent
// imports of the same terminal dump cannot both pass the check.
func (r *punchRepository) Insert(ctx context.Context, p punch.Punch) (punch.Punch, error) {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		// Terminals occasionally deliver the same event twice with the clock
		// off by a few seconds.
		dupQuery := `
			SELECT EXISTS (
				SELECT 1 FROM punches
				WHERE attendance_id = $1
				  AND timestamp BETWEEN $2::timestamptz - interval '1 minute'
				                    AND $2::timestamptz + interval '1 minute'
			)
		`
		var exists bool
		if err := q.QueryRow(txCtx, dupQuery, p.AttendanceID, p.Timestamp).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check duplicate punch: %w", err)
		}
		if exists {
			return punch.ErrDuplicatePunch
		}

		query := `
			INSERT INTO punches (attendance_id, timestamp, type, needs_review, review_reason, source)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`

		err := q.QueryRow(txCtx, query,
			p.AttendanceID, p.Timestamp, p.Type, p.NeedsReview, p.ReviewReason, p.Source,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert punch: %w", err)
		}
		return nil
	})
	if err != nil {
		return punch.Punch{}, err
	}

	return p, nil
}

// ListUnclassified implements punch.PunchRepository.
func (r *punchRepository) ListUnclassified(ctx context.Context) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, timestamp, type, needs_review, review_reason, source, created_at
		FROM punches
		WHERE type IS NULL AND needs_review = FALSE
		ORDER BY attendance_id, timestamp
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unclassified punches: %w", err)
	}
	defer rows.Close()

	return scanPunches(rows)
}

// ListForRange implements punch.PunchRepository.
func (r *punchRepository) ListForRange(ctx context.Context, attendanceID string, from, to time.Time) ([]punch.Punch, error) {
	return r.listRange(ctx, attendanceID, from, to, false)
}

// ListClassifiedForRange implements punch.PunchRepository.
func (r *punchRepository) ListClassifiedForRange(ctx context.Context, attendanceID string, from, to time.Time) ([]punch.Punch, error) {
	return r.listRange(ctx, attendanceID, from, to, true)
}

func (r *punchRepository) listRange(ctx context.Context, attendanceID string, from, to time.Time, classifiedOnly bool) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, timestamp, type, needs_review, review_reason, source, created_at
		FROM punches
		WHERE attendance_id = $1
		  AND timestamp >= $2
		  AND timestamp < $3
	`
	if classifiedOnly {
		query += ` AND type IS NOT NULL`
	}
	query += ` ORDER BY timestamp`

	rows, err := q.Query(ctx, query, attendanceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	return scanPunches(rows)
}

// SetType implements punch.PunchRepository.
func (r *punchRepository) SetType(ctx context.Context, id int64, punchType string) error {
	if punchType != punch.TypeIn && punchType != punch.TypeOut {
		return punch.ErrUnknownPunchType
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE punches
		SET type = $2, needs_review = FALSE, review_reason = NULL
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, punchType)
	if err != nil {
		return fmt.Errorf("failed to set punch type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return punch.ErrPunchNotFound
	}

	return nil
}

// MarkNeedsReview implements punch.PunchRepository.
func (r *punchRepository) MarkNeedsReview(ctx context.Context, id int64, reason string) error {
	q := GetQuerier(ctx, r.db)

	// Keep the stored reason short, the full error goes to the log.
	if len(reason) > 250 {
		reason = reason[:250]
	}

	query := `
		UPDATE punches
		SET needs_review = TRUE, review_reason = $2
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, reason)
	if err != nil {
		return fmt.Errorf("failed to mark punch for review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return punch.ErrPunchNotFound
	}

	return nil
}

// CountSameTypeWithin implements punch.PunchRepository.
func (r *punchRepository) CountSameTypeWithin(ctx context.Context, attendanceID string, punchType string, ts time.Time, window time.Duration, excludeID int64) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM punches
		WHERE attendance_id = $1
		  AND type = $2
		  AND id <> $3
		  AND timestamp BETWEEN $4 AND $5
	`

	var count int
	err := q.QueryRow(ctx, query,
		attendanceID, punchType, excludeID, ts.Add(-window), ts.Add(window),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count nearby punches: %w", err)
	}

	return count, nil
}

func scanPunches(rows pgx.Rows) ([]punch.Punch, error) {
	var punches []punch.Punch
	for rows.Next() {
		var p punch.Punch
		if err := rows.Scan(
			&p.ID, &p.AttendanceID, &p.Timestamp, &p.Type,
			&p.NeedsReview, &p.ReviewReason, &p.Source, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	return punches, rows.Err()
}
