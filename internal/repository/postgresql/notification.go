package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/notification"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type notificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepository{db: db}
}

// Insert implements notification.NotificationRepository.
func (r *notificationRepository) Insert(ctx context.Context, n notification.Notification) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (attendance_id, type, message, date, is_read)
		VALUES ($1, $2, $3, $4::date, FALSE)
		ON CONFLICT (attendance_id, type, date) DO UPDATE SET
			message = EXCLUDED.message
	`

	if _, err := q.Exec(ctx, query, n.AttendanceID, n.Type, n.Message, n.Date); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

// ListUnread implements notification.NotificationRepository.
func (r *notificationRepository) ListUnread(ctx context.Context) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, type, message, date, is_read, created_at
		FROM notifications
		WHERE is_read = FALSE
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// ListByAttendanceID implements notification.NotificationRepository.
func (r *notificationRepository) ListByAttendanceID(ctx context.Context, attendanceID string) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, type, message, date, is_read, created_at
		FROM notifications
		WHERE attendance_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// MarkRead implements notification.NotificationRepository.
func (r *notificationRepository) MarkRead(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}

	return nil
}

// RecordProcessingError implements notification.NotificationRepository.
func (r *notificationRepository) RecordProcessingError(ctx context.Context, attendanceID string, date time.Time, reason string) error {
	q := GetQuerier(ctx, r.db)

	if len(reason) > 250 {
		reason = reason[:250]
	}

	query := `
		INSERT INTO processing_errors (attendance_id, date, reason)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (attendance_id, date) DO UPDATE SET
			reason = EXCLUDED.reason,
			created_at = NOW()
	`

	if _, err := q.Exec(ctx, query, attendanceID, date, reason); err != nil {
		return fmt.Errorf("failed to record processing error: %w", err)
	}

	return nil
}

// ClearProcessingError implements notification.NotificationRepository.
func (r *notificationRepository) ClearProcessingError(ctx context.Context, attendanceID string, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM processing_errors WHERE attendance_id = $1 AND date = $2::date`
	if _, err := q.Exec(ctx, query, attendanceID, date); err != nil {
		return fmt.Errorf("failed to clear processing error: %w", err)
	}

	return nil
}

// ListProcessingErrors implements notification.NotificationRepository.
func (r *notificationRepository) ListProcessingErrors(ctx context.Context) ([]notification.ProcessingError, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, date, reason, created_at
		FROM processing_errors
		ORDER BY date, attendance_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list processing errors: %w", err)
	}
	defer rows.Close()

	var errs []notification.ProcessingError
	for rows.Next() {
		var e notification.ProcessingError
		if err := rows.Scan(&e.ID, &e.AttendanceID, &e.Date, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan processing error: %w", err)
		}
		errs = append(errs, e)
	}

	return errs, rows.Err()
}

func scanNotifications(rows pgx.Rows) ([]notification.Notification, error) {
	var notifications []notification.Notification
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.AttendanceID, &n.Type, &n.Message, &n.Date, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
