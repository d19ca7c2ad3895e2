package notification

import (
	"context"
	"time"
)

// NotificationRepository defines data access methods for HR alerts.
type NotificationRepository interface {
	// Insert stores an alert. Duplicate alerts for the same badge, type
	// and date collapse into the existing row.
	Insert(ctx context.Context, n Notification) error

	// ListUnread retrieves unread alerts, newest first.
	ListUnread(ctx context.Context) ([]Notification, error)

	// ListByAttendanceID retrieves the alerts for one badge, newest first.
	ListByAttendanceID(ctx context.Context, attendanceID string) ([]Notification, error)

	// MarkRead marks one alert as read.
	MarkRead(ctx context.Context, id int64) error

	// RecordProcessingError stores a retry marker for a failed
	// employee-day, replacing any previous marker for the same key.
	RecordProcessingError(ctx context.Context, attendanceID string, date time.Time, reason string) error

	// ClearProcessingError removes the retry marker once the day derives
	// cleanly.
	ClearProcessingError(ctx context.Context, attendanceID string, date time.Time) error

	// ListProcessingErrors retrieves all pending retry markers.
	ListProcessingErrors(ctx context.Context) ([]ProcessingError, error)
}
