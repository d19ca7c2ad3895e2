package notification

import (
	"time"
)

// Notification type values.
const (
	TypeAttendanceReview = "ATTENDANCE_REVIEW"
	TypeOddPunchCount    = "POINTAGE_IMPAIR"
)

// Notification is an HR alert raised by the derivation pipeline.
type Notification struct {
	ID           int64
	AttendanceID string
	Type         string
	Message      string
	Date         time.Time
	IsRead       bool
	CreatedAt    time.Time
}

// ProcessingError marks an employee-day whose derivation failed so a
// later run can retry it.
type ProcessingError struct {
	ID           int64
	AttendanceID string
	Date         time.Time
	Reason       string
	CreatedAt    time.Time
}
