package employee

import (
	"time"
)

type Employee struct {
	ID           int64
	FirstName    string
	LastName     string
	AttendanceID string
	PayrollID    *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns "FIRST LAST" for notification messages.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
