package schedule

import (
	"context"
	"time"
)

// ScheduleRepository defines data access methods for work shifts.
type ScheduleRepository interface {
	// GetDayPlan resolves the plan for one employee on one date from the
	// assignment active on that date. Returns (nil, nil) when the employee
	// has no active assignment.
	GetDayPlan(ctx context.Context, attendanceID string, date time.Time) (*DayPlan, error)

	// GetShift retrieves a shift template with its weekday rows.
	GetShift(ctx context.Context, id int64) (WorkShift, []WorkShiftDay, error)
}
