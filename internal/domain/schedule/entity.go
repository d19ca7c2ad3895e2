package schedule

import (
	"time"
)

// WorkShift is a named weekly schedule template.
type WorkShift struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkShiftDay is the plan for one weekday of a shift. Weekday follows
// time.Weekday (Sunday = 0). Times are minutes since midnight.
type WorkShiftDay struct {
	ID          int64
	WorkShiftID int64
	Weekday     int
	StartMin    int
	EndMin      int
	BreakMin    int
	IsOff       bool
}

// EmployeeWorkShift assigns a shift to an employee over a date range.
// EndDate nil means the assignment is still current.
type EmployeeWorkShift struct {
	ID           int64
	AttendanceID string
	WorkShiftID  int64
	StartDate    time.Time
	EndDate      *time.Time
}

// DayPlan is the resolved schedule for one employee on one date. A nil
// plan or IsOff means no work is expected that day.
type DayPlan struct {
	StartMin int
	EndMin   int
	BreakMin int
	IsOff    bool
}

// NormalHours returns the scheduled working hours net of the break.
func (p DayPlan) NormalHours() float64 {
	if p.IsOff {
		return 0
	}
	minutes := p.EndMin - p.StartMin - p.BreakMin
	if minutes < 0 {
		minutes = 0
	}
	return float64(minutes) / 60
}
