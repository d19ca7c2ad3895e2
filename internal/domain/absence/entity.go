package absence

import (
	"time"
)

// Layoff type values, in dispatch order. Any unknown type falls back to
// exceptional leave.
const (
	TypeConge      = "conge"
	TypeMap        = "map"
	TypeAccident   = "accident"
	TypeMaladie    = "cg_maladie"
	TypeRdvMedical = "rdv_medical"
	TypeCongeExp   = "cg_exp"
)

// Layoff is an approved absence covering a date range for one employee.
// Ranges never overlap for the same employee; the derivation pipeline
// relies on that and does not enforce it.
type Layoff struct {
	ID           int64
	AttendanceID string
	Type         string
	StartDate    time.Time
	EndDate      time.Time
	IsPurged     bool
	CreatedAt    time.Time
}

// Holiday is a public holiday with its designated adjacent working days,
// used to decide whether the employee earns the holiday credit.
type Holiday struct {
	ID                 int64
	Name               string
	Date               time.Time
	PreviousWorkingDay time.Time
	NextWorkingDay     time.Time
}
