package summary

import (
	"time"
)

// Day status values.
const (
	StatusPresent    = "present"
	StatusAbsent     = "absent"
	StatusRetard     = "retard"
	StatusConge      = "conge"
	StatusMap        = "map"
	StatusAccident   = "accident"
	StatusMaladie    = "cg_maladie"
	StatusRdvMedical = "rdv_medical"
	StatusCongeExp   = "cg_exp"
	StatusJfWin      = "jf_win"
	StatusJfLose     = "jf_lose"
	StatusNightShift = "night-shift"
	StatusIncomplete = "incomplete"
)

// ClaimState tags who owns an employee-day row. Passes check it once at
// the top instead of repeating flag guards per query.
type ClaimState int

const (
	Unclaimed ClaimState = iota
	ClaimedByHoliday
	ClaimedByLeave
	Locked
)

// DailySummary is the derived attendance record for one employee-day.
// Times of day are stored as "HH:MM" strings, hours as decimal hours
// rounded to two places.
type DailySummary struct {
	ID           int64
	AttendanceID string
	Date         time.Time

	Status string

	GetIn         *string
	GetOut        *string
	GetInRef      *string
	GetOutRef     *string
	AutorizGetIn  *string
	AutorizGetOut *string
	NightGetIn    *string
	NightGetOut   *string

	HoursWorked          float64
	MissedHour           float64
	Penalisable          float64
	SupHour              float64
	SundayHour           float64
	NightHours           float64
	WorkedHoursOnHoliday float64

	IsWeekend     bool
	IsSaturday    bool
	IsSunday      bool
	IsHolidays    bool
	IsConge       bool
	IsLayoff      bool
	IsAccident    bool
	IsMaladie     bool
	IsCongex      bool
	HasNightShift bool
	IsAnomalie    bool
	IsToday       bool
	DoNotTouch    bool
	GetHoliday    bool

	NbrAbsence int
	NbrRetard  int
	NbrDepanti int

	JfValue  int
	JcValue  int
	JcxValue int

	NeedsReview  bool
	ReviewReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Claim returns who owns the row. Locked rows reject every automatic
// pass; claimed rows reject shift processing but stay readable.
func (s DailySummary) Claim() ClaimState {
	switch {
	case s.DoNotTouch:
		return Locked
	case s.IsHolidays:
		return ClaimedByHoliday
	case s.IsConge || s.IsLayoff || s.IsAccident || s.IsMaladie || s.IsCongex:
		return ClaimedByLeave
	default:
		return Unclaimed
	}
}

// WeeklyTotal is the aggregated row for one employee over one pay-period
// week.
type WeeklyTotal struct {
	ID           int64
	AttendanceID string
	WeekStart    time.Time
	WeekEnd      time.Time

	HoursWorked float64
	MissedHour  float64
	Penalisable float64
	SupHour     float64
	SundayHour  float64
	NightHours  float64
	HolidayHour float64

	NbrAbsence int
	NbrRetard  int
	NbrDepanti int

	JfValue  int
	JcValue  int
	JcxValue int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MonthlyTotal is the aggregated row for one employee over one pay period
// (26th of the previous month through the 25th).
type MonthlyTotal struct {
	ID           int64
	AttendanceID string
	PeriodStart  time.Time
	PeriodEnd    time.Time

	HoursWorked float64
	MissedHour  float64
	Penalisable float64
	SupHour     float64
	SundayHour  float64
	NightHours  float64
	HolidayHour float64

	NbrAbsence int
	NbrRetard  int
	NbrDepanti int

	JfValue  int
	JcValue  int
	JcxValue int

	CreatedAt time.Time
	UpdatedAt time.Time
}
