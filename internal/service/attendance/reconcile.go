package attendance

import (
	"github.com/aventuratime/timeclock-backend-go/internal/domain/schedule"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
)

// reconcile recomputes missed and penalisable hours once the night and
// regular passes have both run, so night hours offset the missed total.
func (s *DerivationServiceImpl) reconcile(row *summary.DailySummary, plan *schedule.DayPlan) {
	if row.Claim() != summary.Unclaimed {
		return
	}

	if row.GetInRef == nil {
		// No applicable schedule, nothing can be missed.
		row.MissedHour = 0
		row.Penalisable = 0
		return
	}

	normal := 0.0
	if plan != nil && !plan.IsOff {
		normal = plan.NormalHours()
	}

	row.MissedHour = round2(maxFloat(normal-row.HoursWorked, 0))
	row.Penalisable = round2(maxFloat(normal-row.HoursWorked-row.NightHours, 0))

	// A partially present day is not also a full absence.
	if normal > 0 && (row.HoursWorked > 0 || row.NightHours > 0 || row.SundayHour > 0) {
		row.NbrAbsence = 0
	}
}
