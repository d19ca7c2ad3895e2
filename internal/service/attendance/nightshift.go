package attendance

import (
	"github.com/aventuratime/timeclock-backend-go/internal/domain/punch"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
)

// nightPass finds the night shift starting on row.Date, if any. It scans
// consecutive IN-OUT pairs across midnight, so punches must cover the
// following morning as well.
func (s *DerivationServiceImpl) nightPass(row *summary.DailySummary, punches []punch.Punch) {
	if row.Claim() != summary.Unclaimed {
		return
	}

	for i := 0; i+1 < len(punches); i++ {
		in, out := punches[i], punches[i+1]
		if !in.IsIn() || !out.IsOut() {
			continue
		}
		if in.Timestamp.Hour() < s.cfg.NightStartHour && out.Timestamp.Hour() >= s.cfg.NightEndHour {
			continue
		}
		// The shift belongs to the day its IN falls on.
		if !sameDay(in.Timestamp, row.Date) {
			continue
		}

		duration := out.Timestamp.Sub(in.Timestamp).Hours()
		if duration <= 0 {
			continue
		}
		if duration > s.cfg.MaxShiftHours {
			s.logger.Warn("rejecting implausible night shift",
				"attendance_id", row.AttendanceID,
				"in", in.Timestamp, "out", out.Timestamp,
				"duration_hours", round2(duration))
			continue
		}

		nightHours := duration
		if nightHours > s.cfg.NightHoursCap {
			nightHours = s.cfg.NightHoursCap
		}
		nightHours = round2(nightHours)

		nightIn := formatHHMM(in.Timestamp)
		nightOut := formatHHMM(out.Timestamp)
		row.NightGetIn = &nightIn
		row.NightGetOut = &nightOut
		row.HasNightShift = true
		row.NightHours = nightHours
		row.Status = summary.StatusNightShift
		row.GetHoliday = true
		row.Penalisable = round2(maxFloat(row.Penalisable-nightHours, 0))
		return
	}
}
