package attendance

import (
	"github.com/aventuratime/timeclock-backend-go/internal/domain/punch"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/schedule"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
)

// regularPass derives the observed day shift from classified punches in
// the regular window. The principal pair is the first IN and the last
// OUT; punches strictly between them form the authorized-absence window.
func (s *DerivationServiceImpl) regularPass(row *summary.DailySummary, plan *schedule.DayPlan, punches []punch.Punch) {
	if row.Claim() != summary.Unclaimed {
		return
	}

	var window []punch.Punch
	for _, p := range punches {
		minute := p.MinuteOfDay()
		if minute >= s.cfg.RegularStartMin && minute <= s.cfg.RegularEndMin {
			window = append(window, p)
		}
	}
	if len(window) == 0 {
		return
	}

	var firstIn, lastOut *punch.Punch
	for i := range window {
		if window[i].IsIn() {
			firstIn = &window[i]
			break
		}
	}
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].IsOut() {
			lastOut = &window[i]
			break
		}
	}

	switch {
	case firstIn != nil && lastOut != nil && lastOut.Timestamp.After(firstIn.Timestamp):
		in := formatHHMM(firstIn.Timestamp)
		out := formatHHMM(lastOut.Timestamp)
		row.GetIn = &in
		row.GetOut = &out

		var mid []punch.Punch
		for _, p := range window {
			if p.Timestamp.After(firstIn.Timestamp) && p.Timestamp.Before(lastOut.Timestamp) {
				mid = append(mid, p)
			}
		}
		if len(mid) > 0 {
			authIn := formatHHMM(mid[0].Timestamp)
			authOut := formatHHMM(mid[len(mid)-1].Timestamp)
			row.AutorizGetIn = &authIn
			row.AutorizGetOut = &authOut
		}

		s.computeRegularMetrics(row, plan)

	case firstIn != nil:
		// Open shift with no close.
		in := formatHHMM(firstIn.Timestamp)
		row.GetIn = &in
		row.Status = summary.StatusIncomplete
		if !row.IsToday {
			row.IsAnomalie = true
		}

	case lastOut != nil:
		// Close with no preceding open.
		out := formatHHMM(lastOut.Timestamp)
		row.GetOut = &out
		row.Status = summary.StatusIncomplete
		if !row.IsToday {
			row.IsAnomalie = true
		}
	}
}

// computeRegularMetrics fills the numeric fields from the observed
// getin/getout already present on the row. The manual-correction path
// reuses it with HR-supplied times.
func (s *DerivationServiceImpl) computeRegularMetrics(row *summary.DailySummary, plan *schedule.DayPlan) {
	if row.GetIn == nil || row.GetOut == nil {
		return
	}

	inMin, err := parseHHMM(*row.GetIn)
	if err != nil {
		return
	}
	outMin, err := parseHHMM(*row.GetOut)
	if err != nil {
		return
	}

	// No credit for arriving before the scheduled start.
	effectiveIn := inMin
	late := false
	if row.GetInRef != nil {
		if refMin, err := parseHHMM(*row.GetInRef); err == nil {
			if inMin < refMin {
				effectiveIn = refMin
			}
			late = inMin > refMin
		}
	}

	worked := float64(outMin-effectiveIn) / 60
	if worked < 0 {
		worked = 0
	}

	if row.AutorizGetIn != nil && row.AutorizGetOut != nil {
		authIn, errIn := parseHHMM(*row.AutorizGetIn)
		authOut, errOut := parseHHMM(*row.AutorizGetOut)
		if errIn == nil && errOut == nil && authOut > authIn {
			worked -= float64(authOut-authIn) / 60
			if worked < 0 {
				worked = 0
			}
		}
	}

	normal := 0.0
	if plan != nil && !plan.IsOff {
		worked -= float64(plan.BreakMin) / 60
		if worked < 0 {
			worked = 0
		}
		normal = plan.NormalHours()
	}
	worked = round2(worked)

	row.NbrRetard = 0
	if late {
		row.NbrRetard = 1
	}
	row.NbrDepanti = 0
	if row.GetOutRef != nil {
		if refMin, err := parseHHMM(*row.GetOutRef); err == nil && outMin < refMin {
			row.NbrDepanti = 1
		}
	}

	switch {
	case worked == 0 && !row.IsAnomalie:
		row.Status = summary.StatusAbsent
	case !late:
		row.Status = summary.StatusPresent
	default:
		row.Status = summary.StatusRetard
	}

	// Sunday work is tracked on its own counter.
	if row.IsSunday {
		row.SundayHour = worked
		row.HoursWorked = 0
	} else {
		row.HoursWorked = worked
	}

	// Daily overtime only exists on Saturdays; weekday overtime comes out
	// of the weekly 48h reconciliation.
	row.SupHour = 0
	if row.IsSaturday {
		row.SupHour = round2(maxFloat(worked-normal, 0))
	}

	row.MissedHour = round2(maxFloat(normal-worked, 0))
	row.Penalisable = row.MissedHour

	row.GetHoliday = true
	row.NbrAbsence = 0
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
