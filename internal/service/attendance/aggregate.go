package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
)

// PayPeriodFor returns the pay period containing date. Periods run from
// the 26th of one month through the 25th of the next.
func PayPeriodFor(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	if d >= 26 {
		start := time.Date(y, m, 26, 0, 0, 0, 0, date.Location())
		return start, time.Date(y, m+1, 25, 0, 0, 0, 0, date.Location())
	}
	start := time.Date(y, m-1, 26, 0, 0, 0, 0, date.Location())
	return start, time.Date(y, m, 25, 0, 0, 0, 0, date.Location())
}

// dateRange is one payroll week inside a pay period.
type dateRange struct {
	start time.Time
	end   time.Time
}

// weeksOfPeriod splits a pay period into payroll weeks. The first week
// runs from the period start to the first Sunday; the rest are
// Monday-Sunday, with the last clamped at the period end.
func weeksOfPeriod(periodStart, periodEnd time.Time) []dateRange {
	var weeks []dateRange

	cursor := periodStart
	firstEnd := cursor
	for firstEnd.Weekday() != time.Sunday {
		firstEnd = firstEnd.AddDate(0, 0, 1)
	}
	if firstEnd.After(periodEnd) {
		firstEnd = periodEnd
	}
	weeks = append(weeks, dateRange{start: cursor, end: firstEnd})

	cursor = firstEnd.AddDate(0, 0, 1)
	for !cursor.After(periodEnd) {
		end := cursor.AddDate(0, 0, 6)
		if end.After(periodEnd) {
			end = periodEnd
		}
		weeks = append(weeks, dateRange{start: cursor, end: end})
		cursor = end.AddDate(0, 0, 1)
	}

	return weeks
}

// RebuildWeeklyTotals implements summary.DerivationService.
func (s *DerivationServiceImpl) RebuildWeeklyTotals(ctx context.Context, date time.Time) error {
	periodStart, periodEnd := PayPeriodFor(dateOnly(date))
	weeks := weeksOfPeriod(periodStart, periodEnd)

	badges, err := s.ListActiveAttendanceIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees for weekly rebuild: %w", err)
	}

	for _, badge := range badges {
		for _, week := range weeks {
			total, err := s.aggregateWeek(ctx, badge, week)
			if err != nil {
				return err
			}
			if err := s.weekly.Upsert(ctx, total); err != nil {
				return err
			}
		}
	}

	s.logger.Info("weekly totals rebuilt",
		"period_start", periodStart.Format("2006-01-02"),
		"period_end", periodEnd.Format("2006-01-02"),
		"employees", len(badges))
	return nil
}

// RebuildMonthlyTotals implements summary.DerivationService. The monthly
// row is the sum of the period's weeks recomputed from daily rows, so
// the weekly overtime reconciliation carries through.
func (s *DerivationServiceImpl) RebuildMonthlyTotals(ctx context.Context, date time.Time) error {
	periodStart, periodEnd := PayPeriodFor(dateOnly(date))
	weeks := weeksOfPeriod(periodStart, periodEnd)

	badges, err := s.ListActiveAttendanceIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees for monthly rebuild: %w", err)
	}

	for _, badge := range badges {
		month := summary.MonthlyTotal{
			AttendanceID: badge,
			PeriodStart:  periodStart,
			PeriodEnd:    periodEnd,
		}

		for _, week := range weeks {
			w, err := s.aggregateWeek(ctx, badge, week)
			if err != nil {
				return err
			}
			month.HoursWorked = round2(month.HoursWorked + w.HoursWorked)
			month.MissedHour = round2(month.MissedHour + w.MissedHour)
			month.Penalisable = round2(month.Penalisable + w.Penalisable)
			month.SupHour = round2(month.SupHour + w.SupHour)
			month.SundayHour = round2(month.SundayHour + w.SundayHour)
			month.NightHours = round2(month.NightHours + w.NightHours)
			month.HolidayHour = round2(month.HolidayHour + w.HolidayHour)
			month.NbrAbsence += w.NbrAbsence
			month.NbrRetard += w.NbrRetard
			month.NbrDepanti += w.NbrDepanti
			month.JfValue += w.JfValue
			month.JcValue += w.JcValue
			month.JcxValue += w.JcxValue
		}

		if err := s.monthly.Upsert(ctx, month); err != nil {
			return err
		}
	}

	s.logger.Info("monthly totals rebuilt",
		"period_start", periodStart.Format("2006-01-02"),
		"employees", len(badges))
	return nil
}

// rebuildWeekFor recomputes the single week containing date for one
// employee, used after a manual correction.
func (s *DerivationServiceImpl) rebuildWeekFor(ctx context.Context, attendanceID string, date time.Time) error {
	periodStart, periodEnd := PayPeriodFor(dateOnly(date))
	for _, week := range weeksOfPeriod(periodStart, periodEnd) {
		if date.Before(week.start) || date.After(week.end) {
			continue
		}
		total, err := s.aggregateWeek(ctx, attendanceID, week)
		if err != nil {
			return err
		}
		return s.weekly.Upsert(ctx, total)
	}
	return nil
}

// aggregateWeek sums the daily rows of one week and applies the weekly
// overtime reconciliation: hours above the weekly threshold only count
// as overtime once uncovered missed hours are paid back.
func (s *DerivationServiceImpl) aggregateWeek(ctx context.Context, attendanceID string, week dateRange) (summary.WeeklyTotal, error) {
	days, err := s.ListRange(ctx, attendanceID, week.start, week.end)
	if err != nil {
		return summary.WeeklyTotal{}, err
	}

	total := summary.WeeklyTotal{
		AttendanceID: attendanceID,
		WeekStart:    week.start,
		WeekEnd:      week.end,
	}

	var dailySup float64
	for _, d := range days {
		total.HoursWorked += d.HoursWorked
		total.MissedHour += d.MissedHour
		total.Penalisable += d.Penalisable
		total.SundayHour += d.SundayHour
		total.NightHours += d.NightHours
		total.HolidayHour += d.WorkedHoursOnHoliday
		dailySup += d.SupHour
		total.NbrAbsence += d.NbrAbsence
		total.NbrRetard += d.NbrRetard
		total.NbrDepanti += d.NbrDepanti
		total.JfValue += d.JfValue
		total.JcValue += d.JcValue
		total.JcxValue += d.JcxValue
	}

	rawOvertime := maxFloat(total.HoursWorked-s.cfg.WeeklyOvertimeThreshold, 0)
	if total.MissedHour > dailySup {
		excess := total.MissedHour - dailySup
		applied := excess
		if applied > rawOvertime {
			applied = rawOvertime
		}
		rawOvertime -= applied
		total.MissedHour -= applied
	}

	total.HoursWorked = round2(total.HoursWorked)
	total.MissedHour = round2(total.MissedHour)
	total.Penalisable = round2(total.Penalisable)
	total.SupHour = round2(dailySup + rawOvertime)
	total.SundayHour = round2(total.SundayHour)
	total.NightHours = round2(total.NightHours)
	total.HolidayHour = round2(total.HolidayHour)

	return total, nil
}
