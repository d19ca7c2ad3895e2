package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/absence"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
)

// resolveAbsence runs the holiday and layoff checks. It reports whether
// the day ended up claimed, which blocks the shift passes. Holiday wins
// over layoff; within layoffs only the first active record applies.
func (s *DerivationServiceImpl) resolveAbsence(ctx context.Context, row *summary.DailySummary) (bool, error) {
	if row.Claim() != summary.Unclaimed {
		return true, nil
	}

	holiday, err := s.GetHoliday(ctx, row.Date)
	if err != nil {
		return false, err
	}
	if holiday != nil {
		if err := s.applyHoliday(ctx, row, holiday); err != nil {
			return false, err
		}
		return true, nil
	}

	layoff, err := s.GetActiveLayoff(ctx, row.AttendanceID, row.Date)
	if err != nil {
		return false, err
	}
	if layoff != nil {
		applyLayoff(row, layoff)
		return true, nil
	}

	return false, nil
}

// applyHoliday decides between holiday credit won and lost. The credit
// is won when the employee worked both designated adjacent working days.
func (s *DerivationServiceImpl) applyHoliday(ctx context.Context, row *summary.DailySummary, h *absence.Holiday) error {
	workedPrev, err := s.workedOn(ctx, row.AttendanceID, h.PreviousWorkingDay)
	if err != nil {
		return err
	}
	workedNext, err := s.workedOn(ctx, row.AttendanceID, h.NextWorkingDay)
	if err != nil {
		return err
	}

	row.IsHolidays = true
	row.GetHoliday = true
	row.Penalisable = 0
	row.MissedHour = 0

	if workedPrev && workedNext {
		row.Status = summary.StatusJfWin
		row.JfValue = 1
		row.WorkedHoursOnHoliday = row.HoursWorked
	} else {
		row.Status = summary.StatusJfLose
		row.JfValue = 0
	}

	return nil
}

func (s *DerivationServiceImpl) workedOn(ctx context.Context, attendanceID string, date time.Time) (bool, error) {
	day, err := s.Get(ctx, attendanceID, dateOnly(date))
	if err != nil {
		if errors.Is(err, summary.ErrSummaryNotFound) {
			return false, nil
		}
		return false, err
	}
	return day.GetHoliday, nil
}

// applyLayoff sets the flags for the matching leave type. Unknown types
// fall back to exceptional leave.
func applyLayoff(row *summary.DailySummary, l *absence.Layoff) {
	row.NbrAbsence = 1

	switch l.Type {
	case absence.TypeConge:
		row.Status = summary.StatusConge
		row.IsConge = true
		row.JcValue = 1
	case absence.TypeMap:
		row.Status = summary.StatusMap
		row.IsLayoff = true
	case absence.TypeAccident:
		row.Status = summary.StatusAccident
		row.IsAccident = true
	case absence.TypeMaladie:
		row.Status = summary.StatusMaladie
		row.IsMaladie = true
	case absence.TypeRdvMedical:
		// Medical appointments keep the holiday-credit eligibility and
		// earn the exceptional credit without the exceptional flag.
		row.Status = summary.StatusRdvMedical
		row.JcxValue = 1
		row.GetHoliday = true
	default:
		row.Status = summary.StatusCongeExp
		row.IsCongex = true
		row.JcxValue = 1
	}
}
