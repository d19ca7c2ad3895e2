package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/config"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/absence"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/employee"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/notification"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/punch"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/schedule"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DerivationServiceImpl struct {
	employee.EmployeeRepository
	punch.PunchRepository
	schedule.ScheduleRepository
	absence.AbsenceRepository
	summary.SummaryRepository

	weekly        summary.WeeklyRepository
	monthly       summary.MonthlyRepository
	notifications notification.NotificationRepository

	cfg    config.DerivationConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewDerivationService(
	employees employee.EmployeeRepository,
	punches punch.PunchRepository,
	schedules schedule.ScheduleRepository,
	absences absence.AbsenceRepository,
	summaries summary.SummaryRepository,
	weekly summary.WeeklyRepository,
	monthly summary.MonthlyRepository,
	notifications notification.NotificationRepository,
	cfg config.DerivationConfig,
	logger *slog.Logger,
) *DerivationServiceImpl {
	return &DerivationServiceImpl{
		EmployeeRepository: employees,
		PunchRepository:    punches,
		ScheduleRepository: schedules,
		AbsenceRepository:  absences,
		SummaryRepository:  summaries,
		weekly:             weekly,
		monthly:            monthly,
		notifications:      notifications,
		cfg:                cfg,
		logger:             logger,
		now:                time.Now,
	}
}

// RunDailySummary implements summary.DerivationService.
func (s *DerivationServiceImpl) RunDailySummary(ctx context.Context, attendanceID string, date time.Time) error {
	if !validator.IsValidBadge(attendanceID) {
		return validator.ValidationErrors{{Field: "attendance_id", Message: "must be a numeric badge number"}}
	}

	if _, err := s.GetByAttendanceID(ctx, attendanceID); err != nil {
		return err
	}

	date = dateOnly(date)
	row, err := s.Init(ctx, attendanceID, date)
	if err != nil {
		return err
	}

	if row.Claim() == summary.Locked {
		s.logger.Debug("skipping locked day", "attendance_id", attendanceID, "date", date.Format("2006-01-02"))
		return nil
	}

	row.IsSaturday = date.Weekday() == time.Saturday
	row.IsSunday = date.Weekday() == time.Sunday
	row.IsWeekend = row.IsSaturday || row.IsSunday
	row.IsToday = sameDay(date, s.now())

	plan, err := s.GetDayPlan(ctx, attendanceID, date)
	if err != nil {
		return err
	}
	s.applySchedule(&row, plan)

	claimed, err := s.resolveAbsence(ctx, &row)
	if err != nil {
		return err
	}
	if claimed {
		if err := s.Save(ctx, row); err != nil {
			return err
		}
		return s.finishDay(ctx, attendanceID, date)
	}

	dayPunches, err := s.ListForRange(ctx, attendanceID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	s.classifyDay(ctx, &row, dayPunches)

	// Night pairs can close after midnight, so look into the next morning.
	nightWindow, err := s.ListClassifiedForRange(ctx, attendanceID, date, date.Add(36*time.Hour))
	if err != nil {
		return err
	}

	classified, err := s.ListClassifiedForRange(ctx, attendanceID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	s.regularPass(&row, plan, classified)
	s.nightPass(&row, nightWindow)
	s.reconcile(&row, plan)

	if err := s.Save(ctx, row); err != nil {
		return err
	}

	return s.finishDay(ctx, attendanceID, date)
}

func (s *DerivationServiceImpl) finishDay(ctx context.Context, attendanceID string, date time.Time) error {
	if err := s.PruneVacuousWeekendRows(ctx, attendanceID, date, date); err != nil {
		return err
	}
	if err := s.notifications.ClearProcessingError(ctx, attendanceID, date); err != nil {
		s.logger.Warn("failed to clear processing error", "attendance_id", attendanceID, "error", err)
	}
	return nil
}

// RunPeriod implements summary.DerivationService.
func (s *DerivationServiceImpl) RunPeriod(ctx context.Context, from, to time.Time) error {
	from, to = dateOnly(from), dateOnly(to)
	if to.Before(from) {
		return validator.ValidationErrors{{Field: "date_range", Message: "end date is before start date"}}
	}

	badges, err := s.ListActiveAttendanceIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees for batch run: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for _, badge := range badges {
		badge := badge
		g.Go(func() error {
			// One employee failing must not sink the batch.
			for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
				if err := s.RunDailySummary(gctx, badge, d); err != nil {
					s.logger.Error("daily derivation failed",
						"attendance_id", badge, "date", d.Format("2006-01-02"), "error", err)
					if rerr := s.notifications.RecordProcessingError(gctx, badge, d, err.Error()); rerr != nil {
						s.logger.Error("failed to record processing error", "attendance_id", badge, "error", rerr)
					}
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// ApplyManualCorrection implements summary.DerivationService.
func (s *DerivationServiceImpl) ApplyManualCorrection(ctx context.Context, req summary.ManualCorrectionRequest) (summary.DailySummary, error) {
	if err := validateCorrection(req); err != nil {
		return summary.DailySummary{}, err
	}

	if _, err := s.GetByAttendanceID(ctx, req.AttendanceID); err != nil {
		return summary.DailySummary{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	row, err := s.Init(ctx, req.AttendanceID, date)
	if err != nil {
		return summary.DailySummary{}, err
	}

	plan, err := s.GetDayPlan(ctx, req.AttendanceID, date)
	if err != nil {
		return summary.DailySummary{}, err
	}

	row.IsSaturday = date.Weekday() == time.Saturday
	row.IsSunday = date.Weekday() == time.Sunday
	row.IsWeekend = row.IsSaturday || row.IsSunday
	row.IsToday = sameDay(date, s.now())
	s.applySchedule(&row, plan)

	// The corrected punches supersede any holiday or leave claim on the
	// day. Clear the claim so the row holds exactly one state.
	row.IsHolidays = false
	row.IsConge = false
	row.IsLayoff = false
	row.IsAccident = false
	row.IsMaladie = false
	row.IsCongex = false
	row.GetHoliday = false
	row.JfValue = 0
	row.JcValue = 0
	row.JcxValue = 0
	row.NbrAbsence = 0
	row.WorkedHoursOnHoliday = 0

	row.GetIn = req.GetIn
	row.GetOut = req.GetOut
	row.AutorizGetOut = req.AutorizGetOut
	row.AutorizGetIn = req.AutorizGetIn
	row.IsAnomalie = false
	row.NeedsReview = false
	row.ReviewReason = nil

	s.computeRegularMetrics(&row, plan)
	s.reconcile(&row, plan)
	row.DoNotTouch = true

	if err := s.SaveLocked(ctx, row); err != nil {
		return summary.DailySummary{}, err
	}

	if err := s.rebuildWeekFor(ctx, req.AttendanceID, date); err != nil {
		return summary.DailySummary{}, err
	}

	s.logger.Info("manual correction applied", "attendance_id", req.AttendanceID, "date", req.Date)
	return s.Get(ctx, req.AttendanceID, date)
}

func validateCorrection(req summary.ManualCorrectionRequest) error {
	var errs validator.ValidationErrors

	if !validator.IsValidBadge(req.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "must be a numeric badge number",
		})
	}

	if _, ok := validator.IsValidDate(req.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be YYYY-MM-DD",
		})
	}

	for field, v := range map[string]*string{
		"getin":          req.GetIn,
		"getout":         req.GetOut,
		"autoriz_getout": req.AutorizGetOut,
		"autoriz_getin":  req.AutorizGetIn,
	} {
		if v != nil && !validator.IsValidClockTime(*v) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "time must be HH:MM",
			})
		}
	}

	if (req.AutorizGetIn == nil) != (req.AutorizGetOut == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "autoriz_getin",
			Message: "authorized window needs both ends",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *DerivationServiceImpl) applySchedule(row *summary.DailySummary, plan *schedule.DayPlan) {
	if plan == nil || plan.IsOff {
		row.GetInRef = nil
		row.GetOutRef = nil
		return
	}
	inRef := minutesToHHMM(plan.StartMin)
	outRef := minutesToHHMM(plan.EndMin)
	row.GetInRef = &inRef
	row.GetOutRef = &outRef
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func formatHHMM(t time.Time) string {
	return t.Format("15:04")
}

func minutesToHHMM(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// parseHHMM returns minutes since midnight.
func parseHHMM(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", v, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
