package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/notification"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/punch"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
)

// ClassifyPunches implements summary.DerivationService. It re-runs the
// classifier over every day that still has unclassified punches.
func (s *DerivationServiceImpl) ClassifyPunches(ctx context.Context) error {
	unclassified, err := s.ListUnclassified(ctx)
	if err != nil {
		return err
	}
	if len(unclassified) == 0 {
		return nil
	}

	type dayKey struct {
		badge string
		date  time.Time
	}
	seen := make(map[dayKey]bool)

	for _, p := range unclassified {
		key := dayKey{p.AttendanceID, dateOnly(p.Timestamp)}
		if seen[key] {
			continue
		}
		seen[key] = true

		dayPunches, err := s.ListForRange(ctx, key.badge, key.date, key.date.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		s.classifyDayPunches(ctx, key.badge, key.date, dayPunches, sameDay(key.date, s.now()))
	}

	s.logger.Info("punch classification run finished", "days", len(seen))
	return nil
}

// classifyDay normalizes the punches of the day belonging to row.
func (s *DerivationServiceImpl) classifyDay(ctx context.Context, row *summary.DailySummary, punches []punch.Punch) {
	s.classifyDayPunches(ctx, row.AttendanceID, row.Date, punches, row.IsToday)
}

func (s *DerivationServiceImpl) classifyDayPunches(ctx context.Context, attendanceID string, date time.Time, punches []punch.Punch, isToday bool) {
	types := s.decideTypes(punches)

	for i, p := range punches {
		if p.Type != nil && *p.Type == types[i] {
			continue
		}
		if err := s.SetType(ctx, p.ID, types[i]); err != nil {
			s.logger.Error("failed to persist punch type",
				"attendance_id", attendanceID, "punch_id", p.ID, "error", err)
			if rerr := s.MarkNeedsReview(ctx, p.ID, err.Error()); rerr != nil {
				s.logger.Error("failed to flag punch for review", "punch_id", p.ID, "error", rerr)
			}
		}
	}

	s.checkOddPunchCount(ctx, attendanceID, date, punches, isToday)
}

// decideTypes runs the per-day state machine over timestamp-ordered
// punches and returns one IN/OUT decision per punch.
func (s *DerivationServiceImpl) decideTypes(punches []punch.Punch) []string {
	types := make([]string, len(punches))

	lastType := ""
	isNightShift := false
	var prevTime time.Time

	for i, p := range punches {
		minute := p.MinuteOfDay()
		earlyMorning := minute >= s.cfg.EarlyMorningStartMin && minute <= s.cfg.EarlyMorningEndMin
		nightStart := p.Timestamp.Hour() >= s.cfg.NightStartHour

		var t string
		if i == 0 {
			if earlyMorning {
				// Tail of a night shift begun the previous day.
				t = punch.TypeOut
			} else {
				t = punch.TypeIn
				isNightShift = nightStart
			}
		} else {
			gap := p.Timestamp.Sub(prevTime)
			switch {
			case isNightShift && earlyMorning:
				t = punch.TypeOut
				isNightShift = false
			case nightStart && !isNightShift && gap > time.Duration(s.cfg.NightGapMinutes)*time.Minute:
				t = punch.TypeIn
				isNightShift = true
			case isNightShift && minute > s.cfg.EarlyMorningEndMin:
				t = punch.TypeOut
				isNightShift = false
			case lastType == punch.TypeIn:
				t = punch.TypeOut
			default:
				t = punch.TypeIn
			}
		}

		types[i] = t
		lastType = t
		prevTime = p.Timestamp
	}

	return types
}

// checkOddPunchCount raises POINTAGE_IMPAIR when a finished day has an
// odd number of punches in the regular window. Today is still open, so
// it gets a pass.
func (s *DerivationServiceImpl) checkOddPunchCount(ctx context.Context, attendanceID string, date time.Time, punches []punch.Punch, isToday bool) {
	if isToday {
		return
	}

	count := 0
	for _, p := range punches {
		minute := p.MinuteOfDay()
		if minute >= s.cfg.OddCountWindowStartHour*60 && minute <= s.cfg.OddCountWindowEndHour*60 {
			count++
		}
	}
	if count == 0 || count%2 == 0 {
		return
	}

	n := notification.Notification{
		AttendanceID: attendanceID,
		Type:         notification.TypeOddPunchCount,
		Message:      fmt.Sprintf("badge %s has %d punches on %s", attendanceID, count, date.Format("2006-01-02")),
		Date:         date,
	}
	if err := s.notifications.Insert(ctx, n); err != nil {
		// Alerting is best effort, the pipeline keeps going.
		s.logger.Warn("failed to insert odd punch count notification",
			"attendance_id", attendanceID, "error", err)
	}
}
