package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/employee"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/notification"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/punch"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/terminal"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/validator"
	"github.com/xuri/excelize/v2"
)

// Same-type punches this close together are suspicious and get flagged
// instead of silently kept.
const duplicateReviewWindow = 15 * time.Minute

type IntakeServiceImpl struct {
	punch.PunchRepository
	employee.EmployeeRepository

	notifications notification.NotificationRepository
	terminals     terminal.Client
	logger        *slog.Logger
	location      *time.Location
}

func NewIntakeService(
	punches punch.PunchRepository,
	employees employee.EmployeeRepository,
	notifications notification.NotificationRepository,
	terminals terminal.Client,
	logger *slog.Logger,
) *IntakeServiceImpl {
	return &IntakeServiceImpl{
		PunchRepository:    punches,
		EmployeeRepository: employees,
		notifications:      notifications,
		terminals:          terminals,
		logger:             logger,
		location:           time.Local,
	}
}

// Spreadsheet dates look like "LUN24/03/2025", a French day abbreviation
// glued to DD/MM/YYYY.
var sheetDateRegex = regexp.MustCompile(`^[A-Z]{3}(\d{2}/\d{2}/\d{4})$`)

// ImportPunches implements punch.IntakeService. The sheet carries one
// row per employee-day: Matricule, Date, then up to four Pointage
// columns with HH:MM or HH:MM:SS times.
func (s *IntakeServiceImpl) ImportPunches(ctx context.Context, r io.Reader) (punch.ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return punch.ImportResult{}, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return punch.ImportResult{}, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return punch.ImportResult{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return punch.ImportResult{}, nil
	}

	cols := headerIndex(rows[0])
	var result punch.ImportResult

	for i, row := range rows[1:] {
		line := i + 2

		badge := cell(row, colIdx(cols, "matricule"))
		if validator.IsEmpty(badge) {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: missing badge number", line))
			continue
		}

		date, ok := parseSheetDate(cell(row, colIdx(cols, "date")), s.location)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid date", line))
			continue
		}

		if _, err := s.GetByAttendanceID(ctx, badge); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: unknown badge %s", line, badge))
				continue
			}
			return result, err
		}

		for _, col := range []string{"pointage_1", "pointage_2", "pointage_3", "pointage_4"} {
			raw := cell(row, colIdx(cols, col))
			if validator.IsEmpty(raw) {
				continue
			}

			ts, ok := parseSheetTime(raw, date)
			if !ok {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid time %q", line, raw))
				continue
			}

			_, err := s.Insert(ctx, punch.Punch{
				AttendanceID: badge,
				Timestamp:    ts,
				Source:       punch.SourceImport,
			})
			switch {
			case errors.Is(err, punch.ErrDuplicatePunch):
				result.Duplicates++
			case err != nil:
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			default:
				result.Inserted++
			}
		}
	}

	s.logger.Info("spreadsheet import finished",
		"inserted", result.Inserted, "duplicates", result.Duplicates, "errors", len(result.Errors))
	return result, nil
}

// AddManualPunch implements punch.IntakeService.
func (s *IntakeServiceImpl) AddManualPunch(ctx context.Context, req punch.ManualPunchRequest) (punch.Punch, error) {
	var errs validator.ValidationErrors

	if !validator.IsValidBadge(req.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "must be a numeric badge number",
		})
	}

	ts, ok := validator.IsValidDateTime(req.Timestamp)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be RFC3339",
		})
	}

	if req.Type != "" && req.Type != punch.TypeIn && req.Type != punch.TypeOut {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be IN, OUT or empty",
		})
	}

	if len(errs) > 0 {
		return punch.Punch{}, errs
	}

	if _, err := s.GetByAttendanceID(ctx, req.AttendanceID); err != nil {
		return punch.Punch{}, err
	}

	p := punch.Punch{
		AttendanceID: req.AttendanceID,
		Timestamp:    ts,
		Source:       punch.SourceManual,
	}
	if req.Type != "" {
		p.Type = &req.Type
	}

	inserted, err := s.Insert(ctx, p)
	if err != nil {
		return punch.Punch{}, err
	}

	if inserted.Type != nil {
		s.flagCloseDuplicates(ctx, inserted)
	}

	return inserted, nil
}

// flagCloseDuplicates marks the punch for review when another punch of
// the same type sits within the review window.
func (s *IntakeServiceImpl) flagCloseDuplicates(ctx context.Context, p punch.Punch) {
	count, err := s.CountSameTypeWithin(ctx, p.AttendanceID, *p.Type, p.Timestamp, duplicateReviewWindow, p.ID)
	if err != nil {
		s.logger.Warn("failed to check for close duplicates", "punch_id", p.ID, "error", err)
		return
	}
	if count == 0 {
		return
	}

	reason := fmt.Sprintf("%d other %s punches within %s", count, *p.Type, duplicateReviewWindow)
	if err := s.MarkNeedsReview(ctx, p.ID, reason); err != nil {
		s.logger.Warn("failed to flag punch for review", "punch_id", p.ID, "error", err)
		return
	}

	day := time.Date(p.Timestamp.Year(), p.Timestamp.Month(), p.Timestamp.Day(), 0, 0, 0, 0, p.Timestamp.Location())
	n := notification.Notification{
		AttendanceID: p.AttendanceID,
		Type:         notification.TypeAttendanceReview,
		Message:      fmt.Sprintf("badge %s has %d %s punches within %s on %s", p.AttendanceID, count+1, *p.Type, duplicateReviewWindow, day.Format("2006-01-02")),
		Date:         day,
	}
	if err := s.notifications.Insert(ctx, n); err != nil {
		// Alerting is best effort, the flag on the punch already stands.
		s.logger.Warn("failed to insert attendance review notification",
			"attendance_id", p.AttendanceID, "error", err)
	}
}

// DownloadFromTerminals implements punch.IntakeService.
func (s *IntakeServiceImpl) DownloadFromTerminals(ctx context.Context) error {
	if s.terminals == nil {
		s.logger.Debug("no terminal client configured, skipping download")
		return nil
	}

	since := time.Now().AddDate(0, 0, -7)
	raw, err := s.terminals.FetchPunches(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to fetch punches from terminals: %w", err)
	}

	inserted, duplicates := 0, 0
	for _, rp := range raw {
		_, err := s.Insert(ctx, punch.Punch{
			AttendanceID: rp.Badge,
			Timestamp:    rp.Timestamp,
			Source:       punch.SourceTerminal,
		})
		switch {
		case errors.Is(err, punch.ErrDuplicatePunch):
			duplicates++
		case err != nil:
			s.logger.Error("failed to store terminal punch",
				"badge", rp.Badge, "timestamp", rp.Timestamp, "error", err)
		default:
			inserted++
		}
	}

	s.logger.Info("terminal download finished", "inserted", inserted, "duplicates", duplicates)
	return nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func colIdx(cols map[string]int, name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseSheetDate(v string, loc *time.Location) (time.Time, bool) {
	m := sheetDateRegex.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(v)))
	if m == nil {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("02/01/2006", m[1], loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func parseSheetTime(v string, date time.Time) (time.Time, bool) {
	var layout string
	switch strings.Count(v, ":") {
	case 1:
		layout = "15:04"
	case 2:
		layout = "15:04:05"
	default:
		return time.Time{}, false
	}

	t, err := time.Parse(layout, v)
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, date.Location()), true
}
