package attendance

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/config"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/absence"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/employee"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/notification"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/punch"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/schedule"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
)

// In-memory repository fakes. They mirror the PostgreSQL behaviour the
// service relies on (ordering, lock guard, not-found sentinels) without
// a database.

const dayKeyLayout = "2006-01-02"

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]employee.Employee

	// phantom badges show up in active listings but have no employee
	// row, so lookups on them fail.
	phantom []string
}

func newFakeEmployeeRepo(badges ...string) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for i, b := range badges {
		r.employees[b] = employee.Employee{
			ID:           int64(i + 1),
			FirstName:    "Test",
			LastName:     "Employee",
			AttendanceID: b,
			IsActive:     true,
		}
	}
	return r
}

func (r *fakeEmployeeRepo) GetByAttendanceID(_ context.Context, attendanceID string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[attendanceID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []employee.Employee
	for _, e := range r.employees {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListActiveAttendanceIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for b := range r.employees {
		out = append(out, b)
	}
	out = append(out, r.phantom...)
	sort.Strings(out)
	return out, nil
}

type fakePunchRepo struct {
	mu      sync.Mutex
	punches []punch.Punch
	nextID  int64
}

func newFakePunchRepo() *fakePunchRepo {
	return &fakePunchRepo{nextID: 1}
}

// add seeds a classified punch directly, bypassing dedup.
func (r *fakePunchRepo) add(badge string, ts time.Time, punchType string) punch.Punch {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := punch.Punch{ID: r.nextID, AttendanceID: badge, Timestamp: ts}
	if punchType != "" {
		t := punchType
		p.Type = &t
	}
	r.nextID++
	r.punches = append(r.punches, p)
	r.sortLocked()
	return p
}

func (r *fakePunchRepo) sortLocked() {
	sort.Slice(r.punches, func(i, j int) bool {
		return r.punches[i].Timestamp.Before(r.punches[j].Timestamp)
	})
}

func (r *fakePunchRepo) Insert(_ context.Context, p punch.Punch) (punch.Punch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.punches {
		if existing.AttendanceID != p.AttendanceID {
			continue
		}
		diff := existing.Timestamp.Sub(p.Timestamp)
		if diff < 0 {
			diff = -diff
		}
		if diff <= time.Minute {
			return punch.Punch{}, punch.ErrDuplicatePunch
		}
	}
	p.ID = r.nextID
	r.nextID++
	r.punches = append(r.punches, p)
	r.sortLocked()
	return p, nil
}

func (r *fakePunchRepo) ListUnclassified(_ context.Context) ([]punch.Punch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []punch.Punch
	for _, p := range r.punches {
		if p.Type == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePunchRepo) ListForRange(_ context.Context, attendanceID string, from, to time.Time) ([]punch.Punch, error) {
	return r.listRange(attendanceID, from, to, false), nil
}

func (r *fakePunchRepo) ListClassifiedForRange(_ context.Context, attendanceID string, from, to time.Time) ([]punch.Punch, error) {
	return r.listRange(attendanceID, from, to, true), nil
}

func (r *fakePunchRepo) listRange(attendanceID string, from, to time.Time, classifiedOnly bool) []punch.Punch {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []punch.Punch
	for _, p := range r.punches {
		if p.AttendanceID != attendanceID {
			continue
		}
		if p.Timestamp.Before(from) || !p.Timestamp.Before(to) {
			continue
		}
		if classifiedOnly && p.Type == nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *fakePunchRepo) SetType(_ context.Context, id int64, punchType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.punches {
		if r.punches[i].ID == id {
			t := punchType
			r.punches[i].Type = &t
			r.punches[i].NeedsReview = false
			r.punches[i].ReviewReason = nil
			return nil
		}
	}
	return punch.ErrPunchNotFound
}

func (r *fakePunchRepo) MarkNeedsReview(_ context.Context, id int64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.punches {
		if r.punches[i].ID == id {
			r.punches[i].NeedsReview = true
			r.punches[i].ReviewReason = &reason
			return nil
		}
	}
	return punch.ErrPunchNotFound
}

func (r *fakePunchRepo) CountSameTypeWithin(_ context.Context, attendanceID, punchType string, ts time.Time, window time.Duration, excludeID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.punches {
		if p.AttendanceID != attendanceID || p.ID == excludeID {
			continue
		}
		if p.Type == nil || *p.Type != punchType {
			continue
		}
		diff := p.Timestamp.Sub(ts)
		if diff < 0 {
			diff = -diff
		}
		if diff <= window {
			count++
		}
	}
	return count, nil
}

func (r *fakePunchRepo) byID(id int64) punch.Punch {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.punches {
		if p.ID == id {
			return p
		}
	}
	return punch.Punch{}
}

type fakeScheduleRepo struct {
	plans map[time.Weekday]*schedule.DayPlan
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{plans: make(map[time.Weekday]*schedule.DayPlan)}
}

// weekdayPlan assigns 08:00-17:00 with a one hour break Monday-Friday.
func (r *fakeScheduleRepo) weekdayPlan() *fakeScheduleRepo {
	for wd := time.Monday; wd <= time.Friday; wd++ {
		r.plans[wd] = &schedule.DayPlan{StartMin: 8 * 60, EndMin: 17 * 60, BreakMin: 60}
	}
	return r
}

func (r *fakeScheduleRepo) GetDayPlan(_ context.Context, _ string, date time.Time) (*schedule.DayPlan, error) {
	return r.plans[date.Weekday()], nil
}

func (r *fakeScheduleRepo) GetShift(_ context.Context, _ int64) (schedule.WorkShift, []schedule.WorkShiftDay, error) {
	return schedule.WorkShift{}, nil, nil
}

type fakeAbsenceRepo struct {
	holidays map[string]*absence.Holiday
	layoffs  []absence.Layoff
}

func newFakeAbsenceRepo() *fakeAbsenceRepo {
	return &fakeAbsenceRepo{holidays: make(map[string]*absence.Holiday)}
}

func (r *fakeAbsenceRepo) GetHoliday(_ context.Context, date time.Time) (*absence.Holiday, error) {
	return r.holidays[date.Format(dayKeyLayout)], nil
}

func (r *fakeAbsenceRepo) GetActiveLayoff(_ context.Context, attendanceID string, date time.Time) (*absence.Layoff, error) {
	for i, l := range r.layoffs {
		if l.AttendanceID != attendanceID || l.IsPurged {
			continue
		}
		if date.Before(l.StartDate) || date.After(l.EndDate) {
			continue
		}
		return &r.layoffs[i], nil
	}
	return nil, nil
}

type fakeSummaryRepo struct {
	mu     sync.Mutex
	rows   map[string]summary.DailySummary
	nextID int64
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{rows: make(map[string]summary.DailySummary), nextID: 1}
}

func summaryKey(attendanceID string, date time.Time) string {
	return attendanceID + "|" + date.Format(dayKeyLayout)
}

func (r *fakeSummaryRepo) put(row summary.DailySummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row.ID == 0 {
		row.ID = r.nextID
		r.nextID++
	}
	r.rows[summaryKey(row.AttendanceID, row.Date)] = row
}

func (r *fakeSummaryRepo) Init(_ context.Context, attendanceID string, date time.Time) (summary.DailySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := summaryKey(attendanceID, date)
	if row, ok := r.rows[key]; ok {
		return row, nil
	}
	row := summary.DailySummary{ID: r.nextID, AttendanceID: attendanceID, Date: date, Status: summary.StatusAbsent}
	r.nextID++
	r.rows[key] = row
	return row, nil
}

func (r *fakeSummaryRepo) Get(_ context.Context, attendanceID string, date time.Time) (summary.DailySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[summaryKey(attendanceID, date)]
	if !ok {
		return summary.DailySummary{}, summary.ErrSummaryNotFound
	}
	return row, nil
}

func (r *fakeSummaryRepo) Save(_ context.Context, s summary.DailySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := summaryKey(s.AttendanceID, s.Date)
	if existing, ok := r.rows[key]; ok && existing.DoNotTouch {
		return summary.ErrRowLocked
	}
	r.rows[key] = s
	return nil
}

func (r *fakeSummaryRepo) SaveLocked(_ context.Context, s summary.DailySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[summaryKey(s.AttendanceID, s.Date)] = s
	return nil
}

func (r *fakeSummaryRepo) ListRange(_ context.Context, attendanceID string, from, to time.Time) ([]summary.DailySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []summary.DailySummary
	for _, row := range r.rows {
		if row.AttendanceID != attendanceID {
			continue
		}
		if row.Date.Before(from) || row.Date.After(to) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// PruneVacuousWeekendRows mirrors the SQL predicate: only weekend rows with
// every counter at zero and every flag clear are deleted.
func (r *fakeSummaryRepo) PruneVacuousWeekendRows(_ context.Context, attendanceID string, from, to time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, row := range r.rows {
		if row.AttendanceID != attendanceID || row.Date.Before(from) || row.Date.After(to) {
			continue
		}
		if !row.IsWeekend {
			continue
		}
		if row.HoursWorked != 0 || row.SundayHour != 0 || row.NightHours != 0 || row.SupHour != 0 ||
			row.MissedHour != 0 || row.Penalisable != 0 {
			continue
		}
		if row.IsHolidays || row.IsConge || row.IsLayoff || row.IsAccident || row.IsMaladie || row.IsCongex ||
			row.IsAnomalie || row.IsToday || row.DoNotTouch || row.NeedsReview {
			continue
		}
		delete(r.rows, key)
	}
	return nil
}

type fakeWeeklyRepo struct {
	mu     sync.Mutex
	totals map[string]summary.WeeklyTotal
}

func newFakeWeeklyRepo() *fakeWeeklyRepo {
	return &fakeWeeklyRepo{totals: make(map[string]summary.WeeklyTotal)}
}

func (r *fakeWeeklyRepo) Upsert(_ context.Context, t summary.WeeklyTotal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totals[t.AttendanceID+"|"+t.WeekStart.Format(dayKeyLayout)] = t
	return nil
}

func (r *fakeWeeklyRepo) GetForDate(_ context.Context, attendanceID string, date time.Time) (*summary.WeeklyTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.totals {
		if t.AttendanceID == attendanceID && !date.Before(t.WeekStart) && !date.After(t.WeekEnd) {
			out := t
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeWeeklyRepo) ListPeriod(_ context.Context, attendanceID string, periodStart, periodEnd time.Time) ([]summary.WeeklyTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []summary.WeeklyTotal
	for _, t := range r.totals {
		if t.AttendanceID != attendanceID {
			continue
		}
		if t.WeekStart.Before(periodStart) || t.WeekStart.After(periodEnd) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out, nil
}

type fakeMonthlyRepo struct {
	mu     sync.Mutex
	totals map[string]summary.MonthlyTotal
}

func newFakeMonthlyRepo() *fakeMonthlyRepo {
	return &fakeMonthlyRepo{totals: make(map[string]summary.MonthlyTotal)}
}

func (r *fakeMonthlyRepo) Upsert(_ context.Context, t summary.MonthlyTotal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totals[t.AttendanceID+"|"+t.PeriodStart.Format(dayKeyLayout)] = t
	return nil
}

func (r *fakeMonthlyRepo) Get(_ context.Context, attendanceID string, periodStart time.Time) (*summary.MonthlyTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.totals[attendanceID+"|"+periodStart.Format(dayKeyLayout)]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

type fakeNotificationRepo struct {
	mu               sync.Mutex
	notifications    []notification.Notification
	processingErrors map[string]string
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{processingErrors: make(map[string]string)}
}

func (r *fakeNotificationRepo) Insert(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.notifications {
		if existing.AttendanceID == n.AttendanceID && existing.Type == n.Type &&
			existing.Date.Equal(n.Date) {
			r.notifications[i] = n
			return nil
		}
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) ListUnread(_ context.Context) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Notification
	for _, n := range r.notifications {
		if !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) ListByAttendanceID(_ context.Context, attendanceID string) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Notification
	for _, n := range r.notifications {
		if n.AttendanceID == attendanceID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) RecordProcessingError(_ context.Context, attendanceID string, date time.Time, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processingErrors[summaryKey(attendanceID, date)] = reason
	return nil
}

func (r *fakeNotificationRepo) ClearProcessingError(_ context.Context, attendanceID string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.processingErrors, summaryKey(attendanceID, date))
	return nil
}

func (r *fakeNotificationRepo) ListProcessingErrors(_ context.Context) ([]notification.ProcessingError, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.ProcessingError
	for key, reason := range r.processingErrors {
		out = append(out, notification.ProcessingError{AttendanceID: key, Reason: reason})
	}
	return out, nil
}

// testEnv bundles the service with its fakes so tests can seed data and
// inspect persisted state.
type testEnv struct {
	employees *fakeEmployeeRepo
	punches   *fakePunchRepo
	schedules *fakeScheduleRepo
	absences  *fakeAbsenceRepo
	summaries *fakeSummaryRepo
	weekly    *fakeWeeklyRepo
	monthly   *fakeMonthlyRepo
	notifs    *fakeNotificationRepo
}

// testNow is a Wednesday. Every test date is derived from it so weekday
// logic stays deterministic.
var testNow = time.Date(2024, 5, 22, 10, 0, 0, 0, time.UTC)

func newTestService(badges ...string) (*DerivationServiceImpl, *testEnv) {
	env := &testEnv{
		employees: newFakeEmployeeRepo(badges...),
		punches:   newFakePunchRepo(),
		schedules: newFakeScheduleRepo().weekdayPlan(),
		absences:  newFakeAbsenceRepo(),
		summaries: newFakeSummaryRepo(),
		weekly:    newFakeWeeklyRepo(),
		monthly:   newFakeMonthlyRepo(),
		notifs:    newFakeNotificationRepo(),
	}

	svc := NewDerivationService(
		env.employees,
		env.punches,
		env.schedules,
		env.absences,
		env.summaries,
		env.weekly,
		env.monthly,
		env.notifs,
		config.DefaultDerivation(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	svc.now = func() time.Time { return testNow }
	return svc, env
}

func at(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

func strPtr(s string) *string {
	return &s
}
