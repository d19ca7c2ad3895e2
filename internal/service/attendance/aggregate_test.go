package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPayPeriodFor(t *testing.T) {
	cases := []struct {
		date      time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{day(2024, 5, 26), day(2024, 5, 26), day(2024, 6, 25)},
		{day(2024, 5, 25), day(2024, 4, 26), day(2024, 5, 25)},
		{day(2024, 5, 10), day(2024, 4, 26), day(2024, 5, 25)},
		// Year boundaries in both directions.
		{day(2024, 1, 10), day(2023, 12, 26), day(2024, 1, 25)},
		{day(2024, 12, 28), day(2024, 12, 26), day(2025, 1, 25)},
	}

	for _, c := range cases {
		start, end := PayPeriodFor(c.date)
		assert.True(t, start.Equal(c.wantStart), "start for %s: got %s", c.date, start)
		assert.True(t, end.Equal(c.wantEnd), "end for %s: got %s", c.date, end)
	}
}

func TestWeeksOfPeriod(t *testing.T) {
	// 2024-04-26 is a Friday, 2024-05-25 a Saturday.
	weeks := weeksOfPeriod(day(2024, 4, 26), day(2024, 5, 25))

	require.Len(t, weeks, 5)
	assert.True(t, weeks[0].start.Equal(day(2024, 4, 26)))
	assert.True(t, weeks[0].end.Equal(day(2024, 4, 28)), "first week ends on the first Sunday")
	assert.True(t, weeks[4].end.Equal(day(2024, 5, 25)), "last week clamps at the period end")

	for i := 1; i < len(weeks); i++ {
		assert.Equal(t, time.Monday, weeks[i].start.Weekday())
		assert.True(t, weeks[i].start.Equal(weeks[i-1].end.AddDate(0, 0, 1)), "weeks must be contiguous")
	}
}

func seedDay(env *testEnv, badge string, date time.Time, mutate func(*summary.DailySummary)) {
	row := summary.DailySummary{AttendanceID: badge, Date: date}
	if mutate != nil {
		mutate(&row)
	}
	env.summaries.put(row)
}

// A 52 hour week with 3 missed hours and 1 hour of Saturday overtime:
// 2 of the 4 raw overtime hours pay back missed time, leaving 3 total
// overtime hours and 1 missed hour.
func TestAggregateWeek_OvertimePaysBackMissedHours(t *testing.T) {
	ctx := context.Background()
	svc, env := newTestService("100")

	week := dateRange{start: day(2024, 5, 20), end: day(2024, 5, 26)}
	for d := 0; d < 5; d++ {
		worked := 9.0
		date := week.start.AddDate(0, 0, d)
		seedDay(env, "100", date, func(r *summary.DailySummary) {
			r.HoursWorked = worked
		})
	}
	seedDay(env, "100", day(2024, 5, 21), func(r *summary.DailySummary) {
		r.HoursWorked = 9
		r.MissedHour = 3
	})
	seedDay(env, "100", day(2024, 5, 25), func(r *summary.DailySummary) {
		r.IsSaturday = true
		r.HoursWorked = 7
		r.SupHour = 1
	})

	total, err := svc.aggregateWeek(ctx, "100", week)
	require.NoError(t, err)

	assert.Equal(t, 52.0, total.HoursWorked)
	assert.Equal(t, 3.0, total.SupHour)
	assert.Equal(t, 1.0, total.MissedHour)
}

func TestAggregateWeek_NoOvertimeLeavesMissedHours(t *testing.T) {
	ctx := context.Background()
	svc, env := newTestService("100")

	week := dateRange{start: day(2024, 5, 20), end: day(2024, 5, 26)}
	for d := 0; d < 5; d++ {
		date := week.start.AddDate(0, 0, d)
		seedDay(env, "100", date, func(r *summary.DailySummary) {
			r.HoursWorked = 8
		})
	}
	seedDay(env, "100", day(2024, 5, 21), func(r *summary.DailySummary) {
		r.HoursWorked = 8
		r.MissedHour = 2
	})

	total, err := svc.aggregateWeek(ctx, "100", week)
	require.NoError(t, err)

	assert.Equal(t, 40.0, total.HoursWorked)
	assert.Equal(t, 0.0, total.SupHour)
	assert.Equal(t, 2.0, total.MissedHour)
}

func TestAggregateWeek_CleanWeekKeepsAllOvertime(t *testing.T) {
	ctx := context.Background()
	svc, env := newTestService("100")

	week := dateRange{start: day(2024, 5, 20), end: day(2024, 5, 26)}
	for d := 0; d < 5; d++ {
		date := week.start.AddDate(0, 0, d)
		seedDay(env, "100", date, func(r *summary.DailySummary) {
			r.HoursWorked = 9
		})
	}
	seedDay(env, "100", day(2024, 5, 25), func(r *summary.DailySummary) {
		r.IsSaturday = true
		r.HoursWorked = 7
		r.SupHour = 1
	})

	total, err := svc.aggregateWeek(ctx, "100", week)
	require.NoError(t, err)

	assert.Equal(t, 52.0, total.HoursWorked)
	assert.Equal(t, 5.0, total.SupHour)
	assert.Equal(t, 0.0, total.MissedHour)
}

func TestAggregateWeek_SumsCounters(t *testing.T) {
	ctx := context.Background()
	svc, env := newTestService("100")

	week := dateRange{start: day(2024, 5, 20), end: day(2024, 5, 26)}
	seedDay(env, "100", day(2024, 5, 20), func(r *summary.DailySummary) {
		r.HoursWorked = 6.83
		r.MissedHour = 1.17
		r.NbrRetard = 1
	})
	seedDay(env, "100", day(2024, 5, 21), func(r *summary.DailySummary) {
		r.JcValue = 1
		r.NbrAbsence = 1
	})
	seedDay(env, "100", day(2024, 5, 22), func(r *summary.DailySummary) {
		r.NightHours = 8
		r.SundayHour = 0
	})
	seedDay(env, "100", day(2024, 5, 23), func(r *summary.DailySummary) {
		r.JfValue = 1
		r.WorkedHoursOnHoliday = 4
	})

	total, err := svc.aggregateWeek(ctx, "100", week)
	require.NoError(t, err)

	assert.Equal(t, 1, total.NbrRetard)
	assert.Equal(t, 1, total.NbrAbsence)
	assert.Equal(t, 1, total.JcValue)
	assert.Equal(t, 1, total.JfValue)
	assert.Equal(t, 8.0, total.NightHours)
	assert.Equal(t, 4.0, total.HolidayHour)
	assert.Equal(t, 1.17, total.MissedHour)
}

func TestRebuildWeeklyTotals(t *testing.T) {
	ctx := context.Background()
	svc, env := newTestService("100")

	for d := 20; d <= 22; d++ {
		seedDay(env, "100", day(2024, 5, d), func(r *summary.DailySummary) {
			r.HoursWorked = 8
		})
	}

	err := svc.RebuildWeeklyTotals(ctx, day(2024, 5, 20))
	require.NoError(t, err)

	week, err := env.weekly.GetForDate(ctx, "100", day(2024, 5, 21))
	require.NoError(t, err)
	require.NotNil(t, week)
	assert.Equal(t, 24.0, week.HoursWorked)
	assert.True(t, week.WeekStart.Equal(day(2024, 5, 20)))
	assert.True(t, week.WeekEnd.Equal(day(2024, 5, 25)), "last week clamps at the period end")
}

func TestRebuildMonthlyTotals(t *testing.T) {
	ctx := context.Background()
	svc, env := newTestService("100")

	// Hours in two different weeks of the same pay period.
	seedDay(env, "100", day(2024, 5, 13), func(r *summary.DailySummary) {
		r.HoursWorked = 8
	})
	seedDay(env, "100", day(2024, 5, 20), func(r *summary.DailySummary) {
		r.HoursWorked = 8
		r.NbrRetard = 1
	})

	err := svc.RebuildMonthlyTotals(ctx, day(2024, 5, 20))
	require.NoError(t, err)

	month, err := env.monthly.Get(ctx, "100", day(2024, 4, 26))
	require.NoError(t, err)
	require.NotNil(t, month)
	assert.Equal(t, 16.0, month.HoursWorked)
	assert.Equal(t, 1, month.NbrRetard)
	assert.True(t, month.PeriodEnd.Equal(day(2024, 5, 25)))
}
