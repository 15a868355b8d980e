package pto_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/pto"
)

// =============================================================================
// VACATION HOURS TESTS
// =============================================================================

func TestVacationHours(t *testing.T) {
	tests := []struct {
		name            string
		start, end      string
		includeWeekends bool
		want            float64
	}{
		{"single weekday", "2024-06-03", "2024-06-03", false, 8},
		{"mon to sun without weekends", "2024-06-03", "2024-06-09", false, 40},
		{"mon to sun with weekends", "2024-06-03", "2024-06-09", true, 56},
		{"weekend only without weekends", "2024-03-09", "2024-03-10", false, 0},
		{"weekend only with weekends", "2024-03-09", "2024-03-10", true, 16},
		{"two weeks across a month", "2024-05-27", "2024-06-07", false, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pto.VacationHours(tt.start, tt.end, tt.includeWeekends)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVacationHours_InvalidInput(t *testing.T) {
	_, err := pto.VacationHours("2024-06-10", "2024-06-03", false)
	assert.ErrorIs(t, err, generic.ErrEndBeforeStart)

	_, err = pto.VacationHours("06/03/2024", "2024-06-10", false)
	assert.ErrorIs(t, err, generic.ErrInvalidDate)

	_, err = pto.VacationHours("2024-06-03", "2024-02-30", false)
	assert.ErrorIs(t, err, generic.ErrInvalidDate)
}

func TestVacationHours_WeekendsOnlyAdd(t *testing.T) {
	// Including weekends never lowers the cost; the difference is 8h per weekend day
	start := date(2024, time.January, 1)
	for span := 0; span < 21; span++ {
		for offset := 0; offset < 7; offset++ {
			s := start.AddDays(offset)
			e := s.AddDays(span)
			days := pto.CountVacationDays(s, e)

			with := pto.VacationHoursBetween(s, e, true)
			without := pto.VacationHoursBetween(s, e, false)

			assert.GreaterOrEqual(t, with, without)
			assert.Equal(t, float64(days.WeekendDays*8), with-without)
			assert.Equal(t, span+1, days.TotalDays)
		}
	}
}

func TestCountVacationDays(t *testing.T) {
	b := pto.CountVacationDays(date(2024, time.June, 6), date(2024, time.June, 10))

	assert.Equal(t, pto.DayBreakdown{TotalDays: 5, WeekdayDays: 3, WeekendDays: 2}, b)
	assert.Equal(t, 3, b.CountedDays(false))
	assert.Equal(t, 40.0, b.Hours(true))
}

func TestVacationHoursConsumedBetween(t *testing.T) {
	vacations := []pto.VacationEntry{
		entry("running", "2024-05-28", "2024-06-03", 40), // started before, still running
		entry("ended", "2024-05-27", "2024-06-01", 32),   // ends on window start
		entry("edge", "2024-06-01", "2024-06-04", 32),    // starts on window start
		entry("in", "2024-06-05", "2024-06-05", 8),
		entry("end", "2024-06-10", "2024-06-12", 24), // starts on window end
		entry("after", "2024-06-11", "2024-06-11", 8),
	}

	got := pto.VacationHoursConsumedBetween(date(2024, time.June, 1), date(2024, time.June, 10), vacations)

	assert.Equal(t, 72.0, got) // running + in + end
}

func TestVacationHoursConsumedBetween_InProgress(t *testing.T) {
	// GIVEN: A Mon-Fri vacation that began two days before the window
	vacations := []pto.VacationEntry{entry("v", "2024-03-04", "2024-03-08", 40)}

	// THEN: It is deducted in full
	got := pto.VacationHoursConsumedBetween(date(2024, time.March, 6), date(2024, time.March, 20), vacations)

	assert.Equal(t, 40.0, got)
}

// =============================================================================
// ENTRY CONSTRUCTION TESTS
// =============================================================================

func TestNewVacationEntry(t *testing.T) {
	now := time.Date(2024, time.May, 20, 9, 30, 0, 0, time.Local)

	v, err := pto.NewVacationEntry(pto.VacationInput{
		StartDate:   "2024-06-06",
		EndDate:     "2024-06-10",
		Description: "Beach",
	}, now)
	require.NoError(t, err)

	_, parseErr := uuid.Parse(v.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, 24.0, v.TotalHours)
	assert.Equal(t, "2024-06-06", v.StartDate.String())
	assert.Equal(t, now, v.CreatedAt)
	assert.Equal(t, now, v.UpdatedAt)
}

func TestNewVacationEntry_FreshIDs(t *testing.T) {
	in := pto.VacationInput{StartDate: "2024-06-06", EndDate: "2024-06-06"}
	a, _ := pto.NewVacationEntry(in, time.Now())
	b, _ := pto.NewVacationEntry(in, time.Now())

	assert.NotEqual(t, a.ID, b.ID)
}

func TestVacationEntry_Edit(t *testing.T) {
	created := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.Local)
	edited := created.Add(48 * time.Hour)
	v, err := pto.NewVacationEntry(pto.VacationInput{StartDate: "2024-06-06", EndDate: "2024-06-06"}, created)
	require.NoError(t, err)

	got, err := v.Edit(pto.VacationInput{StartDate: "2024-06-06", EndDate: "2024-06-10", IncludeWeekends: true}, edited)
	require.NoError(t, err)

	assert.Equal(t, v.ID, got.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, edited, got.UpdatedAt)
	assert.Equal(t, 40.0, got.TotalHours)
	assert.True(t, got.IncludeWeekends)

	_, err = v.Edit(pto.VacationInput{StartDate: "2024-06-10", EndDate: "2024-06-06"}, edited)
	assert.ErrorIs(t, err, generic.ErrEndBeforeStart)
}
