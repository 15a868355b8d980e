package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-planner/generic"
)

func weekday(wd time.Weekday) *time.Weekday { return &wd }

func toStrings(days []generic.Date) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}

// =============================================================================
// COUNTING - (start, end]
// =============================================================================

func TestCountBetween_Weekly(t *testing.T) {
	// GIVEN: Friday paydays, Monday Jan 1 to Monday Jan 15
	// THEN: Jan 5 and Jan 12
	s := generic.PaySchedule{Period: generic.PayWeekly, PaydayOfWeek: weekday(time.Friday)}
	got := s.Paydays(date(2024, time.January, 1), date(2024, time.January, 15))

	assert.Equal(t, []string{"2024-01-05", "2024-01-12"}, toStrings(got))
}

func TestCountBetween_BiweeklyStepsFourteenDays(t *testing.T) {
	// GIVEN: Biweekly Friday, Jan 1 (Mon) to Jan 15 (Mon)
	// THEN: only Jan 5; the next payday is Jan 19
	s := generic.PaySchedule{Period: generic.PayBiweekly, PaydayOfWeek: weekday(time.Friday)}

	assert.Equal(t, 1, s.CountBetween(date(2024, time.January, 1), date(2024, time.January, 15)))
	assert.Equal(t, []string{"2024-01-05", "2024-01-19"},
		toStrings(s.Paydays(date(2024, time.January, 1), date(2024, time.January, 19))))
}

func TestCountBetween_StartOnPaydayIsExcluded(t *testing.T) {
	// GIVEN: start is itself a Friday
	// THEN: it is outside (start, end] and counting starts one interval later
	weekly := generic.PaySchedule{Period: generic.PayWeekly}
	biweekly := generic.PaySchedule{Period: generic.PayBiweekly}
	friday := date(2024, time.January, 5)

	assert.Equal(t, []string{"2024-01-12"}, toStrings(weekly.Paydays(friday, date(2024, time.January, 18))))
	assert.Equal(t, []string{"2024-01-19"}, toStrings(biweekly.Paydays(friday, date(2024, time.January, 19))))
	assert.Equal(t, 0, biweekly.CountBetween(friday, date(2024, time.January, 18)))
}

func TestCountBetween_DefaultsToFriday(t *testing.T) {
	s := generic.PaySchedule{Period: generic.PayWeekly}
	assert.Equal(t, time.Friday, s.Payday())
	assert.Equal(t, 2, s.CountBetween(date(2024, time.January, 1), date(2024, time.January, 15)))
}

func TestCountBetween_CustomPayday(t *testing.T) {
	// Wednesdays between Mon Jan 1 and Wed Jan 17: Jan 3, 10, 17
	s := generic.PaySchedule{Period: generic.PayWeekly, PaydayOfWeek: weekday(time.Wednesday)}
	assert.Equal(t, 3, s.CountBetween(date(2024, time.January, 1), date(2024, time.January, 17)))
}

func TestCountBetween_SemimonthlyLeapFebruary(t *testing.T) {
	// GIVEN: Feb 1 to Feb 20 2024
	// THEN: Feb 15 counted, Feb 29 (last day of leap February) is after the target
	s := generic.PaySchedule{Period: generic.PaySemimonthly}

	assert.Equal(t, 1, s.CountBetween(date(2024, time.February, 1), date(2024, time.February, 20)))
	assert.Equal(t, []string{"2024-02-15", "2024-02-29"},
		toStrings(s.Paydays(date(2024, time.February, 1), date(2024, time.February, 29))))
}

func TestCountBetween_SemimonthlyBoundaries(t *testing.T) {
	s := generic.PaySchedule{Period: generic.PaySemimonthly}

	// Start on the 15th excludes it; end on the last day includes it.
	assert.Equal(t, []string{"2024-01-31"}, toStrings(s.Paydays(date(2024, time.January, 15), date(2024, time.January, 31))))
	// A full year has 24 paydays.
	assert.Equal(t, 24, s.CountBetween(date(2023, time.December, 31), date(2024, time.December, 31)))
}

func TestCountBetween_Monthly(t *testing.T) {
	s := generic.PaySchedule{Period: generic.PayMonthly}

	assert.Equal(t, []string{"2024-02-29"}, toStrings(s.Paydays(date(2024, time.January, 31), date(2024, time.February, 29))))
	assert.Equal(t, 12, s.CountBetween(date(2023, time.December, 31), date(2024, time.December, 31)))
	assert.Equal(t, 0, s.CountBetween(date(2024, time.March, 1), date(2024, time.March, 30)))
}

func TestCountBetween_UnknownPeriodFallsBackToThirtyDays(t *testing.T) {
	s := generic.PaySchedule{Period: generic.PayPeriod("quarterly")}
	got := s.Paydays(date(2024, time.January, 1), date(2024, time.March, 1))

	assert.Equal(t, []string{"2024-01-31", "2024-03-01"}, toStrings(got))
}

func TestCountBetween_EmptyWhenEndNotAfterStart(t *testing.T) {
	for _, p := range []generic.PayPeriod{generic.PayWeekly, generic.PayBiweekly, generic.PaySemimonthly, generic.PayMonthly} {
		s := generic.PaySchedule{Period: p}
		d := date(2024, time.May, 31)
		assert.Equal(t, 0, s.CountBetween(d, d), "%s same day", p)
		assert.Equal(t, 0, s.CountBetween(d, d.AddDays(-40)), "%s inverted", p)
	}
}

func TestCountBetween_MonotonicInEnd(t *testing.T) {
	start := date(2024, time.January, 3)
	for _, p := range []generic.PayPeriod{generic.PayWeekly, generic.PayBiweekly, generic.PaySemimonthly, generic.PayMonthly, "unknown"} {
		s := generic.PaySchedule{Period: p}
		prev := 0
		for i := 0; i < 400; i++ {
			n := s.CountBetween(start, start.AddDays(i))
			require.GreaterOrEqual(t, n, prev, "%s at +%d days", p, i)
			prev = n
		}
	}
}

// =============================================================================
// PARSING
// =============================================================================

func TestParsePayPeriod(t *testing.T) {
	p, err := generic.ParsePayPeriod(" BiWeekly ")
	require.NoError(t, err)
	assert.Equal(t, generic.PayBiweekly, p)

	_, err = generic.ParsePayPeriod("fortnightly")
	assert.ErrorIs(t, err, generic.ErrUnknownPayPeriod)
	assert.True(t, generic.IsClientError(err))
}

// =============================================================================
// CALENDAR HELPERS
// =============================================================================

func TestIsPayday_BiweeklyParityFollowsAnchor(t *testing.T) {
	s := generic.PaySchedule{Period: generic.PayBiweekly}
	anchor := date(2024, time.January, 1)

	assert.True(t, s.IsPayday(date(2024, time.January, 5), anchor))
	assert.False(t, s.IsPayday(date(2024, time.January, 12), anchor))
	assert.True(t, s.IsPayday(date(2024, time.January, 19), anchor))
	assert.True(t, s.IsPayday(date(2023, time.December, 22), anchor))
	assert.False(t, s.IsPayday(date(2024, time.January, 18), anchor))
}

func TestIsPayday_AgreesWithPaydays(t *testing.T) {
	anchor := date(2024, time.June, 1)
	for _, p := range []generic.PayPeriod{generic.PayWeekly, generic.PayBiweekly, generic.PaySemimonthly, generic.PayMonthly} {
		s := generic.PaySchedule{Period: p}
		for _, d := range s.Paydays(anchor, anchor.AddDays(120)) {
			assert.True(t, s.IsPayday(d, anchor), "%s %s", p, d)
		}
	}
}

func TestPaydaysInMonth(t *testing.T) {
	semi := generic.PaySchedule{Period: generic.PaySemimonthly}
	assert.Equal(t, []string{"2024-02-15", "2024-02-29"}, toStrings(semi.PaydaysInMonth(2024, time.February, date(2024, time.January, 1))))

	biweekly := generic.PaySchedule{Period: generic.PayBiweekly}
	assert.Equal(t, []string{"2024-06-07", "2024-06-21"}, toStrings(biweekly.PaydaysInMonth(2024, time.June, date(2024, time.June, 1))))
}

func TestNextAndLastPayday(t *testing.T) {
	anchor := date(2024, time.January, 1)

	weekly := generic.PaySchedule{Period: generic.PayWeekly}
	assert.Equal(t, "2024-01-05", weekly.LastPayday(date(2024, time.January, 11), anchor).String())
	assert.Equal(t, "2024-01-12", weekly.NextPayday(date(2024, time.January, 5)).String())

	biweekly := generic.PaySchedule{Period: generic.PayBiweekly}
	assert.Equal(t, "2024-01-05", biweekly.LastPayday(date(2024, time.January, 18), anchor).String())

	semi := generic.PaySchedule{Period: generic.PaySemimonthly}
	assert.Equal(t, "2024-02-15", semi.LastPayday(date(2024, time.February, 20), anchor).String())
	assert.Equal(t, "2024-01-31", semi.LastPayday(date(2024, time.February, 10), anchor).String())
	assert.Equal(t, "2024-02-29", semi.NextPayday(date(2024, time.February, 15)).String())

	monthly := generic.PaySchedule{Period: generic.PayMonthly}
	assert.Equal(t, "2024-02-29", monthly.LastPayday(date(2024, time.March, 10), anchor).String())
	assert.Equal(t, "2024-03-31", monthly.LastPayday(date(2024, time.March, 31), anchor).String())
}
