package pto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/pto"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(y int, m time.Month, d int) generic.Date { return generic.NewDate(y, m, d) }

func weekday(wd time.Weekday) *time.Weekday { return &wd }

func weekly() generic.PaySchedule {
	return generic.PaySchedule{Period: generic.PayWeekly, PaydayOfWeek: weekday(time.Friday)}
}

func biweekly() generic.PaySchedule {
	return generic.PaySchedule{Period: generic.PayBiweekly, PaydayOfWeek: weekday(time.Friday)}
}

func entry(id, start, end string, hours float64) pto.VacationEntry {
	return pto.VacationEntry{
		ID:         id,
		StartDate:  generic.MustParseDate(start),
		EndDate:    generic.MustParseDate(end),
		TotalHours: hours,
	}
}

// =============================================================================
// PROJECTION TESTS
// =============================================================================

func TestProjectBalance_BiweeklyTwoWeeks(t *testing.T) {
	// GIVEN: 96h, 13.36h per biweekly Friday payday, Mon Jan 1 to Mon Jan 15
	// THEN: one payday (Jan 5) is credited
	p := pto.ProjectBalance(pto.ProjectionInput{
		CurrentPTO:  96,
		AccrualRate: 13.36,
		Schedule:    biweekly(),
		TargetDate:  date(2024, time.January, 15),
		AsOf:        date(2024, time.January, 1),
	})

	assert.Equal(t, 13.36, p.AccruedHours)
	assert.Equal(t, 109.36, p.ProjectedBalance)
	assert.Equal(t, 0.0, p.VacationHoursUsed)
	assert.Equal(t, 96.0, p.Breakdown.StartingBalance)
	assert.Equal(t, 109.36, p.Breakdown.FinalBalance)
}

func TestProjectBalance_WeeklyTwoWeeks(t *testing.T) {
	// GIVEN: Same inputs on a weekly schedule
	// THEN: Jan 5 and Jan 12 are credited
	p := pto.ProjectBalance(pto.ProjectionInput{
		CurrentPTO:  96,
		AccrualRate: 13.36,
		Schedule:    weekly(),
		TargetDate:  date(2024, time.January, 15),
		AsOf:        date(2024, time.January, 1),
	})

	assert.Equal(t, 26.72, p.AccruedHours)
	assert.Equal(t, 122.72, p.ProjectedBalance)
}

func TestProjectBalance_TargetNotAfterAsOf(t *testing.T) {
	asOf := date(2024, time.March, 10)
	in := pto.ProjectionInput{
		CurrentPTO:  50,
		AccrualRate: 8,
		Schedule:    weekly(),
		Vacations:   []pto.VacationEntry{entry("v", "2024-03-01", "2024-03-01", 8)},
		AsOf:        asOf,
	}

	for _, target := range []generic.Date{asOf, asOf.AddDays(-1), asOf.AddDays(-400)} {
		in.TargetDate = target
		p := pto.ProjectBalance(in)
		assert.Equal(t, 50.0, p.ProjectedBalance, target.String())
		assert.Equal(t, 0.0, p.AccruedHours)
		assert.Equal(t, 0.0, p.VacationHoursUsed)
	}
}

func TestProjectBalance_NeverNegative(t *testing.T) {
	// GIVEN: 8h and a 40h vacation
	// THEN: Clamped to zero
	p := pto.ProjectBalance(pto.ProjectionInput{
		CurrentPTO:  8,
		AccrualRate: 0,
		Schedule:    weekly(),
		Vacations:   []pto.VacationEntry{entry("v", "2024-06-03", "2024-06-07", 40)},
		TargetDate:  date(2024, time.June, 30),
		AsOf:        date(2024, time.June, 1),
	})

	assert.Equal(t, 0.0, p.ProjectedBalance)
	assert.Equal(t, 40.0, p.VacationHoursUsed)
}

func TestProjectBalance_VacationBoundaries(t *testing.T) {
	asOf := date(2024, time.June, 1)
	target := date(2024, time.June, 10)
	in := func(v pto.VacationEntry) pto.ProjectionInput {
		return pto.ProjectionInput{
			CurrentPTO: 100,
			Schedule:   weekly(),
			Vacations:  []pto.VacationEntry{v},
			TargetDate: target,
			AsOf:       asOf,
		}
	}

	t.Run("starting on the target date is counted", func(t *testing.T) {
		p := pto.ProjectBalance(in(entry("v", "2024-06-10", "2024-06-14", 40)))
		assert.Equal(t, 40.0, p.VacationHoursUsed)
	})

	t.Run("starting the day after the target is not counted", func(t *testing.T) {
		p := pto.ProjectBalance(in(entry("v", "2024-06-11", "2024-06-14", 32)))
		assert.Equal(t, 0.0, p.VacationHoursUsed)
	})

	t.Run("starting on the as-of date is already in the balance", func(t *testing.T) {
		p := pto.ProjectBalance(in(entry("v", "2024-06-01", "2024-06-03", 24)))
		assert.Equal(t, 0.0, p.VacationHoursUsed)
	})

	t.Run("running across the as-of date is counted", func(t *testing.T) {
		p := pto.ProjectBalance(in(entry("v", "2024-05-30", "2024-06-04", 32)))
		assert.Equal(t, 32.0, p.VacationHoursUsed)
		assert.Equal(t, 68.0, p.ProjectedBalance)
	})

	t.Run("ending on the as-of date is not counted", func(t *testing.T) {
		p := pto.ProjectBalance(in(entry("v", "2024-05-27", "2024-06-01", 40)))
		assert.Equal(t, 0.0, p.VacationHoursUsed)
	})
}

func TestProjectBalance_Idempotent(t *testing.T) {
	in := pto.ProjectionInput{
		CurrentPTO:  33.33,
		AccrualRate: 4.62,
		Schedule:    generic.PaySchedule{Period: generic.PaySemimonthly},
		Vacations:   []pto.VacationEntry{entry("v", "2024-08-12", "2024-08-16", 40)},
		TargetDate:  date(2024, time.December, 31),
		AsOf:        date(2024, time.January, 10),
	}

	assert.Equal(t, pto.ProjectBalance(in), pto.ProjectBalance(in))
}

func TestProjectBalance_AdjacentWindowsCompose(t *testing.T) {
	// GIVEN: A vacation starting on the split date
	// THEN: Projecting a->b then b->c equals a->c (no clamping involved)
	a, b, c := date(2024, time.May, 1), date(2024, time.May, 20), date(2024, time.June, 15)
	vacations := []pto.VacationEntry{entry("v", "2024-05-20", "2024-05-24", 40)}
	base := pto.ProjectionInput{CurrentPTO: 80, AccrualRate: 6, Schedule: weekly(), Vacations: vacations}

	direct := base
	direct.AsOf, direct.TargetDate = a, c

	first := base
	first.AsOf, first.TargetDate = a, b
	mid := pto.ProjectBalance(first)

	second := base
	second.CurrentPTO = mid.ProjectedBalance
	second.AsOf, second.TargetDate = b, c

	assert.Equal(t, pto.ProjectBalance(direct).ProjectedBalance, pto.ProjectBalance(second).ProjectedBalance)
}

func TestSettings_ProjectTo_UsesStoredVacations(t *testing.T) {
	s := pto.UserSettings{
		CurrentPTO:  20,
		AccrualRate: 10,
		PayPeriod:   generic.PayWeekly,
		Vacations:   []pto.VacationEntry{entry("v", "2024-06-05", "2024-06-05", 8)},
	}

	p := s.ProjectTo(date(2024, time.June, 8), date(2024, time.June, 1))

	assert.Equal(t, 10.0, p.AccruedHours) // Fri Jun 7, default payday
	assert.Equal(t, 8.0, p.VacationHoursUsed)
	assert.Equal(t, 22.0, p.ProjectedBalance)
}

// =============================================================================
// ELAPSED TIME TESTS
// =============================================================================

func TestUpdateBalanceForElapsedTime(t *testing.T) {
	vacations := []pto.VacationEntry{entry("v", "2024-06-04", "2024-06-04", 8)}

	got := pto.UpdateBalanceForElapsedTime(40, date(2024, time.June, 1), date(2024, time.June, 10), 10, weekly(), vacations)

	assert.Equal(t, 10.0, got.AccruedHours)
	assert.Equal(t, 8.0, got.VacationHoursUsed)
	assert.Equal(t, 42.0, got.NewBalance)
}

func TestUpdateBalanceForElapsedTime_RunningVacationAlreadyCharged(t *testing.T) {
	// GIVEN: A vacation that started before the last refresh
	// THEN: The refresh does not charge it again
	vacations := []pto.VacationEntry{entry("v", "2024-05-30", "2024-06-04", 32)}

	got := pto.UpdateBalanceForElapsedTime(40, date(2024, time.June, 1), date(2024, time.June, 3), 0, weekly(), vacations)

	assert.Equal(t, 0.0, got.VacationHoursUsed)
	assert.Equal(t, 40.0, got.NewBalance)
}

func TestUpdateBalanceForElapsedTime_NoElapsedDays(t *testing.T) {
	d := date(2024, time.June, 1)

	got := pto.UpdateBalanceForElapsedTime(40, d, d, 10, weekly(), nil)
	assert.Equal(t, pto.BalanceUpdate{NewBalance: 40}, got)

	got = pto.UpdateBalanceForElapsedTime(40, d, d.AddDays(-3), 10, weekly(), nil)
	assert.Equal(t, pto.BalanceUpdate{NewBalance: 40}, got)
}

func TestUpdateBalanceForElapsedTime_ClampsAtZero(t *testing.T) {
	vacations := []pto.VacationEntry{entry("v", "2024-06-03", "2024-06-07", 40)}

	got := pto.UpdateBalanceForElapsedTime(16, date(2024, time.June, 1), date(2024, time.June, 4), 0, weekly(), vacations)

	assert.Equal(t, 0.0, got.NewBalance)
}

func TestUpdateBalanceForElapsedTime_DailyStepsMatchOneStep(t *testing.T) {
	// GIVEN: A multi-day vacation and two paydays in the window
	// THEN: Applying one day at a time equals applying the whole window
	start, end := date(2024, time.June, 1), date(2024, time.June, 20)
	vacations := []pto.VacationEntry{entry("v", "2024-06-10", "2024-06-14", 40)}

	whole := pto.UpdateBalanceForElapsedTime(50, start, end, 7.5, weekly(), vacations)

	balance := 50.0
	for d := start; d.Before(end); d = d.AddDays(1) {
		balance = pto.UpdateBalanceForElapsedTime(balance, d, d.AddDays(1), 7.5, weekly(), vacations).NewBalance
	}

	assert.Equal(t, whole.NewBalance, balance)
}
