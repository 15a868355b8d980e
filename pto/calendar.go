package pto

import (
	"time"

	"github.com/warp/pto-planner/generic"
)

// =============================================================================
// CALENDAR MONTH - Per-day data for the calendar grid
// =============================================================================

// CalendarDay is everything the grid shows for one day.
type CalendarDay struct {
	Date       generic.Date
	PTOBalance float64 // projected balance at the end of the day
	IsPayDay   bool
	IsToday    bool
	IsPast     bool
	Vacations  []VacationEntry

	// Set on paydays after today only; earlier paydays are already in the balance
	PTOAccrued       *float64
	TotalPTOOnPayDay *float64
}

// PaydayEvent annotates one payday of a displayed month.
type PaydayEvent struct {
	Date         generic.Date
	AccruedHours float64
	TotalBalance float64
}

// CalendarMonth is a fully annotated month.
type CalendarMonth struct {
	Year    int
	Month   time.Month
	Days    []CalendarDay
	Paydays []PaydayEvent
}

// BuildCalendarMonth projects every day of the month from today. Days on or
// before today show the current balance; the engine does not rebuild history,
// so only paydays after today carry accrual annotations and payday events.
func BuildCalendarMonth(settings UserSettings, year int, month time.Month, today generic.Date) CalendarMonth {
	if today.IsZero() {
		today = generic.Today()
	}

	schedule := settings.Schedule()
	span := generic.DateRange{Start: generic.StartOfMonth(year, month), End: generic.EndOfMonth(year, month)}
	cal := CalendarMonth{Year: year, Month: month}

	for _, d := range span.Days() {
		day := CalendarDay{
			Date:       d,
			PTOBalance: settings.ProjectTo(d, today).ProjectedBalance,
			IsPayDay:   schedule.IsPayday(d, today),
			IsToday:    d.Equal(today),
			IsPast:     d.Before(today),
		}
		for _, v := range settings.Vacations {
			if v.Covers(d) {
				day.Vacations = append(day.Vacations, v)
			}
		}
		if day.IsPayDay && d.After(today) {
			accrued := settings.AccrualRate
			total := day.PTOBalance
			day.PTOAccrued = &accrued
			day.TotalPTOOnPayDay = &total
			cal.Paydays = append(cal.Paydays, PaydayEvent{Date: d, AccruedHours: accrued, TotalBalance: total})
		}
		cal.Days = append(cal.Days, day)
	}
	return cal
}

// PaydayEvents lists the paydays of a month after today with their projected
// balances.
func PaydayEvents(settings UserSettings, year int, month time.Month, today generic.Date) []PaydayEvent {
	if today.IsZero() {
		today = generic.Today()
	}

	days := settings.Schedule().PaydaysInMonth(year, month, today)
	events := make([]PaydayEvent, 0, len(days))
	for _, d := range days {
		if !d.After(today) {
			continue
		}
		events = append(events, PaydayEvent{
			Date:         d,
			AccruedHours: settings.AccrualRate,
			TotalBalance: settings.ProjectTo(d, today).ProjectedBalance,
		})
	}
	return events
}
