/*
vacation.go - Vacation hour calculation

PURPOSE:
  Converts vacation date ranges into PTO hours and sums the hours vacations
  consume inside a projection window.

HOURS:
  Every counted day costs generic.HoursPerDay (8) hours. Saturdays and
  Sundays are counted only when the entry includes weekends.

CONSUMPTION WINDOW:
  VacationHoursConsumedBetween uses the same half-open window (start, end]
  as accrual. A vacation counts when it overlaps the window:
    vacation.end > start AND vacation.start <= end
  so one already running on `start` is still deducted. The exception is a
  vacation that starts exactly on `start`, which the balance already
  reflects:
    - started before, still running -> included
    - starts on `start`             -> excluded
    - starts the day after          -> included
    - starts on `end`               -> included

  The elapsed-time refresh deducts by start date instead (startedBetween),
  so repeated daily refreshes charge a multi-day vacation exactly once.

SEE ALSO:
  - projection.go: deducts these hours from the projected balance
  - validate.go: uses DayBreakdown for the weekday/weekend split
*/
package pto

import (
	"time"

	"github.com/google/uuid"
	"github.com/warp/pto-planner/generic"
)

// DayBreakdown splits an inclusive date range into weekdays and weekend days.
type DayBreakdown struct {
	TotalDays   int
	WeekdayDays int
	WeekendDays int
}

// CountVacationDays walks [start, end] day by day.
func CountVacationDays(start, end generic.Date) DayBreakdown {
	var b DayBreakdown
	for _, d := range (generic.DateRange{Start: start, End: end}).Days() {
		b.TotalDays++
		if d.IsWeekend() {
			b.WeekendDays++
		} else {
			b.WeekdayDays++
		}
	}
	return b
}

// CountedDays returns the days that cost PTO.
func (b DayBreakdown) CountedDays(includeWeekends bool) int {
	if includeWeekends {
		return b.TotalDays
	}
	return b.WeekdayDays
}

// Hours returns the PTO hours for the counted days.
func (b DayBreakdown) Hours(includeWeekends bool) float64 {
	return generic.HoursForDays(b.CountedDays(includeWeekends)).Float64()
}

// VacationHours returns the PTO hours a vacation from startDate to endDate
// (YYYY-MM-DD, inclusive) consumes.
func VacationHours(startDate, endDate string, includeWeekends bool) (float64, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return 0, err
	}
	return CountVacationDays(start, end).Hours(includeWeekends), nil
}

// VacationHoursBetween is VacationHours for already parsed dates.
func VacationHoursBetween(start, end generic.Date, includeWeekends bool) float64 {
	return CountVacationDays(start, end).Hours(includeWeekends)
}

// VacationHoursConsumedBetween sums TotalHours of vacations overlapping
// (start, end]. A vacation starting exactly on start is not counted.
func VacationHoursConsumedBetween(start, end generic.Date, vacations []VacationEntry) float64 {
	return consumedBetween(start, end, vacations).Float64()
}

func consumedBetween(start, end generic.Date, vacations []VacationEntry) generic.Hours {
	return sumHours(vacations, func(v VacationEntry) bool {
		return v.EndDate.After(start) && v.StartDate.BeforeOrEqual(end) && !v.StartDate.Equal(start)
	})
}

// startedBetween sums TotalHours of vacations whose start date is in (start, end].
func startedBetween(start, end generic.Date, vacations []VacationEntry) generic.Hours {
	return sumHours(vacations, func(v VacationEntry) bool {
		return v.StartDate.After(start) && v.StartDate.BeforeOrEqual(end)
	})
}

func sumHours(vacations []VacationEntry, counted func(VacationEntry) bool) generic.Hours {
	total := generic.ZeroHours()
	for _, v := range vacations {
		if counted(v) {
			total = total.Add(generic.NewHours(v.TotalHours))
		}
	}
	return total.Round()
}

func parseRange(startDate, endDate string) (generic.Date, generic.Date, error) {
	start, err := generic.ParseLocalDate(startDate)
	if err != nil {
		return generic.Date{}, generic.Date{}, err
	}
	end, err := generic.ParseLocalDate(endDate)
	if err != nil {
		return generic.Date{}, generic.Date{}, err
	}
	if end.Before(start) {
		return generic.Date{}, generic.Date{}, generic.ErrEndBeforeStart
	}
	return start, end, nil
}

// =============================================================================
// ENTRY CONSTRUCTION
// =============================================================================

// VacationInput is what the UI submits when creating or editing a vacation.
type VacationInput struct {
	StartDate       string
	EndDate         string
	IncludeWeekends bool
	Description     string
}

// NewVacationEntry builds an entry with a fresh id and computed hours.
func NewVacationEntry(in VacationInput, now time.Time) (VacationEntry, error) {
	start, end, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return VacationEntry{}, err
	}
	return VacationEntry{
		ID:              uuid.NewString(),
		StartDate:       start,
		EndDate:         end,
		TotalHours:      VacationHoursBetween(start, end, in.IncludeWeekends),
		IncludeWeekends: in.IncludeWeekends,
		Description:     in.Description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Edit returns a copy of the entry with new dates/flags and recomputed hours.
// The id and CreatedAt are preserved.
func (v VacationEntry) Edit(in VacationInput, now time.Time) (VacationEntry, error) {
	start, end, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return VacationEntry{}, err
	}
	v.StartDate = start
	v.EndDate = end
	v.IncludeWeekends = in.IncludeWeekends
	v.Description = in.Description
	v.TotalHours = VacationHoursBetween(start, end, in.IncludeWeekends)
	v.UpdatedAt = now
	return v, nil
}
