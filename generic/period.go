package generic

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// PAY PERIOD - The schedule on which accrual is credited
// =============================================================================

// PayPeriod names the recurring interval between paydays.
//
// Examples:
//   - weekly:      every Friday
//   - biweekly:    every other Friday, counted from the first Friday >= start
//   - semimonthly: the 15th and the last calendar day of each month
//   - monthly:     the last calendar day of each month
type PayPeriod string

const (
	PayWeekly      PayPeriod = "weekly"
	PayBiweekly    PayPeriod = "biweekly"
	PaySemimonthly PayPeriod = "semimonthly"
	PayMonthly     PayPeriod = "monthly"
)

// DefaultPaydayOfWeek applies to weekly and biweekly schedules without an
// explicit payday.
const DefaultPaydayOfWeek = time.Friday

// fallbackIntervalDays approximates a month for schedules outside the enum.
const fallbackIntervalDays = 30

// ParsePayPeriod maps a case-insensitive name to a PayPeriod.
func ParsePayPeriod(s string) (PayPeriod, error) {
	p := PayPeriod(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPayPeriod, s)
	}
	return p, nil
}

// Valid reports whether p is one of the four known schedules.
func (p PayPeriod) Valid() bool {
	switch p {
	case PayWeekly, PayBiweekly, PaySemimonthly, PayMonthly:
		return true
	default:
		return false
	}
}

// UsesPaydayOfWeek reports whether the schedule is anchored to a weekday.
func (p PayPeriod) UsesPaydayOfWeek() bool {
	return p == PayWeekly || p == PayBiweekly
}

// =============================================================================
// PAY SCHEDULE - Enumerates paydays
// =============================================================================

// PaySchedule combines a pay period with its optional payday weekday.
type PaySchedule struct {
	Period PayPeriod

	// Only consulted for weekly and biweekly; nil means DefaultPaydayOfWeek.
	PaydayOfWeek *time.Weekday
}

// Payday returns the weekday paydays fall on for weekly/biweekly schedules.
func (s PaySchedule) Payday() time.Weekday {
	if s.PaydayOfWeek == nil {
		return DefaultPaydayOfWeek
	}
	return *s.PaydayOfWeek
}

// CountBetween counts paydays in the half-open interval (start, end].
// It returns 0 when end <= start.
func (s PaySchedule) CountBetween(start, end Date) int {
	return len(s.Paydays(start, end))
}

// Paydays lists the paydays in (start, end] in ascending order.
func (s PaySchedule) Paydays(start, end Date) []Date {
	if !end.After(start) {
		return nil
	}

	switch s.Period {
	case PayWeekly:
		return s.everyNDays(start, end, 7)
	case PayBiweekly:
		return s.everyNDays(start, end, 14)
	case PaySemimonthly:
		return monthlyCandidates(start, end, func(year int, month time.Month) []Date {
			return []Date{NewDate(year, month, 15), EndOfMonth(year, month)}
		})
	case PayMonthly:
		return monthlyCandidates(start, end, func(year int, month time.Month) []Date {
			return []Date{EndOfMonth(year, month)}
		})
	default:
		var days []Date
		for d := start.AddDays(fallbackIntervalDays); d.BeforeOrEqual(end); d = d.AddDays(fallbackIntervalDays) {
			days = append(days, d)
		}
		return days
	}
}

// everyNDays steps from the first payday weekday >= start. start itself is
// outside the half-open interval, so a matching start advances one interval.
func (s PaySchedule) everyNDays(start, end Date, interval int) []Date {
	first := NextOccurrenceOfWeekday(start, s.Payday())
	if first.Equal(start) {
		first = first.AddDays(interval)
	}

	var days []Date
	for d := first; d.BeforeOrEqual(end); d = d.AddDays(interval) {
		days = append(days, d)
	}
	return days
}

func monthlyCandidates(start, end Date, candidates func(int, time.Month) []Date) []Date {
	var days []Date

	current := StartOfMonth(start.Year(), start.Month())
	last := StartOfMonth(end.Year(), end.Month())

	for current.BeforeOrEqual(last) {
		for _, c := range candidates(current.Year(), current.Month()) {
			if c.After(start) && c.BeforeOrEqual(end) {
				days = append(days, c)
			}
		}
		current = current.AddMonths(1)
	}
	return days
}

// =============================================================================
// CALENDAR HELPERS - Payday lookup for a displayed month
// =============================================================================

// IsPayday reports whether d is a payday. anchor fixes the biweekly parity
// (and the fallback interval origin) the same way Paydays(anchor, ...) does:
// biweekly paydays are 14-day multiples away from the first payday weekday
// on or after anchor.
func (s PaySchedule) IsPayday(d, anchor Date) bool {
	switch s.Period {
	case PayWeekly:
		return d.Weekday() == s.Payday()
	case PayBiweekly:
		if d.Weekday() != s.Payday() {
			return false
		}
		first := NextOccurrenceOfWeekday(anchor, s.Payday())
		return DaysBetween(first, d)%14 == 0
	case PaySemimonthly:
		return d.Day() == 15 || d.Equal(EndOfMonth(d.Year(), d.Month()))
	case PayMonthly:
		return d.Equal(EndOfMonth(d.Year(), d.Month()))
	default:
		return DaysBetween(anchor, d)%fallbackIntervalDays == 0
	}
}

// PaydaysInMonth lists every payday in the calendar month.
func (s PaySchedule) PaydaysInMonth(year int, month time.Month, anchor Date) []Date {
	span := DateRange{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}

	var days []Date
	for _, d := range span.Days() {
		if s.IsPayday(d, anchor) {
			days = append(days, d)
		}
	}
	return days
}

// NextPayday returns the first payday strictly after the given date.
func (s PaySchedule) NextPayday(after Date) Date {
	// Two months always contain a payday for every schedule.
	days := s.Paydays(after, after.AddDays(62))
	if len(days) == 0 {
		return Date{}
	}
	return days[0]
}

// LastPayday returns the latest payday on or before the given date.
func (s PaySchedule) LastPayday(onOrBefore, anchor Date) Date {
	d := onOrBefore
	switch s.Period {
	case PayWeekly:
		return PreviousOccurrenceOfWeekday(d, s.Payday())
	case PayBiweekly:
		prev := PreviousOccurrenceOfWeekday(d, s.Payday())
		if !s.IsPayday(prev, anchor) {
			prev = prev.AddDays(-7)
		}
		return prev
	case PaySemimonthly:
		if d.Equal(EndOfMonth(d.Year(), d.Month())) {
			return d
		}
		if d.Day() >= 15 {
			return NewDate(d.Year(), d.Month(), 15)
		}
		return NewDate(d.Year(), d.Month(), 0)
	case PayMonthly:
		if d.Equal(EndOfMonth(d.Year(), d.Month())) {
			return d
		}
		return NewDate(d.Year(), d.Month(), 0)
	default:
		diff := DaysBetween(anchor, d)
		steps := diff / fallbackIntervalDays
		if diff < 0 && diff%fallbackIntervalDays != 0 {
			steps--
		}
		return anchor.AddDays(steps * fallbackIntervalDays)
	}
}
