/*
time.go - Calendar dates with no time-of-day semantics

PURPOSE:
  Every date in the planner is a local calendar day. Dates are normalized to
  midnight in the local zone before any comparison so that DST shifts and
  millisecond residue never move a vacation or a payday to a neighbouring day.

KEY FUNCTIONS:
  NormalizeDate:               zero the clock part of a time.Time
  ParseLocalDate:              "YYYY-MM-DD" -> Date, built field by field
  NextOccurrenceOfWeekday:     smallest date >= from with a given weekday
  PreviousOccurrenceOfWeekday: largest date <= until with a given weekday

PARSING:
  ParseLocalDate never goes through an ISO/RFC3339 parse. "2024-03-09" must be
  March 9 whatever the process timezone is, so the string is split on '-'
  and passed to time.Date(year, month, day, 0, 0, 0, 0, time.Local).

SEE ALSO:
  - period.go: payday enumeration built on these primitives
  - pto/vacation.go: day-by-day vacation hour counting
*/
package generic

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only textual date format accepted or produced.
const DateLayout = "2006-01-02"

// =============================================================================
// DATE - A local calendar day
// =============================================================================

// Date is a calendar day at local midnight. The zero value is "no date".
type Date struct {
	t time.Time
}

// NewDate builds a date from its components in the local zone.
// Out-of-range components are normalized by time.Date (Feb 30 -> Mar 1).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// DateOf returns the calendar day containing t, as seen in the local zone.
func DateOf(t time.Time) Date {
	local := t.In(time.Local)
	return NewDate(local.Year(), local.Month(), local.Day())
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// NormalizeDate returns a copy of t with hours, minutes, seconds and
// nanoseconds zeroed, keeping t's location.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseLocalDate parses "YYYY-MM-DD" into a local date.
func ParseLocalDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, &DateError{Input: s, Reason: "empty date"}
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return Date{}, &DateError{Input: s, Reason: "expected YYYY-MM-DD"}
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, &DateError{Input: s, Reason: "year is not a number"}
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, &DateError{Input: s, Reason: "month is not a number"}
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, &DateError{Input: s, Reason: "day is not a number"}
	}

	if month < 1 || month > 12 {
		return Date{}, &DateError{Input: s, Reason: "month out of range"}
	}
	d := NewDate(year, time.Month(month), day)
	// time.Date rolls Feb 30 into March; reject instead of shifting the day.
	if d.Day() != day || int(d.Month()) != month {
		return Date{}, &DateError{Input: s, Reason: "day out of range"}
	}
	return d, nil
}

// MustParseDate is ParseLocalDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseLocalDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.t.After(other.t) }
func (d Date) AfterOrEqual(other Date) bool { return !d.t.Before(other.t) }

// Arithmetic
func (d Date) AddDays(n int) Date { return NewDate(d.Year(), d.Month(), d.Day()+n) }
func (d Date) AddMonths(n int) Date { return NewDate(d.Year(), d.Month()+time.Month(n), d.Day()) }

// Properties
func (d Date) Year() int { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) Time() time.Time { return d.t }
func (d Date) IsWeekend() bool { wd := d.Weekday(); return wd == time.Saturday || wd == time.Sunday }
func (d Date) IsWeekday() bool { return !d.IsWeekend() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText encodes the date as YYYY-MM-DD; the zero date encodes as "".
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes YYYY-MM-DD; an empty string yields the zero date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseLocalDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// WEEKDAY SEARCH
// =============================================================================

// NextOccurrenceOfWeekday returns the smallest date >= from falling on wd.
// from itself is returned when it already matches.
func NextOccurrenceOfWeekday(from Date, wd time.Weekday) Date {
	delta := (int(wd) - int(from.Weekday()) + 7) % 7
	return from.AddDays(delta)
}

// PreviousOccurrenceOfWeekday returns the largest date <= until falling on wd.
func PreviousOccurrenceOfWeekday(until Date, wd time.Weekday) Date {
	delta := (int(until.Weekday()) - int(wd) + 7) % 7
	return until.AddDays(-delta)
}

// =============================================================================
// UTILITIES
// =============================================================================

// DaysBetween returns the number of calendar days from -> to (negative when
// to is earlier). Computed on UTC civil dates so DST days count as one.
func DaysBetween(from, to Date) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }

// EndOfMonth returns the last calendar day of the month (Feb 29 in leap years).
func EndOfMonth(year int, month time.Month) Date {
	return NewDate(year, month+1, 0)
}

func EndOfYear(year int) Date { return NewDate(year, time.December, 31) }

// DateRange is an inclusive span of calendar days [Start, End].
type DateRange struct {
	Start Date
	End   Date
}

// Contains reports whether d lies within [Start, End].
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Days returns every day in the range, or nil when End is before Start.
func (r DateRange) Days() []Date {
	var days []Date
	for current := r.Start; current.BeforeOrEqual(r.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (r DateRange) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}
