/*
Package generic provides the schedule-agnostic building blocks of the planner.

PURPOSE:
  Calendar dates, pay-period schedules and hour quantities. Nothing in this
  package knows about vacations or user settings; the pto package composes
  these pieces into projections, simulations and validations.

KEY CONCEPTS IN THIS FILE (hours.go):
  - Hours: a PTO quantity backed by decimal.Decimal
  - HoursPerDay: the 8-hour work day convention

DESIGN PRINCIPLES:
  1. Precision: arithmetic runs on decimal.Decimal; values leave the engine
     as float64 rounded to 2 decimal places
  2. Non-negativity: balances are clamped with ClampZero, deficits are
     reported separately by callers

USAGE:
  accrued := generic.NewHours(13.36).Times(2)     // 26.72
  balance := generic.NewHours(96).Add(accrued)    // 122.72
  balance.Float64()                               // 122.72

SEE ALSO:
  - time.go: Date type and weekday search
  - period.go: payday enumeration
  - errors.go: sentinel and structured errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// HoursPerDay is the number of PTO hours one vacation day consumes.
const HoursPerDay = 8

// =============================================================================
// HOURS - PTO quantity
// =============================================================================

type Hours struct {
	Value decimal.Decimal
}

func NewHours(value float64) Hours { return Hours{Value: decimal.NewFromFloat(value)} }

// HoursForDays converts a count of vacation days into hours.
func HoursForDays(days int) Hours {
	return Hours{Value: decimal.NewFromInt(int64(days * HoursPerDay))}
}

func ZeroHours() Hours { return Hours{Value: decimal.Zero} }

func (h Hours) Add(o Hours) Hours { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Times(n int) Hours { return Hours{Value: h.Value.Mul(decimal.NewFromInt(int64(n)))} }
func (h Hours) Neg() Hours { return Hours{Value: h.Value.Neg()} }
func (h Hours) Abs() Hours { return Hours{Value: h.Value.Abs()} }
func (h Hours) IsNegative() bool { return h.Value.IsNegative() }
func (h Hours) IsZero() bool { return h.Value.IsZero() }
func (h Hours) GreaterThan(o Hours) bool { return h.Value.GreaterThan(o.Value) }
func (h Hours) LessThan(o Hours) bool { return h.Value.LessThan(o.Value) }

// Round rounds to 2 decimal places, half away from zero.
func (h Hours) Round() Hours { return Hours{Value: h.Value.Round(2)} }

// ClampZero returns max(0, h).
func (h Hours) ClampZero() Hours {
	if h.IsNegative() {
		return ZeroHours()
	}
	return h
}

// Float64 returns the value rounded to 2 decimal places.
func (h Hours) Float64() float64 {
	return h.Value.Round(2).InexactFloat64()
}

func (h Hours) String() string { return h.Value.StringFixed(2) }

// RoundHours rounds a float64 hour value to 2 decimal places.
func RoundHours(v float64) float64 { return NewHours(v).Float64() }
