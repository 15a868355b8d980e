package pto

import "github.com/warp/pto-planner/generic"

// CountPayPeriodsBetween counts paydays in (start, end] for the schedule.
func CountPayPeriodsBetween(start, end generic.Date, schedule generic.PaySchedule) int {
	return schedule.CountBetween(start, end)
}

// AccruedHoursBetween returns the PTO hours credited on paydays in
// (start, end], rounded to 2 decimal places.
func AccruedHoursBetween(start, end generic.Date, accrualRate float64, schedule generic.PaySchedule) float64 {
	return accruedBetween(start, end, accrualRate, schedule).Float64()
}

func accruedBetween(start, end generic.Date, accrualRate float64, schedule generic.PaySchedule) generic.Hours {
	periods := schedule.CountBetween(start, end)
	return generic.NewHours(accrualRate).Times(periods).Round()
}
