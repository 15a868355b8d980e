/*
projection.go - Future balance projection

PURPOSE:
  Answers "what will my PTO balance be on date X, assuming every planned
  vacation happens?". The current balance is trusted as accurate for the
  as-of date; the engine only moves forward from it.

KEY INSIGHT:
  Accrual and consumption share the half-open window (asOf, target]:
    projected = max(0, round2(current + accrued - vacationHours))
  A target on or before asOf returns the current balance untouched. Past
  balances are never recomputed.

CLAMPING:
  The projected balance never goes below zero. Deficits are not modeled as
  negative balances; the validator and the simulator report them as
  shortfalls instead.

ELAPSED TIME:
  UpdateBalanceForElapsedTime applies the same arithmetic to the past
  interval (lastUpdate, today]. It is what the auto-accrual updater calls
  when the user comes back after some days.

EXAMPLE:
  p := pto.ProjectBalance(pto.ProjectionInput{
      CurrentPTO:  96,
      AccrualRate: 13.36,
      Schedule:    generic.PaySchedule{Period: generic.PayWeekly},
      TargetDate:  generic.NewDate(2024, time.January, 15),
      AsOf:        generic.NewDate(2024, time.January, 1),
  })
  // p.AccruedHours == 26.72, p.ProjectedBalance == 122.72

SEE ALSO:
  - accrual.go: payday counting
  - vacation.go: consumption window
  - simulate.go: per-vacation chronological check
*/
package pto

import "github.com/warp/pto-planner/generic"

// =============================================================================
// PROJECTION
// =============================================================================

// ProjectionInput contains all inputs for a projection.
type ProjectionInput struct {
	CurrentPTO  float64
	AccrualRate float64
	Schedule    generic.PaySchedule
	Vacations   []VacationEntry

	TargetDate generic.Date

	// Date CurrentPTO is accurate for. Zero means today.
	AsOf generic.Date
}

// ProjectionBreakdown names the projection components for display.
type ProjectionBreakdown struct {
	StartingBalance    float64
	TotalAccrued       float64
	TotalVacationHours float64
	FinalBalance       float64
}

// Projection is the projected balance on the target date.
type Projection struct {
	ProjectedBalance  float64
	AccruedHours      float64
	VacationHoursUsed float64
	Breakdown         ProjectionBreakdown
}

// ProjectBalance projects the balance on in.TargetDate.
func ProjectBalance(in ProjectionInput) Projection {
	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = generic.Today()
	}

	if !in.TargetDate.After(asOf) {
		return Projection{
			ProjectedBalance: in.CurrentPTO,
			Breakdown: ProjectionBreakdown{
				StartingBalance: in.CurrentPTO,
				FinalBalance:    in.CurrentPTO,
			},
		}
	}

	accrued := accruedBetween(asOf, in.TargetDate, in.AccrualRate, in.Schedule)
	used := consumedBetween(asOf, in.TargetDate, in.Vacations)
	final := generic.NewHours(in.CurrentPTO).Add(accrued).Sub(used).Round().ClampZero()

	return Projection{
		ProjectedBalance:  final.Float64(),
		AccruedHours:      accrued.Float64(),
		VacationHoursUsed: used.Float64(),
		Breakdown: ProjectionBreakdown{
			StartingBalance:    in.CurrentPTO,
			TotalAccrued:       accrued.Float64(),
			TotalVacationHours: used.Float64(),
			FinalBalance:       final.Float64(),
		},
	}
}

// ProjectTo projects the settings' balance from asOf to target, counting
// every stored vacation.
func (s UserSettings) ProjectTo(target, asOf generic.Date) Projection {
	return ProjectBalance(s.projectionInput(s.Vacations, target, asOf))
}

func (s UserSettings) projectionInput(vacations []VacationEntry, target, asOf generic.Date) ProjectionInput {
	return ProjectionInput{
		CurrentPTO:  s.CurrentPTO,
		AccrualRate: s.AccrualRate,
		Schedule:    s.Schedule(),
		Vacations:   vacations,
		TargetDate:  target,
		AsOf:        asOf,
	}
}

// =============================================================================
// ELAPSED TIME - Bring a stored balance up to today
// =============================================================================

// BalanceUpdate is the result of applying elapsed accrual and vacations.
type BalanceUpdate struct {
	NewBalance        float64
	AccruedHours      float64
	VacationHoursUsed float64
}

// UpdateBalanceForElapsedTime moves lastBalance from lastUpdate to today,
// crediting paydays and deducting vacations that started in (lastUpdate, today].
// When today is not after lastUpdate the balance is returned unchanged.
func UpdateBalanceForElapsedTime(lastBalance float64, lastUpdate, today generic.Date, accrualRate float64, schedule generic.PaySchedule, vacations []VacationEntry) BalanceUpdate {
	if !today.After(lastUpdate) {
		return BalanceUpdate{NewBalance: lastBalance}
	}

	accrued := accruedBetween(lastUpdate, today, accrualRate, schedule)
	used := startedBetween(lastUpdate, today, vacations)
	balance := generic.NewHours(lastBalance).Add(accrued).Sub(used).Round().ClampZero()

	return BalanceUpdate{
		NewBalance:        balance.Float64(),
		AccruedHours:      accrued.Float64(),
		VacationHoursUsed: used.Float64(),
	}
}
