/*
simulate.go - Chronological vacation simulation

PURPOSE:
  Detects whether adding or editing a vacation leaves any future vacation
  (including itself) underfunded at the moment it starts.

WHY NOT PROJECTION?
  ProjectBalance answers "what is the balance on date X after everything".
  A later vacation cannot borrow hours an earlier one already consumed, and
  accrual arrives payday by payday. The simulator walks vacations in start
  order and checks each one against the balance available right then:

    running = currentPTO, cursor = today
    for each vacation (sorted by start):
        before  = running + accrued(cursor, start]
        after   = before - vacation.TotalHours
        after < 0  -> warning with shortfall |after|
        running = max(0, after); cursor = start

  One edit can endanger several downstream vacations, so every shortfall is
  reported.

SEE ALSO:
  - validate.go: single-request check against the projected balance
  - service.go: runs both checks before saving
*/
package pto

import (
	"fmt"

	"github.com/warp/pto-planner/generic"
)

// SimulationWarning describes one underfunded vacation.
type SimulationWarning struct {
	VacationID       string
	Description      string
	StartDate        generic.Date
	EndDate          generic.Date
	ShortfallHours   float64
	ProjectedBalance float64 // balance just before the vacation starts
	RequiredHours    float64
	Message          string
}

// SimulationStep records the balances around one vacation.
type SimulationStep struct {
	VacationID    string
	StartDate     generic.Date
	AccruedHours  float64
	BalanceBefore float64
	BalanceAfter  float64 // may be negative
	IsShortfall   bool
}

// SimulationResult is the outcome of a chronological walk.
type SimulationResult struct {
	HasWarnings bool
	Warnings    []SimulationWarning
	Steps       []SimulationStep
}

// SimulateAcrossVacations checks every future vacation after inserting
// candidate. With editingID set, the vacation with that id is replaced by
// candidate; otherwise candidate is appended.
func SimulateAcrossVacations(settings UserSettings, candidate VacationEntry, editingID string, today generic.Date) SimulationResult {
	vacations := make([]VacationEntry, 0, len(settings.Vacations)+1)
	replaced := false
	for _, v := range settings.Vacations {
		if editingID != "" && v.ID == editingID {
			vacations = append(vacations, candidate)
			replaced = true
			continue
		}
		vacations = append(vacations, v)
	}
	if !replaced {
		vacations = append(vacations, candidate)
	}
	return SimulateVacations(settings, vacations, today)
}

// SimulateVacations walks the given vacations against the settings' balance
// and schedule. Vacations starting before today are ignored.
func SimulateVacations(settings UserSettings, vacations []VacationEntry, today generic.Date) SimulationResult {
	if today.IsZero() {
		today = generic.Today()
	}

	var upcoming []VacationEntry
	for _, v := range vacations {
		if v.StartDate.AfterOrEqual(today) {
			upcoming = append(upcoming, v)
		}
	}
	if len(upcoming) == 0 {
		return SimulationResult{}
	}
	upcoming = SortByStart(upcoming)

	schedule := settings.Schedule()
	running := generic.NewHours(settings.CurrentPTO)
	cursor := today

	var result SimulationResult
	for _, v := range upcoming {
		accrued := accruedBetween(cursor, v.StartDate, settings.AccrualRate, schedule)
		required := generic.NewHours(v.TotalHours)
		before := running.Add(accrued).Round()
		after := before.Sub(required).Round()

		step := SimulationStep{
			VacationID:    v.ID,
			StartDate:     v.StartDate,
			AccruedHours:  accrued.Float64(),
			BalanceBefore: before.Float64(),
			BalanceAfter:  after.Float64(),
			IsShortfall:   after.IsNegative(),
		}
		result.Steps = append(result.Steps, step)

		if after.IsNegative() {
			w := SimulationWarning{
				VacationID:       v.ID,
				Description:      v.Description,
				StartDate:        v.StartDate,
				EndDate:          v.EndDate,
				ShortfallHours:   after.Abs().Float64(),
				ProjectedBalance: before.Float64(),
				RequiredHours:    required.Float64(),
			}
			w.Message = shortfallMessage(w)
			result.Warnings = append(result.Warnings, w)
		}

		running = after.ClampZero()
		cursor = v.StartDate
	}

	result.HasWarnings = len(result.Warnings) > 0
	return result
}

func shortfallMessage(w SimulationWarning) string {
	name := w.Description
	if name == "" {
		name = "Vacation"
	}
	return fmt.Sprintf("%q (%s to %s) needs %.2f hours but only %.2f hours will be available. Shortfall: %.2f hours.",
		name, w.StartDate, w.EndDate, w.RequiredHours, w.ProjectedBalance, w.ShortfallHours)
}
