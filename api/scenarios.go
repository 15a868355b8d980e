/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built settings documents that replace the stored settings
	with realistic data for demos. Dates are computed relative to today so
	every scenario stays in the future.

AVAILABLE SCENARIOS:

	fresh-start:       Biweekly accrual, no vacations planned
	summer-trip:       One funded week-long trip in the summer
	overbooked:        Two back-to-back trips, the second underfunded
	semimonthly-saver: Semimonthly paydays, long weekend with weekends counted

HOW SCENARIOS WORK:
 1. Build the settings JSON for today
 2. Parse it via factory.ParseSettings
 3. Replace the stored settings

USAGE VIA API:

	POST /api/scenarios/load
	{"scenarioId": "overbooked"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add a builder returning the settings JSON
 3. Register it in scenarioBuilders

NOTE:

	Loading a scenario overwrites the current settings and vacations.

SEE ALSO:
  - handlers.go: ImportSettings uses the same document format
  - factory/settings.go: Settings JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/pto-planner/factory"
	"github.com/warp/pto-planner/generic"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "fresh-start",
		Name:        "Fresh Start",
		Description: "40h balance, 4h biweekly accrual, nothing planned",
		Category:    "basic",
	},
	{
		ID:          "summer-trip",
		Name:        "Summer Trip",
		Description: "One week off in two months, fully funded",
		Category:    "basic",
	},
	{
		ID:          "overbooked",
		Name:        "Overbooked",
		Description: "Two trips close together; the second runs short",
		Category:    "warnings",
	},
	{
		ID:          "semimonthly-saver",
		Name:        "Semimonthly Saver",
		Description: "Paid on the 15th and last day, long weekend counting weekends",
		Category:    "schedules",
	},
}

// scenarioBuilders return the settings document for a scenario as of today.
var scenarioBuilders = map[string]func(today generic.Date) string{
	"fresh-start":       freshStartScenario,
	"summer-trip":       summerTripScenario,
	"overbooked":        overbookedScenario,
	"semimonthly-saver": semimonthlySaverScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario replaces the stored settings with a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.loadScenario(r.Context(), req.ScenarioID); err != nil {
		h.writeDomainError(w, "Failed to load scenario", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

func (h *Handler) loadScenario(ctx context.Context, id string) error {
	build, ok := scenarioBuilders[id]
	if !ok {
		return fmt.Errorf("%w: %q", generic.ErrScenarioNotFound, id)
	}

	settings, err := factory.ParseSettings(build(h.Planner.Today()))
	if err != nil {
		return fmt.Errorf("scenario %s: %w", id, err)
	}
	if err := h.Planner.ReplaceSettings(ctx, settings); err != nil {
		return err
	}

	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()

	h.Logger.Info("scenario loaded", "scenario", id, "vacations", len(settings.Vacations))
	return nil
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

func freshStartScenario(today generic.Date) string {
	return fmt.Sprintf(`{
  "currentPTO": 40,
  "accrualRate": 4,
  "payPeriod": "biweekly",
  "paydayOfWeek": 5,
  "annualAllowance": 104,
  "vacations": [],
  "lastAccrualUpdateDate": %q,
  "lastKnownPTOBalance": 40
}`, today)
}

func summerTripScenario(today generic.Date) string {
	start := mondayAfter(today.AddMonths(2))
	return fmt.Sprintf(`{
  "currentPTO": 48,
  "accrualRate": 4,
  "payPeriod": "biweekly",
  "paydayOfWeek": 5,
  "annualAllowance": 104,
  "vacations": [
    {"id": "summer-trip", "startDate": %q, "endDate": %q, "includeWeekends": false, "description": "Summer trip"}
  ],
  "lastAccrualUpdateDate": %q,
  "lastKnownPTOBalance": 48
}`, start, start.AddDays(4), today)
}

func overbookedScenario(today generic.Date) string {
	first := mondayAfter(today.AddDays(14))
	second := mondayAfter(first.AddDays(14))
	return fmt.Sprintf(`{
  "currentPTO": 40,
  "accrualRate": 4,
  "payPeriod": "weekly",
  "paydayOfWeek": 5,
  "annualAllowance": 120,
  "vacations": [
    {"id": "beach-week", "startDate": %q, "endDate": %q, "includeWeekends": false, "description": "Beach week"},
    {"id": "wedding", "startDate": %q, "endDate": %q, "includeWeekends": false, "description": "Family wedding"}
  ],
  "lastAccrualUpdateDate": %q,
  "lastKnownPTOBalance": 40
}`, first, first.AddDays(4), second, second.AddDays(4), today)
}

func semimonthlySaverScenario(today generic.Date) string {
	start := generic.NextOccurrenceOfWeekday(today.AddMonths(1), time.Friday)
	return fmt.Sprintf(`{
  "currentPTO": 24,
  "accrualRate": 5,
  "payPeriod": "semimonthly",
  "annualAllowance": 120,
  "vacations": [
    {"id": "long-weekend", "startDate": %q, "endDate": %q, "includeWeekends": true, "description": "Long weekend"}
  ],
  "lastAccrualUpdateDate": %q,
  "lastKnownPTOBalance": 24
}`, start, start.AddDays(3), today)
}

func mondayAfter(d generic.Date) generic.Date {
	return generic.NextOccurrenceOfWeekday(d, time.Monday)
}
