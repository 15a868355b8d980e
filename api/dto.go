/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Field names are
  camelCase to match the settings document (factory.SettingsJSON) that the
  browser app already reads and writes.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Settings:
    factory.SettingsJSON, UpdateSettingsRequest

  Vacations:
    factory.VacationJSON, VacationRequest, SaveVacationResponse

  Checks:
    ValidationDTO, SimulationDTO, CheckVacationResponse

  Views:
    SummaryDTO, ProjectionDTO, CalendarMonthDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers and the pto package, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/settings.go: SettingsJSON type
*/
package api

import (
	"time"

	"github.com/warp/pto-planner/factory"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/pto"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// UpdateSettingsRequest is a partial settings update. Omitted fields are kept.
type UpdateSettingsRequest struct {
	CurrentPTO        *float64 `json:"currentPTO,omitempty"`
	AccrualRate       *float64 `json:"accrualRate,omitempty"`
	PayPeriod         *string  `json:"payPeriod,omitempty"`
	PaydayOfWeek      *int     `json:"paydayOfWeek,omitempty"`
	ClearPaydayOfWeek bool     `json:"clearPaydayOfWeek,omitempty"`
	AnnualAllowance   *float64 `json:"annualAllowance,omitempty"`
}

// toPatch converts the request, rejecting unknown pay periods and weekdays.
func (req UpdateSettingsRequest) toPatch() (pto.SettingsPatch, error) {
	patch := pto.SettingsPatch{
		CurrentPTO:        req.CurrentPTO,
		AccrualRate:       req.AccrualRate,
		AnnualAllowance:   req.AnnualAllowance,
		ClearPaydayOfWeek: req.ClearPaydayOfWeek,
	}
	if req.PayPeriod != nil {
		period, err := generic.ParsePayPeriod(*req.PayPeriod)
		if err != nil {
			return pto.SettingsPatch{}, err
		}
		patch.PayPeriod = &period
	}
	if req.PaydayOfWeek != nil {
		if *req.PaydayOfWeek < 0 || *req.PaydayOfWeek > 6 {
			return pto.SettingsPatch{}, &generic.SettingsError{Field: "paydayOfWeek", Message: "must be between 0 (Sunday) and 6 (Saturday)"}
		}
		wd := time.Weekday(*req.PaydayOfWeek)
		patch.PaydayOfWeek = &wd
	}
	return patch, nil
}

// VacationRequest creates, edits or checks a vacation.
type VacationRequest struct {
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	IncludeWeekends bool   `json:"includeWeekends"`
	Description     string `json:"description,omitempty"`

	// Only read by /vacations/check; PUT takes the id from the path.
	EditingID string `json:"editingId,omitempty"`
}

func (req VacationRequest) input() pto.VacationInput {
	return pto.VacationInput{
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IncludeWeekends: req.IncludeWeekends,
		Description:     req.Description,
	}
}

// LoadScenarioRequest selects a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenarioId"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// BreakdownDTO is the weekday/weekend split of a request.
type BreakdownDTO struct {
	TotalDays         int     `json:"totalDays"`
	WeekdayDays       int     `json:"weekdayDays"`
	WeekendDays       int     `json:"weekendDays"`
	HoursFromWeekdays float64 `json:"hoursFromWeekdays"`
	HoursFromWeekends float64 `json:"hoursFromWeekends"`
}

// ValidationDTO is the validator decision.
type ValidationDTO struct {
	IsValid        bool         `json:"isValid"`
	RequiredHours  float64      `json:"requiredHours"`
	AvailableHours float64      `json:"availableHours"`
	ShortfallHours float64      `json:"shortfallHours"`
	Message        string       `json:"message"`
	MessageType    string       `json:"messageType"`
	Breakdown      BreakdownDTO `json:"breakdown"`
}

// WarningDTO describes one underfunded vacation.
type WarningDTO struct {
	VacationID       string  `json:"vacationId"`
	Description      string  `json:"description,omitempty"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	ShortfallHours   float64 `json:"shortfallHours"`
	ProjectedBalance float64 `json:"projectedBalance"`
	RequiredHours    float64 `json:"requiredHours"`
	Message          string  `json:"message"`
}

// StepDTO is one vacation of the chronological walk.
type StepDTO struct {
	VacationID    string  `json:"vacationId"`
	StartDate     string  `json:"startDate"`
	AccruedHours  float64 `json:"accruedHours"`
	BalanceBefore float64 `json:"balanceBefore"`
	BalanceAfter  float64 `json:"balanceAfter"`
	IsShortfall   bool    `json:"isShortfall"`
}

// SimulationDTO is the simulator outcome.
type SimulationDTO struct {
	HasWarnings bool         `json:"hasWarnings"`
	Warnings    []WarningDTO `json:"warnings"`
	Steps       []StepDTO    `json:"steps"`
}

// CheckVacationResponse bundles both pre-save checks.
type CheckVacationResponse struct {
	Validation ValidationDTO `json:"validation"`
	Simulation SimulationDTO `json:"simulation"`
}

// SaveVacationResponse is the stored vacation plus its checks.
type SaveVacationResponse struct {
	Vacation   factory.VacationJSON `json:"vacation"`
	Validation ValidationDTO        `json:"validation"`
	Simulation SimulationDTO        `json:"simulation"`
}

// ProjectionDTO is a projected balance.
type ProjectionDTO struct {
	TargetDate         string  `json:"targetDate"`
	ProjectedBalance   float64 `json:"projectedBalance"`
	AccruedHours       float64 `json:"accruedHours"`
	VacationHoursUsed  float64 `json:"vacationHoursUsed"`
	StartingBalance    float64 `json:"startingBalance"`
	TotalAccrued       float64 `json:"totalAccrued"`
	TotalVacationHours float64 `json:"totalVacationHours"`
	FinalBalance       float64 `json:"finalBalance"`
}

// SummaryDTO is the home page view.
type SummaryDTO struct {
	Today             string                 `json:"today"`
	CurrentPTO        float64                `json:"currentPTO"`
	AnnualAllowance   float64                `json:"annualAllowance"`
	LastPayday        string                 `json:"lastPayday,omitempty"`
	NextPayday        string                 `json:"nextPayday,omitempty"`
	EndOfYear         ProjectionDTO          `json:"endOfYear"`
	UpcomingVacations []factory.VacationJSON `json:"upcomingVacations"`
	Warnings          []WarningDTO           `json:"warnings"`
}

// CalendarDayDTO is one cell of the calendar grid.
type CalendarDayDTO struct {
	Date             string   `json:"date"`
	PTOBalance       float64  `json:"ptoBalance"`
	IsPayDay         bool     `json:"isPayDay"`
	IsToday          bool     `json:"isToday"`
	IsPast           bool     `json:"isPast"`
	VacationIDs      []string `json:"vacationIds"`
	PTOAccrued       *float64 `json:"ptoAccrued,omitempty"`
	TotalPTOOnPayDay *float64 `json:"totalPTOOnPayDay,omitempty"`
}

// PaydayDTO annotates a payday of the displayed month.
type PaydayDTO struct {
	Date         string  `json:"date"`
	AccruedHours float64 `json:"accruedHours"`
	TotalBalance float64 `json:"totalBalance"`
}

// CalendarMonthDTO is a fully annotated month.
type CalendarMonthDTO struct {
	Year    int              `json:"year"`
	Month   int              `json:"month"`
	Days    []CalendarDayDTO `json:"days"`
	Paydays []PaydayDTO      `json:"paydays"`
}

// RefreshResponse reports an accrual refresh.
type RefreshResponse struct {
	Skipped           bool    `json:"skipped"`
	Changed           bool    `json:"changed"`
	CurrentPTO        float64 `json:"currentPTO"`
	AccruedHours      float64 `json:"accruedHours"`
	VacationHoursUsed float64 `json:"vacationHoursUsed"`
	LastUpdate        string  `json:"lastAccrualUpdateDate,omitempty"`
}

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toValidationDTO(v pto.ValidationResult) ValidationDTO {
	return ValidationDTO{
		IsValid:        v.IsValid,
		RequiredHours:  v.RequiredHours,
		AvailableHours: v.AvailableHours,
		ShortfallHours: v.ShortfallHours,
		Message:        v.Message,
		MessageType:    string(v.MessageType),
		Breakdown: BreakdownDTO{
			TotalDays:         v.Breakdown.TotalDays,
			WeekdayDays:       v.Breakdown.WeekdayDays,
			WeekendDays:       v.Breakdown.WeekendDays,
			HoursFromWeekdays: v.Breakdown.HoursFromWeekdays,
			HoursFromWeekends: v.Breakdown.HoursFromWeekends,
		},
	}
}

func toWarningDTOs(warnings []pto.SimulationWarning) []WarningDTO {
	out := make([]WarningDTO, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, WarningDTO{
			VacationID:       w.VacationID,
			Description:      w.Description,
			StartDate:        w.StartDate.String(),
			EndDate:          w.EndDate.String(),
			ShortfallHours:   w.ShortfallHours,
			ProjectedBalance: w.ProjectedBalance,
			RequiredHours:    w.RequiredHours,
			Message:          w.Message,
		})
	}
	return out
}

func toSimulationDTO(s pto.SimulationResult) SimulationDTO {
	steps := make([]StepDTO, 0, len(s.Steps))
	for _, st := range s.Steps {
		steps = append(steps, StepDTO{
			VacationID:    st.VacationID,
			StartDate:     st.StartDate.String(),
			AccruedHours:  st.AccruedHours,
			BalanceBefore: st.BalanceBefore,
			BalanceAfter:  st.BalanceAfter,
			IsShortfall:   st.IsShortfall,
		})
	}
	return SimulationDTO{
		HasWarnings: s.HasWarnings,
		Warnings:    toWarningDTOs(s.Warnings),
		Steps:       steps,
	}
}

func toProjectionDTO(target generic.Date, p pto.Projection) ProjectionDTO {
	return ProjectionDTO{
		TargetDate:         target.String(),
		ProjectedBalance:   p.ProjectedBalance,
		AccruedHours:       p.AccruedHours,
		VacationHoursUsed:  p.VacationHoursUsed,
		StartingBalance:    p.Breakdown.StartingBalance,
		TotalAccrued:       p.Breakdown.TotalAccrued,
		TotalVacationHours: p.Breakdown.TotalVacationHours,
		FinalBalance:       p.Breakdown.FinalBalance,
	}
}

func toVacationJSONs(vacations []pto.VacationEntry) []factory.VacationJSON {
	out := make([]factory.VacationJSON, 0, len(vacations))
	for _, v := range vacations {
		out = append(out, factory.FromEntry(v))
	}
	return out
}

func toSummaryDTO(s pto.Summary) SummaryDTO {
	return SummaryDTO{
		Today:             s.Today.String(),
		CurrentPTO:        s.CurrentPTO,
		AnnualAllowance:   s.AnnualAllowance,
		LastPayday:        s.LastPayday.String(),
		NextPayday:        s.NextPayday.String(),
		EndOfYear:         toProjectionDTO(generic.EndOfYear(s.Today.Year()), s.EndOfYear),
		UpcomingVacations: toVacationJSONs(s.UpcomingVacations),
		Warnings:          toWarningDTOs(s.Simulation.Warnings),
	}
}

func toCalendarMonthDTO(c pto.CalendarMonth) CalendarMonthDTO {
	dto := CalendarMonthDTO{
		Year:    c.Year,
		Month:   int(c.Month),
		Days:    make([]CalendarDayDTO, 0, len(c.Days)),
		Paydays: make([]PaydayDTO, 0, len(c.Paydays)),
	}
	for _, d := range c.Days {
		ids := make([]string, 0, len(d.Vacations))
		for _, v := range d.Vacations {
			ids = append(ids, v.ID)
		}
		dto.Days = append(dto.Days, CalendarDayDTO{
			Date:             d.Date.String(),
			PTOBalance:       d.PTOBalance,
			IsPayDay:         d.IsPayDay,
			IsToday:          d.IsToday,
			IsPast:           d.IsPast,
			VacationIDs:      ids,
			PTOAccrued:       d.PTOAccrued,
			TotalPTOOnPayDay: d.TotalPTOOnPayDay,
		})
	}
	for _, p := range c.Paydays {
		dto.Paydays = append(dto.Paydays, PaydayDTO{
			Date:         p.Date.String(),
			AccruedHours: p.AccruedHours,
			TotalBalance: p.TotalBalance,
		})
	}
	return dto
}

func toRefreshResponse(r pto.RefreshResult) RefreshResponse {
	resp := RefreshResponse{
		Skipped:           r.Skipped,
		Changed:           r.Changed,
		CurrentPTO:        r.Settings.CurrentPTO,
		AccruedHours:      r.Update.AccruedHours,
		VacationHoursUsed: r.Update.VacationHoursUsed,
	}
	if r.Settings.LastAccrualUpdateDate != nil {
		resp.LastUpdate = r.Settings.LastAccrualUpdateDate.String()
	}
	return resp
}
