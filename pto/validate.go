package pto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/warp/pto-planner/generic"
)

// =============================================================================
// VACATION REQUEST VALIDATION - Pre-save check (no side effects)
// =============================================================================

// MessageType classifies the validator message for display.
type MessageType string

const (
	MessageSuccess MessageType = "success"
	MessageWarning MessageType = "warning"
	MessageError   MessageType = "error"
)

// VacationRequest is a candidate vacation as typed by the user.
type VacationRequest struct {
	StartDate       string
	EndDate         string
	IncludeWeekends bool

	// Id of the vacation being edited; it is left out of the available balance.
	EditingID string
}

// RequestBreakdown is the weekday/weekend split of a request.
type RequestBreakdown struct {
	TotalDays         int
	WeekdayDays       int
	WeekendDays       int
	HoursFromWeekdays float64
	HoursFromWeekends float64
}

// ValidationResult is the validator decision.
type ValidationResult struct {
	IsValid        bool
	RequiredHours  float64
	AvailableHours float64
	ShortfallHours float64
	Message        string
	MessageType    MessageType
	Breakdown      RequestBreakdown
}

// ValidateVacationRequest compares the hours a request needs with the
// balance projected for its start date. Input problems are returned as an
// invalid result with MessageError, never as an error.
func ValidateVacationRequest(req VacationRequest, settings UserSettings, today generic.Date) ValidationResult {
	if today.IsZero() {
		today = generic.Today()
	}

	if strings.TrimSpace(req.StartDate) == "" || strings.TrimSpace(req.EndDate) == "" {
		return inputError("Please select both a start date and an end date.")
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		if errors.Is(err, generic.ErrEndBeforeStart) {
			return inputError("The end date must be on or after the start date.")
		}
		return inputError(fmt.Sprintf("Dates must use the YYYY-MM-DD format (%v).", err))
	}

	days := CountVacationDays(start, end)
	breakdown := RequestBreakdown{
		TotalDays:         days.TotalDays,
		WeekdayDays:       days.WeekdayDays,
		WeekendDays:       days.WeekendDays,
		HoursFromWeekdays: generic.HoursForDays(days.WeekdayDays).Float64(),
	}
	if req.IncludeWeekends {
		breakdown.HoursFromWeekends = generic.HoursForDays(days.WeekendDays).Float64()
	}
	required := generic.NewHours(breakdown.HoursFromWeekdays).Add(generic.NewHours(breakdown.HoursFromWeekends))

	projection := ProjectBalance(settings.projectionInput(settings.VacationsExcept(req.EditingID), start, today))
	available := generic.NewHours(projection.ProjectedBalance)

	if !req.IncludeWeekends && days.WeekdayDays == 0 && days.WeekendDays > 0 {
		return ValidationResult{
			IsValid:        true,
			AvailableHours: available.Float64(),
			Message:        "This vacation falls entirely on a weekend, so no PTO hours are needed.",
			MessageType:    MessageSuccess,
			Breakdown:      breakdown,
		}
	}

	shortfall := required.Sub(available).Round().ClampZero()
	result := ValidationResult{
		IsValid:        shortfall.IsZero(),
		RequiredHours:  required.Float64(),
		AvailableHours: available.Float64(),
		ShortfallHours: shortfall.Float64(),
		Breakdown:      breakdown,
	}

	var msg strings.Builder
	if result.IsValid {
		result.MessageType = MessageSuccess
		fmt.Fprintf(&msg, "You have enough PTO. This vacation uses %.2f of %.2f available hours, leaving %.2f hours.",
			result.RequiredHours, result.AvailableHours, available.Sub(required).Float64())
	} else {
		result.MessageType = MessageWarning
		fmt.Fprintf(&msg, "Insufficient PTO: this vacation needs %.2f hours but only %.2f hours will be available on %s. Shortfall: %.2f hours.",
			result.RequiredHours, result.AvailableHours, start, result.ShortfallHours)
		if req.IncludeWeekends && days.WeekendDays > 0 {
			fmt.Fprintf(&msg, " Excluding weekends would save %.2f hours.", breakdown.HoursFromWeekends)
		}
	}
	if !req.IncludeWeekends && days.WeekendDays > 0 {
		fmt.Fprintf(&msg, " %d weekend day(s) not counted.", days.WeekendDays)
	}
	result.Message = msg.String()

	return result
}

func inputError(message string) ValidationResult {
	return ValidationResult{
		IsValid:     false,
		Message:     message,
		MessageType: MessageError,
	}
}
