/*
Package factory provides JSON to Go settings conversion.

PURPOSE:
  Converts the JSON settings document (export files, demo scenarios, the
  HTTP API) into pto.UserSettings and back. The document mirrors what the
  browser kept in local storage, so an exported file can be re-imported
  unchanged.

JSON SCHEMA:
  {
    "currentPTO": 96,
    "accrualRate": 6.15,
    "payPeriod": "biweekly",
    "paydayOfWeek": 5,
    "annualAllowance": 160,
    "vacations": [
      {
        "id": "8c4b...",
        "startDate": "2024-07-01",
        "endDate": "2024-07-05",
        "totalHours": 40,
        "includeWeekends": false,
        "description": "Lake trip",
        "createdAt": "2024-05-01T09:00:00Z",
        "updatedAt": "2024-05-01T09:00:00Z"
      }
    ],
    "lastAccrualUpdateDate": "2024-05-01",
    "lastKnownPTOBalance": 96
  }

DEFAULTS:
  - payPeriod missing          -> biweekly
  - paydayOfWeek missing       -> Friday (applied by the schedule)
  - vacation id missing        -> fresh uuid
  - totalHours missing         -> computed from the dates and weekend flag

USAGE:
  settings, err := factory.ParseSettings(jsonString)
  data, err := factory.MarshalSettings(settings)

SEE ALSO:
  - pto/types.go: UserSettings definition
  - api/scenarios.go: demo documents built on this format
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/pto"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// SettingsJSON is the JSON representation of the user settings.
type SettingsJSON struct {
	CurrentPTO            float64        `json:"currentPTO"`
	AccrualRate           float64        `json:"accrualRate"`
	PayPeriod             string         `json:"payPeriod"`
	PaydayOfWeek          *int           `json:"paydayOfWeek,omitempty"` // 0 = Sunday
	AnnualAllowance       float64        `json:"annualAllowance"`
	Vacations             []VacationJSON `json:"vacations"`
	LastAccrualUpdateDate string         `json:"lastAccrualUpdateDate,omitempty"`
	LastKnownPTOBalance   *float64       `json:"lastKnownPTOBalance,omitempty"`
}

// VacationJSON is the JSON representation of a vacation entry.
type VacationJSON struct {
	ID              string   `json:"id"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	TotalHours      *float64 `json:"totalHours,omitempty"`
	IncludeWeekends bool     `json:"includeWeekends"`
	Description     string   `json:"description,omitempty"`
	CreatedAt       string   `json:"createdAt,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseSettings parses a JSON settings document.
func ParseSettings(jsonStr string) (pto.UserSettings, error) {
	return ParseSettingsBytes([]byte(jsonStr))
}

// ParseSettingsBytes parses a JSON settings document from raw bytes.
func ParseSettingsBytes(data []byte) (pto.UserSettings, error) {
	var doc SettingsJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return pto.UserSettings{}, &generic.SettingsError{Field: "document", Message: err.Error()}
	}
	return doc.ToSettings()
}

// ToSettings converts the document, applying defaults and validating it.
func (doc SettingsJSON) ToSettings() (pto.UserSettings, error) {
	s := pto.DefaultSettings()
	s.CurrentPTO = doc.CurrentPTO
	s.AccrualRate = doc.AccrualRate
	s.AnnualAllowance = doc.AnnualAllowance

	if strings.TrimSpace(doc.PayPeriod) != "" {
		period, err := generic.ParsePayPeriod(doc.PayPeriod)
		if err != nil {
			return pto.UserSettings{}, &generic.SettingsError{Field: "payPeriod", Message: err.Error()}
		}
		s.PayPeriod = period
	}

	if doc.PaydayOfWeek != nil {
		if *doc.PaydayOfWeek < 0 || *doc.PaydayOfWeek > 6 {
			return pto.UserSettings{}, &generic.SettingsError{Field: "paydayOfWeek", Message: fmt.Sprintf("%d is not a weekday (0-6)", *doc.PaydayOfWeek)}
		}
		wd := time.Weekday(*doc.PaydayOfWeek)
		s.PaydayOfWeek = &wd
	}

	if doc.LastAccrualUpdateDate != "" {
		d, err := generic.ParseLocalDate(doc.LastAccrualUpdateDate)
		if err != nil {
			return pto.UserSettings{}, &generic.SettingsError{Field: "lastAccrualUpdateDate", Message: err.Error()}
		}
		s.LastAccrualUpdateDate = &d
	}
	if doc.LastKnownPTOBalance != nil {
		b := *doc.LastKnownPTOBalance
		s.LastKnownPTOBalance = &b
	}

	for i, vj := range doc.Vacations {
		v, err := vj.ToEntry()
		if err != nil {
			return pto.UserSettings{}, fmt.Errorf("vacation %d: %w", i, err)
		}
		s.Vacations = append(s.Vacations, v)
	}

	if err := s.Validate(); err != nil {
		return pto.UserSettings{}, err
	}
	return s, nil
}

// ToEntry converts one vacation, filling in the id and hours when missing.
func (vj VacationJSON) ToEntry() (pto.VacationEntry, error) {
	start, err := generic.ParseLocalDate(vj.StartDate)
	if err != nil {
		return pto.VacationEntry{}, err
	}
	end, err := generic.ParseLocalDate(vj.EndDate)
	if err != nil {
		return pto.VacationEntry{}, err
	}
	if end.Before(start) {
		return pto.VacationEntry{}, fmt.Errorf("%w: %s to %s", generic.ErrEndBeforeStart, vj.StartDate, vj.EndDate)
	}

	v := pto.VacationEntry{
		ID:              vj.ID,
		StartDate:       start,
		EndDate:         end,
		IncludeWeekends: vj.IncludeWeekends,
		Description:     vj.Description,
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if vj.TotalHours != nil {
		v.TotalHours = *vj.TotalHours
	} else {
		v.TotalHours = pto.VacationHoursBetween(start, end, vj.IncludeWeekends)
	}
	if v.CreatedAt, err = parseTimestamp(vj.CreatedAt); err != nil {
		return pto.VacationEntry{}, err
	}
	if v.UpdatedAt, err = parseTimestamp(vj.UpdatedAt); err != nil {
		return pto.VacationEntry{}, err
	}
	return v, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &generic.SettingsError{Field: "vacations", Message: "bad timestamp " + s}
	}
	return t, nil
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// FromSettings converts settings to their JSON document.
func FromSettings(s pto.UserSettings) SettingsJSON {
	doc := SettingsJSON{
		CurrentPTO:      s.CurrentPTO,
		AccrualRate:     s.AccrualRate,
		PayPeriod:       string(s.PayPeriod),
		AnnualAllowance: s.AnnualAllowance,
		Vacations:       make([]VacationJSON, 0, len(s.Vacations)),
	}
	if s.PaydayOfWeek != nil {
		wd := int(*s.PaydayOfWeek)
		doc.PaydayOfWeek = &wd
	}
	if s.LastAccrualUpdateDate != nil {
		doc.LastAccrualUpdateDate = s.LastAccrualUpdateDate.String()
	}
	if s.LastKnownPTOBalance != nil {
		b := *s.LastKnownPTOBalance
		doc.LastKnownPTOBalance = &b
	}
	for _, v := range s.Vacations {
		doc.Vacations = append(doc.Vacations, FromEntry(v))
	}
	return doc
}

// FromEntry converts a vacation entry to JSON.
func FromEntry(v pto.VacationEntry) VacationJSON {
	hours := v.TotalHours
	return VacationJSON{
		ID:              v.ID,
		StartDate:       v.StartDate.String(),
		EndDate:         v.EndDate.String(),
		TotalHours:      &hours,
		IncludeWeekends: v.IncludeWeekends,
		Description:     v.Description,
		CreatedAt:       formatTimestamp(v.CreatedAt),
		UpdatedAt:       formatTimestamp(v.UpdatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// MarshalSettings renders settings as an indented JSON document.
func MarshalSettings(s pto.UserSettings) ([]byte, error) {
	return json.MarshalIndent(FromSettings(s), "", "  ")
}
