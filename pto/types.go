// Package pto implements the PTO accrual and projection engine.
// It composes generic dates, schedules and hours into balance projections,
// chronological vacation simulations and vacation request validation.
package pto

import (
	"context"
	"sort"
	"time"

	"github.com/warp/pto-planner/generic"
)

// =============================================================================
// USER SETTINGS - Snapshot owned by the host application
// =============================================================================

// UserSettings is an immutable snapshot of everything the engine needs.
// Core functions read it and return new values; they never modify it.
type UserSettings struct {
	CurrentPTO      float64           // hours, last known balance
	AccrualRate     float64           // hours earned per pay period
	PayPeriod       generic.PayPeriod // weekly, biweekly, semimonthly, monthly
	PaydayOfWeek    *time.Weekday     // weekly/biweekly only; nil means Friday
	AnnualAllowance float64           // informational, never enforced
	Vacations       []VacationEntry

	// Bookkeeping for the auto-accrual updater
	LastAccrualUpdateDate *generic.Date
	LastKnownPTOBalance   *float64
}

// Schedule returns the pay schedule described by the settings.
func (s UserSettings) Schedule() generic.PaySchedule {
	return generic.PaySchedule{Period: s.PayPeriod, PaydayOfWeek: s.PaydayOfWeek}
}

// Vacation returns the vacation with the given id.
func (s UserSettings) Vacation(id string) (VacationEntry, bool) {
	for _, v := range s.Vacations {
		if v.ID == id {
			return v, true
		}
	}
	return VacationEntry{}, false
}

// VacationsExcept returns a copy of the vacation list without the given id.
func (s UserSettings) VacationsExcept(id string) []VacationEntry {
	out := make([]VacationEntry, 0, len(s.Vacations))
	for _, v := range s.Vacations {
		if id != "" && v.ID == id {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Clone returns a deep copy so callers can derive new snapshots safely.
func (s UserSettings) Clone() UserSettings {
	c := s
	c.Vacations = append([]VacationEntry(nil), s.Vacations...)
	if s.PaydayOfWeek != nil {
		wd := *s.PaydayOfWeek
		c.PaydayOfWeek = &wd
	}
	if s.LastAccrualUpdateDate != nil {
		d := *s.LastAccrualUpdateDate
		c.LastAccrualUpdateDate = &d
	}
	if s.LastKnownPTOBalance != nil {
		b := *s.LastKnownPTOBalance
		c.LastKnownPTOBalance = &b
	}
	return c
}

// DefaultSettings returns the settings a new user starts with.
func DefaultSettings() UserSettings {
	return UserSettings{
		PayPeriod: generic.PayBiweekly,
		Vacations: []VacationEntry{},
	}
}

// =============================================================================
// VACATION ENTRY
// =============================================================================

// VacationEntry is one planned vacation. TotalHours is precomputed from the
// date range and the weekend flag (8 hours per counted day).
type VacationEntry struct {
	ID              string
	StartDate       generic.Date
	EndDate         generic.Date
	TotalHours      float64
	IncludeWeekends bool
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Range returns the inclusive date range of the vacation.
func (v VacationEntry) Range() generic.DateRange {
	return generic.DateRange{Start: v.StartDate, End: v.EndDate}
}

// Covers reports whether the vacation includes the given day.
func (v VacationEntry) Covers(d generic.Date) bool {
	return v.Range().Contains(d)
}

// SortByStart returns a copy of the vacations sorted ascending by start date.
// Entries starting on the same day keep their relative order.
func SortByStart(vacations []VacationEntry) []VacationEntry {
	sorted := append([]VacationEntry(nil), vacations...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	return sorted
}

// =============================================================================
// SETTINGS PATCH - Partial update accepted by stores
// =============================================================================

// SettingsPatch carries the fields to change; nil fields are left untouched.
type SettingsPatch struct {
	CurrentPTO            *float64
	AccrualRate           *float64
	PayPeriod             *generic.PayPeriod
	PaydayOfWeek          *time.Weekday
	ClearPaydayOfWeek     bool
	AnnualAllowance       *float64
	Vacations             *[]VacationEntry
	LastAccrualUpdateDate *generic.Date
	LastKnownPTOBalance   *float64
}

// Apply returns a new snapshot with the patch applied.
func (p SettingsPatch) Apply(s UserSettings) UserSettings {
	out := s.Clone()
	if p.CurrentPTO != nil {
		out.CurrentPTO = *p.CurrentPTO
	}
	if p.AccrualRate != nil {
		out.AccrualRate = *p.AccrualRate
	}
	if p.PayPeriod != nil {
		out.PayPeriod = *p.PayPeriod
	}
	if p.ClearPaydayOfWeek {
		out.PaydayOfWeek = nil
	}
	if p.PaydayOfWeek != nil {
		wd := *p.PaydayOfWeek
		out.PaydayOfWeek = &wd
	}
	if p.AnnualAllowance != nil {
		out.AnnualAllowance = *p.AnnualAllowance
	}
	if p.Vacations != nil {
		out.Vacations = append([]VacationEntry(nil), (*p.Vacations)...)
	}
	if p.LastAccrualUpdateDate != nil {
		d := *p.LastAccrualUpdateDate
		out.LastAccrualUpdateDate = &d
	}
	if p.LastKnownPTOBalance != nil {
		b := *p.LastKnownPTOBalance
		out.LastKnownPTOBalance = &b
	}
	return out
}

// Validate checks the invariants a snapshot must satisfy before it is stored.
func (s UserSettings) Validate() error {
	if s.CurrentPTO < 0 {
		return &generic.SettingsError{Field: "currentPTO", Message: "must not be negative"}
	}
	if s.AccrualRate < 0 {
		return &generic.SettingsError{Field: "accrualRate", Message: "must not be negative"}
	}
	if s.AnnualAllowance < 0 {
		return &generic.SettingsError{Field: "annualAllowance", Message: "must not be negative"}
	}
	if !s.PayPeriod.Valid() {
		return &generic.SettingsError{Field: "payPeriod", Message: "must be weekly, biweekly, semimonthly or monthly"}
	}
	if s.PaydayOfWeek != nil && (*s.PaydayOfWeek < time.Sunday || *s.PaydayOfWeek > time.Saturday) {
		return &generic.SettingsError{Field: "paydayOfWeek", Message: "must be between 0 (Sunday) and 6 (Saturday)"}
	}
	seen := make(map[string]bool, len(s.Vacations))
	for _, v := range s.Vacations {
		if v.ID == "" {
			return &generic.SettingsError{Field: "vacations", Message: "entry without id"}
		}
		if seen[v.ID] {
			return &generic.SettingsError{Field: "vacations", Message: "duplicate id " + v.ID}
		}
		seen[v.ID] = true
		if v.EndDate.Before(v.StartDate) {
			return &generic.SettingsError{Field: "vacations", Message: "entry " + v.ID + " ends before it starts"}
		}
	}
	return nil
}

// =============================================================================
// COLLABORATORS
// =============================================================================

// SettingsStore persists the single user's settings.
// Implementations: store/sqlite, store/memory.
type SettingsStore interface {
	// Load returns the stored settings, or DefaultSettings when none exist.
	Load(ctx context.Context) (UserSettings, error)

	// Update applies a partial update atomically and returns the result.
	Update(ctx context.Context, patch SettingsPatch) (UserSettings, error)

	// Replace overwrites the whole snapshot (import, scenario load).
	Replace(ctx context.Context, settings UserSettings) error

	// SaveVacation inserts or replaces the vacation with the entry's id.
	SaveVacation(ctx context.Context, v VacationEntry) error

	// DeleteVacation removes a vacation; generic.ErrVacationNotFound if absent.
	DeleteVacation(ctx context.Context, id string) error
}

// Clock abstracts "today" so services are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

func today(c Clock) generic.Date {
	if c == nil {
		return generic.Today()
	}
	return generic.DateOf(c.Now())
}
