package pto

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/warp/pto-planner/generic"
)

// =============================================================================
// PLANNER - Host-side operations over the settings store
// =============================================================================

// Planner wires the pure engine to a settings store. Every read takes a fresh
// snapshot; every write goes through the store.
type Planner struct {
	Store  SettingsStore
	Clock  Clock
	Logger *log.Logger
}

// NewPlanner creates a planner; nil clock/logger get defaults.
func NewPlanner(store SettingsStore, clock Clock, logger *log.Logger) *Planner {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Planner{Store: store, Clock: clock, Logger: logger}
}

// Today returns the planner's current date.
func (p *Planner) Today() generic.Date { return today(p.Clock) }

// Settings returns the current snapshot.
func (p *Planner) Settings(ctx context.Context) (UserSettings, error) {
	return p.Store.Load(ctx)
}

// UpdateSettings validates and persists a partial update. Setting the
// balance by hand restarts accrual tracking from today.
func (p *Planner) UpdateSettings(ctx context.Context, patch SettingsPatch) (UserSettings, error) {
	current, err := p.Store.Load(ctx)
	if err != nil {
		return UserSettings{}, err
	}
	if patch.CurrentPTO != nil {
		now := p.Today()
		balance := *patch.CurrentPTO
		patch.LastAccrualUpdateDate = &now
		patch.LastKnownPTOBalance = &balance
	}
	if err := patch.Apply(current).Validate(); err != nil {
		return UserSettings{}, err
	}
	return p.Store.Update(ctx, patch)
}

// ReplaceSettings validates and stores a whole snapshot.
func (p *Planner) ReplaceSettings(ctx context.Context, settings UserSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return p.Store.Replace(ctx, settings)
}

// =============================================================================
// READ MODELS
// =============================================================================

// Summary is the home page view.
type Summary struct {
	Today             generic.Date
	CurrentPTO        float64
	AnnualAllowance   float64
	LastPayday        generic.Date
	NextPayday        generic.Date
	EndOfYear         Projection
	UpcomingVacations []VacationEntry
	Simulation        SimulationResult
}

// Summary builds the home page view for today.
func (p *Planner) Summary(ctx context.Context) (Summary, error) {
	settings, err := p.Store.Load(ctx)
	if err != nil {
		return Summary{}, err
	}
	now := p.Today()
	schedule := settings.Schedule()

	var upcoming []VacationEntry
	for _, v := range SortByStart(settings.Vacations) {
		if v.StartDate.AfterOrEqual(now) {
			upcoming = append(upcoming, v)
		}
	}

	return Summary{
		Today:             now,
		CurrentPTO:        settings.CurrentPTO,
		AnnualAllowance:   settings.AnnualAllowance,
		LastPayday:        schedule.LastPayday(now, now),
		NextPayday:        schedule.NextPayday(now),
		EndOfYear:         settings.ProjectTo(generic.EndOfYear(now.Year()), now),
		UpcomingVacations: upcoming,
		Simulation:        SimulateVacations(settings, settings.Vacations, now),
	}, nil
}

// Project projects the stored balance to target.
func (p *Planner) Project(ctx context.Context, target generic.Date) (Projection, error) {
	settings, err := p.Store.Load(ctx)
	if err != nil {
		return Projection{}, err
	}
	return settings.ProjectTo(target, p.Today()), nil
}

// Calendar builds one calendar month.
func (p *Planner) Calendar(ctx context.Context, year int, month time.Month) (CalendarMonth, error) {
	if month < time.January || month > time.December {
		return CalendarMonth{}, fmt.Errorf("%w: month %d", generic.ErrInvalidDate, month)
	}
	settings, err := p.Store.Load(ctx)
	if err != nil {
		return CalendarMonth{}, err
	}
	return BuildCalendarMonth(settings, year, month, p.Today()), nil
}

// =============================================================================
// VACATION CRUD
// =============================================================================

// VacationCheck bundles both pre-save checks.
type VacationCheck struct {
	Validation ValidationResult
	Simulation SimulationResult
}

// CheckVacation runs the validator and the simulator without saving.
func (p *Planner) CheckVacation(ctx context.Context, in VacationInput, editingID string) (VacationCheck, error) {
	settings, err := p.Store.Load(ctx)
	if err != nil {
		return VacationCheck{}, err
	}
	now := p.Today()

	check := VacationCheck{
		Validation: ValidateVacationRequest(VacationRequest{
			StartDate:       in.StartDate,
			EndDate:         in.EndDate,
			IncludeWeekends: in.IncludeWeekends,
			EditingID:       editingID,
		}, settings, now),
	}
	if check.Validation.MessageType == MessageError {
		return check, nil
	}

	candidate, err := NewVacationEntry(in, p.Clock.Now())
	if err != nil {
		return check, nil
	}
	if editingID != "" {
		candidate.ID = editingID
	}
	check.Simulation = SimulateAcrossVacations(settings, candidate, editingID, now)
	return check, nil
}

// SavedVacation is the stored entry plus the checks computed before saving.
type SavedVacation struct {
	Entry VacationEntry
	Check VacationCheck
}

// SaveVacation creates a vacation, or replaces the one with editingID.
// Shortfalls do not block the save; they are returned for display.
func (p *Planner) SaveVacation(ctx context.Context, in VacationInput, editingID string) (SavedVacation, error) {
	settings, err := p.Store.Load(ctx)
	if err != nil {
		return SavedVacation{}, err
	}
	now := p.Clock.Now()

	var entry VacationEntry
	if editingID != "" {
		existing, ok := settings.Vacation(editingID)
		if !ok {
			return SavedVacation{}, fmt.Errorf("%w: %s", generic.ErrVacationNotFound, editingID)
		}
		entry, err = existing.Edit(in, now)
	} else {
		entry, err = NewVacationEntry(in, now)
	}
	if err != nil {
		return SavedVacation{}, err
	}

	today := generic.DateOf(now)
	check := VacationCheck{
		Validation: ValidateVacationRequest(VacationRequest{
			StartDate:       in.StartDate,
			EndDate:         in.EndDate,
			IncludeWeekends: in.IncludeWeekends,
			EditingID:       editingID,
		}, settings, today),
		Simulation: SimulateAcrossVacations(settings, entry, editingID, today),
	}

	if err := p.Store.SaveVacation(ctx, entry); err != nil {
		return SavedVacation{}, fmt.Errorf("saving vacation: %w", err)
	}

	p.Logger.Info("vacation saved", "id", entry.ID, "start", entry.StartDate, "end", entry.EndDate, "hours", entry.TotalHours)
	for _, w := range check.Simulation.Warnings {
		p.Logger.Warn("vacation underfunded", "id", w.VacationID, "shortfall", w.ShortfallHours)
	}

	return SavedVacation{Entry: entry, Check: check}, nil
}

// DeleteVacation removes a vacation by id.
func (p *Planner) DeleteVacation(ctx context.Context, id string) error {
	if err := p.Store.DeleteVacation(ctx, id); err != nil {
		return err
	}
	p.Logger.Info("vacation deleted", "id", id)
	return nil
}
