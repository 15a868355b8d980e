/*
autoaccrual.go - Brings the stored balance up to date

PURPOSE:
  The user enters a balance once; afterwards paydays keep crediting hours
  and vacations keep consuming them. AccrualService.Refresh replays the
  elapsed days since LastAccrualUpdateDate and persists the new balance.

TRIGGERS:
  - api.AccrualScheduler on start-up and on every tick
  - POST /api/accrual/refresh when the UI regains focus

PERSISTENCE RULES:
  - LastAccrualUpdateDate == today      -> nothing to do
  - LastAccrualUpdateDate unset         -> stamp today, balance untouched
  - balance moved by more than 0.01 h   -> persist balance, last known
                                           balance and date
  - otherwise                           -> persist only the date

CONCURRENCY:
  Refresh is a read-modify-write on the store. Calls are serialized with a
  mutex so two triggers firing together cannot both apply the same days.
*/
package pto

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/warp/pto-planner/generic"
)

// minBalanceChange is the smallest change worth persisting.
const minBalanceChange = 0.01

// AccrualService applies elapsed accrual to the stored settings.
type AccrualService struct {
	Store  SettingsStore
	Clock  Clock
	Logger *log.Logger

	mu sync.Mutex
}

// RefreshResult reports what a refresh did.
type RefreshResult struct {
	Skipped  bool // already up to date for today
	Changed  bool // balance persisted
	Update   BalanceUpdate
	Settings UserSettings
}

// NewAccrualService creates a service; a nil logger uses log.Default().
func NewAccrualService(store SettingsStore, clock Clock, logger *log.Logger) *AccrualService {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &AccrualService{Store: store, Clock: clock, Logger: logger}
}

// Refresh brings the stored balance up to today.
func (s *AccrualService) Refresh(ctx context.Context) (RefreshResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := today(s.Clock)
	settings, err := s.Store.Load(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("loading settings: %w", err)
	}

	last := settings.LastAccrualUpdateDate
	if last != nil && last.Equal(now) {
		return RefreshResult{Skipped: true, Settings: settings, Update: BalanceUpdate{NewBalance: settings.CurrentPTO}}, nil
	}

	if last == nil {
		balance := settings.CurrentPTO
		updated, err := s.Store.Update(ctx, SettingsPatch{LastAccrualUpdateDate: &now, LastKnownPTOBalance: &balance})
		if err != nil {
			return RefreshResult{}, fmt.Errorf("stamping accrual date: %w", err)
		}
		s.Logger.Info("accrual tracking started", "date", now, "balance", balance)
		return RefreshResult{Settings: updated, Update: BalanceUpdate{NewBalance: balance}}, nil
	}

	base := settings.CurrentPTO
	if settings.LastKnownPTOBalance != nil {
		base = *settings.LastKnownPTOBalance
	}

	update := UpdateBalanceForElapsedTime(base, *last, now, settings.AccrualRate, settings.Schedule(), settings.Vacations)

	patch := SettingsPatch{LastAccrualUpdateDate: &now}
	changed := math.Abs(update.NewBalance-base) > minBalanceChange
	if changed {
		patch.CurrentPTO = &update.NewBalance
		patch.LastKnownPTOBalance = &update.NewBalance
	}

	updated, err := s.Store.Update(ctx, patch)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("persisting accrual: %w", err)
	}

	if changed {
		s.Logger.Info("balance updated for elapsed time",
			"from", *last, "to", now,
			"accrued", update.AccruedHours, "vacation_hours", update.VacationHoursUsed,
			"balance", update.NewBalance)
	} else {
		s.Logger.Debug("no balance change", "from", *last, "to", now)
	}

	return RefreshResult{Changed: changed, Update: update, Settings: updated}, nil
}

// Today returns the service's current date.
func (s *AccrualService) Today() generic.Date {
	return today(s.Clock)
}
