// Package memory provides an in-memory pto.SettingsStore.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/pto"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu       sync.RWMutex
	settings pto.UserSettings
}

// New returns a store holding pto.DefaultSettings.
func New() *Store {
	return &Store{settings: pto.DefaultSettings()}
}

// NewWithSettings returns a store seeded with a snapshot.
func NewWithSettings(s pto.UserSettings) *Store {
	return &Store{settings: s.Clone()}
}

// Load returns a copy of the stored snapshot.
func (m *Store) Load(_ context.Context) (pto.UserSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.Clone(), nil
}

// Update applies the patch under the write lock.
func (m *Store) Update(_ context.Context, patch pto.SettingsPatch) (pto.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := patch.Apply(m.settings)
	if err := next.Validate(); err != nil {
		return pto.UserSettings{}, err
	}
	m.settings = next
	return next.Clone(), nil
}

// Replace overwrites the snapshot.
func (m *Store) Replace(_ context.Context, s pto.UserSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s.Clone()
	return nil
}

// SaveVacation inserts the entry, or replaces the one with the same id in place.
func (m *Store) SaveVacation(_ context.Context, v pto.VacationEntry) error {
	if v.ID == "" {
		return &generic.SettingsError{Field: "vacations", Message: "entry without id"}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	vacations := append([]pto.VacationEntry(nil), m.settings.Vacations...)
	for i := range vacations {
		if vacations[i].ID == v.ID {
			vacations[i] = v
			m.settings.Vacations = vacations
			return nil
		}
	}
	m.settings.Vacations = append(vacations, v)
	return nil
}

// DeleteVacation removes the entry with the given id.
func (m *Store) DeleteVacation(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, v := range m.settings.Vacations {
		if v.ID == id {
			vacations := make([]pto.VacationEntry, 0, len(m.settings.Vacations)-1)
			vacations = append(vacations, m.settings.Vacations[:i]...)
			vacations = append(vacations, m.settings.Vacations[i+1:]...)
			m.settings.Vacations = vacations
			return nil
		}
	}
	return fmt.Errorf("%w: %s", generic.ErrVacationNotFound, id)
}

var _ pto.SettingsStore = (*Store)(nil)
