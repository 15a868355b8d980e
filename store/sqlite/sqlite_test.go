package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/pto"
	"github.com/warp/pto-planner/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func vacation(id, start, end string, hours float64) pto.VacationEntry {
	created := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	return pto.VacationEntry{
		ID:          id,
		StartDate:   generic.MustParseDate(start),
		EndDate:     generic.MustParseDate(end),
		TotalHours:  hours,
		Description: "trip " + id,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestStore_LoadEmptyReturnsDefaults(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pto.DefaultSettings(), got)
}

func TestStore_ReplaceAndLoad(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	wd := time.Wednesday
	last := generic.NewDate(2024, time.June, 1)
	known := 40.5

	in := pto.UserSettings{
		CurrentPTO:            40.5,
		AccrualRate:           6.15,
		PayPeriod:             generic.PayWeekly,
		PaydayOfWeek:          &wd,
		AnnualAllowance:       160,
		Vacations:             []pto.VacationEntry{vacation("b", "2024-08-05", "2024-08-09", 40), vacation("a", "2024-07-01", "2024-07-01", 8)},
		LastAccrualUpdateDate: &last,
		LastKnownPTOBalance:   &known,
	}
	require.NoError(t, store.Replace(ctx, in))

	got, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 40.5, got.CurrentPTO)
	assert.Equal(t, generic.PayWeekly, got.PayPeriod)
	require.NotNil(t, got.PaydayOfWeek)
	assert.Equal(t, time.Wednesday, *got.PaydayOfWeek)
	assert.True(t, got.LastAccrualUpdateDate.Equal(last))
	assert.Equal(t, 40.5, *got.LastKnownPTOBalance)

	// Insertion order, not date order
	require.Len(t, got.Vacations, 2)
	assert.Equal(t, "b", got.Vacations[0].ID)
	assert.Equal(t, "2024-08-09", got.Vacations[0].EndDate.String())
	assert.True(t, in.Vacations[0].CreatedAt.Equal(got.Vacations[0].CreatedAt))
}

func TestStore_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SaveVacation(ctx, vacation("a", "2024-07-01", "2024-07-01", 8)))

	bal := 22.0
	period := generic.PayMonthly
	got, err := store.Update(ctx, pto.SettingsPatch{CurrentPTO: &bal, PayPeriod: &period})
	require.NoError(t, err)
	assert.Equal(t, 22.0, got.CurrentPTO)
	assert.Len(t, got.Vacations, 1)

	loaded, _ := store.Load(ctx)
	assert.Equal(t, generic.PayMonthly, loaded.PayPeriod)
	assert.Len(t, loaded.Vacations, 1)
}

func TestStore_UpdateInvalidRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	neg := -3.0

	_, err := store.Update(ctx, pto.SettingsPatch{AccrualRate: &neg})
	assert.ErrorIs(t, err, generic.ErrInvalidSettings)

	got, _ := store.Load(ctx)
	assert.Equal(t, 0.0, got.AccrualRate)
}

func TestStore_UpdateVacationsReplacesList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SaveVacation(ctx, vacation("a", "2024-07-01", "2024-07-01", 8)))

	list := []pto.VacationEntry{vacation("c", "2024-09-02", "2024-09-03", 16)}
	_, err := store.Update(ctx, pto.SettingsPatch{Vacations: &list})
	require.NoError(t, err)

	got, _ := store.Load(ctx)
	require.Len(t, got.Vacations, 1)
	assert.Equal(t, "c", got.Vacations[0].ID)
}

// =============================================================================
// VACATION TESTS
// =============================================================================

func TestStore_SaveVacationUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SaveVacation(ctx, vacation("a", "2024-07-01", "2024-07-01", 8)))
	require.NoError(t, store.SaveVacation(ctx, vacation("b", "2024-08-01", "2024-08-01", 8)))

	edited := vacation("a", "2024-07-01", "2024-07-03", 24)
	edited.IncludeWeekends = true
	require.NoError(t, store.SaveVacation(ctx, edited))

	got, _ := store.Load(ctx)
	require.Len(t, got.Vacations, 2)
	assert.Equal(t, "a", got.Vacations[0].ID) // keeps its position
	assert.Equal(t, 24.0, got.Vacations[0].TotalHours)
	assert.True(t, got.Vacations[0].IncludeWeekends)
}

func TestStore_SaveVacationRejectsBadEntries(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	assert.ErrorIs(t, store.SaveVacation(ctx, vacation("", "2024-07-01", "2024-07-01", 8)), generic.ErrInvalidSettings)
	assert.ErrorIs(t, store.SaveVacation(ctx, vacation("x", "2024-07-05", "2024-07-01", 8)), generic.ErrEndBeforeStart)
}

func TestStore_DeleteVacation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SaveVacation(ctx, vacation("a", "2024-07-01", "2024-07-01", 8)))

	require.NoError(t, store.DeleteVacation(ctx, "a"))
	assert.ErrorIs(t, store.DeleteVacation(ctx, "a"), generic.ErrVacationNotFound)

	got, _ := store.Load(ctx)
	assert.Empty(t, got.Vacations)
}

// =============================================================================
// FILE DATABASE TESTS
// =============================================================================

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pto.db")

	first, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, first.SaveVacation(ctx, vacation("a", "2024-07-01", "2024-07-01", 8)))
	require.NoError(t, first.Close())

	second, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	require.NoError(t, second.Ping(ctx))
	got, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Vacations, 1)
	assert.Equal(t, path, second.Path())
}

func TestStore_WorksWithPlanner(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	clock := pto.FixedClock{At: time.Date(2024, time.June, 1, 10, 0, 0, 0, time.Local)}
	planner := pto.NewPlanner(store, clock, nil)

	rate := 8.0
	_, err := planner.UpdateSettings(ctx, pto.SettingsPatch{AccrualRate: &rate})
	require.NoError(t, err)

	saved, err := planner.SaveVacation(ctx, pto.VacationInput{StartDate: "2024-06-24", EndDate: "2024-06-28"}, "")
	require.NoError(t, err)
	assert.True(t, saved.Check.Simulation.HasWarnings) // 16h by Jun 24 vs 40h needed

	got, _ := store.Load(ctx)
	require.Len(t, got.Vacations, 1)
	assert.Equal(t, saved.Entry.ID, got.Vacations[0].ID)
}
