/*
Package sqlite provides a SQLite-backed pto.SettingsStore.

PURPOSE:
  Persists the single user's settings and vacations in a local SQLite file,
  replacing the browser's local storage when the planner runs as a service.

KEY TABLES:
  settings:  exactly one row (id = 1) with the scalar settings
  vacations: one row per vacation; position keeps the user's insertion order

FORMATS:
  - Dates (start_date, end_date, last_accrual_update_date): "YYYY-MM-DD"
    local calendar dates, so they sort and compare as text
  - Timestamps (created_at, updated_at): RFC 3339 in UTC
  - Hours: REAL, always already rounded to 2 decimal places by the engine

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, and Update runs its read-modify-write
  inside one transaction. The pool is limited to one connection, which also
  keeps ":memory:" databases alive across calls.

MIGRATION:
  The schema is versioned with golang-migrate (see migrations/) and applied
  by New().

USAGE:
  store, err := sqlite.New("./pto.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  planner := pto.NewPlanner(store, pto.RealClock{}, logger)

SEE ALSO:
  - pto/types.go: SettingsStore interface
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/pto"
	"github.com/warp/pto-planner/store/sqlite/migrations"
)

// Store implements pto.SettingsStore using SQLite.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path given to New.
func (s *Store) Path() string { return s.path }

// Ping checks the connection and the schema version.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	return migrations.CheckStatus(s.db)
}

// =============================================================================
// SETTINGS STORE
// =============================================================================

// Load returns the stored settings, or pto.DefaultSettings when none exist.
func (s *Store) Load(ctx context.Context) (pto.UserSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return load(ctx, s.db)
}

// Update applies the patch in a transaction and returns the stored result.
func (s *Store) Update(ctx context.Context, patch pto.SettingsPatch) (pto.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out pto.UserSettings
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		current, err := load(ctx, tx)
		if err != nil {
			return err
		}
		next := patch.Apply(current)
		if err := next.Validate(); err != nil {
			return err
		}
		if err := saveSettingsRow(ctx, tx, next); err != nil {
			return err
		}
		if patch.Vacations != nil {
			if err := replaceVacations(ctx, tx, next.Vacations); err != nil {
				return err
			}
		}
		out = next
		return nil
	})
	return out, err
}

// Replace overwrites settings and vacations.
func (s *Store) Replace(ctx context.Context, settings pto.UserSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := saveSettingsRow(ctx, tx, settings); err != nil {
			return err
		}
		return replaceVacations(ctx, tx, settings.Vacations)
	})
}

// SaveVacation inserts the entry, or updates the row with the same id in place.
func (s *Store) SaveVacation(ctx context.Context, v pto.VacationEntry) error {
	if v.ID == "" {
		return &generic.SettingsError{Field: "vacations", Message: "entry without id"}
	}
	if v.EndDate.Before(v.StartDate) {
		return fmt.Errorf("%w: %s", generic.ErrEndBeforeStart, v.Range())
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := ensureSettingsRow(ctx, tx); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE vacations
			SET start_date = ?, end_date = ?, total_hours = ?, include_weekends = ?,
			    description = ?, created_at = ?, updated_at = ?
			WHERE id = ?`,
			v.StartDate.String(), v.EndDate.String(), v.TotalHours, v.IncludeWeekends,
			v.Description, formatTime(v.CreatedAt), formatTime(v.UpdatedAt), v.ID)
		if err != nil {
			return fmt.Errorf("failed to update vacation: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}

		var next int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM vacations`).Scan(&next); err != nil {
			return fmt.Errorf("failed to read vacation position: %w", err)
		}
		return insertVacation(ctx, tx, v, next)
	})
}

// DeleteVacation removes a vacation by id.
func (s *Store) DeleteVacation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM vacations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vacation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", generic.ErrVacationNotFound, id)
	}
	return nil
}

// =============================================================================
// ROW MAPPING
// =============================================================================

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func load(ctx context.Context, q querier) (pto.UserSettings, error) {
	settings := pto.DefaultSettings()

	var (
		period     string
		payday     sql.NullInt64
		lastUpdate sql.NullString
		lastKnown  sql.NullFloat64
	)
	err := q.QueryRowContext(ctx, `
		SELECT current_pto, accrual_rate, pay_period, payday_of_week, annual_allowance,
		       last_accrual_update_date, last_known_pto_balance
		FROM settings WHERE id = 1`).Scan(
		&settings.CurrentPTO, &settings.AccrualRate, &period, &payday, &settings.AnnualAllowance,
		&lastUpdate, &lastKnown)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, nil
	}
	if err != nil {
		return pto.UserSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	settings.PayPeriod = generic.PayPeriod(period)
	if payday.Valid {
		wd := time.Weekday(payday.Int64)
		settings.PaydayOfWeek = &wd
	}
	if lastUpdate.Valid {
		d, err := generic.ParseLocalDate(lastUpdate.String)
		if err != nil {
			return pto.UserSettings{}, fmt.Errorf("corrupt last_accrual_update_date: %w", err)
		}
		settings.LastAccrualUpdateDate = &d
	}
	if lastKnown.Valid {
		b := lastKnown.Float64
		settings.LastKnownPTOBalance = &b
	}

	vacations, err := loadVacations(ctx, q)
	if err != nil {
		return pto.UserSettings{}, err
	}
	settings.Vacations = vacations
	return settings, nil
}

func loadVacations(ctx context.Context, q querier) ([]pto.VacationEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, start_date, end_date, total_hours, include_weekends, description, created_at, updated_at
		FROM vacations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vacations: %w", err)
	}
	defer rows.Close()

	vacations := []pto.VacationEntry{}
	for rows.Next() {
		var (
			v                pto.VacationEntry
			start, end       string
			created, updated sql.NullString
		)
		if err := rows.Scan(&v.ID, &start, &end, &v.TotalHours, &v.IncludeWeekends, &v.Description, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan vacation: %w", err)
		}
		if v.StartDate, err = generic.ParseLocalDate(start); err != nil {
			return nil, fmt.Errorf("corrupt vacation %s: %w", v.ID, err)
		}
		if v.EndDate, err = generic.ParseLocalDate(end); err != nil {
			return nil, fmt.Errorf("corrupt vacation %s: %w", v.ID, err)
		}
		v.CreatedAt = parseTime(created)
		v.UpdatedAt = parseTime(updated)
		vacations = append(vacations, v)
	}
	return vacations, rows.Err()
}

func saveSettingsRow(ctx context.Context, q querier, s pto.UserSettings) error {
	var payday, lastUpdate, lastKnown any
	if s.PaydayOfWeek != nil {
		payday = int(*s.PaydayOfWeek)
	}
	if s.LastAccrualUpdateDate != nil {
		lastUpdate = s.LastAccrualUpdateDate.String()
	}
	if s.LastKnownPTOBalance != nil {
		lastKnown = *s.LastKnownPTOBalance
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO settings (id, current_pto, accrual_rate, pay_period, payday_of_week, annual_allowance,
		                      last_accrual_update_date, last_known_pto_balance, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_pto = excluded.current_pto,
			accrual_rate = excluded.accrual_rate,
			pay_period = excluded.pay_period,
			payday_of_week = excluded.payday_of_week,
			annual_allowance = excluded.annual_allowance,
			last_accrual_update_date = excluded.last_accrual_update_date,
			last_known_pto_balance = excluded.last_known_pto_balance,
			updated_at = excluded.updated_at`,
		s.CurrentPTO, s.AccrualRate, string(s.PayPeriod), payday, s.AnnualAllowance,
		lastUpdate, lastKnown, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// ensureSettingsRow creates the default row so vacations never exist without settings.
func ensureSettingsRow(ctx context.Context, q querier) error {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM settings`).Scan(&n); err != nil {
		return fmt.Errorf("failed to check settings: %w", err)
	}
	if n > 0 {
		return nil
	}
	return saveSettingsRow(ctx, q, pto.DefaultSettings())
}

func replaceVacations(ctx context.Context, q querier, vacations []pto.VacationEntry) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM vacations`); err != nil {
		return fmt.Errorf("failed to clear vacations: %w", err)
	}
	for i, v := range vacations {
		if err := insertVacation(ctx, q, v, i); err != nil {
			return err
		}
	}
	return nil
}

func insertVacation(ctx context.Context, q querier, v pto.VacationEntry, position int) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO vacations (id, position, start_date, end_date, total_hours, include_weekends, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, position, v.StartDate.String(), v.EndDate.String(), v.TotalHours, v.IncludeWeekends,
		v.Description, formatTime(v.CreatedAt), formatTime(v.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert vacation %s: %w", v.ID, err)
	}
	return nil
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

var _ pto.SettingsStore = (*Store)(nil)
