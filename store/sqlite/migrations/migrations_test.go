package migrations_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-planner/store/sqlite/migrations"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateUp_CreatesTables(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, migrations.MigrateUp(db))

	for _, table := range []string{"settings", "vacations", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestMigrateUp_Twice(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, migrations.MigrateUp(db))
	assert.NoError(t, migrations.MigrateUp(db))
}

func TestCheckStatus(t *testing.T) {
	db := openTestDB(t)

	assert.ErrorIs(t, migrations.CheckStatus(db), migrations.ErrNeedsMigration)

	require.NoError(t, migrations.MigrateUp(db))
	assert.NoError(t, migrations.CheckStatus(db))
}

func TestLatestVersion(t *testing.T) {
	v, err := migrations.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
}
