package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSQLiteAppliesPragmas(t *testing.T) {
	database, err := Init("sqlite", ":memory:")
	require.NoError(t, err)
	defer Close(database)

	var foreignKeys int
	require.NoError(t, database.Get(&foreignKeys, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, foreignKeys)

	var busyTimeout int
	require.NoError(t, database.Get(&busyTimeout, "PRAGMA busy_timeout"))
	assert.Equal(t, 5000, busyTimeout)
}

func TestMigrationsOnFreshDatabase(t *testing.T) {
	database, err := Init("sqlite", ":memory:")
	require.NoError(t, err)
	defer Close(database)

	require.NoError(t, RunMigrations(database.DB, "sqlite"))

	var count int
	require.NoError(t, database.Get(&count, "SELECT COUNT(*) FROM users"))
	assert.Equal(t, 0, count)
}
