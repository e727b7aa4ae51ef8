package main

import (
	"testing"
	"testing/fstest"

	"github.com/dvloznov/spendwise/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilenamePattern(t *testing.T) {
	tests := []struct {
		filename string
		valid    bool
		version  string
		name     string
	}{
		{"0001_init_schema_migrations.sql", true, "0001", "init_schema_migrations"},
		{"001_invalid.sql", false, "", ""},
		{"0001_test", false, "", ""},
		{"0001.sql", false, "", ""},
		{"invalid_0001_test.sql", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			matches := migrationPattern.FindStringSubmatch(tt.filename)
			if !tt.valid {
				assert.Nil(t, matches)
				return
			}
			require.Len(t, matches, 3)
			assert.Equal(t, tt.version, matches[1])
			assert.Equal(t, tt.name, matches[2])
		})
	}
}

func TestReadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_budgets.sql": {Data: []byte("CREATE TABLE `{{PROJECT_ID}}.{{DATASET_ID}}.budgets` (x INT64);")},
		"m/0001_init.sql":    {Data: []byte("SELECT 1;")},
		"m/README.md":        {Data: []byte("notes")},
	}

	got, err := readMigrations(fsys, "m", "proj", "finance")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Version)
	assert.Equal(t, "budgets", got[1].Name)
	assert.Equal(t, "CREATE TABLE `proj.finance.budgets` (x INT64);", got[1].SQL)

	other, err := readMigrations(fsys, "m", "other", "ds")
	require.NoError(t, err)
	assert.Equal(t, got[1].Checksum, other[1].Checksum)
}

func TestReadMigrations_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0001_a.sql": {Data: []byte("SELECT 1;")},
		"m/0001_b.sql": {Data: []byte("SELECT 2;")},
	}

	_, err := readMigrations(fsys, "m", "p", "d")

	assert.ErrorContains(t, err, "duplicate migration version 0001")
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := readMigrations(migrations.BigQuery, "bigquery", "p", "d")

	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "init_schema_migrations", got[0].Name)
	for i, m := range got {
		assert.Equal(t, i+1, m.Version)
		assert.NotContains(t, m.SQL, "{{")
	}
}

func TestPendingMigrations(t *testing.T) {
	all := []Migration{
		{Version: 1, Name: "init", Checksum: "a"},
		{Version: 2, Name: "budgets", Checksum: "b"},
	}

	t.Run("skips applied", func(t *testing.T) {
		pending, err := pendingMigrations(all, []AppliedMigration{{Version: 1, Checksum: "a"}})
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, 2, pending[0].Version)
	})

	t.Run("detects modified migration", func(t *testing.T) {
		_, err := pendingMigrations(all, []AppliedMigration{{Version: 1, Checksum: "changed"}})
		assert.ErrorContains(t, err, "0001_init was modified")
	})

	t.Run("missing checksum is trusted", func(t *testing.T) {
		pending, err := pendingMigrations(all, []AppliedMigration{{Version: 1}, {Version: 2}})
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}
