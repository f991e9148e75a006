package sqlite

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	t.Run("creates database file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "drafts.db")

		db, err := NewDB(dbPath)
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		_, err = os.Stat(dbPath)
		assert.NoError(t, err, "database file should exist")
	})

	t.Run("creates nested directories", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "a", "b", "c", "drafts.db")

		db, err := NewDB(dbPath)
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)

		if runtime.GOOS != "windows" {
			info, err := os.Stat(filepath.Dir(dbPath))
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
		}
	})

	t.Run("applies migrations", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "drafts.db")

		db, err := NewDB(dbPath)
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		for _, table := range []string{"drafts", "draft_segments"} {
			var name string
			err := db.Connection().QueryRow(
				"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
			).Scan(&name)
			require.NoError(t, err, "table %s should exist", table)
			assert.Equal(t, table, name)
		}
	})

	t.Run("sets pragmas", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "drafts.db")

		db, err := NewDB(dbPath)
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		var journalMode string
		require.NoError(t, db.Connection().QueryRow("PRAGMA journal_mode").Scan(&journalMode))
		assert.Equal(t, "wal", journalMode)

		var foreignKeys int
		require.NoError(t, db.Connection().QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
		assert.Equal(t, 1, foreignKeys)

		var busyTimeout int
		require.NoError(t, db.Connection().QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
		assert.Equal(t, 5000, busyTimeout)
	})

	t.Run("reopening is safe", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "drafts.db")

		db, err := NewDB(dbPath)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db, err = NewDB(dbPath)
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
	})

	t.Run("backs up existing database", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "drafts.db")

		db, err := NewDB(dbPath)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db, err = NewDB(dbPath)
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		_, err = os.Stat(dbPath + ".bak")
		assert.NoError(t, err, "backup should exist after reopening")
	})

	t.Run("fails on unwritable path", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission semantics differ on windows")
		}
		dir := t.TempDir()
		require.NoError(t, os.Chmod(dir, 0500))
		t.Cleanup(func() { _ = os.Chmod(dir, 0700) })

		_, err := NewDB(filepath.Join(dir, "sub", "drafts.db"))
		assert.Error(t, err)
	})
}

func TestDBDraftRepository(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "drafts.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := db.DraftRepository()
	require.NotNil(t, repo)
}
