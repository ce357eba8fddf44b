package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore opens a store in a fresh temp dir and closes it on cleanup.
func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestOpenEmptyPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	before, err := os.ReadDir(wd)
	require.NoError(t, err)

	s, err := Open("")
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrEmptyPath)

	after, err := os.ReadDir(wd)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

func TestOpenCreatesFileAndSchema(t *testing.T) {
	s, path := openTestStore(t)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, path, s.Path())

	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	tables, err := s.Tables(ctx)
	require.NoError(t, err)
	assert.Contains(t, tables, "users")

	cols, err := s.Columns(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []Column{
		{Name: "username", Type: "TEXT", NotNull: true, PrimaryKey: true},
		{Name: "password_hash", Type: "TEXT", NotNull: true},
		{Name: "salt", Type: "TEXT", NotNull: true},
		{Name: "permissions", Type: "INTEGER", NotNull: true},
	}, cols)
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "database.db")

	first, err := Open(path)
	require.NoError(t, err)
	_, err = first.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, salt, permissions) VALUES (?, ?, ?, ?)`,
		"admin", "hash", "salt", 0xFFFF)
	require.NoError(t, err)

	firstTables, err := first.Tables(ctx)
	require.NoError(t, err)
	firstCols, err := first.Columns(ctx, "users")
	require.NoError(t, err)

	// Open again while the first handle is still live.
	second, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	secondTables, err := second.Tables(ctx)
	require.NoError(t, err)
	secondCols, err := second.Columns(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, firstTables, secondTables)
	assert.Equal(t, firstCols, secondCols)
	require.NoError(t, first.Close())

	var u User
	err = second.db.QueryRowContext(ctx,
		`SELECT username, password_hash, salt, permissions FROM users WHERE username = ?`, "admin").
		Scan(&u.Username, &u.PasswordHash, &u.Salt, &u.Permissions)
	require.NoError(t, err)
	assert.Equal(t, User{Username: "admin", PasswordHash: "hash", Salt: "salt", Permissions: 0xFFFF}, u)
}

func TestOpenEmptyExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	tables, err := s.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, tables)
}

func TestOpenMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "database.db")

	s, err := Open(path)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrFilesystem)
	assert.Contains(t, err.Error(), path)
}

func TestOpenNotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.db")
	garbage := []byte("this is definitely not an sqlite database file, just plain text padding it out")
	require.NoError(t, os.WriteFile(path, garbage, 0o644))

	s, err := Open(path)
	assert.Nil(t, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOpen) || errors.Is(err, ErrInit), "unexpected error: %v", err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, garbage, data)
}

func TestPermissionsColumnIsBounded(t *testing.T) {
	s, _ := openTestStore(t)

	_, err := s.db.Exec(
		`INSERT INTO users (username, password_hash, salt, permissions) VALUES ('bob', 'h', 's', 65536)`)
	assert.Error(t, err)
}

func TestColumnsUnknownTable(t *testing.T) {
	s, _ := openTestStore(t)

	cols, err := s.Columns(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestOpenRejectsDSNPaths(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "database.db?mode=ro"),
		filepath.Join(dir, "data?.db"),
		"file:" + filepath.Join(dir, "database.db"),
	}

	for _, path := range paths {
		s, err := Open(path)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrDSNPath, path)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
