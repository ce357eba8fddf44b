package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/typicalfo/canvas/backend/internal/logging"
	_ "modernc.org/sqlite"
)

//go:embed sql/init_db.sql
var initScript string

var (
	ErrEmptyPath  = errors.New("database path cannot be empty")
	ErrFilesystem = errors.New("create database file")
	ErrOpen       = errors.New("open database")
	ErrInit       = errors.New("initialize database")
)

// ErrDSNPath is returned for paths the driver would read as connection
// options: a "file:" prefix or a "?" anywhere.
var ErrDSNPath = errors.New(`database path must not contain "?" or start with "file:"`)

// Store is an open SQLite database whose schema has been applied.
type Store struct {
	db   *sql.DB
	path string
}

// User is a row of the users table. Nothing reads or writes it yet.
type User struct {
	Username     string
	PasswordHash string
	Salt         string
	Permissions  uint16
}

// Column describes one column of a table as reported by SQLite.
type Column struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

// Open opens the database file at path, creating an empty file if none
// exists, and runs the init script against it. The script only uses
// IF NOT EXISTS statements, so opening an initialized file changes nothing.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if strings.HasPrefix(path, "file:") || strings.Contains(path, "?") {
		return nil, fmt.Errorf("%w: %s", ErrDSNPath, path)
	}

	if err := ensureFile(path); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFilesystem, path, err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	// One connection: the store is single-owner.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}

	if _, err := conn.Exec(initScript); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w %s: %w", ErrInit, path, err)
	}

	logging.GetLogger().WithField("path", path).Info("Database initialized")
	return &Store{db: conn, path: path}, nil
}

func ensureFile(path string) error {
	_, err := os.Stat(path)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return f.Close()
}

func (s *Store) Close() error { return s.db.Close() }

// Path returns the file the store was opened from.
func (s *Store) Path() string { return s.path }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tables lists the user tables in the database, sorted by name.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Columns returns the columns of table in declaration order. An unknown
// table yields no columns.
func (s *Store) Columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, type, "notnull", pk FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, fmt.Errorf("query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			c       Column
			notNull int
			pk      int
		)
		if err := rows.Scan(&c.Name, &c.Type, &notNull, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		c.NotNull = notNull != 0
		c.PrimaryKey = pk != 0
		cols = append(cols, c)
	}
	return cols, rows.Err()
}
