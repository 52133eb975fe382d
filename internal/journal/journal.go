// Package journal persists attribute change events to SQLite.
//
// The journal is an external collaborator, not part of the notifier core:
// it attaches to an owner through the public watcher API and records every
// change event it sees. Nothing in attr depends on it, and detaching the
// recorder (Unwatch) leaves the owner untouched.
//
// Rows are appended in dispatch order; the SQLite rowid doubles as the
// journal sequence. Reads return entries ordered by seq, so a trace of one
// transaction (or one attribute) is reproducible from the file alone.
package journal

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/attune/internal/attr"
)

//go:embed schema.sql
var schemaSQL string

// Journal is a SQLite-backed change-event recorder.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures a Journal.
type Option func(*Journal)

// WithLogger sets the journal's logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(j *Journal) { j.logger = logger }
}

// Open creates or opens a journal database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// Idempotent - safe to call on an existing journal file.
func Open(path string, opts ...Option) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under the cooperative model.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	j := &Journal{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Attach registers a recording watcher for every attribute of the owner's
// schema and returns the handle. Unwatch the handle to detach.
//
// The recorder is a plain watcher: it fires in its registration position
// like any other, and a failed append surfaces through the owner's reaction
// error policy.
func (j *Journal) Attach(o *attr.Owner) (attr.WatchHandle, error) {
	return o.Watch(func(ev attr.ChangeEvent) error {
		return j.Append(ev)
	}, o.Schema().Names()...)
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}
	return nil
}
