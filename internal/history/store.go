package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"rundispatch/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS dispatches (
    id          TEXT PRIMARY KEY,
    run_id      TEXT NOT NULL,
    group_label TEXT NOT NULL,
    archive     TEXT NOT NULL,
    checksum    TEXT NOT NULL,
    recipients  TEXT NOT NULL,
    sent_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dispatches_run_id ON dispatches(run_id);
CREATE INDEX IF NOT EXISTS idx_dispatches_sent_at ON dispatches(sent_at);
`

// sentAtLayout keeps the fractional seconds fixed-width so the textual
// ORDER BY on sent_at matches chronological order. RFC3339Nano trims
// trailing zeros and would let "…00.2Z" sort after "…00.25Z".
const sentAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one dispatched run.
type Entry struct {
	ID         string
	RunID      string
	Group      string
	Archive    string
	Checksum   string
	Recipients []string
	SentAt     time.Time
}

// Store manages dispatch history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database in the state dir.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.StateDir, "history.db"))
}

// OpenPath connects to the history database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Record inserts a dispatch row. A zero SentAt and empty ID are filled in.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}
	// UTC keeps the zone suffix a constant "Z" so rows stay comparable.
	entry.SentAt = entry.SentAt.UTC()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO dispatches (id, run_id, group_label, archive, checksum, recipients, sent_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.RunID,
		entry.Group,
		entry.Archive,
		entry.Checksum,
		strings.Join(entry.Recipients, ","),
		entry.SentAt.Format(sentAtLayout),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert dispatch: %w", err)
	}
	return entry, nil
}

// List returns the most recent dispatches, newest first. A limit of 0
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, run_id, group_label, archive, checksum, recipients, sent_at
              FROM dispatches ORDER BY sent_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query dispatches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var recipients, sentAt string
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Group, &entry.Archive, &entry.Checksum, &recipients, &sentAt); err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		if recipients != "" {
			entry.Recipients = strings.Split(recipients, ",")
		}
		parsed, err := time.Parse(sentAtLayout, sentAt)
		if err != nil {
			return nil, fmt.Errorf("parse sent_at %q: %w", sentAt, err)
		}
		entry.SentAt = parsed
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ForRun returns dispatches for one run id, newest first.
func (s *Store) ForRun(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, group_label, archive, checksum, recipients, sent_at
         FROM dispatches WHERE run_id = ? ORDER BY sent_at DESC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query dispatches for run: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var recipients, sentAt string
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Group, &entry.Archive, &entry.Checksum, &recipients, &sentAt); err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		if recipients != "" {
			entry.Recipients = strings.Split(recipients, ",")
		}
		parsed, err := time.Parse(sentAtLayout, sentAt)
		if err != nil {
			return nil, fmt.Errorf("parse sent_at %q: %w", sentAt, err)
		}
		entry.SentAt = parsed
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
