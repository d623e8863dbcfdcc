// internal/history/history.go
// Package history keeps a local index of past suite runs so earlier results
// stay findable without crawling the output directory.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mwiater/gemmbench/internal/results"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	suite TEXT NOT NULL,
	config_path TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	total_jobs INTEGER NOT NULL,
	measured INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	canceled INTEGER NOT NULL,
	output_dir TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at DESC);
`

// Store records finished runs in a local SQLite database.
type Store struct {
	db *sql.DB
}

// Entry is one recorded run.
type Entry struct {
	ID         string
	Suite      string
	ConfigPath string
	StartedAt  time.Time
	FinishedAt time.Time
	TotalJobs  int
	Measured   int
	Failed     int
	Canceled   bool
	OutputDir  string
}

// NewRunID returns the identifier a fresh run is recorded under.
func NewRunID() string {
	return uuid.NewString()
}

// Open opens the run database at path, creating the file and its directory
// when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening history database: %w", err)
	}

	// SQLite allows one writer at a time; a single-connection pool keeps
	// concurrent recorders from tripping over lock errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("error configuring history database: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts one finished run, replacing any previous row with the same id.
func (s *Store) Record(rep results.Report, outputDir string) error {
	id := rep.Run.ID
	if id == "" {
		id = NewRunID()
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO runs
			(id, suite, config_path, started_at, finished_at, total_jobs, measured, failed, canceled, output_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, rep.Run.Suite, rep.Run.ConfigPath,
		rep.Run.StartedAt.Unix(), rep.Run.FinishedAt.Unix(),
		rep.Summary.TotalJobs, rep.Summary.Measured, rep.Summary.Failed,
		rep.Summary.Canceled, outputDir)
	return err
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT id, suite, config_path, started_at, finished_at, total_jobs, measured, failed, canceled, output_dir
		FROM runs ORDER BY started_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started, finished int64
		if err := rows.Scan(&e.ID, &e.Suite, &e.ConfigPath, &started, &finished,
			&e.TotalJobs, &e.Measured, &e.Failed, &e.Canceled, &e.OutputDir); err != nil {
			return nil, err
		}
		e.StartedAt = time.Unix(started, 0).UTC()
		e.FinishedAt = time.Unix(finished, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
