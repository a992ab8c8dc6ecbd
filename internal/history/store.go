// Package history keeps a SQLite log of batch runs and per-album outcomes.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the state directory.
const FileName = "history.db"

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the history database inside stateDir.
func Open(ctx context.Context, stateDir string) (*Store, error) {
	if strings.TrimSpace(stateDir) == "" {
		return nil, errors.New("history: state directory required")
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}

	dbPath := filepath.Join(stateDir, FileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun records the beginning of a batch.
func (s *Store) StartRun(ctx context.Context, id, kind string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, kind, started_at) VALUES (?, ?, ?)",
		id, kind, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stamps the end of a batch and the number of albums handled.
func (s *Store) FinishRun(ctx context.Context, id string, albums int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE runs SET finished_at = ?, albums = ? WHERE id = ?",
		formatTime(time.Now()), albums, id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// Record appends one outcome row. RecordedAt defaults to now.
func (s *Store) Record(ctx context.Context, o Outcome) (int64, error) {
	if o.RunID == "" || o.Album == "" {
		return 0, errors.New("history: run id and album required")
	}
	if o.Status == "" {
		o.Status = StatusFailed
	}
	if o.RecordedAt.IsZero() {
		o.RecordedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (
            run_id, album, preset, output_dir, torrent_path, status,
            files_ok, files_failed, error_message, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.RunID,
		o.Album,
		nullableString(o.Preset),
		nullableString(o.OutputDir),
		nullableString(o.TorrentPath),
		string(o.Status),
		o.FilesOK,
		o.FilesFailed,
		nullableString(o.Error),
		formatTime(o.RecordedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert outcome: %w", err)
	}
	return res.LastInsertId()
}

const outcomeColumns = "id, run_id, album, preset, output_dir, torrent_path, status, files_ok, files_failed, error_message, recorded_at"

// Recent returns the newest outcomes first, at most limit rows.
func (s *Store) Recent(ctx context.Context, limit int) ([]Outcome, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+outcomeColumns+" FROM outcomes ORDER BY recorded_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()
	return scanOutcomes(rows)
}

// ForRun returns the outcomes of one run in insertion order.
func (s *Store) ForRun(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+outcomeColumns+" FROM outcomes WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("query run outcomes: %w", err)
	}
	defer rows.Close()
	return scanOutcomes(rows)
}

// Runs returns the newest runs first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, kind, started_at, finished_at, albums FROM runs ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Kind, &started, &finished, &run.Albums); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		if finished.Valid {
			run.FinishedAt = parseTime(finished.String)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanOutcomes(rows *sql.Rows) ([]Outcome, error) {
	var out []Outcome
	for rows.Next() {
		var (
			o                                     Outcome
			preset, outputDir, torrent, errorText sql.NullString
			status, recorded                      string
		)
		if err := rows.Scan(&o.ID, &o.RunID, &o.Album, &preset, &outputDir, &torrent,
			&status, &o.FilesOK, &o.FilesFailed, &errorText, &recorded); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Preset = preset.String
		o.OutputDir = outputDir.String
		o.TorrentPath = torrent.String
		o.Error = errorText.String
		o.Status = Status(status)
		o.RecordedAt = parseTime(recorded)
		out = append(out, o)
	}
	return out, rows.Err()
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

// timeLayout has fixed-width fractions so stored values sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
