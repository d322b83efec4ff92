// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go driver, no CGO
)

// SavedRecording is one row of the saved-recordings index.
type SavedRecording struct {
	ID          string
	Channel     string
	Title       string
	Description string
	Start       time.Time
	Stop        *time.Time
	FilePath    string
	Outcome     string // "completed" or "stopped"
	SavedAt     time.Time
}

// Index is the SQLite-backed catalogue of finished recordings. It
// survives restarts, unlike the in-memory registry.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if needed) the index database at dbPath.
// busy_timeout avoids "database locked" errors when the API reads while
// the scheduler writes.
func OpenIndex(dbPath string) (*Index, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping index database: %w", err)
	}

	idx := &Index{db: db}
	if err := idx.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate index database: %w", err)
	}
	return idx, nil
}

// Close closes the underlying database.
func (i *Index) Close() error {
	return i.db.Close()
}

func (i *Index) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saved_recordings (
		id TEXT PRIMARY KEY,
		channel TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_time TEXT NOT NULL,
		stop_time TEXT,
		file_path TEXT NOT NULL,
		outcome TEXT NOT NULL CHECK(outcome IN ('completed', 'stopped')),
		saved_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saved_recordings_start ON saved_recordings(start_time);
	`
	_, err := i.db.Exec(schema)
	return err
}

// Append records a finished recording. Re-appending the same id updates
// the existing row.
func (i *Index) Append(ctx context.Context, rec SavedRecording) error {
	query := `
	INSERT INTO saved_recordings (id, channel, title, description, start_time, stop_time, file_path, outcome, saved_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		description = excluded.description,
		stop_time = excluded.stop_time,
		outcome = excluded.outcome,
		saved_at = excluded.saved_at
	`
	var stop sql.NullString
	if rec.Stop != nil {
		stop = sql.NullString{String: rec.Stop.UTC().Format(time.RFC3339), Valid: true}
	}
	_, err := i.db.ExecContext(ctx, query,
		rec.ID, rec.Channel, rec.Title, rec.Description,
		rec.Start.UTC().Format(time.RFC3339), stop,
		rec.FilePath, rec.Outcome, rec.SavedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("append saved recording: %w", err)
	}
	return nil
}

// List returns all saved recordings, most recent start first.
func (i *Index) List(ctx context.Context) ([]SavedRecording, error) {
	query := `
	SELECT id, channel, title, description, start_time, stop_time, file_path, outcome, saved_at
	FROM saved_recordings
	ORDER BY start_time DESC, id
	`
	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list saved recordings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SavedRecording
	for rows.Next() {
		var (
			rec          SavedRecording
			startStr     string
			stopStr      sql.NullString
			savedAtStr   string
		)
		if err := rows.Scan(&rec.ID, &rec.Channel, &rec.Title, &rec.Description,
			&startStr, &stopStr, &rec.FilePath, &rec.Outcome, &savedAtStr); err != nil {
			return nil, fmt.Errorf("scan saved recording: %w", err)
		}
		if rec.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
			return nil, fmt.Errorf("parse start time: %w", err)
		}
		if stopStr.Valid {
			stop, perr := time.Parse(time.RFC3339, stopStr.String)
			if perr != nil {
				return nil, fmt.Errorf("parse stop time: %w", perr)
			}
			rec.Stop = &stop
		}
		if rec.SavedAt, err = time.Parse(time.RFC3339, savedAtStr); err != nil {
			return nil, fmt.Errorf("parse saved_at time: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
