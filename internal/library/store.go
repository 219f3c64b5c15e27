// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists songs in a SQLite database so duplicate scans
// can run over a stored collection and resolutions can be applied to it.
// The dedup engine never touches this package; the CLI loads songs from
// here, runs the engine, and hands the removal set back to Delete.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/songdedup/pkg/types"
)

const dbFile = "songs.db"

// Store manages the song library SQLite database.
type Store struct {
	db         *sql.DB
	libraryDir string
	now        func() time.Time
}

// NewStore opens or creates the library database at
// libraryDir/songs.db and creates the schema if it does not exist.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	dir := cfg.LibraryDir
	if dir == "" {
		dir = "library"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, libraryDir: dir, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the library directory.
func (s *Store) Dir() string {
	return s.libraryDir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS songs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			lyrics TEXT NOT NULL DEFAULT '',
			has_audio INTEGER NOT NULL DEFAULT 0,
			has_image INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS deletions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			title TEXT,
			reason TEXT,
			deleted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_deletions_id ON deletions(id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ImportSummary holds counts from one import run.
type ImportSummary struct {
	Added     int
	Updated   int
	Unchanged int
	Failed    int
}

// Total returns the number of songs processed.
func (s ImportSummary) Total() int {
	return s.Added + s.Updated + s.Unchanged + s.Failed
}

// Import reads a YAML or JSON song file and upserts every song. Songs
// without an ID are counted as failed. New songs are appended after
// existing ones, so the library keeps first-import order.
func (s *Store) Import(ctx context.Context, path string, w io.Writer) (ImportSummary, error) {
	songs, err := LoadFile(path)
	if err != nil {
		return ImportSummary{}, err
	}
	return s.Upsert(ctx, songs, w)
}

// Upsert writes songs in one transaction, reporting one line per song
// to w.
func (s *Store) Upsert(ctx context.Context, songs []types.Song, w io.Writer) (ImportSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary ImportSummary
	for i, song := range songs {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if song.ID == "" {
			fmt.Fprintf(w, "failed    #%d %q: missing id\n", i+1, song.Title)
			summary.Failed++
			continue
		}

		existing, found, err := getSong(ctx, tx, song.ID)
		if err != nil {
			return summary, err
		}
		if found && existing == song {
			fmt.Fprintf(w, "unchanged %s\n", song.ID)
			summary.Unchanged++
			continue
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO songs (id, title, lyrics, has_audio, has_image, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				title=excluded.title, lyrics=excluded.lyrics,
				has_audio=excluded.has_audio, has_image=excluded.has_image,
				created_at=excluded.created_at, updated_at=excluded.updated_at`,
			song.ID, song.Title, song.Lyrics, song.HasAudio, song.HasImage, song.CreatedAt, song.UpdatedAt,
		)
		if err != nil {
			return summary, fmt.Errorf("upserting song %s: %w", song.ID, err)
		}

		if found {
			fmt.Fprintf(w, "updated   %s\n", song.ID)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "added     %s\n", song.ID)
			summary.Added++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing import: %w", err)
	}

	fmt.Fprintf(w, "\nadded: %d, updated: %d, unchanged: %d, failed: %d\n",
		summary.Added, summary.Updated, summary.Unchanged, summary.Failed)
	return summary, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getSong(ctx context.Context, q queryer, id string) (types.Song, bool, error) {
	var song types.Song
	err := q.QueryRowContext(ctx,
		`SELECT id, title, lyrics, has_audio, has_image, created_at, updated_at FROM songs WHERE id = ?`, id,
	).Scan(&song.ID, &song.Title, &song.Lyrics, &song.HasAudio, &song.HasImage, &song.CreatedAt, &song.UpdatedAt)
	if err == sql.ErrNoRows {
		return types.Song{}, false, nil
	}
	if err != nil {
		return types.Song{}, false, fmt.Errorf("reading song %s: %w", id, err)
	}
	return song, true, nil
}

// Song returns the song with id, or false if it is not in the library.
func (s *Store) Song(ctx context.Context, id string) (types.Song, bool, error) {
	return getSong(ctx, s.db, id)
}

// Songs returns every song in insertion order. Scans use this order, so
// repeated scans of an unchanged library give identical reports.
func (s *Store) Songs(ctx context.Context) ([]types.Song, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, lyrics, has_audio, has_image, created_at, updated_at FROM songs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying songs: %w", err)
	}
	defer rows.Close()

	songs := []types.Song{}
	for rows.Next() {
		var song types.Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Lyrics, &song.HasAudio, &song.HasImage, &song.CreatedAt, &song.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning song: %w", err)
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// Count returns the number of songs in the library.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM songs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting songs: %w", err)
	}
	return n, nil
}

// Deletion is one entry of the deletion history.
type Deletion struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Reason    string `json:"reason" yaml:"reason"`
	DeletedAt string `json:"deleted_at" yaml:"deleted_at"`
}

// Delete removes the songs with the given IDs in one transaction and
// records each removal in the deletion history. IDs not in the library
// are skipped. It returns the number of songs deleted.
func (s *Store) Delete(ctx context.Context, ids []string, reason string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	deletedAt := s.now().UTC().Format(time.RFC3339)
	deleted := 0
	for _, id := range ids {
		song, found, err := getSong(ctx, tx, id)
		if err != nil {
			return 0, err
		}
		if !found {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("deleting song %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deletions (id, title, reason, deleted_at) VALUES (?, ?, ?, ?)`,
			id, song.Title, reason, deletedAt,
		); err != nil {
			return 0, fmt.Errorf("recording deletion of %s: %w", id, err)
		}
		deleted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing deletions: %w", err)
	}
	return deleted, nil
}

// Deletions returns the deletion history, oldest first.
func (s *Store) Deletions(ctx context.Context) ([]Deletion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, coalesce(title, ''), coalesce(reason, ''), deleted_at FROM deletions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying deletions: %w", err)
	}
	defer rows.Close()

	var out []Deletion
	for rows.Next() {
		var d Deletion
		if err := rows.Scan(&d.ID, &d.Title, &d.Reason, &d.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning deletion: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
