// Package history keeps a local ledger of the pages this tool has posted.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout has a fixed width so posted_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one posted page.
type Entry struct {
	ID        int64
	RunID     string
	Command   string
	Project   string
	Title     string
	BodyBytes int
	DryRun    bool
	PostedAt  time.Time
}

// Store is the sqlite-backed ledger.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Open creates or opens the ledger at path. ":memory:" is accepted for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" would get its own database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		command TEXT NOT NULL,
		project TEXT NOT NULL,
		title TEXT NOT NULL,
		body_bytes INTEGER NOT NULL DEFAULT 0,
		dry_run INTEGER NOT NULL DEFAULT 0,
		posted_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_project ON posts(project, posted_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.dbPath }

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends e and returns its row id.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.PostedAt.IsZero() {
		e.PostedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (run_id, command, project, title, body_bytes, dry_run, posted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Command, e.Project, e.Title, e.BodyBytes, e.DryRun, e.PostedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("record post %q: %w", e.Title, err)
	}
	return res.LastInsertId()
}

// List returns the newest entries first. An empty project lists every
// project; limit <= 0 means 20.
func (s *Store) List(ctx context.Context, project string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, command, project, title, body_bytes, dry_run, posted_at
		 FROM posts
		 WHERE ? = '' OR project = ?
		 ORDER BY posted_at DESC, id DESC
		 LIMIT ?`,
		project, project, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			posted string
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.Command, &e.Project, &e.Title, &e.BodyBytes, &e.DryRun, &posted); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		e.PostedAt, err = time.Parse(timeLayout, posted)
		if err != nil {
			return nil, fmt.Errorf("parse posted_at %q: %w", posted, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
