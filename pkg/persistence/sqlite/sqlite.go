// Package sqlite stores projects in a local SQLite database using the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-sitegen/pkg/persistence"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	config TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	deployed_url TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_updated ON projects(updated_at);
`

// Store is a persistence.Store over a single SQLite file.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ persistence.Store = (*Store)(nil)

// Option customises the Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open creates or opens the database at path and ensures the schema exists.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: initialize schema: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (persistence.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, config, status, deployed_url, created_at, updated_at
		FROM projects WHERE id = ?`, id)

	var (
		doc              persistence.Document
		config           string
		created, updated int64
	)
	err := row.Scan(&doc.ID, &doc.Name, &config, &doc.Status, &doc.DeployedURL, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Document{}, fmt.Errorf("%w: %s", persistence.ErrNotFound, id)
	}
	if err != nil {
		return persistence.Document{}, fmt.Errorf("sqlite: get project %s: %w", id, err)
	}
	doc.Config = json.RawMessage(config)
	doc.CreatedAt = time.Unix(0, created).UTC()
	doc.UpdatedAt = time.Unix(0, updated).UTC()
	return doc, nil
}

func (s *Store) List(ctx context.Context) ([]persistence.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, status, updated_at
		FROM projects ORDER BY updated_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list projects: %w", err)
	}
	defer rows.Close()

	var out []persistence.Summary
	for rows.Next() {
		var (
			summary persistence.Summary
			updated int64
		)
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Status, &updated); err != nil {
			return nil, fmt.Errorf("sqlite: scan project: %w", err)
		}
		summary.UpdatedAt = time.Unix(0, updated).UTC()
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list projects: %w", err)
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, name string, config json.RawMessage) (persistence.Document, error) {
	now := s.now().UTC()
	doc := persistence.Document{
		ID:        uuid.NewString(),
		Name:      name,
		Config:    append(json.RawMessage(nil), config...),
		Status:    persistence.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, config, status, deployed_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, '', ?, ?)`,
		doc.ID, doc.Name, string(doc.Config), doc.Status, now.UnixNano(), now.UnixNano())
	if err != nil {
		return persistence.Document{}, fmt.Errorf("sqlite: insert project: %w", err)
	}
	return doc, nil
}

func (s *Store) Update(ctx context.Context, id, name string, config json.RawMessage) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, config = ?, updated_at = ? WHERE id = ?`,
		name, string(config), s.now().UTC().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("sqlite: update project %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update project %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, id)
	}
	return nil
}

// SetDeployment records the publish status and deployed URL of a project.
func (s *Store) SetDeployment(ctx context.Context, id, status, deployedURL string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET status = ?, deployed_url = ? WHERE id = ?`,
		status, deployedURL, id)
	if err != nil {
		return fmt.Errorf("sqlite: set deployment %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: set deployment %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, id)
	}
	return nil
}
