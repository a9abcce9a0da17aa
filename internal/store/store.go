// Package store keeps tracked projects and their tasks in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/penwyp/go-claude-sessions/internal/util"
)

var (
	// ErrProjectExists is returned when a path is already tracked.
	ErrProjectExists = errors.New("project already exists")
	// ErrProjectNotTracked is returned when no tracked project matches.
	ErrProjectNotTracked = errors.New("project not tracked")
)

// Fixed width so lexical order equals chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Project is a tracked project row.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Store wraps the database connection.
type Store struct {
	db *sql.DB
	// Now supplies created_at/updated_at values.
	Now func() time.Time
}

// Open opens (creating if needed) the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// foreign_keys is per connection; the DSN pragma applies it to every new one.
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serializes every statement.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, Now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	util.LogDebug("Project store opened", util.F("path", path))
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_projects_updated_at ON projects(updated_at);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		content TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) timestamp() string {
	return s.Now().UTC().Format(timestampLayout)
}

// ProjectName is the display name derived from a project path.
func ProjectName(path string) string {
	name := filepath.Base(filepath.Clean(path))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "Unknown"
	}
	return name
}

// Add tracks path and returns the new row.
func (s *Store) Add(ctx context.Context, path string) (*Project, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE path = ?`, path).Scan(&exists)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", ErrProjectExists, path)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("failed to check project: %w", err)
	}

	now := s.timestamp()
	p := &Project{
		ID:        uuid.New().String(),
		Name:      ProjectName(path),
		Path:      path,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, path, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Path, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}

	util.LogInfo("Project tracked", util.F("id", p.ID), util.F("path", p.Path))
	return p, nil
}

// List returns every tracked project, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, path, created_at, updated_at FROM projects ORDER BY updated_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Path, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Get returns the project whose id or path equals idOrPath.
func (s *Store) Get(ctx context.Context, idOrPath string) (*Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, path, created_at, updated_at FROM projects WHERE id = ? OR path = ?`,
		idOrPath, idOrPath).Scan(&p.ID, &p.Name, &p.Path, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotTracked, idOrPath)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// Rename changes a project's display name and bumps updated_at.
func (s *Store) Rename(ctx context.Context, idOrPath, name string) (*Project, error) {
	p, err := s.Get(ctx, idOrPath)
	if err != nil {
		return nil, err
	}

	p.Name = name
	p.UpdatedAt = s.timestamp()
	if _, err := s.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, updated_at = ? WHERE id = ?`, p.Name, p.UpdatedAt, p.ID); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}

// Remove stops tracking the project whose id or path equals idOrPath. Its tasks
// are deleted with it.
func (s *Store) Remove(ctx context.Context, idOrPath string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ? OR path = ?`, idOrPath, idOrPath)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotTracked, idOrPath)
	}

	util.LogInfo("Project untracked", util.F("project", idOrPath))
	return nil
}

// Paths returns the logical paths of every tracked project in List order.
func (s *Store) Paths(ctx context.Context) ([]string, error) {
	projects, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(projects))
	for _, p := range projects {
		paths = append(paths, p.Path)
	}
	return paths, nil
}
