package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/penwyp/go-claude-sessions/internal/util"
)

var (
	// ErrTaskNotFound is returned when no task has the given id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidTaskStatus is returned for a status outside TaskStatuses.
	ErrInvalidTaskStatus = errors.New("invalid task status")
	// ErrEmptyTask is returned when a task has no content.
	ErrEmptyTask = errors.New("task content is empty")
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// TaskStatuses lists the accepted statuses in workflow order.
var TaskStatuses = []TaskStatus{TaskPending, TaskInProgress, TaskCompleted}

// ParseTaskStatus validates a status name.
func ParseTaskStatus(name string) (TaskStatus, error) {
	for _, status := range TaskStatuses {
		if string(status) == name {
			return status, nil
		}
	}
	valid := make([]string, len(TaskStatuses))
	for i, status := range TaskStatuses {
		valid[i] = string(status)
	}
	return "", fmt.Errorf("%w %q (valid: %s)", ErrInvalidTaskStatus, name, strings.Join(valid, ", "))
}

// Task is a to-do item attached to a tracked project.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	ProjectName string     `json:"project_name"`
	Content     string     `json:"content"`
	Status      TaskStatus `json:"status"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

const taskColumns = `t.id, t.project_id, p.name, t.content, t.status, t.created_at, t.updated_at
	FROM tasks t JOIN projects p ON p.id = t.project_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.ProjectName, &t.Content, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// AddTask creates a pending task for the project whose id or path equals projectIDOrPath.
func (s *Store) AddTask(ctx context.Context, projectIDOrPath, content string) (*Task, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyTask
	}

	p, err := s.Get(ctx, projectIDOrPath)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	t := &Task{
		ID:          uuid.New().String(),
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Content:     content,
		Status:      TaskPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, project_id, content, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Content, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	util.LogInfo("Task added", util.F("id", t.ID), util.F("project", p.ID))
	return t, nil
}

// Tasks returns tasks newest first. An empty projectIDOrPath returns the tasks
// of every project.
func (s *Store) Tasks(ctx context.Context, projectIDOrPath string) ([]Task, error) {
	query := `SELECT ` + taskColumns
	var args []interface{}
	if projectIDOrPath != "" {
		p, err := s.Get(ctx, projectIDOrPath)
		if err != nil {
			return nil, err
		}
		query += ` WHERE t.project_id = ?`
		args = append(args, p.ID)
	}
	query += ` ORDER BY t.created_at DESC, t.rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) task(ctx context.Context, id string) (*Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` WHERE t.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &t, nil
}

// SetTaskStatus moves a task to status and bumps updated_at.
func (s *Store) SetTaskStatus(ctx context.Context, id string, status TaskStatus) (*Task, error) {
	if _, err := ParseTaskStatus(string(status)); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`, status, s.timestamp(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	} else if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return s.task(ctx, id)
}

// RemoveTask deletes a task.
func (s *Store) RemoveTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	util.LogInfo("Task removed", util.F("id", id))
	return nil
}
