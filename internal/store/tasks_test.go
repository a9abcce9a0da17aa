package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTask(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, err := s.Add(ctx, "/work/api")
	require.NoError(t, err)

	task, err := s.AddTask(ctx, "/work/api", "  write release notes ")

	require.NoError(t, err)
	assert.Equal(t, p.ID, task.ProjectID)
	assert.Equal(t, "api", task.ProjectName)
	assert.Equal(t, "write release notes", task.Content)
	assert.Equal(t, TaskPending, task.Status)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestAddTaskRejectsBadInput(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.AddTask(ctx, "/work/none", "orphan")
	assert.ErrorIs(t, err, ErrProjectNotTracked)

	_, err = s.Add(ctx, "/work/api")
	require.NoError(t, err)
	_, err = s.AddTask(ctx, "/work/api", "   ")
	assert.ErrorIs(t, err, ErrEmptyTask)
}

func TestTasksFilterAndOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	api, err := s.Add(ctx, "/work/api")
	require.NoError(t, err)
	_, err = s.Add(ctx, "/work/web")
	require.NoError(t, err)

	first, err := s.AddTask(ctx, api.ID, "first")
	require.NoError(t, err)
	_, err = s.AddTask(ctx, "/work/web", "web task")
	require.NoError(t, err)
	third, err := s.AddTask(ctx, "/work/api", "third")
	require.NoError(t, err)

	all, err := s.Tasks(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, first.ID, all[2].ID)

	apiTasks, err := s.Tasks(ctx, "/work/api")
	require.NoError(t, err)
	require.Len(t, apiTasks, 2)
	assert.Equal(t, []string{"third", "first"}, []string{apiTasks[0].Content, apiTasks[1].Content})

	_, err = s.Tasks(ctx, "/work/none")
	assert.ErrorIs(t, err, ErrProjectNotTracked)
}

func TestTasksEmpty(t *testing.T) {
	s := openTestStore(t)

	tasks, err := s.Tasks(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestSetTaskStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "/work/api")
	require.NoError(t, err)
	task, err := s.AddTask(ctx, "/work/api", "ship it")
	require.NoError(t, err)

	updated, err := s.SetTaskStatus(ctx, task.ID, TaskInProgress)
	require.NoError(t, err)
	assert.Equal(t, TaskInProgress, updated.Status)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, task.UpdatedAt)

	_, err = s.SetTaskStatus(ctx, task.ID, TaskStatus("done"))
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)

	_, err = s.SetTaskStatus(ctx, "missing", TaskCompleted)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestParseTaskStatus(t *testing.T) {
	for _, name := range []string{"pending", "in_progress", "completed"} {
		status, err := ParseTaskStatus(name)
		require.NoError(t, err, name)
		assert.Equal(t, TaskStatus(name), status)
	}

	_, err := ParseTaskStatus("Completed")
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)
}

func TestRemoveTask(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "/work/api")
	require.NoError(t, err)
	task, err := s.AddTask(ctx, "/work/api", "drop me")
	require.NoError(t, err)

	require.NoError(t, s.RemoveTask(ctx, task.ID))
	assert.ErrorIs(t, s.RemoveTask(ctx, task.ID), ErrTaskNotFound)
}

func TestRemoveProjectCascadesToTasks(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "/work/api")
	require.NoError(t, err)
	_, err = s.Add(ctx, "/work/web")
	require.NoError(t, err)
	_, err = s.AddTask(ctx, "/work/api", "a")
	require.NoError(t, err)
	kept, err := s.AddTask(ctx, "/work/web", "b")
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "/work/api"))

	var orphans int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE project_id NOT IN (SELECT id FROM projects)`).Scan(&orphans))
	assert.Zero(t, orphans)

	all, err := s.Tasks(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID, all[0].ID)
}
