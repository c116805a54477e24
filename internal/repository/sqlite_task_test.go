package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T, repo *SQLiteProjectRepo) *domain.Project {
	t.Helper()
	proj := testutil.NewTestProject("Board")
	require.NoError(t, repo.Create(context.Background(), proj))
	return proj
}

func TestTaskRepo_CreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	a := testutil.NewTestTask("Design login UI", testutil.WithPriority(domain.PriorityHigh))
	b := testutil.NewTestTask("Fix auth bug", testutil.WithTaskType(domain.TaskBug))
	c := testutil.NewTestTask("Kanban DnD",
		testutil.WithTaskType(domain.TaskImprovement),
		testutil.WithTaskID("task-kanban-dnd"),
		testutil.WithAssignee("Manager Meera"))
	require.NoError(t, repo.Create(ctx, proj.ID, "backlog", 1, b))
	require.NoError(t, repo.Create(ctx, proj.ID, "backlog", 0, a))
	require.NoError(t, repo.Create(ctx, proj.ID, "inprogress", 0, c))

	placed, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, placed, 3)

	assert.Equal(t, "backlog", placed[0].Column)
	assert.Equal(t, a.ID, placed[0].Task.ID)
	assert.Equal(t, domain.PriorityHigh, placed[0].Task.Priority)
	assert.Equal(t, b.ID, placed[1].Task.ID)
	assert.Equal(t, 1, placed[1].Position)
	assert.Equal(t, domain.TaskBug, placed[1].Task.Type)
	assert.Equal(t, "inprogress", placed[2].Column)
	assert.Equal(t, "task-kanban-dnd", placed[2].Task.ID)
	assert.Equal(t, "Manager Meera", placed[2].Task.Assignee)
	assert.Equal(t, "Employee Eshaan", placed[0].Task.Assignee)
}

func TestTaskRepo_CreateRejectsUnknownProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)

	err := repo.Create(context.Background(), "missing", "backlog", 0, testutil.NewTestTask("Orphan"))
	assert.Error(t, err)
}

func TestTaskRepo_SetColumnRewritesPositions(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	a := testutil.NewTestTask("A")
	b := testutil.NewTestTask("B")
	c := testutil.NewTestTask("C")
	require.NoError(t, repo.Create(ctx, proj.ID, "backlog", 0, a))
	require.NoError(t, repo.Create(ctx, proj.ID, "backlog", 1, b))
	require.NoError(t, repo.Create(ctx, proj.ID, "done", 0, c))

	// Move A to the front of done.
	require.NoError(t, repo.SetColumn(ctx, proj.ID, "backlog", []string{b.ID}))
	require.NoError(t, repo.SetColumn(ctx, proj.ID, "done", []string{a.ID, c.ID}))

	placed, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, placed, 3)
	assert.Equal(t, PlacedTask{Task: placed[0].Task, Column: "backlog", Position: 0}, placed[0])
	assert.Equal(t, b.ID, placed[0].Task.ID)
	assert.Equal(t, a.ID, placed[1].Task.ID)
	assert.Equal(t, "done", placed[1].Column)
	assert.Equal(t, 0, placed[1].Position)
	assert.Equal(t, c.ID, placed[2].Task.ID)
	assert.Equal(t, 1, placed[2].Position)
}

func TestTaskRepo_SetColumnUnknownTask(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteTaskRepo(db)

	err := repo.SetColumn(context.Background(), proj.ID, "done", []string{"ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTaskRepo_UpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("Draft")
	require.NoError(t, repo.Create(ctx, proj.ID, "backlog", 0, task))

	task.Title = "Final"
	task.Assignee = "Admin User"
	require.NoError(t, repo.Update(ctx, task))

	placed, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, "Final", placed[0].Task.Title)
	assert.Equal(t, "Admin User", placed[0].Task.Assignee)

	require.NoError(t, repo.Delete(ctx, task.ID))
	assert.ErrorIs(t, repo.Delete(ctx, task.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, task), ErrNotFound)
}

func TestTaskRepo_RejectsInvalidType(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteTaskRepo(db)

	task := testutil.NewTestTask("Bad", testutil.WithTaskType("Epic"))
	assert.Error(t, repo.Create(context.Background(), proj.ID, "backlog", 0, task))
}
