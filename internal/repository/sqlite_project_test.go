package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	due := time.Now().UTC().AddDate(0, 0, 7)
	proj := testutil.NewTestProject("Platform",
		testutil.WithDueDate(due), testutil.WithLayout("workflow"), testutil.WithOwner("Admin User"))
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
	assert.Equal(t, "Platform", fetched.Name)
	assert.Equal(t, "Admin User", fetched.Owner)
	assert.Equal(t, "workflow", fetched.Layout)
	assert.Equal(t, domain.ProjectActive, fetched.Status)
	require.NotNil(t, fetched.DueDate)
	assert.Equal(t, due.Format("2006-01-02"), fetched.DueDate.Format("2006-01-02"))
	assert.True(t, proj.CreatedAt.Equal(fetched.CreatedAt))
}

func TestProjectRepo_GetByShortID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Platform", testutil.WithShortID("EWM01"))
	require.NoError(t, repo.Create(ctx, proj))

	// Case-insensitive lookup.
	fetched, err := repo.GetByShortID(ctx, "ewm01")
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
	assert.Equal(t, "EWM01", fetched.ShortID)
}

func TestProjectRepo_DuplicateShortIDRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("One", testutil.WithShortID("DUP01"))))
	err := repo.Create(ctx, testutil.NewTestProject("Two", testutil.WithShortID("DUP01")))
	assert.Error(t, err)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_List_ExcludesArchived(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("Active1")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("Active2")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("Old", testutil.WithProjectStatus(domain.ProjectArchived))))

	list, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	listAll, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, listAll, 3)
}

func TestProjectRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Before")
	require.NoError(t, repo.Create(ctx, proj))

	proj.Name = "After"
	proj.Status = domain.ProjectPaused
	proj.DueDate = nil
	require.NoError(t, repo.Update(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", fetched.Name)
	assert.Equal(t, domain.ProjectPaused, fetched.Status)
	assert.Nil(t, fetched.DueDate)

	ghost := testutil.NewTestProject("Ghost")
	assert.ErrorIs(t, repo.Update(ctx, ghost), ErrNotFound)
}

func TestProjectRepo_DeleteCascadesTasks(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	tasks := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Doomed")
	require.NoError(t, projects.Create(ctx, proj))
	require.NoError(t, tasks.Create(ctx, proj.ID, "backlog", 0, testutil.NewTestTask("A")))
	require.NoError(t, tasks.Create(ctx, proj.ID, "done", 0, testutil.NewTestTask("B")))

	require.NoError(t, projects.Delete(ctx, proj.ID))

	n, err := tasks.CountByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, projects.Delete(ctx, proj.ID), ErrNotFound)
}
