package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/db"
	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/events"
	"github.com/alexanderramin/workboard/internal/repository"
	"github.com/alexanderramin/workboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db            *sql.DB
	projectRepo   *repository.SQLiteProjectRepo
	taskRepo      *repository.SQLiteTaskRepo
	userRepo      *repository.SQLiteUserRepo
	notifRepo     *repository.SQLiteNotificationRepo
	broker        *events.Broker
	boards        BoardService
	projects      ProjectService
	users         UserService
	notifications NotificationService
	dashboard     DashboardService
	seed          SeedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newTestEnvWithUoW(t, database, testutil.NewTestUoW(database))
}

func newTestEnvWithUoW(t *testing.T, database *sql.DB, uow db.UnitOfWork) *testEnv {
	t.Helper()
	env := &testEnv{
		db:          database,
		projectRepo: repository.NewSQLiteProjectRepo(database),
		taskRepo:    repository.NewSQLiteTaskRepo(database),
		userRepo:    repository.NewSQLiteUserRepo(database),
		notifRepo:   repository.NewSQLiteNotificationRepo(database),
		broker:      events.NewBroker(),
	}
	t.Cleanup(env.broker.Close)
	env.boards = NewBoardService(board.NewManager(), env.projectRepo, env.taskRepo, uow, env.broker)
	env.projects = NewProjectService(env.projectRepo, env.taskRepo, env.boards, env.broker)
	env.users = NewUserService(env.userRepo)
	env.notifications = NewNotificationService(env.notifRepo, env.broker)
	env.dashboard = NewDashboardService(env.projectRepo, env.userRepo, env.notifRepo, env.boards)
	env.seed = NewSeedService(env.projects, env.boards, env.users)
	return env
}

// newBoardProject creates a project whose first column holds the given titles
// in order and returns it with the created tasks.
func (e *testEnv) newBoardProject(t *testing.T, name string, titles ...string) (*domain.Project, []*domain.Task) {
	t.Helper()
	ctx := context.Background()
	p := testutil.NewTestProject(name)
	require.NoError(t, e.projectRepo.Create(ctx, p))
	tasks := make([]*domain.Task, 0, len(titles))
	for _, title := range titles {
		task := &domain.Task{Title: title}
		require.NoError(t, e.boards.AddTask(ctx, p.ID, "", task))
		tasks = append(tasks, task)
	}
	return p, tasks
}

func titles(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

// storedColumns reads board order straight from storage.
func (e *testEnv) storedColumns(t *testing.T, projectID string) map[string][]string {
	t.Helper()
	placed, err := e.taskRepo.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	cols := make(map[string][]string)
	for _, pt := range placed {
		cols[pt.Column] = append(cols[pt.Column], pt.Task.Title)
	}
	return cols
}
