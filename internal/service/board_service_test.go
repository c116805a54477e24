package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/events"
	"github.com/alexanderramin/workboard/internal/repository"
	"github.com/alexanderramin/workboard/internal/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardService_MovePersistsAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, tasks := env.newBoardProject(t, "Moves", "T1", "T2", "T3")

	ch, cancel := env.broker.Subscribe()
	defer cancel()

	mv, err := env.boards.MoveTask(ctx, p.ID, "backlog", "inprogress", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, tasks[0].ID, mv.Task.ID)
	assert.False(t, mv.Noop)

	snap, err := env.boards.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"T2", "T3"}, titles(snap.Tasks("backlog")))
	assert.Equal(t, []string{"T1"}, titles(snap.Tasks("inprogress")))

	assert.Equal(t, map[string][]string{
		"backlog":    {"T2", "T3"},
		"inprogress": {"T1"},
	}, env.storedColumns(t, p.ID))

	select {
	case ev := <-ch:
		assert.Equal(t, events.TaskMoved, ev.Kind)
		assert.Equal(t, p.ID, ev.ProjectID)
		assert.Equal(t, "In Progress", ev.ToTitle)
		assert.Equal(t, tasks[0].ID, ev.TaskID)
	case <-time.After(time.Second):
		t.Fatal("no task.moved event")
	}
}

func TestBoardService_SameColumnReorder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := env.newBoardProject(t, "Reorder", "T1", "T2", "T3")

	_, err := env.boards.MoveTask(ctx, p.ID, "backlog", "backlog", 0, 2)
	require.NoError(t, err)

	snap, err := env.boards.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"T2", "T3", "T1"}, titles(snap.Tasks("backlog")))
	assert.Equal(t, []string{"T2", "T3", "T1"}, env.storedColumns(t, p.ID)["backlog"])
}

func TestBoardService_NoopMoveSkipsPersistenceAndEvents(t *testing.T) {
	database := testutil.NewTestDB(t)
	// FailOn past any write count: transactions succeed but are counted.
	uow := &testutil.FailingUoW{DB: database, FailOn: 1000}
	env := newTestEnvWithUoW(t, database, uow)
	ctx := context.Background()
	p, _ := env.newBoardProject(t, "Noop", "T1", "T2")
	txs := uow.Txs.Load()

	ch, cancel := env.broker.Subscribe()
	defer cancel()

	mv, err := env.boards.MoveTask(ctx, p.ID, "backlog", "backlog", 1, 1)
	require.NoError(t, err)
	assert.True(t, mv.Noop)
	assert.Equal(t, txs, uow.Txs.Load())
	assert.Empty(t, ch)
}

func TestBoardService_MoveErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := env.newBoardProject(t, "Errors", "T1", "T2", "T3")

	_, err := env.boards.MoveTask(ctx, p.ID, "backlog", "backlog", 5, 0)
	var rangeErr *board.IndexOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 5, rangeErr.Index)

	_, err = env.boards.MoveTask(ctx, p.ID, "backlog", "Unknown", 0, 0)
	assert.ErrorIs(t, err, board.ErrInvalidColumn)

	_, err = env.boards.MoveTask(ctx, "missing", "backlog", "done", 0, 0)
	var nf *board.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ProjectID)

	snap, err := env.boards.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3"}, titles(snap.Tasks("backlog")))
}

func TestBoardService_MoveRollbackOnPersistFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	injected := fmt.Errorf("injected reposition failure")
	// Exec #1 rewrites the first remaining backlog task, #2 fails.
	uow := &testutil.FailingUoW{DB: database, FailOn: 2, Err: injected}
	env := newTestEnvWithUoW(t, database, uow)
	ctx := context.Background()
	p, _ := env.newBoardProject(t, "Rollback", "T1", "T2", "T3")

	ch, cancel := env.broker.Subscribe()
	defer cancel()

	_, err := env.boards.MoveTask(ctx, p.ID, "backlog", "inprogress", 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, injected)

	snap, err := env.boards.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3"}, titles(snap.Tasks("backlog")))
	assert.Empty(t, snap.Tasks("inprogress"))

	assert.Equal(t, map[string][]string{"backlog": {"T1", "T2", "T3"}}, env.storedColumns(t, p.ID))
	assert.Empty(t, ch, "failed moves must not publish")
}

func TestBoardService_ReloadReproducesPersistedOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := env.newBoardProject(t, "Reload", "T1", "T2", "T3", "T4")

	_, err := env.boards.MoveTask(ctx, p.ID, "backlog", "done", 3, 0)
	require.NoError(t, err)
	_, err = env.boards.MoveTask(ctx, p.ID, "backlog", "backlog", 0, 2)
	require.NoError(t, err)
	_, err = env.boards.MoveTask(ctx, p.ID, "done", "inprogress", 0, 0)
	require.NoError(t, err)

	before, err := env.boards.Board(ctx, p.ID)
	require.NoError(t, err)

	fresh := NewBoardService(board.NewManager(), env.projectRepo, env.taskRepo, testutil.NewTestUoW(env.db), nil)
	after, err := fresh.Board(ctx, p.ID)
	require.NoError(t, err)
	for _, col := range board.Simple.Columns {
		assert.Equal(t, titles(before.Tasks(col)), titles(after.Tasks(col)), "column %s", col)
	}
	assert.Equal(t, []string{"T2", "T3", "T1"}, titles(after.Tasks("backlog")))
	assert.Equal(t, []string{"T4"}, titles(after.Tasks("inprogress")))
}

func TestBoardService_ForgetReloadsFromStorage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, tasks := env.newBoardProject(t, "Forget", "T1")

	// Change storage behind the board's back.
	require.NoError(t, env.taskRepo.SetColumn(ctx, p.ID, "done", []string{tasks[0].ID}))
	snap, err := env.boards.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, snap.Tasks("backlog"), 1)

	env.boards.Forget(p.ID)
	snap, err = env.boards.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, snap.Tasks("backlog"))
	assert.Len(t, snap.Tasks("done"), 1)
}

func TestBoardService_AddTaskDefaultsAndValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := env.newBoardProject(t, "Add")

	task := &domain.Task{Title: "Write docs", Assignee: "Admin User"}
	require.NoError(t, env.boards.AddTask(ctx, p.ID, "", task))
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.TaskFeature, task.Type)
	assert.Equal(t, domain.PriorityMedium, task.Priority)

	second := &domain.Task{Title: "Ship", Type: domain.TaskBug, Priority: domain.PriorityHigh}
	require.NoError(t, env.boards.AddTask(ctx, p.ID, "done", second))

	snap, err := env.boards.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Write docs"}, titles(snap.Tasks("backlog")))
	assert.Equal(t, []string{"Ship"}, titles(snap.Tasks("done")))

	err = env.boards.AddTask(ctx, p.ID, "", &domain.Task{Title: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = env.boards.AddTask(ctx, p.ID, "Nowhere", &domain.Task{Title: "Lost"})
	assert.ErrorIs(t, err, board.ErrInvalidColumn)

	err = env.boards.AddTask(ctx, p.ID, "", &domain.Task{ID: task.ID, Title: "Again"})
	assert.ErrorIs(t, err, board.ErrDuplicateTask)
}

func TestBoardService_RemoveTaskCompactsPositions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, tasks := env.newBoardProject(t, "Remove", "T1", "T2", "T3")

	removed, err := env.boards.RemoveTask(ctx, p.ID, tasks[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "T2", removed.Title)

	placed, err := env.taskRepo.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, placed, 2)
	assert.Equal(t, 0, placed[0].Position)
	assert.Equal(t, 1, placed[1].Position)
	assert.Equal(t, "T3", placed[1].Task.Title)

	_, err = env.boards.RemoveTask(ctx, p.ID, tasks[1].ID)
	assert.ErrorIs(t, err, board.ErrTaskNotFound)
}

func TestBoardService_RemoveTaskRollback(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := &testutil.FailingUoW{DB: database, FailOn: 2}
	env := newTestEnvWithUoW(t, database, uow)
	ctx := context.Background()
	p, tasks := env.newBoardProject(t, "RemoveRollback", "T1", "T2", "T3")

	_, err := env.boards.RemoveTask(ctx, p.ID, tasks[0].ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, testutil.ErrInjected)

	snap, err := env.boards.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3"}, titles(snap.Tasks("backlog")))
	assert.Equal(t, []string{"T1", "T2", "T3"}, env.storedColumns(t, p.ID)["backlog"])
}

func TestBoardService_UpdateTaskKeepsPosition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, tasks := env.newBoardProject(t, "Update", "T1", "T2")

	edited := *tasks[0]
	edited.Title = "T1 renamed"
	edited.Priority = domain.PriorityHigh
	require.NoError(t, env.boards.UpdateTask(ctx, p.ID, &edited))
	assert.True(t, edited.CreatedAt.Equal(tasks[0].CreatedAt))

	snap, err := env.boards.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1 renamed", "T2"}, titles(snap.Tasks("backlog")))
	assert.Equal(t, domain.PriorityHigh, snap.Tasks("backlog")[0].Priority)
	assert.Equal(t, []string{"T1 renamed", "T2"}, env.storedColumns(t, p.ID)["backlog"])

	ghost := domain.Task{ID: "ghost", Title: "Ghost", Type: domain.TaskBug, Priority: domain.PriorityLow}
	assert.ErrorIs(t, env.boards.UpdateTask(ctx, p.ID, &ghost), board.ErrTaskNotFound)
}

func TestBoardService_CountsUseWorkflowLayout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := testutil.NewTestProject("Flow", testutil.WithLayout("workflow"))
	require.NoError(t, env.projectRepo.Create(ctx, p))
	require.NoError(t, env.boards.AddTask(ctx, p.ID, "", &domain.Task{Title: "Draft"}))
	require.NoError(t, env.boards.AddTask(ctx, p.ID, "DONE", &domain.Task{Title: "Ship"}))

	layout, counts, err := env.boards.Counts(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "workflow", layout.Name)
	assert.Equal(t, 1, counts["BACKLOG"])
	assert.Equal(t, 1, counts["DONE"])
	assert.Equal(t, 0, counts["REVIEW"])
}

func TestBoardService_ConcurrentMovesKeepBoardConsistent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	names := make([]string, 12)
	for i := range names {
		names[i] = fmt.Sprintf("T%02d", i)
	}
	p, _ := env.newBoardProject(t, "Concurrent", names...)
	cols := board.Simple.Columns

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				from := cols[(w+i)%len(cols)]
				to := cols[(w+2*i+1)%len(cols)]
				_, err := env.boards.MoveTask(ctx, p.ID, from, to, 0, 0)
				if err != nil && !errors.Is(err, board.ErrIndexOutOfRange) {
					t.Errorf("unexpected move error: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	snap, err := env.boards.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, len(names), snap.Total())

	seen := make(map[string]bool)
	for _, col := range cols {
		for _, task := range snap.Tasks(col) {
			assert.False(t, seen[task.ID], "task %s appears twice", task.ID)
			seen[task.ID] = true
		}
	}

	stored := env.storedColumns(t, p.ID)
	for _, col := range cols {
		want := titles(snap.Tasks(col))
		if len(want) == 0 {
			assert.Empty(t, stored[string(col)])
			continue
		}
		assert.Equal(t, want, stored[string(col)], "column %s", col)
	}
}

func TestBoardService_ObserverLogsUseCases(t *testing.T) {
	database := testutil.NewTestDB(t)
	logger, hook := test.NewNullLogger()
	boards := NewBoardService(
		board.NewManager(),
		repository.NewSQLiteProjectRepo(database),
		repository.NewSQLiteTaskRepo(database),
		testutil.NewTestUoW(database),
		nil,
		NewLogUseCaseObserver(logger),
	)
	ctx := context.Background()

	_, err := boards.MoveTask(ctx, "missing", "backlog", "done", 0, 0)
	require.Error(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "service_use_case", entry.Message)
	assert.Equal(t, log.ErrorLevel, entry.Level)
	assert.Equal(t, "move-task", entry.Data["use_case"])
	assert.Equal(t, false, entry.Data["success"])
	assert.Equal(t, "missing", entry.Data["project"])
}

// newSecondBoards opens another board service over the same storage, as a
// second process or instance would.
func (e *testEnv) newSecondBoards() BoardService {
	return NewBoardService(board.NewManager(), e.projectRepo, e.taskRepo, testutil.NewTestUoW(e.db), nil)
}

func TestBoardService_StaleMoveIsRefused(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := env.newBoardProject(t, "Stale", "T1", "T2", "T3")

	other := env.newSecondBoards()
	_, err := other.Board(ctx, p.ID)
	require.NoError(t, err)

	_, err = env.boards.MoveTask(ctx, p.ID, "backlog", "done", 0, 0)
	require.NoError(t, err)

	_, err = other.MoveTask(ctx, p.ID, "backlog", "backlog", 2, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	stored := env.storedColumns(t, p.ID)
	assert.Equal(t, []string{"T2", "T3"}, stored["backlog"])
	assert.Equal(t, []string{"T1"}, stored["done"])

	// The refused board was dropped, so the next access sees storage.
	snap, err := other.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"T2", "T3"}, titles(snap.Tasks("backlog")))
	assert.Equal(t, []string{"T1"}, titles(snap.Tasks("done")))

	_, err = other.MoveTask(ctx, p.ID, "backlog", "backlog", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"T3", "T2"}, env.storedColumns(t, p.ID)["backlog"])
}

func TestBoardService_StaleAddAndRemoveAreRefused(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, tasks := env.newBoardProject(t, "StaleAdd", "T1", "T2")

	other := env.newSecondBoards()
	_, err := other.Board(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, env.boards.AddTask(ctx, p.ID, "", &domain.Task{Title: "T3"}))

	err = other.AddTask(ctx, p.ID, "", &domain.Task{Title: "T4"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, []string{"T1", "T2", "T3"}, env.storedColumns(t, p.ID)["backlog"])

	// The refused add dropped other's board; reload it, then fall behind again.
	snap, err := other.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3"}, titles(snap.Tasks("backlog")))

	_, err = env.boards.RemoveTask(ctx, p.ID, tasks[0].ID)
	require.NoError(t, err)

	_, err = other.RemoveTask(ctx, p.ID, tasks[1].ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, []string{"T2", "T3"}, env.storedColumns(t, p.ID)["backlog"])
}

func TestForgetOnChange_DropsCachedBoard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := env.newBoardProject(t, "Relayed", "T1", "T2")

	other := env.newSecondBoards()
	_, err := other.Board(ctx, p.ID)
	require.NoError(t, err)

	mv, err := env.boards.MoveTask(ctx, p.ID, "backlog", "done", 0, 0)
	require.NoError(t, err)

	ch, cancel := env.broker.Subscribe()
	defer cancel()

	relayed := ForgetOnChange(other, env.broker)
	require.NoError(t, relayed.Publish(ctx, events.Event{
		Kind:      events.TaskMoved,
		ProjectID: p.ID,
		TaskID:    mv.Task.ID,
		From:      "backlog",
		To:        "done",
	}))

	snap, err := other.Board(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"T2"}, titles(snap.Tasks("backlog")))
	assert.Equal(t, []string{"T1"}, titles(snap.Tasks("done")))

	select {
	case ev := <-ch:
		assert.Equal(t, events.TaskMoved, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("relayed event was not forwarded")
	}
}
