package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/db"
	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/events"
	"github.com/alexanderramin/workboard/internal/repository"
	"github.com/google/uuid"
)

// boardService keeps the in-memory boards and storage in step. The manager is
// single-writer: mu guards its project map (write-locked to load or drop a
// board), and each project has its own mutex held for the whole of every read
// or mutation of that board.
type boardService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	events   events.Publisher
	observer UseCaseObserver

	mu      sync.RWMutex
	manager *board.Manager

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewBoardService(
	manager *board.Manager,
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	publisher events.Publisher,
	observers ...UseCaseObserver,
) BoardService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &boardService{
		projects: projects,
		tasks:    tasks,
		uow:      uow,
		events:   publisher,
		observer: useCaseObserverOrNoop(observers),
		manager:  manager,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *boardService) Board(ctx context.Context, projectID string) (board.Snapshot, error) {
	if err := s.ensureLoaded(ctx, projectID); err != nil {
		return board.Snapshot{}, err
	}
	unlock := s.lockProject(projectID)
	defer unlock()
	return s.manager.Snapshot(projectID)
}

func (s *boardService) Counts(ctx context.Context, projectID string) (board.Layout, map[board.Column]int, error) {
	if err := s.ensureLoaded(ctx, projectID); err != nil {
		return board.Layout{}, nil, err
	}
	unlock := s.lockProject(projectID)
	defer unlock()
	layout, err := s.manager.Layout(projectID)
	if err != nil {
		return board.Layout{}, nil, err
	}
	counts, err := s.manager.Counts(projectID)
	if err != nil {
		return board.Layout{}, nil, err
	}
	return layout, counts, nil
}

func (s *boardService) MoveTask(ctx context.Context, projectID string, from, to board.Column, fromIndex, toIndex int) (mv board.Move, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"project":    projectID,
		"from":       string(from),
		"to":         string(to),
		"from_index": fromIndex,
		"to_index":   toIndex,
	}
	defer observe(ctx, s.observer, "move-task", startedAt, fields, &err)

	if err = s.ensureLoaded(ctx, projectID); err != nil {
		return board.Move{}, err
	}
	var stale bool
	defer s.forgetIf(&stale, projectID)
	unlock := s.lockProject(projectID)
	defer unlock()

	before, err := s.manager.Snapshot(projectID)
	if err != nil {
		return board.Move{}, err
	}
	mv, err = s.manager.MoveTask(projectID, from, to, fromIndex, toIndex)
	if err != nil {
		return board.Move{}, err
	}
	fields["task"] = mv.Task.ID
	if mv.Noop {
		fields["noop"] = true
		return mv, nil
	}

	if err = s.persistColumns(ctx, projectID, before, mv.From, mv.To); err != nil {
		if undoErr := s.manager.Apply(mv.Inverse()); undoErr != nil {
			err = errors.Join(err, fmt.Errorf("restoring board: %w", undoErr))
		}
		stale = errors.Is(err, ErrConflict)
		return board.Move{}, fmt.Errorf("persisting move: %w", err)
	}

	layout, _ := s.manager.Layout(projectID)
	s.publish(ctx, fields, events.Event{
		Kind:      events.TaskMoved,
		ProjectID: projectID,
		TaskID:    mv.Task.ID,
		TaskTitle: mv.Task.Title,
		From:      string(mv.From),
		To:        string(mv.To),
		ToTitle:   layout.Title(mv.To),
		FromIndex: mv.FromIndex,
		ToIndex:   mv.ToIndex,
		At:        startedAt,
	})
	return mv, nil
}

func (s *boardService) AddTask(ctx context.Context, projectID string, column board.Column, t *domain.Task) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": projectID, "column": string(column)}
	defer observe(ctx, s.observer, "add-task", startedAt, fields, &err)

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Type == "" {
		t.Type = domain.TaskFeature
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	t.CreatedAt = startedAt
	t.UpdatedAt = startedAt
	if err = t.Validate(); err != nil {
		return invalid(err)
	}
	fields["task"] = t.ID

	if err = s.ensureLoaded(ctx, projectID); err != nil {
		return err
	}
	var stale bool
	defer s.forgetIf(&stale, projectID)
	unlock := s.lockProject(projectID)
	defer unlock()

	layout, err := s.manager.Layout(projectID)
	if err != nil {
		return err
	}
	if column == "" {
		column = layout.First()
		fields["column"] = string(column)
	}
	before, err := s.manager.Snapshot(projectID)
	if err != nil {
		return err
	}
	if err = s.manager.AddTask(projectID, column, *t); err != nil {
		return err
	}
	_, position, err := s.manager.Locate(projectID, t.ID)
	if err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		if err := checkStored(ctx, txTasks, projectID, before, column); err != nil {
			return err
		}
		return txTasks.Create(ctx, projectID, string(column), position, t)
	})
	if err != nil {
		if _, undoErr := s.manager.RemoveTask(projectID, t.ID); undoErr != nil {
			err = errors.Join(err, fmt.Errorf("restoring board: %w", undoErr))
		}
		stale = errors.Is(err, ErrConflict)
		return fmt.Errorf("persisting task: %w", err)
	}

	s.publish(ctx, fields, events.Event{
		Kind:      events.TaskAdded,
		ProjectID: projectID,
		TaskID:    t.ID,
		TaskTitle: t.Title,
		To:        string(column),
		ToTitle:   layout.Title(column),
		ToIndex:   position,
		At:        startedAt,
	})
	return nil
}

func (s *boardService) RemoveTask(ctx context.Context, projectID, taskID string) (task domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": projectID, "task": taskID}
	defer observe(ctx, s.observer, "remove-task", startedAt, fields, &err)

	if err = s.ensureLoaded(ctx, projectID); err != nil {
		return domain.Task{}, err
	}
	var stale bool
	defer s.forgetIf(&stale, projectID)
	unlock := s.lockProject(projectID)
	defer unlock()

	column, index, err := s.manager.Locate(projectID, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	before, err := s.manager.Snapshot(projectID)
	if err != nil {
		return domain.Task{}, err
	}
	task, err = s.manager.RemoveTask(projectID, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	snap, err := s.manager.Snapshot(projectID)
	if err != nil {
		return domain.Task{}, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		if err := checkStored(ctx, txTasks, projectID, before, column); err != nil {
			return err
		}
		if err := txTasks.Delete(ctx, taskID); err != nil {
			return err
		}
		return txTasks.SetColumn(ctx, projectID, string(column), taskIDs(snap.Tasks(column)))
	})
	if err != nil {
		if undoErr := s.reinsert(projectID, column, index, task); undoErr != nil {
			err = errors.Join(err, fmt.Errorf("restoring board: %w", undoErr))
		}
		stale = errors.Is(err, ErrConflict)
		return domain.Task{}, fmt.Errorf("persisting task removal: %w", err)
	}

	s.publish(ctx, fields, events.Event{
		Kind:      events.TaskRemoved,
		ProjectID: projectID,
		TaskID:    task.ID,
		TaskTitle: task.Title,
		From:      string(column),
		FromIndex: index,
		At:        startedAt,
	})
	return task, nil
}

func (s *boardService) UpdateTask(ctx context.Context, projectID string, t *domain.Task) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": projectID, "task": t.ID}
	defer observe(ctx, s.observer, "update-task", startedAt, fields, &err)

	if err = t.Validate(); err != nil {
		return invalid(err)
	}
	if err = s.ensureLoaded(ctx, projectID); err != nil {
		return err
	}
	unlock := s.lockProject(projectID)
	defer unlock()

	column, index, err := s.manager.Locate(projectID, t.ID)
	if err != nil {
		return err
	}
	snap, err := s.manager.Snapshot(projectID)
	if err != nil {
		return err
	}
	previous := snap.Tasks(column)[index]
	t.CreatedAt = previous.CreatedAt
	t.UpdatedAt = startedAt

	if err = s.manager.UpdateTask(projectID, *t); err != nil {
		return err
	}
	if err = s.tasks.Update(ctx, t); err != nil {
		if undoErr := s.manager.UpdateTask(projectID, previous); undoErr != nil {
			err = errors.Join(err, fmt.Errorf("restoring board: %w", undoErr))
		}
		return fmt.Errorf("persisting task update: %w", err)
	}

	s.publish(ctx, fields, events.Event{
		Kind:      events.TaskUpdated,
		ProjectID: projectID,
		TaskID:    t.ID,
		TaskTitle: t.Title,
		To:        string(column),
		ToIndex:   index,
		At:        startedAt,
	})
	return nil
}

func (s *boardService) Forget(projectID string) {
	s.mu.Lock()
	s.manager.RemoveProject(projectID)
	s.mu.Unlock()
}

// forgetIf drops the board once the project lock is released. It must be
// deferred before lockProject's unlock.
func (s *boardService) forgetIf(stale *bool, projectID string) {
	if *stale {
		s.Forget(projectID)
	}
}

// ensureLoaded hydrates a project's board from storage on first use.
func (s *boardService) ensureLoaded(ctx context.Context, projectID string) error {
	s.mu.RLock()
	loaded := s.manager.HasProject(projectID)
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &board.NotFoundError{ProjectID: projectID}
		}
		return fmt.Errorf("loading project: %w", err)
	}
	layout, ok := board.LayoutByName(project.Layout)
	if !ok {
		return fmt.Errorf("project %s has unknown layout %q", project.DisplayID(), project.Layout)
	}
	placed, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("loading board: %w", err)
	}
	columns := make(map[board.Column][]domain.Task, len(layout.Columns))
	for _, pt := range placed {
		col := board.Column(pt.Column)
		columns[col] = append(columns[col], pt.Task)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manager.HasProject(projectID) {
		return nil
	}
	if err := s.manager.Seed(projectID, layout, columns); err != nil {
		return fmt.Errorf("loading board: %w", err)
	}
	return nil
}

// lockProject takes the read side of mu and the project's own mutex.
func (s *boardService) lockProject(projectID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[projectID] = l
	}
	s.locksMu.Unlock()

	s.mu.RLock()
	l.Lock()
	return func() {
		l.Unlock()
		s.mu.RUnlock()
	}
}

// persistColumns rewrites stored positions for the given columns from the
// current in-memory board. before is the board the change was applied to;
// if storage no longer matches it for those columns the write is refused
// with ErrConflict.
func (s *boardService) persistColumns(ctx context.Context, projectID string, before board.Snapshot, columns ...board.Column) error {
	snap, err := s.manager.Snapshot(projectID)
	if err != nil {
		return err
	}
	seen := make(map[board.Column]bool, len(columns))
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		if err := checkStored(ctx, txTasks, projectID, before, columns...); err != nil {
			return err
		}
		for _, col := range columns {
			if seen[col] {
				continue
			}
			seen[col] = true
			if err := txTasks.SetColumn(ctx, projectID, string(col), taskIDs(snap.Tasks(col))); err != nil {
				return err
			}
		}
		return nil
	})
}

// checkStored reports ErrConflict when the stored order of any of columns
// differs from before, meaning another writer changed the board.
func checkStored(ctx context.Context, tasks repository.TaskRepo, projectID string, before board.Snapshot, columns ...board.Column) error {
	placed, err := tasks.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	stored := make(map[board.Column][]string)
	for _, pt := range placed {
		col := board.Column(pt.Column)
		stored[col] = append(stored[col], pt.Task.ID)
	}
	for _, col := range columns {
		if !slices.Equal(stored[col], taskIDs(before.Tasks(col))) {
			return fmt.Errorf("%w: board column %s changed since it was loaded, reload and retry", ErrConflict, col)
		}
	}
	return nil
}

func (s *boardService) reinsert(projectID string, column board.Column, index int, task domain.Task) error {
	if err := s.manager.AddTask(projectID, column, task); err != nil {
		return err
	}
	counts, err := s.manager.Counts(projectID)
	if err != nil {
		return err
	}
	_, err = s.manager.MoveTask(projectID, column, column, counts[column]-1, index)
	return err
}

// publish delivers ev without failing the use case; delivery errors are
// recorded on the use-case fields.
func (s *boardService) publish(ctx context.Context, fields map[string]any, ev events.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		fields["publish_error"] = err.Error()
	}
}

func taskIDs(tasks []domain.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
