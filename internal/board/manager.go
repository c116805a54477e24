// Package board holds per-project Kanban state: ordered columns of tasks and
// the move/reorder transition between them.
//
// A Manager is not safe for concurrent use. Callers serialize mutations per
// project; see service.BoardService.
package board

import (
	"sort"

	"github.com/alexanderramin/workboard/internal/domain"
)

// Manager holds the boards of any number of projects.
type Manager struct {
	projects map[string]*projectBoard
}

type projectBoard struct {
	layout  Layout
	columns map[Column][]domain.Task
}

// Move describes an applied (or no-op) MoveTask.
type Move struct {
	ProjectID string
	Task      domain.Task
	From      Column
	To        Column
	FromIndex int
	ToIndex   int
	Noop      bool
}

// Inverse returns the move that undoes m.
func (m Move) Inverse() Move {
	return Move{
		ProjectID: m.ProjectID,
		Task:      m.Task,
		From:      m.To,
		To:        m.From,
		FromIndex: m.ToIndex,
		ToIndex:   m.FromIndex,
		Noop:      m.Noop,
	}
}

// Snapshot is a detached copy of one project's board.
type Snapshot struct {
	ProjectID string
	Layout    Layout
	Columns   map[Column][]domain.Task
}

// Tasks returns the tasks of column c in order.
func (s Snapshot) Tasks(c Column) []domain.Task {
	return s.Columns[c]
}

// Total counts every task on the board.
func (s Snapshot) Total() int {
	n := 0
	for _, tasks := range s.Columns {
		n += len(tasks)
	}
	return n
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{projects: make(map[string]*projectBoard)}
}

// AddProject registers an empty board. An existing board is left untouched.
func (m *Manager) AddProject(projectID string, layout Layout) {
	if _, ok := m.projects[projectID]; ok {
		return
	}
	m.projects[projectID] = newProjectBoard(layout)
}

// HasProject reports whether a board is loaded for projectID.
func (m *Manager) HasProject(projectID string) bool {
	_, ok := m.projects[projectID]
	return ok
}

// RemoveProject drops a project's board and all its tasks.
func (m *Manager) RemoveProject(projectID string) {
	delete(m.projects, projectID)
}

// Seed replaces a project's board with the given columns. Columns outside the
// layout and duplicate task ids are rejected and leave any existing board as is.
func (m *Manager) Seed(projectID string, layout Layout, columns map[Column][]domain.Task) error {
	pb := newProjectBoard(layout)
	seen := make(map[string]bool)
	for col, tasks := range columns {
		if !layout.Has(col) {
			return &InvalidColumnError{ProjectID: projectID, Column: col}
		}
		for _, t := range tasks {
			if seen[t.ID] {
				return &DuplicateTaskError{TaskID: t.ID}
			}
			seen[t.ID] = true
		}
		pb.columns[col] = append([]domain.Task(nil), tasks...)
	}
	m.projects[projectID] = pb
	return nil
}

// Projects returns the ids of all loaded boards, sorted.
func (m *Manager) Projects() []string {
	ids := make([]string, 0, len(m.projects))
	for id := range m.projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Layout returns the layout of a project's board.
func (m *Manager) Layout(projectID string) (Layout, error) {
	pb, err := m.project(projectID)
	if err != nil {
		return Layout{}, err
	}
	return pb.layout, nil
}

// MoveTask removes the task at fromIndex in column from and inserts it at
// toIndex in column to. toIndex is read against the destination after the
// removal, so for same-column moves the valid range is [0, len-1] and for
// cross-column moves [0, len(to)].
//
// All inputs are validated before anything changes. The affected columns are
// rebuilt as new slices and swapped in together, so a failed call leaves the
// board exactly as it was.
func (m *Manager) MoveTask(projectID string, from, to Column, fromIndex, toIndex int) (Move, error) {
	pb, err := m.project(projectID)
	if err != nil {
		return Move{}, err
	}
	if err := pb.checkColumn(projectID, from); err != nil {
		return Move{}, err
	}
	if err := pb.checkColumn(projectID, to); err != nil {
		return Move{}, err
	}

	src := pb.columns[from]
	if fromIndex < 0 || fromIndex >= len(src) {
		return Move{}, &IndexOutOfRangeError{Column: from, Index: fromIndex, Len: len(src)}
	}
	destLen := len(pb.columns[to])
	if from == to {
		destLen--
	}
	if toIndex < 0 || toIndex > destLen {
		return Move{}, &IndexOutOfRangeError{Column: to, Index: toIndex, Len: destLen}
	}

	mv := Move{
		ProjectID: projectID,
		Task:      src[fromIndex],
		From:      from,
		To:        to,
		FromIndex: fromIndex,
		ToIndex:   toIndex,
	}
	if from == to && fromIndex == toIndex {
		mv.Noop = true
		return mv, nil
	}

	remaining := removeAt(src, fromIndex)
	if from == to {
		pb.columns[from] = insertAt(remaining, toIndex, mv.Task)
		return mv, nil
	}
	dest := insertAt(pb.columns[to], toIndex, mv.Task)
	pb.columns[from] = remaining
	pb.columns[to] = dest
	return mv, nil
}

// Apply replays a previously returned Move, typically its Inverse.
func (m *Manager) Apply(mv Move) error {
	_, err := m.MoveTask(mv.ProjectID, mv.From, mv.To, mv.FromIndex, mv.ToIndex)
	return err
}

// AddTask appends task to column.
func (m *Manager) AddTask(projectID string, column Column, task domain.Task) error {
	pb, err := m.project(projectID)
	if err != nil {
		return err
	}
	if err := pb.checkColumn(projectID, column); err != nil {
		return err
	}
	if _, _, ok := pb.locate(task.ID); ok {
		return &DuplicateTaskError{TaskID: task.ID}
	}
	pb.columns[column] = insertAt(pb.columns[column], len(pb.columns[column]), task)
	return nil
}

// RemoveTask deletes a task from whichever column holds it and returns it.
func (m *Manager) RemoveTask(projectID, taskID string) (domain.Task, error) {
	pb, err := m.project(projectID)
	if err != nil {
		return domain.Task{}, err
	}
	col, i, ok := pb.locate(taskID)
	if !ok {
		return domain.Task{}, &TaskNotFoundError{TaskID: taskID}
	}
	task := pb.columns[col][i]
	pb.columns[col] = removeAt(pb.columns[col], i)
	return task, nil
}

// UpdateTask replaces the stored record for task.ID, keeping its position.
func (m *Manager) UpdateTask(projectID string, task domain.Task) error {
	pb, err := m.project(projectID)
	if err != nil {
		return err
	}
	col, i, ok := pb.locate(task.ID)
	if !ok {
		return &TaskNotFoundError{TaskID: task.ID}
	}
	updated := append([]domain.Task(nil), pb.columns[col]...)
	updated[i] = task
	pb.columns[col] = updated
	return nil
}

// Locate finds the column and index of a task.
func (m *Manager) Locate(projectID, taskID string) (Column, int, error) {
	pb, err := m.project(projectID)
	if err != nil {
		return "", 0, err
	}
	col, i, ok := pb.locate(taskID)
	if !ok {
		return "", 0, &TaskNotFoundError{TaskID: taskID}
	}
	return col, i, nil
}

// Snapshot returns a copy of the board that later mutations do not affect.
func (m *Manager) Snapshot(projectID string) (Snapshot, error) {
	pb, err := m.project(projectID)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		ProjectID: projectID,
		Layout:    pb.layout,
		Columns:   make(map[Column][]domain.Task, len(pb.layout.Columns)),
	}
	for _, col := range pb.layout.Columns {
		snap.Columns[col] = append([]domain.Task{}, pb.columns[col]...)
	}
	return snap, nil
}

// Counts returns the number of tasks per column.
func (m *Manager) Counts(projectID string) (map[Column]int, error) {
	pb, err := m.project(projectID)
	if err != nil {
		return nil, err
	}
	counts := make(map[Column]int, len(pb.layout.Columns))
	for _, col := range pb.layout.Columns {
		counts[col] = len(pb.columns[col])
	}
	return counts, nil
}

func newProjectBoard(layout Layout) *projectBoard {
	pb := &projectBoard{
		layout:  layout,
		columns: make(map[Column][]domain.Task, len(layout.Columns)),
	}
	for _, col := range layout.Columns {
		pb.columns[col] = nil
	}
	return pb
}

func (m *Manager) project(projectID string) (*projectBoard, error) {
	pb, ok := m.projects[projectID]
	if !ok {
		return nil, &NotFoundError{ProjectID: projectID}
	}
	return pb, nil
}

func (pb *projectBoard) checkColumn(projectID string, c Column) error {
	if !pb.layout.Has(c) {
		return &InvalidColumnError{ProjectID: projectID, Column: c}
	}
	return nil
}

func (pb *projectBoard) locate(taskID string) (Column, int, bool) {
	for _, col := range pb.layout.Columns {
		for i, t := range pb.columns[col] {
			if t.ID == taskID {
				return col, i, true
			}
		}
	}
	return "", 0, false
}

// removeAt returns a new slice without element i.
func removeAt(tasks []domain.Task, i int) []domain.Task {
	out := make([]domain.Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}

// insertAt returns a new slice with t at position i.
func insertAt(tasks []domain.Task, i int, t domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks)+1)
	out = append(out, tasks[:i]...)
	out = append(out, t)
	return append(out, tasks[i:]...)
}
