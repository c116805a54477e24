package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/cli/formatter"
	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/service"
)

type boardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextCol  key.Binding
	PrevCol  key.Binding
	Left     key.Binding
	Right    key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

var boardKeys = boardKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "select")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "select")),
	NextCol:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next column")),
	PrevCol:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev column")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "move left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "move right")),
	MoveUp:   key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "reorder up")),
	MoveDown: key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "reorder down")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k boardKeyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.NextCol, k.Left, k.Right, k.MoveUp, k.MoveDown, k.Refresh, k.Quit}
}

// boardLoadedMsg carries a fresh snapshot, and the move that produced it
// when there was one.
type boardLoadedMsg struct {
	snap board.Snapshot
	move *board.Move
	err  error
}

// boardModel is the interactive board. The cursor is a column index plus a
// row within that column.
type boardModel struct {
	ctx     context.Context
	boards  service.BoardService
	project *domain.Project
	snap    board.Snapshot
	col     int
	row     int
	status  string
	err     error
	busy    bool
}

func newBoardModel(ctx context.Context, boards service.BoardService, p *domain.Project) (*boardModel, error) {
	snap, err := boards.Board(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &boardModel{ctx: ctx, boards: boards, project: p, snap: snap}, nil
}

func (m *boardModel) Init() tea.Cmd { return nil }

func (m *boardModel) column() board.Column {
	return m.snap.Layout.Columns[m.col]
}

func (m *boardModel) selected() (domain.Task, bool) {
	tasks := m.snap.Tasks(m.column())
	if m.row < 0 || m.row >= len(tasks) {
		return domain.Task{}, false
	}
	return tasks[m.row], true
}

func (m *boardModel) clampRow() {
	n := len(m.snap.Tasks(m.column()))
	m.row = max(min(m.row, n-1), 0)
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.snap = msg.snap
		if mv := msg.move; mv != nil {
			m.col = m.snap.Layout.Index(mv.To)
			m.row = mv.ToIndex
			m.status = formatter.FormatMove(m.snap.Layout, *mv)
		}
		m.clampRow()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, boardKeys.Quit) {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	ncols := len(m.snap.Layout.Columns)
	switch {
	case key.Matches(msg, boardKeys.Up):
		m.row--
		m.clampRow()
	case key.Matches(msg, boardKeys.Down):
		m.row++
		m.clampRow()
	case key.Matches(msg, boardKeys.NextCol):
		m.col = (m.col + 1) % ncols
		m.clampRow()
	case key.Matches(msg, boardKeys.PrevCol):
		m.col = (m.col + ncols - 1) % ncols
		m.clampRow()
	case key.Matches(msg, boardKeys.Left):
		return m, m.moveAcross(-1)
	case key.Matches(msg, boardKeys.Right):
		return m, m.moveAcross(1)
	case key.Matches(msg, boardKeys.MoveUp):
		return m, m.reorder(-1)
	case key.Matches(msg, boardKeys.MoveDown):
		return m, m.reorder(1)
	case key.Matches(msg, boardKeys.Refresh):
		m.busy = true
		return m, m.load()
	}
	return m, nil
}

// moveAcross appends the selected task to the neighbouring column.
func (m *boardModel) moveAcross(offset int) tea.Cmd {
	if _, ok := m.selected(); !ok {
		m.status = "Nothing selected."
		return nil
	}
	from := m.column()
	to, ok := m.snap.Layout.Neighbor(from, offset)
	if !ok {
		edge := "last"
		if offset < 0 {
			edge = "first"
		}
		m.status = fmt.Sprintf("%s is the %s column.", m.snap.Layout.Title(from), edge)
		return nil
	}
	return m.move(from, to, m.row, len(m.snap.Tasks(to)))
}

// reorder shifts the selected task one place within its column.
func (m *boardModel) reorder(offset int) tea.Cmd {
	if _, ok := m.selected(); !ok {
		m.status = "Nothing selected."
		return nil
	}
	target := m.row + offset
	if target < 0 || target >= len(m.snap.Tasks(m.column())) {
		return nil
	}
	col := m.column()
	return m.move(col, col, m.row, target)
}

func (m *boardModel) move(from, to board.Column, fromIndex, toIndex int) tea.Cmd {
	m.busy = true
	boards, ctx, projectID := m.boards, m.ctx, m.project.ID
	return func() tea.Msg {
		mv, err := boards.MoveTask(ctx, projectID, from, to, fromIndex, toIndex)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		snap, err := boards.Board(ctx, projectID)
		return boardLoadedMsg{snap: snap, move: &mv, err: err}
	}
}

func (m *boardModel) load() tea.Cmd {
	boards, ctx, projectID := m.boards, m.ctx, m.project.ID
	return func() tea.Msg {
		snap, err := boards.Board(ctx, projectID)
		return boardLoadedMsg{snap: snap, err: err}
	}
}

func (m *boardModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header(m.project.DisplayID()+"  "+m.project.Name) + "\n\n")

	var sel *formatter.Selection
	if _, ok := m.selected(); ok {
		sel = &formatter.Selection{Column: m.column(), Index: m.row}
	}
	b.WriteString(formatter.RenderColumns(m.snap, sel) + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(m.status + "\n")
	}

	help := make([]string, 0, len(boardKeys.help()))
	for _, k := range boardKeys.help() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(formatter.Dim(strings.Join(help, " · ")))
	return b.String()
}
