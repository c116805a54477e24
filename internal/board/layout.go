package board

import "strings"

// Column names a workflow stage on a board.
type Column string

// Layout is a fixed, ordered set of columns a project board is built from.
type Layout struct {
	Name    string
	Columns []Column
	Titles  map[Column]string
}

var (
	// Simple is the three-stage board seeded for demo projects.
	Simple = Layout{
		Name:    "simple",
		Columns: []Column{"backlog", "inprogress", "done"},
		Titles: map[Column]string{
			"backlog":    "Backlog",
			"inprogress": "In Progress",
			"done":       "Done",
		},
	}

	// Workflow is the five-stage board with review.
	Workflow = Layout{
		Name:    "workflow",
		Columns: []Column{"BACKLOG", "TODO", "IN_PROGRESS", "REVIEW", "DONE"},
		Titles: map[Column]string{
			"BACKLOG":     "Backlog",
			"TODO":        "To Do",
			"IN_PROGRESS": "In Progress",
			"REVIEW":      "Review",
			"DONE":        "Done",
		},
	}
)

// Layouts lists every known layout.
var Layouts = []Layout{Simple, Workflow}

// LayoutByName looks up a layout case-insensitively.
func LayoutByName(name string) (Layout, bool) {
	for _, l := range Layouts {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Layout{}, false
}

// Has reports whether c is one of the layout's columns.
func (l Layout) Has(c Column) bool {
	return l.Index(c) >= 0
}

// Index returns the position of c in the layout, or -1.
func (l Layout) Index(c Column) int {
	for i, col := range l.Columns {
		if col == c {
			return i
		}
	}
	return -1
}

// Title returns the display title of c, falling back to the raw name.
func (l Layout) Title(c Column) string {
	if t, ok := l.Titles[c]; ok {
		return t
	}
	return string(c)
}

// First is the column new tasks land in by default.
func (l Layout) First() Column {
	return l.Columns[0]
}

// Done is the last column; tasks there count as completed.
func (l Layout) Done() Column {
	return l.Columns[len(l.Columns)-1]
}

// Neighbor returns the column offset steps away from c, if any.
func (l Layout) Neighbor(c Column, offset int) (Column, bool) {
	i := l.Index(c)
	if i < 0 {
		return "", false
	}
	j := i + offset
	if j < 0 || j >= len(l.Columns) {
		return "", false
	}
	return l.Columns[j], true
}

// ResolveColumn matches input against the layout's column names and titles,
// case-insensitively. Unknown input is returned unchanged so callers get an
// InvalidColumnError from the manager.
func (l Layout) ResolveColumn(input string) Column {
	for _, c := range l.Columns {
		if strings.EqualFold(string(c), input) || strings.EqualFold(l.Titles[c], input) {
			return c
		}
	}
	return Column(input)
}
