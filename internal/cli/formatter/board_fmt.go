package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// BoardColumnWidth is the rendered width of one board column.
const BoardColumnWidth = 30

// Selection marks a highlighted card on a rendered board.
type Selection struct {
	Column board.Column
	Index  int
}

// FormatBoard renders the columns of a board side by side. Cards carry their
// zero-based index as used by "board move".
func FormatBoard(title string, snap board.Snapshot) string {
	return RenderBox(title, RenderColumns(snap, nil))
}

// RenderColumns lays out every column of snap, highlighting sel when set.
func RenderColumns(snap board.Snapshot, sel *Selection) string {
	cols := make([]string, 0, len(snap.Layout.Columns)*2)
	for i, col := range snap.Layout.Columns {
		if i > 0 {
			cols = append(cols, "  ")
		}
		cols = append(cols, renderColumn(snap.Layout.Title(col), col, snap.Tasks(col), sel))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderColumn(title string, col board.Column, tasks []domain.Task, sel *Selection) string {
	style := lipgloss.NewStyle().Width(BoardColumnWidth)

	var b strings.Builder
	b.WriteString(StyleHeader.Render(fmt.Sprintf("%s (%d)", title, len(tasks))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(strings.Repeat("─", BoardColumnWidth)))
	b.WriteString("\n")
	if len(tasks) == 0 {
		b.WriteString(Dim("(empty)"))
		b.WriteString("\n")
	}
	for i, t := range tasks {
		selected := sel != nil && sel.Column == col && sel.Index == i
		b.WriteString(renderCard(i, t, selected))
	}
	return style.Render(b.String())
}

func renderCard(index int, t domain.Task, selected bool) string {
	marker := "  "
	titleStyle := StyleBold
	if selected {
		marker = StyleYellow.Render("▶ ")
		titleStyle = StyleBold.Foreground(ColorYellow)
	}
	title := Truncate(t.Title, BoardColumnWidth-8)

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %s\n", marker, Dim(fmt.Sprintf("[%d]", index)), titleStyle.Render(title))
	fmt.Fprintf(&b, "      %s · %s\n", TypeBadge(t.Type), PriorityPill(t.Priority))
	if t.Assignee != "" {
		fmt.Fprintf(&b, "      %s\n", Dim("@"+Truncate(t.Assignee, BoardColumnWidth-7)))
	}
	return b.String()
}

// FormatMove describes a completed move in one line.
func FormatMove(layout board.Layout, mv board.Move) string {
	if mv.Noop {
		return Dim(fmt.Sprintf("%q stayed at %s[%d]", mv.Task.Title, layout.Title(mv.To), mv.ToIndex))
	}
	return fmt.Sprintf("%s %s %s[%d] → %s[%d]",
		StyleGreen.Render("✔"),
		Bold(mv.Task.Title),
		layout.Title(mv.From), mv.FromIndex,
		layout.Title(mv.To), mv.ToIndex)
}
