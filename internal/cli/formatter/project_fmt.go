package formatter

import (
	"strings"

	"github.com/alexanderramin/workboard/internal/domain"
)

// FormatProjectList renders a styled project list inside a bordered box.
// taskCounts is keyed by project ID; a nil map hides the TASKS column.
func FormatProjectList(projects []*domain.Project, taskCounts map[string]int) string {
	headers := []string{"ID", "NAME", "OWNER", "LAYOUT", "STATUS", "DUE"}
	if taskCounts != nil {
		headers = append(headers, "TASKS")
	}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		id := p.ShortID
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}

		dueStr := Dim("--")
		if p.DueDate != nil {
			dueStr = DueDateStyled(*p.DueDate)
		}

		row := []string{
			id,
			Bold(p.Name),
			p.Owner,
			StylePurple.Render(p.Layout),
			StatusPill(p.Status),
			dueStr,
		}
		if taskCounts != nil {
			row = append(row, StyleFg.Render(itoa(taskCounts[p.ID])))
		}
		rows = append(rows, row)
	}

	return RenderBox("Projects", RenderTable(headers, rows))
}
