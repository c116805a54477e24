package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/service"
)

// FormatDashboard renders the overview card.
func FormatDashboard(d *service.Dashboard) string {
	var b strings.Builder

	b.WriteString(Header("Projects") + "\n")
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("TOTAL    "), Bold(itoa(d.TotalProjects)))
	for _, st := range domain.ProjectStatuses {
		if n := d.ProjectsByStatus[st]; n > 0 {
			fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", strings.ToUpper(string(st)))), StyleFg.Render(itoa(n)))
		}
	}

	b.WriteString("\n" + Header("Tasks") + "\n")
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("TOTAL    "), Bold(itoa(d.TotalTasks)))
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("COMPLETED"), StyleGreen.Render(itoa(d.CompletedTasks)))
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("PENDING  "), StyleYellow.Render(itoa(d.PendingTasks)))
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("PROGRESS "), RenderProgress(Ratio(d.CompletedTasks, d.TotalTasks), 20))

	b.WriteString("\n" + Header("Team") + "\n")
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("USERS    "), Bold(itoa(d.Users)))
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("ACTIVE   "), StyleGreen.Render(itoa(d.ActiveUsers)))
	fmt.Fprintf(&b, "%s  %s", StyleDim.Render("UNREAD   "), StyleBlue.Render(itoa(d.UnreadNotifications)))

	return RenderBox("Dashboard", b.String())
}

func itoa(n int) string { return strconv.Itoa(n) }
