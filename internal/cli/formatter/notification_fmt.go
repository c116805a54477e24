package formatter

import (
	"strings"

	"github.com/alexanderramin/workboard/internal/domain"
)

// FormatNotifications lists notifications newest first, unread ones marked.
func FormatNotifications(list []*domain.Notification) string {
	if len(list) == 0 {
		return Dim("No notifications.")
	}
	var b strings.Builder
	for _, n := range list {
		dot := StyleBlue.Render("●")
		msg := Bold(n.Message)
		if n.Read {
			dot = " "
			msg = StyleFg.Render(n.Message)
		}
		b.WriteString(dot + " " + msg + "  " + Dim(HumanTimestamp(n.CreatedAt)) + "  " + TruncID(n.ID) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
