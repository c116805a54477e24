package formatter

import "github.com/alexanderramin/workboard/internal/domain"

// FormatUserList renders users as a table.
func FormatUserList(users []*domain.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			TruncID(u.ID),
			Bold(u.Name),
			u.Email,
			RolePill(u.Role),
			UserStatusPill(u.Status),
			Dim(HumanTimestamp(u.LastActivity)),
		})
	}
	return RenderBox("Users", RenderTable([]string{"ID", "NAME", "EMAIL", "ROLE", "STATUS", "LAST SEEN"}, rows))
}
