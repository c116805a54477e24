package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestFormatUserList(t *testing.T) {
	users := []*domain.User{
		{ID: "u1", Name: "Admin User", Email: "admin@acme.com", Role: domain.RoleAdmin, Status: domain.UserActive, LastActivity: time.Now()},
		{ID: "u2", Name: "Employee Eshaan", Email: "eshaan@acme.com", Role: domain.RoleEmployee, Status: domain.UserInactive, LastActivity: time.Now().Add(-2 * time.Hour)},
	}
	out := stripANSI(FormatUserList(users))
	assert.Contains(t, out, "admin@acme.com")
	assert.Contains(t, out, "Employee Eshaan")
	assert.Contains(t, out, "○ inactive")
	assert.Contains(t, out, "2h ago")
}

func TestFormatNotifications(t *testing.T) {
	assert.Equal(t, "No notifications.", stripANSI(FormatNotifications(nil)))

	list := []*domain.Notification{
		{ID: "n2", Message: "Moved task to Done", CreatedAt: time.Now()},
		{ID: "n1", Message: "Welcome to EWM realtime!", CreatedAt: time.Now(), Read: true},
	}
	lines := strings.Split(stripANSI(FormatNotifications(list)), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "● Moved task to Done"))
	assert.True(t, strings.HasPrefix(lines[1], "  Welcome to EWM realtime!"))
}

func TestFormatDashboard(t *testing.T) {
	out := stripANSI(FormatDashboard(&service.Dashboard{
		TotalProjects:       2,
		ProjectsByStatus:    map[domain.ProjectStatus]int{domain.ProjectActive: 2, domain.ProjectArchived: 1},
		TotalTasks:          4,
		CompletedTasks:      1,
		PendingTasks:        3,
		Users:               3,
		ActiveUsers:         2,
		UnreadNotifications: 5,
	}))
	assert.Contains(t, out, "DASHBOARD")
	assert.Contains(t, out, "ACTIVE     2")
	assert.Contains(t, out, "ARCHIVED   1")
	assert.NotContains(t, out, "PAUSED")
	assert.Contains(t, out, "COMPLETED  1")
	assert.Contains(t, out, " 25%")
	assert.Contains(t, out, "UNREAD     5")
}
