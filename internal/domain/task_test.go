package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr string
	}{
		{"valid", Task{Title: "Fix auth bug", Type: TaskBug, Priority: PriorityMedium}, ""},
		{"blank title", Task{Title: "  ", Type: TaskBug, Priority: PriorityLow}, "title"},
		{"bad type", Task{Title: "x", Type: "Chore", Priority: PriorityLow}, "task type"},
		{"bad priority", Task{Title: "x", Type: TaskFeature, Priority: "Urgent"}, "priority"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParseTaskTypeAndPriority_CaseInsensitive(t *testing.T) {
	tt, err := ParseTaskType("improvement")
	require.NoError(t, err)
	assert.Equal(t, TaskImprovement, tt)

	p, err := ParsePriority("HIGH")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParseTaskType("epic")
	assert.Error(t, err)
	_, err = ParsePriority("")
	assert.Error(t, err)
}

func TestUserValidate_Employee(t *testing.T) {
	u := &User{Name: "Employee Eshaan", Email: "eshaan@acme.com", Role: RoleEmployee}
	assert.NoError(t, u.Validate())

	u.Email = "not-an-email"
	err := u.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid email")

	u.Email = "eshaan@acme.com"
	u.Role = "Intern"
	assert.Error(t, u.Validate())
}

func TestParseRole_ManagerAndUnknown(t *testing.T) {
	r, err := ParseRole("manager")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, r)

	_, err = ParseRole("root")
	assert.Error(t, err)
}
