package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/google/uuid"
)

var (
	testShortIDCounter atomic.Int64
	testEmailCounter   atomic.Int64
)

// Project options
type ProjectOption func(*domain.Project)

func WithDueDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.DueDate = &d
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithLayout(name string) ProjectOption {
	return func(p *domain.Project) {
		p.Layout = name
	}
}

func WithOwner(owner string) ProjectOption {
	return func(p *domain.Project) {
		p.Owner = owner
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		Owner:     "Manager Meera",
		Status:    domain.ProjectActive,
		Layout:    "simple",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskType(tt domain.TaskType) TaskOption {
	return func(t *domain.Task) {
		t.Type = tt
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithAssignee(name string) TaskOption {
	return func(t *domain.Task) {
		t.Assignee = name
	}
}

func WithTaskID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Type:      domain.TaskFeature,
		Priority:  domain.PriorityMedium,
		Assignee:  "Employee Eshaan",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithUserStatus(s domain.UserStatus) UserOption {
	return func(u *domain.User) {
		u.Status = s
	}
}

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	n := testEmailCounter.Add(1)
	u := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        fmt.Sprintf("user%d@acme.test", n),
		Role:         domain.RoleEmployee,
		Status:       domain.UserActive,
		LastActivity: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func NewTestNotification(message string) *domain.Notification {
	return &domain.Notification{
		ID:        uuid.New().String(),
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
