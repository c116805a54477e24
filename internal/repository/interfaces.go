package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/workboard/internal/domain"
)

// ErrNotFound is wrapped by every repository lookup that matches no row.
var ErrNotFound = errors.New("not found")

// PlacedTask is a task together with its board position as stored.
type PlacedTask struct {
	Task     domain.Task
	Column   string
	Position int
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, projectID, column string, position int, t *domain.Task) error
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	ListByProject(ctx context.Context, projectID string) ([]PlacedTask, error)
	// SetColumn rewrites column and position for ids so that ids[i] sits at
	// position i of column.
	SetColumn(ctx context.Context, projectID, column string, ids []string) error
	CountByProject(ctx context.Context, projectID string) (int, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, unreadOnly bool, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
