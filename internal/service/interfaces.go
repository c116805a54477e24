package service

import (
	"context"
	"time"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/events"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	// Resolve accepts either a short ID or a full project ID.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type BoardService interface {
	Board(ctx context.Context, projectID string) (board.Snapshot, error)
	MoveTask(ctx context.Context, projectID string, from, to board.Column, fromIndex, toIndex int) (board.Move, error)
	AddTask(ctx context.Context, projectID string, column board.Column, t *domain.Task) error
	RemoveTask(ctx context.Context, projectID, taskID string) (domain.Task, error)
	UpdateTask(ctx context.Context, projectID string, t *domain.Task) error
	Counts(ctx context.Context, projectID string) (board.Layout, map[board.Column]int, error)
	// Forget drops the in-memory board so the next access reloads it.
	Forget(projectID string)
}

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	ToggleRole(ctx context.Context, id string) (*domain.User, error)
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type NotificationService interface {
	Push(ctx context.Context, message string) (*domain.Notification, error)
	List(ctx context.Context, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
	// Watch turns board events from broker into notifications until ctx is
	// done or the broker closes.
	Watch(ctx context.Context, broker *events.Broker)
	// RunFeed pushes a demo message every interval until ctx is done.
	RunFeed(ctx context.Context, interval time.Duration)
}

type DashboardService interface {
	Summary(ctx context.Context) (*Dashboard, error)
}

type SeedService interface {
	SeedDemo(ctx context.Context) (*SeedResult, error)
}
