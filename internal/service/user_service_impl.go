package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/repository"
	"github.com/google/uuid"
)

type userService struct {
	users    repository.UserRepo
	observer UseCaseObserver
}

func NewUserService(users repository.UserRepo, observers ...UseCaseObserver) UserService {
	return &userService{users: users, observer: useCaseObserverOrNoop(observers)}
}

func (s *userService) Create(ctx context.Context, u *domain.User) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"email": u.Email}
	defer observe(ctx, s.observer, "create-user", startedAt, fields, &err)

	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = domain.RoleEmployee
	}
	if u.Status == "" {
		u.Status = domain.UserActive
	}
	if u.LastActivity.IsZero() {
		u.LastActivity = startedAt
	}
	if err = u.Validate(); err != nil {
		return invalid(err)
	}

	existing, err := s.users.List(ctx)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.Email == u.Email {
			return fmt.Errorf("%w: a user with email %s already exists", ErrConflict, u.Email)
		}
	}
	return s.users.Create(ctx, u)
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !domain.ValidRoles[role] {
		return nil, invalid(fmt.Errorf("invalid role %q", role))
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ToggleRole flips an Employee to Manager and anyone else to Employee.
func (s *userService) ToggleRole(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := domain.RoleEmployee
	if u.Role == domain.RoleEmployee {
		next = domain.RoleManager
	}
	return s.UpdateRole(ctx, id, next)
}

// Touch records activity now and marks the user active.
func (s *userService) Touch(ctx context.Context, id string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	u.LastActivity = time.Now().UTC()
	u.Status = domain.UserActive
	return s.users.Update(ctx, u)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
