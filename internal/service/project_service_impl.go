package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/events"
	"github.com/alexanderramin/workboard/internal/repository"
	"github.com/google/uuid"
)

// boardEvictor is the slice of BoardService that project lifecycle changes need.
type boardEvictor interface {
	Forget(projectID string)
}

type projectService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	boards   boardEvictor
	events   events.Publisher
}

func NewProjectService(projects repository.ProjectRepo, tasks repository.TaskRepo, boards boardEvictor, publisher events.Publisher) ProjectService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &projectService{projects: projects, tasks: tasks, boards: boards, events: publisher}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	if p.Layout == "" {
		p.Layout = board.Simple.Name
	}
	if err := s.validate(p); err != nil {
		return err
	}
	if _, err := s.projects.GetByShortID(ctx, p.ShortID); err == nil {
		return fmt.Errorf("%w: project %s already exists", ErrConflict, p.ShortID)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return err
	}
	_ = s.events.Publish(ctx, events.Event{
		Kind:      events.ProjectCreated,
		ProjectID: p.ID,
		Message:   p.Name,
		At:        now,
	})
	return nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	return s.projects.GetByShortID(ctx, shortID)
}

func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	p, err := s.projects.GetByShortID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	p, err = s.projects.GetByID(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("project %q: %w", ref, repository.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

// Update saves p. The layout can only change while the board is empty, since
// stored column names belong to the old layout.
func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if err := s.validate(p); err != nil {
		return err
	}
	current, err := s.projects.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if current.Layout != p.Layout {
		n, err := s.tasks.CountByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: cannot change layout of %s while it has %d tasks", ErrConflict, p.DisplayID(), n)
		}
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.projects.Update(ctx, p); err != nil {
		return err
	}
	s.boards.Forget(p.ID)
	return nil
}

func (s *projectService) Archive(ctx context.Context, id string) error {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Status = domain.ProjectArchived
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Delete(ctx context.Context, id string, force bool) error {
	if !force {
		p, err := s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != domain.ProjectArchived {
			return fmt.Errorf("%w: project must be archived before deletion (use --force to override)", ErrConflict)
		}
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.boards.Forget(id)
	_ = s.events.Publish(ctx, events.Event{
		Kind:      events.ProjectDeleted,
		ProjectID: id,
		At:        time.Now().UTC(),
	})
	return nil
}

func (s *projectService) validate(p *domain.Project) error {
	if err := p.Validate(); err != nil {
		return invalid(err)
	}
	if _, ok := board.LayoutByName(p.Layout); !ok {
		return invalid(fmt.Errorf("unknown layout %q", p.Layout))
	}
	valid := false
	for _, st := range domain.ProjectStatuses {
		if p.Status == st {
			valid = true
		}
	}
	if !valid {
		return invalid(fmt.Errorf("unknown status %q", p.Status))
	}
	return nil
}
