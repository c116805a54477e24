package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/repository"
)

// DemoProjectShortID identifies the seeded demo project.
const DemoProjectShortID = "EWM01"

// SeedResult reports what SeedDemo created.
type SeedResult struct {
	Project      *domain.Project
	ProjectAdded bool
	TasksAdded   int
	UsersAdded   int
}

type demoTask struct {
	column   board.Column
	title    string
	taskType domain.TaskType
	priority domain.Priority
	assignee string
}

var demoTasks = []demoTask{
	{"backlog", "Design login UI", domain.TaskFeature, domain.PriorityHigh, "Employee Eshaan"},
	{"backlog", "Fix auth bug", domain.TaskBug, domain.PriorityMedium, "Manager Meera"},
	{"inprogress", "Kanban DnD", domain.TaskImprovement, domain.PriorityLow, "Employee Eshaan"},
}

func demoUsers(now time.Time) []*domain.User {
	return []*domain.User{
		{Name: "Admin User", Email: "admin@acme.com", Role: domain.RoleAdmin, Status: domain.UserActive, LastActivity: now},
		{Name: "Manager Meera", Email: "meera@acme.com", Role: domain.RoleManager, Status: domain.UserActive, LastActivity: now},
		{Name: "Employee Eshaan", Email: "eshaan@acme.com", Role: domain.RoleEmployee, Status: domain.UserInactive, LastActivity: now.AddDate(0, 0, -1)},
	}
}

type seedService struct {
	projects ProjectService
	boards   BoardService
	users    UserService
	observer UseCaseObserver
}

func NewSeedService(projects ProjectService, boards BoardService, users UserService, observers ...UseCaseObserver) SeedService {
	return &seedService{projects: projects, boards: boards, users: users, observer: useCaseObserverOrNoop(observers)}
}

// SeedDemo creates the demo project, its board and the demo users. Anything
// already present is left alone, so running it twice changes nothing.
func (s *seedService) SeedDemo(ctx context.Context) (res *SeedResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "seed-demo", startedAt, fields, &err)

	res = &SeedResult{}
	project, err := s.projects.GetByShortID(ctx, DemoProjectShortID)
	switch {
	case err == nil:
		res.Project = project
	case errors.Is(err, repository.ErrNotFound):
		due := startedAt.AddDate(0, 0, 7)
		project = &domain.Project{
			ShortID: DemoProjectShortID,
			Name:    "EWM Platform",
			Owner:   "Manager Meera",
			Layout:  board.Simple.Name,
			DueDate: &due,
		}
		if err = s.projects.Create(ctx, project); err != nil {
			return nil, fmt.Errorf("creating demo project: %w", err)
		}
		res.Project = project
		res.ProjectAdded = true
		for _, dt := range demoTasks {
			t := &domain.Task{Title: dt.title, Type: dt.taskType, Priority: dt.priority, Assignee: dt.assignee}
			if err = s.boards.AddTask(ctx, project.ID, dt.column, t); err != nil {
				return nil, fmt.Errorf("adding demo task %q: %w", dt.title, err)
			}
			res.TasksAdded++
		}
	default:
		return nil, err
	}

	existing, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, u := range existing {
		have[u.Email] = true
	}
	for _, u := range demoUsers(startedAt) {
		if have[u.Email] {
			continue
		}
		if err = s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("creating demo user %s: %w", u.Email, err)
		}
		res.UsersAdded++
	}

	fields["project_added"] = res.ProjectAdded
	fields["tasks_added"] = res.TasksAdded
	fields["users_added"] = res.UsersAdded
	return res, nil
}
