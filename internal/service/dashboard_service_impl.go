package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/repository"
)

// Dashboard is the overview shown on the landing page.
type Dashboard struct {
	TotalProjects       int
	ProjectsByStatus    map[domain.ProjectStatus]int
	TotalTasks          int
	CompletedTasks      int
	PendingTasks        int
	Users               int
	ActiveUsers         int
	UnreadNotifications int
}

type dashboardService struct {
	projects      repository.ProjectRepo
	users         repository.UserRepo
	notifications repository.NotificationRepo
	boards        BoardService
}

func NewDashboardService(
	projects repository.ProjectRepo,
	users repository.UserRepo,
	notifications repository.NotificationRepo,
	boards BoardService,
) DashboardService {
	return &dashboardService{projects: projects, users: users, notifications: notifications, boards: boards}
}

// Summary counts non-archived projects. A task is completed when it sits in
// the last column of its project's layout.
func (s *dashboardService) Summary(ctx context.Context) (*Dashboard, error) {
	all, err := s.projects.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	d := &Dashboard{ProjectsByStatus: make(map[domain.ProjectStatus]int, len(domain.ProjectStatuses))}
	for _, st := range domain.ProjectStatuses {
		d.ProjectsByStatus[st] = 0
	}
	for _, p := range all {
		d.ProjectsByStatus[p.Status]++
		if p.Status == domain.ProjectArchived {
			continue
		}
		d.TotalProjects++
		layout, counts, err := s.boards.Counts(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("counting tasks for %s: %w", p.DisplayID(), err)
		}
		for col, n := range counts {
			d.TotalTasks += n
			if col == layout.Done() {
				d.CompletedTasks += n
			}
		}
	}
	d.PendingTasks = d.TotalTasks - d.CompletedTasks

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	d.Users = len(users)
	for _, u := range users {
		if u.Status == domain.UserActive {
			d.ActiveUsers++
		}
	}

	unread, err := s.notifications.List(ctx, true, 0)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	d.UnreadNotifications = len(unread)
	return d, nil
}
