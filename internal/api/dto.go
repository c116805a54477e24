package api

import (
	"time"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/service"
)

const dateLayout = "2006-01-02"

type projectDTO struct {
	ID        string    `json:"id"`
	ShortID   string    `json:"shortId"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	Status    string    `json:"status"`
	Layout    string    `json:"layout"`
	DueDate   string    `json:"dueDate,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProjectDTO(p *domain.Project) projectDTO {
	dto := projectDTO{
		ID:        p.ID,
		ShortID:   p.ShortID,
		Name:      p.Name,
		Owner:     p.Owner,
		Status:    string(p.Status),
		Layout:    p.Layout,
		CreatedAt: p.CreatedAt,
	}
	if p.DueDate != nil {
		dto.DueDate = p.DueDate.Format(dateLayout)
	}
	return dto
}

type taskDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Priority  string    `json:"priority"`
	Assignee  string    `json:"assignee"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toTaskDTO(t domain.Task) taskDTO {
	return taskDTO{
		ID:        t.ID,
		Title:     t.Title,
		Type:      string(t.Type),
		Priority:  string(t.Priority),
		Assignee:  t.Assignee,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type columnDTO struct {
	Name  string    `json:"name"`
	Title string    `json:"title"`
	Tasks []taskDTO `json:"tasks"`
}

type boardDTO struct {
	ProjectID string      `json:"projectId"`
	Layout    string      `json:"layout"`
	Columns   []columnDTO `json:"columns"`
}

func toBoardDTO(snap board.Snapshot) boardDTO {
	dto := boardDTO{
		ProjectID: snap.ProjectID,
		Layout:    snap.Layout.Name,
		Columns:   make([]columnDTO, 0, len(snap.Layout.Columns)),
	}
	for _, col := range snap.Layout.Columns {
		tasks := snap.Tasks(col)
		cd := columnDTO{Name: string(col), Title: snap.Layout.Title(col), Tasks: make([]taskDTO, 0, len(tasks))}
		for _, t := range tasks {
			cd.Tasks = append(cd.Tasks, toTaskDTO(t))
		}
		dto.Columns = append(dto.Columns, cd)
	}
	return dto
}

type moveDTO struct {
	TaskID    string `json:"taskId"`
	From      string `json:"from"`
	To        string `json:"to"`
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`
	Noop      bool   `json:"noop,omitempty"`
}

type moveResponse struct {
	Move    moveDTO  `json:"move"`
	Board   boardDTO `json:"board"`
	Message string   `json:"message,omitempty"`
}

type userDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	LastActivity time.Time `json:"lastActivity"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		Status:       string(u.Status),
		LastActivity: u.LastActivity,
	}
}

type notificationDTO struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

func toNotificationDTO(n *domain.Notification) notificationDTO {
	return notificationDTO{ID: n.ID, Message: n.Message, CreatedAt: n.CreatedAt, Read: n.Read}
}

type dashboardDTO struct {
	TotalProjects       int            `json:"totalProjects"`
	ProjectsByStatus    map[string]int `json:"projectsByStatus"`
	TotalTasks          int            `json:"totalTasks"`
	CompletedTasks      int            `json:"completedTasks"`
	PendingTasks        int            `json:"pendingTasks"`
	Users               int            `json:"users"`
	ActiveUsers         int            `json:"activeUsers"`
	UnreadNotifications int            `json:"unreadNotifications"`
}

func toDashboardDTO(d *service.Dashboard) dashboardDTO {
	byStatus := make(map[string]int, len(d.ProjectsByStatus))
	for st, n := range d.ProjectsByStatus {
		byStatus[string(st)] = n
	}
	return dashboardDTO{
		TotalProjects:       d.TotalProjects,
		ProjectsByStatus:    byStatus,
		TotalTasks:          d.TotalTasks,
		CompletedTasks:      d.CompletedTasks,
		PendingTasks:        d.PendingTasks,
		Users:               d.Users,
		ActiveUsers:         d.ActiveUsers,
		UnreadNotifications: d.UnreadNotifications,
	}
}
