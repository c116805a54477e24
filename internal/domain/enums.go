package domain

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectPaused   ProjectStatus = "paused"
	ProjectDone     ProjectStatus = "done"
	ProjectArchived ProjectStatus = "archived"
)

// ProjectStatuses lists every project status in display order.
var ProjectStatuses = []ProjectStatus{ProjectActive, ProjectPaused, ProjectDone, ProjectArchived}

type TaskType string

const (
	TaskBug         TaskType = "Bug"
	TaskFeature     TaskType = "Feature"
	TaskImprovement TaskType = "Improvement"
)

// ValidTaskTypes is the canonical set of accepted task type strings.
var ValidTaskTypes = map[TaskType]bool{
	TaskBug: true, TaskFeature: true, TaskImprovement: true,
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[Priority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true,
}

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[Role]bool{
	RoleAdmin: true, RoleManager: true, RoleEmployee: true,
}

// CanManage reports whether the role may administer projects and users.
// Employees only work on boards.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)
