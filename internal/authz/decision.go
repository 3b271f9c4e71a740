package authz

import "github.com/Ouedraogo-junior/task-management-api/internal/models"

// Action identifies an operation subject to project-level authorization.
type Action int

const (
	// ActionViewProject covers viewing a project, listing or viewing its
	// tasks, and reading its stats.
	ActionViewProject Action = iota
	ActionCreateTask
	ActionUpdateTask
	ActionUpdateProject
	ActionDeleteProject
	ActionManageMembers
)

// Decision is the outcome of an authorization check. NotFound takes
// precedence over Deny: a caller must never report "forbidden" for a
// project that does not exist.
type Decision int

const (
	NotFound Decision = iota
	Deny
	Allow
)

// Decide evaluates an action against resolved membership facts. It is a
// pure function; all storage access happens in the Resolver.
func Decide(action Action, m Membership) Decision {
	if !m.Exists() {
		return NotFound
	}

	switch action {
	case ActionViewProject, ActionCreateTask, ActionUpdateTask:
		if m.IsMember() {
			return Allow
		}
	case ActionUpdateProject, ActionManageMembers:
		if m.IsAdmin() {
			return Allow
		}
	case ActionDeleteProject:
		if m.IsOwner {
			return Allow
		}
	}

	return Deny
}

// DecideTaskDeletion allows the task's creator, the project owner, or a
// project admin to delete a task.
func DecideTaskDeletion(m Membership, task *models.Task, actorID uint64) Decision {
	if !m.Exists() || task == nil {
		return NotFound
	}
	if task.CreatedBy == actorID || m.IsAdmin() {
		return Allow
	}
	return Deny
}
