package authz

import (
	"testing"

	"github.com/Ouedraogo-junior/task-management-api/internal/models"
	"github.com/stretchr/testify/require"
)

func roleOf(role models.ProjectRole) *models.ProjectRole {
	return &role
}

func TestDecide_MissingProject(t *testing.T) {
	actions := []Action{
		ActionViewProject,
		ActionCreateTask,
		ActionUpdateTask,
		ActionUpdateProject,
		ActionDeleteProject,
		ActionManageMembers,
	}

	for _, action := range actions {
		require.Equal(t, NotFound, Decide(action, Membership{}))
	}
}

func TestDecide_RoleTable(t *testing.T) {
	project := &models.Project{ID: 1, OwnerID: 1}

	owner := Membership{Project: project, IsOwner: true}
	admin := Membership{Project: project, Role: roleOf(models.RoleAdmin)}
	member := Membership{Project: project, Role: roleOf(models.RoleMember)}
	outsider := Membership{Project: project}

	tests := []struct {
		name   string
		action Action
		m      Membership
		want   Decision
	}{
		{"owner can view", ActionViewProject, owner, Allow},
		{"admin can view", ActionViewProject, admin, Allow},
		{"member can view", ActionViewProject, member, Allow},
		{"outsider cannot view", ActionViewProject, outsider, Deny},

		{"member can create task", ActionCreateTask, member, Allow},
		{"outsider cannot create task", ActionCreateTask, outsider, Deny},

		{"member can update task", ActionUpdateTask, member, Allow},
		{"outsider cannot update task", ActionUpdateTask, outsider, Deny},

		{"owner can update project", ActionUpdateProject, owner, Allow},
		{"admin can update project", ActionUpdateProject, admin, Allow},
		{"member cannot update project", ActionUpdateProject, member, Deny},

		{"owner can delete project", ActionDeleteProject, owner, Allow},
		{"admin cannot delete project", ActionDeleteProject, admin, Deny},
		{"member cannot delete project", ActionDeleteProject, member, Deny},

		{"owner can manage members", ActionManageMembers, owner, Allow},
		{"admin can manage members", ActionManageMembers, admin, Allow},
		{"member cannot manage members", ActionManageMembers, member, Deny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Decide(tt.action, tt.m))
		})
	}
}

func TestDecideTaskDeletion(t *testing.T) {
	project := &models.Project{ID: 1, OwnerID: 1}
	task := &models.Task{ID: 10, ProjectID: 1, CreatedBy: 2}

	owner := Membership{Project: project, IsOwner: true}
	admin := Membership{Project: project, Role: roleOf(models.RoleAdmin)}
	creator := Membership{Project: project, Role: roleOf(models.RoleMember)}
	member := Membership{Project: project, Role: roleOf(models.RoleMember)}

	require.Equal(t, Allow, DecideTaskDeletion(owner, task, 1))
	require.Equal(t, Allow, DecideTaskDeletion(admin, task, 3))
	require.Equal(t, Allow, DecideTaskDeletion(creator, task, 2))
	require.Equal(t, Deny, DecideTaskDeletion(member, task, 4))

	require.Equal(t, NotFound, DecideTaskDeletion(Membership{}, task, 2))
	require.Equal(t, NotFound, DecideTaskDeletion(owner, nil, 1))
}
