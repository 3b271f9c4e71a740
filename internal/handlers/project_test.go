package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Ouedraogo-junior/task-management-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestProjectHandler_CreateProject(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, token := env.createUser(t, "Alice", "alice@example.com")

	w := doJSON(t, env.router, http.MethodPost, "/api/projects", token, map[string]string{
		"name":        "Refonte du site",
		"description": "Migration vers la nouvelle charte",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	response := decodeEnvelope(t, w)
	data := response["data"].(map[string]any)
	require.Equal(t, "Refonte du site", data["name"])
	require.Equal(t, float64(owner.ID), data["owner_id"])

	// The owner gets an explicit admin membership row on creation.
	var member models.ProjectMember
	err := env.db.Where("project_id = ? AND user_id = ?", uint64(data["id"].(float64)), owner.ID).First(&member).Error
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, member.Role)
}

func TestProjectHandler_CreateProject_MissingName(t *testing.T) {
	env := setupAPITestEnv(t)
	_, token := env.createUser(t, "Alice", "alice@example.com")

	w := doJSON(t, env.router, http.MethodPost, "/api/projects", token, map[string]string{
		"description": "sans nom",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_ListProjects(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, ownerToken := env.createUser(t, "Alice", "alice@example.com")
	member, memberToken := env.createUser(t, "Bob", "bob@example.com")
	_, strangerToken := env.createUser(t, "Eve", "eve@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")
	env.createProject(t, owner.ID, "Sprint interne")
	env.addMember(t, project.ID, owner.ID, member.ID, models.RoleMember)

	w := doJSON(t, env.router, http.MethodGet, "/api/projects", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decodeEnvelope(t, w)
	require.Equal(t, float64(2), response["count"])

	w = doJSON(t, env.router, http.MethodGet, "/api/projects", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	response = decodeEnvelope(t, w)
	require.Equal(t, float64(1), response["count"])

	w = doJSON(t, env.router, http.MethodGet, "/api/projects", strangerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	response = decodeEnvelope(t, w)
	require.Equal(t, float64(0), response["count"])
}

func TestProjectHandler_GetProject_NonMember(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, _ := env.createUser(t, "Alice", "alice@example.com")
	_, strangerToken := env.createUser(t, "Eve", "eve@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")

	w := doJSON(t, env.router, http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), strangerToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	response := decodeEnvelope(t, w)
	require.Equal(t, "Accès non autorisé à ce projet", response["message"])
}

func TestProjectHandler_GetProject_Missing(t *testing.T) {
	env := setupAPITestEnv(t)
	_, token := env.createUser(t, "Alice", "alice@example.com")

	w := doJSON(t, env.router, http.MethodGet, "/api/projects/999", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	response := decodeEnvelope(t, w)
	require.Equal(t, "Projet non trouvé", response["message"])
}

func TestProjectHandler_UpdateProject_MemberForbidden(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, _ := env.createUser(t, "Alice", "alice@example.com")
	member, memberToken := env.createUser(t, "Bob", "bob@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")
	env.addMember(t, project.ID, owner.ID, member.ID, models.RoleMember)

	w := doJSON(t, env.router, http.MethodPut, fmt.Sprintf("/api/projects/%d", project.ID), memberToken, map[string]string{
		"name": "Nouveau nom",
	})

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectHandler_UpdateProject_Admin(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, _ := env.createUser(t, "Alice", "alice@example.com")
	admin, adminToken := env.createUser(t, "Bob", "bob@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")
	env.addMember(t, project.ID, owner.ID, admin.ID, models.RoleAdmin)

	w := doJSON(t, env.router, http.MethodPut, fmt.Sprintf("/api/projects/%d", project.ID), adminToken, map[string]string{
		"name": "Nouveau nom",
	})

	require.Equal(t, http.StatusOK, w.Code)

	response := decodeEnvelope(t, w)
	data := response["data"].(map[string]any)
	require.Equal(t, "Nouveau nom", data["name"])
}

func TestProjectHandler_DeleteProject_AdminForbidden(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, _ := env.createUser(t, "Alice", "alice@example.com")
	admin, adminToken := env.createUser(t, "Bob", "bob@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")
	env.addMember(t, project.ID, owner.ID, admin.ID, models.RoleAdmin)

	w := doJSON(t, env.router, http.MethodDelete, fmt.Sprintf("/api/projects/%d", project.ID), adminToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	response := decodeEnvelope(t, w)
	require.Equal(t, "Seul le propriétaire peut supprimer ce projet", response["message"])
}

func TestProjectHandler_DeleteProject_Cascades(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, ownerToken := env.createUser(t, "Alice", "alice@example.com")
	member, _ := env.createUser(t, "Bob", "bob@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")
	env.addMember(t, project.ID, owner.ID, member.ID, models.RoleMember)

	_, err := env.taskService.CreateTask(project.ID, owner.ID, createTaskInputTitled("Préparer la maquette"))
	require.NoError(t, err)
	_, err = env.taskService.CreateTask(project.ID, member.ID, createTaskInputTitled("Relire les maquettes"))
	require.NoError(t, err)

	w := doJSON(t, env.router, http.MethodDelete, fmt.Sprintf("/api/projects/%d", project.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var taskCount int64
	require.NoError(t, env.db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&taskCount).Error)
	require.Zero(t, taskCount)

	var memberCount int64
	require.NoError(t, env.db.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&memberCount).Error)
	require.Zero(t, memberCount)

	var projectCount int64
	require.NoError(t, env.db.Model(&models.Project{}).Where("id = ?", project.ID).Count(&projectCount).Error)
	require.Zero(t, projectCount)
}

func TestProjectHandler_AddMember(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, ownerToken := env.createUser(t, "Alice", "alice@example.com")
	member, _ := env.createUser(t, "Bob", "bob@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")

	w := doJSON(t, env.router, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", project.ID), ownerToken, map[string]any{
		"user_id": member.ID,
		"role":    "member",
	})

	require.Equal(t, http.StatusOK, w.Code)

	response := decodeEnvelope(t, w)
	require.Equal(t, "Membre ajouté avec succès", response["message"])
}

func TestProjectHandler_AddMember_MemberForbidden(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, _ := env.createUser(t, "Alice", "alice@example.com")
	member, memberToken := env.createUser(t, "Bob", "bob@example.com")
	target, _ := env.createUser(t, "Carol", "carol@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")
	env.addMember(t, project.ID, owner.ID, member.ID, models.RoleMember)

	w := doJSON(t, env.router, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", project.ID), memberToken, map[string]any{
		"user_id": target.ID,
	})

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectHandler_AddMember_AlreadyMember(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, ownerToken := env.createUser(t, "Alice", "alice@example.com")
	member, _ := env.createUser(t, "Bob", "bob@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")
	env.addMember(t, project.ID, owner.ID, member.ID, models.RoleMember)

	w := doJSON(t, env.router, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", project.ID), ownerToken, map[string]any{
		"user_id": member.ID,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	response := decodeEnvelope(t, w)
	require.Equal(t, "Cet utilisateur est déjà membre du projet", response["message"])
}

func TestProjectHandler_AddMember_UnknownUser(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, ownerToken := env.createUser(t, "Alice", "alice@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")

	w := doJSON(t, env.router, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", project.ID), ownerToken, map[string]any{
		"user_id": 999,
	})

	require.Equal(t, http.StatusNotFound, w.Code)

	response := decodeEnvelope(t, w)
	require.Equal(t, "Utilisateur non trouvé", response["message"])
}

func TestProjectHandler_AddMember_InvalidRole(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, ownerToken := env.createUser(t, "Alice", "alice@example.com")
	target, _ := env.createUser(t, "Bob", "bob@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")

	w := doJSON(t, env.router, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", project.ID), ownerToken, map[string]any{
		"user_id": target.ID,
		"role":    "superadmin",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_RemoveMember_Owner(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, ownerToken := env.createUser(t, "Alice", "alice@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")

	w := doJSON(t, env.router, http.MethodDelete, fmt.Sprintf("/api/projects/%d/members/%d", project.ID, owner.ID), ownerToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	response := decodeEnvelope(t, w)
	require.Equal(t, "Impossible de retirer le propriétaire du projet", response["message"])
}

func TestProjectHandler_RemoveMember_SilentNoop(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, ownerToken := env.createUser(t, "Alice", "alice@example.com")
	stranger, _ := env.createUser(t, "Eve", "eve@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")

	// Removing a user who never was a member succeeds without effect.
	w := doJSON(t, env.router, http.MethodDelete, fmt.Sprintf("/api/projects/%d/members/%d", project.ID, stranger.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := decodeEnvelope(t, w)
	require.Equal(t, "Membre retiré avec succès", response["message"])
}

func TestProjectHandler_RemoveMember_KeepsAssignments(t *testing.T) {
	env := setupAPITestEnv(t)
	owner, ownerToken := env.createUser(t, "Alice", "alice@example.com")
	member, _ := env.createUser(t, "Bob", "bob@example.com")

	project := env.createProject(t, owner.ID, "Refonte du site")
	env.addMember(t, project.ID, owner.ID, member.ID, models.RoleMember)

	input := createTaskInputTitled("Préparer la maquette")
	input.AssignedTo = &member.ID
	task, err := env.taskService.CreateTask(project.ID, owner.ID, input)
	require.NoError(t, err)

	w := doJSON(t, env.router, http.MethodDelete, fmt.Sprintf("/api/projects/%d/members/%d", project.ID, member.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The removed member's assignments are left untouched.
	var stored models.Task
	require.NoError(t, env.db.First(&stored, task.ID).Error)
	require.NotNil(t, stored.AssignedTo)
	require.Equal(t, member.ID, *stored.AssignedTo)
}
