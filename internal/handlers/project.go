package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Ouedraogo-junior/task-management-api/internal/dto"
	apierrors "github.com/Ouedraogo-junior/task-management-api/internal/errors"
	"github.com/Ouedraogo-junior/task-management-api/internal/middleware"
	"github.com/Ouedraogo-junior/task-management-api/internal/models"
	"github.com/Ouedraogo-junior/task-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ProjectHandler coordinates project and membership HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// parseIDParam reads a numeric URL parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Identifiant invalide")
		return 0, false
	}
	return id, true
}

// CreateProject creates a project owned by the current user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Corps de requête invalide")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the projects the current user belongs to.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListProjects(userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondList(c, http.StatusOK, dto.ToProjectDTOs(projects), len(projects))
}

// GetProject returns a project with its owner, members and tasks.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(projectID, userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject updates a project's name and description.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Corps de requête invalide")
		return
	}

	project, err := h.projectService.UpdateProject(projectID, userID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project with its tasks and memberships.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(projectID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Projet supprimé avec succès")
}

// AddMember adds a user to the project.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddMemberRequest struct {
		UserID uint64             `json:"user_id" binding:"required"`
		Role   models.ProjectRole `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Corps de requête invalide")
		return
	}

	project, err := h.projectService.AddMember(projectID, userID, services.AddMemberInput{
		UserID: req.UserID,
		Role:   req.Role,
	})
	if err != nil {
		respondMemberError(c, err)
		return
	}

	respondDataMessage(c, http.StatusOK, dto.ToProjectDTO(*project), "Membre ajouté avec succès")
}

// RemoveMember removes a user from the project.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	targetUserID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(projectID, userID, targetUserID); err != nil {
		respondMemberError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Membre retiré avec succès")
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Projet non trouvé")
	case errors.Is(err, services.ErrProjectAccessDenied):
		apierrors.Forbidden(c, "Accès non autorisé à ce projet")
	case errors.Is(err, services.ErrProjectUpdateForbidden):
		apierrors.Forbidden(c, "Seul le propriétaire ou un admin peut modifier ce projet")
	case errors.Is(err, services.ErrProjectDeleteForbidden):
		apierrors.Forbidden(c, "Seul le propriétaire peut supprimer ce projet")
	case errors.Is(err, services.ErrProjectNameRequired):
		apierrors.BadRequest(c, "Le nom du projet est requis")
	default:
		log.Printf("Project error: %v", err)
		apierrors.InternalError(c, "")
	}
}

func respondMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Projet non trouvé")
	case errors.Is(err, services.ErrMemberManageForbidden):
		apierrors.Forbidden(c, "Seul le propriétaire ou un admin peut gérer les membres")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "Utilisateur non trouvé")
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.BadRequest(c, "Cet utilisateur est déjà membre du projet")
	case errors.Is(err, services.ErrCannotRemoveOwner):
		apierrors.BadRequest(c, "Impossible de retirer le propriétaire du projet")
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, "Le rôle doit être admin ou member")
	default:
		log.Printf("Member error: %v", err)
		apierrors.InternalError(c, "")
	}
}
