package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Ouedraogo-junior/task-management-api/internal/dto"
	apierrors "github.com/Ouedraogo-junior/task-management-api/internal/errors"
	"github.com/Ouedraogo-junior/task-management-api/internal/middleware"
	"github.com/Ouedraogo-junior/task-management-api/internal/models"
	"github.com/Ouedraogo-junior/task-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
	aiService   *services.AIService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, aiService *services.AIService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		aiService:   aiService,
	}
}

// CreateTask creates a task in the project.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		AssignedTo  *uint64             `json:"assigned_to"`
		DueDate     *time.Time          `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Le titre est requis")
		return
	}

	task, err := h.taskService.CreateTask(projectID, userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns the project's tasks, optionally filtered by status,
// priority and assignee.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input services.ListTasksInput
	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		input.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := models.TaskPriority(v)
		input.Priority = &priority
	}
	if v := c.Query("assigned_to"); v != "" {
		assignedTo, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Identifiant invalide")
			return
		}
		input.AssignedTo = &assignedTo
	}

	tasks, err := h.taskService.ListTasks(projectID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondList(c, http.StatusOK, dto.ToTaskDTOs(tasks), len(tasks))
}

// GetTask returns a task with its creator and assignee.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. The raw body is inspected so an
// explicit null can be told apart from an omitted field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BadRequest(c, "Corps de requête invalide")
		return
	}

	input, err := buildTaskUpdate(body)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(taskID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Tâche supprimée avec succès")
}

// Stats returns task counters for a project.
func (h *TaskHandler) Stats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.taskService.ProjectStats(projectID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, stats)
}

// GenerateTasks extracts task suggestions from free text.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Le texte est requis")
		return
	}

	suggestions, err := h.aiService.SuggestTasks(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAIServiceNotConfigured):
			apierrors.RespondWithError(c, http.StatusServiceUnavailable, "Le service de génération de tâches n'est pas configuré")
		case errors.Is(err, services.ErrAINoTasksGenerated):
			apierrors.BadRequest(c, "Aucune tâche n'a pu être extraite du texte")
		default:
			log.Printf("Task generation error: %v", err)
			apierrors.InternalError(c, "")
		}
		return
	}

	respondList(c, http.StatusOK, suggestions, len(suggestions))
}

// buildTaskUpdate converts a decoded JSON object into an update input.
// A key that is present with a null value clears the field.
func buildTaskUpdate(body map[string]any) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	if raw, ok := body["title"]; ok {
		title, ok := raw.(string)
		if !ok {
			return input, errors.New("Le titre doit être une chaîne de caractères")
		}
		input.Title = &title
	}
	if raw, ok := body["description"]; ok {
		description, ok := raw.(string)
		if !ok {
			return input, errors.New("La description doit être une chaîne de caractères")
		}
		input.Description = &description
	}
	if raw, ok := body["status"]; ok {
		value, ok := raw.(string)
		if !ok {
			return input, errors.New("Le statut doit être une chaîne de caractères")
		}
		status := models.TaskStatus(value)
		input.Status = &status
	}
	if raw, ok := body["priority"]; ok {
		value, ok := raw.(string)
		if !ok {
			return input, errors.New("La priorité doit être une chaîne de caractères")
		}
		priority := models.TaskPriority(value)
		input.Priority = &priority
	}
	if raw, ok := body["assigned_to"]; ok {
		if raw == nil {
			input.ClearAssignee = true
		} else {
			value, ok := raw.(float64)
			if !ok || value < 0 {
				return input, errors.New("L'assigné doit être un identifiant utilisateur")
			}
			assignedTo := uint64(value)
			input.AssignedTo = &assignedTo
		}
	}
	if raw, ok := body["due_date"]; ok {
		if raw == nil {
			input.ClearDueDate = true
		} else {
			value, ok := raw.(string)
			if !ok {
				return input, errors.New("La date limite doit être une date ISO8601")
			}
			dueDate, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return input, errors.New("La date limite doit être une date ISO8601")
			}
			input.DueDate = &dueDate
		}
	}

	return input, nil
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Projet non trouvé")
	case errors.Is(err, services.ErrProjectAccessDenied):
		apierrors.Forbidden(c, "Accès non autorisé à ce projet")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Tâche non trouvée")
	case errors.Is(err, services.ErrTaskAccessDenied):
		apierrors.Forbidden(c, "Accès non autorisé à cette tâche")
	case errors.Is(err, services.ErrTaskMembershipRequired):
		apierrors.Forbidden(c, "Vous devez être membre du projet pour modifier ses tâches")
	case errors.Is(err, services.ErrTaskDeleteForbidden):
		apierrors.Forbidden(c, "Seul le créateur, le propriétaire ou un admin peut supprimer cette tâche")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, "Le titre est requis")
	case errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequest(c, "Le titre ne peut pas être vide")
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, "Le statut doit être todo, in-progress ou done")
	case errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, "La priorité doit être low, medium ou high")
	case errors.Is(err, services.ErrInvalidAssignee):
		apierrors.BadRequest(c, "L'utilisateur assigné doit être membre du projet")
	default:
		log.Printf("Task error: %v", err)
		apierrors.InternalError(c, "")
	}
}
