package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Ouedraogo-junior/task-management-api/internal/authz"
	"github.com/Ouedraogo-junior/task-management-api/internal/models"
	"github.com/Ouedraogo-junior/task-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskAccessDenied       = errors.New("user is not a member of the task's project")
	ErrTaskDeleteForbidden    = errors.New("only the creator, the owner or an admin can delete the task")
	ErrTaskMembershipRequired = errors.New("user must be a project member to modify tasks")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidStatus          = errors.New("status must be todo, in-progress or done")
	ErrInvalidPriority        = errors.New("priority must be low, medium or high")
	ErrInvalidAssignee        = errors.New("assignee must be a member of the project")
)

// taskDetailPreloads are the relations loaded on single-task responses.
var taskDetailPreloads = []string{"Creator", "Assignee"}

// TaskService handles task business logic.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	resolver    *authz.Resolver
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, resolver *authz.Resolver) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		resolver:    resolver,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	AssignedTo  *uint64
	DueDate     *time.Time
}

// CreateTask creates a task in the project. Any member may create; an
// assignee must hold a membership row in the same project.
func (s *TaskService) CreateTask(projectID, actorID uint64, input CreateTaskInput) (*models.Task, error) {
	m, err := s.resolver.Resolve(projectID, actorID)
	if err != nil {
		return nil, err
	}

	switch authz.Decide(authz.ActionCreateTask, m) {
	case authz.NotFound:
		return nil, ErrProjectNotFound
	case authz.Deny:
		return nil, ErrTaskMembershipRequired
	}

	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if input.AssignedTo != nil {
		if err := s.ensureAssignable(projectID, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		ProjectID:   projectID,
		CreatedBy:   actorID,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskDetailPreloads...)
}

// ListTasksInput represents filters for listing a project's tasks.
type ListTasksInput struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssignedTo *uint64
}

// ListTasks returns the project's tasks. Members only.
func (s *TaskService) ListTasks(projectID, actorID uint64, input ListTasksInput) ([]models.Task, error) {
	m, err := s.resolver.Resolve(projectID, actorID)
	if err != nil {
		return nil, err
	}

	switch authz.Decide(authz.ActionViewProject, m) {
	case authz.NotFound:
		return nil, ErrProjectNotFound
	case authz.Deny:
		return nil, ErrProjectAccessDenied
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	tasks, err := s.taskRepo.ListByProject(repository.TaskFilter{
		ProjectID:  projectID,
		Status:     input.Status,
		Priority:   input.Priority,
		AssignedTo: input.AssignedTo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a task with its creator and assignee. The actor must
// be a member of the task's project.
func (s *TaskService) GetTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID, taskDetailPreloads...)
	if err != nil {
		return nil, err
	}

	m, err := s.resolver.Resolve(task.ProjectID, actorID)
	if err != nil {
		return nil, err
	}

	switch authz.Decide(authz.ActionViewProject, m) {
	case authz.NotFound:
		return nil, ErrTaskNotFound
	case authz.Deny:
		return nil, ErrTaskAccessDenied
	}

	return task, nil
}

// UpdateTaskInput represents a partial task update. Pointer fields are
// applied when non-nil; the Clear flags carry an explicit JSON null.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssignedTo    *uint64
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
}

// UpdateTask applies the provided fields to the task. Any member of the
// task's project may update any of its tasks.
func (s *TaskService) UpdateTask(taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	m, err := s.resolver.Resolve(task.ProjectID, actorID)
	if err != nil {
		return nil, err
	}

	switch authz.Decide(authz.ActionUpdateTask, m) {
	case authz.NotFound:
		return nil, ErrTaskNotFound
	case authz.Deny:
		return nil, ErrTaskMembershipRequired
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearAssignee {
		task.AssignedTo = nil
	} else if input.AssignedTo != nil {
		if err := s.ensureAssignable(task.ProjectID, *input.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = input.AssignedTo
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskDetailPreloads...)
}

// DeleteTask removes a task. Creator, project owner or admin only.
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	m, err := s.resolver.Resolve(task.ProjectID, actorID)
	if err != nil {
		return err
	}

	switch authz.DecideTaskDeletion(m, task, actorID) {
	case authz.NotFound:
		return ErrTaskNotFound
	case authz.Deny:
		return ErrTaskDeleteForbidden
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) findTask(taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ensureAssignable verifies the candidate assignee holds a membership
// row in the project. Assignments are only validated at write time;
// removing a member later does not unassign their tasks.
func (s *TaskService) ensureAssignable(projectID, userID uint64) error {
	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAssignee
		}
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	return nil
}
