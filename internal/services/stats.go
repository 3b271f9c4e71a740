package services

import (
	"fmt"

	"github.com/Ouedraogo-junior/task-management-api/internal/authz"
	"github.com/Ouedraogo-junior/task-management-api/internal/models"
	"github.com/Ouedraogo-junior/task-management-api/internal/repository"
)

// StatusCounts breaks a project's tasks down by status.
type StatusCounts struct {
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
}

// PriorityCounts breaks a project's tasks down by priority.
type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// ProjectStats is the read-only aggregate over a project's task set.
type ProjectStats struct {
	Total          int            `json:"total"`
	ByStatus       StatusCounts   `json:"byStatus"`
	ByPriority     PriorityCounts `json:"byPriority"`
	CompletionRate string         `json:"completionRate"`
}

// ComputeStats derives counts and the completion rate from a task set.
func ComputeStats(tasks []models.Task) ProjectStats {
	stats := ProjectStats{
		Total:          len(tasks),
		CompletionRate: "0%",
	}

	for _, task := range tasks {
		switch task.Status {
		case models.TaskStatusTodo:
			stats.ByStatus.Todo++
		case models.TaskStatusInProgress:
			stats.ByStatus.InProgress++
		case models.TaskStatusDone:
			stats.ByStatus.Done++
		}

		switch task.Priority {
		case models.TaskPriorityLow:
			stats.ByPriority.Low++
		case models.TaskPriorityMedium:
			stats.ByPriority.Medium++
		case models.TaskPriorityHigh:
			stats.ByPriority.High++
		}
	}

	if stats.Total > 0 {
		rate := float64(stats.ByStatus.Done) / float64(stats.Total) * 100
		stats.CompletionRate = fmt.Sprintf("%.2f%%", rate)
	}

	return stats
}

// ProjectStats returns the aggregate for a project. Members only.
func (s *TaskService) ProjectStats(projectID, actorID uint64) (*ProjectStats, error) {
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

	tasks, err := s.taskRepo.ListByProject(repository.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	stats := ComputeStats(tasks)
	return &stats, nil
}
