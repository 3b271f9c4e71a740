package services

import (
	"testing"

	"github.com/Ouedraogo-junior/task-management-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)

	require.Equal(t, 0, stats.Total)
	require.Equal(t, "0%", stats.CompletionRate)
}

func TestComputeStats_CompletionRate(t *testing.T) {
	tasks := []models.Task{
		{Status: models.TaskStatusDone, Priority: models.TaskPriorityHigh},
		{Status: models.TaskStatusDone, Priority: models.TaskPriorityMedium},
		{Status: models.TaskStatusInProgress, Priority: models.TaskPriorityMedium},
		{Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow},
	}

	stats := ComputeStats(tasks)

	require.Equal(t, 4, stats.Total)
	require.Equal(t, "50.00%", stats.CompletionRate)
	require.Equal(t, StatusCounts{Todo: 1, InProgress: 1, Done: 2}, stats.ByStatus)
	require.Equal(t, PriorityCounts{Low: 1, Medium: 2, High: 1}, stats.ByPriority)
}

func TestComputeStats_FractionalRate(t *testing.T) {
	tasks := []models.Task{
		{Status: models.TaskStatusDone, Priority: models.TaskPriorityMedium},
		{Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium},
		{Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium},
	}

	stats := ComputeStats(tasks)

	require.Equal(t, "33.33%", stats.CompletionRate)
}
