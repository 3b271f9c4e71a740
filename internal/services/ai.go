package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ouedraogo-junior/task-management-api/internal/constants"
	"github.com/Ouedraogo-junior/task-management-api/internal/models"
	"github.com/sashabaranov/go-openai"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
)

type AIService struct {
	client *openai.Client
}

// GeneratedTask is a task suggestion extracted from free text. It is
// never persisted; the caller decides what to create.
type GeneratedTask struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateTasksFromText analyzes text and extracts task suggestions using OpenAI GPT
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract concrete tasks from the text below.

Current time: %s

Text:
%s

Return a JSON array of the extracted tasks in this exact shape:
[
  {
    "title": "short task title",
    "description": "detailed description",
    "priority": "low, medium or high",
    "due_date": "deadline in ISO8601 (e.g. 2025-10-28T23:59:59Z), or null when no deadline is stated"
  }
]

Rules:
- Return an empty array [] when the text contains no tasks
- Convert relative deadlines ("tomorrow", "next week") into absolute timestamps
- due_date must be an ISO8601 string or null
- Return only the JSON, no commentary`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}

// SuggestTasks validates and normalizes the AI output before it is
// returned to the caller.
func (s *AIService) SuggestTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	raw, err := s.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(raw) > constants.MaxAIGeneratedTasks {
		raw = raw[:constants.MaxAIGeneratedTasks]
	}

	cutoff := time.Now().Add(-24 * time.Hour)
	valid := make([]GeneratedTask, 0, len(raw))
	for _, task := range raw {
		if strings.TrimSpace(task.Title) == "" {
			continue
		}
		if !task.Priority.Valid() {
			task.Priority = models.TaskPriorityMedium
		}
		if task.DueDate != nil && task.DueDate.Before(cutoff) {
			task.DueDate = nil
		}
		valid = append(valid, task)
	}

	if len(valid) == 0 {
		return nil, ErrAINoTasksGenerated
	}

	return valid, nil
}
