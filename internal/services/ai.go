package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cpopa/taskdesk-api/internal/constants"
	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/sashabaranov/go-openai"
)

var ErrAIUnavailable = errors.New("AI suggestions are not configured")

type AIService struct {
	client *openai.Client
}

// SuggestedSubTask is one AI-proposed breakdown step for a task.
type SuggestedSubTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func NewAIService(apiKey string) *AIService {
	if apiKey == "" {
		return &AIService{}
	}
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestSubTasks asks the model to break a task into smaller steps.
func (s *AIService) SuggestSubTasks(ctx context.Context, task *models.Task) ([]SuggestedSubTask, error) {
	if s.client == nil {
		return nil, ErrAIUnavailable
	}

	prompt := fmt.Sprintf(`You are a task planning assistant. Break the following task into at most %d concrete subtasks.

Task title: %s
Task description: %s

Return only a JSON array in this form, with no surrounding text:
[
  {
    "title": "short subtask title",
    "description": "one or two sentences describing the subtask"
  }
]

Rules:
- Return an empty array [] if the task cannot be broken down further
- Each subtask must be independently actionable
- Return JSON only, no explanations`, constants.MaxSuggestedSubTasks, task.Title, task.Description)

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

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var suggestions []SuggestedSubTask
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	if len(suggestions) > constants.MaxSuggestedSubTasks {
		suggestions = suggestions[:constants.MaxSuggestedSubTasks]
	}

	return suggestions, nil
}
