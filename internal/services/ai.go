package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

// GeneratedTask is one task extracted by the model.
type GeneratedTask struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
}

// FormValues converts the draft into editor form values.
func (g GeneratedTask) FormValues() TaskFormValues {
	return TaskFormValues{
		Title:       strings.TrimSpace(g.Title),
		Description: g.Description,
		DueDate:     g.DueDate,
		Priority:    strings.ToLower(strings.TrimSpace(g.Priority)),
		Tags:        strings.Join(g.Tags, ", "),
	}
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateTasksFromText analyzes text and extracts tasks using OpenAI GPT
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	today := time.Now().Format("2006-01-02")
	prompt := fmt.Sprintf(`You extract actionable tasks from text.

Today is %s.

Text:
%s

Answer with a JSON array only, one object per task:
[
  {
    "title": "short task title",
    "description": "details",
    "due_date": "YYYY-MM-DD, or an empty string when no deadline is given",
    "priority": "high, medium or low",
    "tags": ["optional", "tags"]
  }
]

Rules:
- Return [] when the text contains no task
- Turn relative deadlines ("tomorrow", "next Friday") into calendar dates
- Do not add any prose around the JSON`, today, text)

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

	return parseGeneratedTasks(resp.Choices[0].Message.Content)
}

// parseGeneratedTasks decodes the model answer, tolerating a fenced code block.
func parseGeneratedTasks(content string) ([]GeneratedTask, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	return tasks, nil
}
