package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// GroqBaseURL is the OpenAI-compatible endpoint Groq exposes.
	GroqBaseURL = "https://api.groq.com/openai/v1"

	// DefaultGroqModel is the model used when none is configured.
	DefaultGroqModel = "llama-3.3-70b-versatile"
)

// GroqAdapter uses the Groq API through its OpenAI-compatible surface.
// This is the primary provider; the hosted Llama models are fast and cheap.
type GroqAdapter struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewGroqAdapter creates a Groq adapter.
func NewGroqAdapter(config Config) (*GroqAdapter, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" || strings.Contains(strings.ToLower(apiKey), "your_groq_api_key") {
		return nil, fmt.Errorf("GROQ_API_KEY not configured")
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = GroqBaseURL
	if config.BaseURL != "" {
		cfg.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = DefaultGroqModel
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}

	return &GroqAdapter{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (a *GroqAdapter) Name() string {
	return "groq"
}

func (a *GroqAdapter) IsAvailable() bool {
	return strings.TrimSpace(os.Getenv("GROQ_API_KEY")) != ""
}

func (a *GroqAdapter) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = a.maxTokens
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("groq API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq API returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
