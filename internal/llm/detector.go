package llm

import "fmt"

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "llama-3.3-70b-versatile")
	Name        string // Human-readable name
	Description string // Brief description
	Provider    string // Provider name ("groq" or "anthropic")
}

// groqModels lists the Groq-hosted models suitable for the pipeline.
var groqModels = []ModelInfo{
	{ID: "llama-3.3-70b-versatile", Name: "Llama 3.3 70B", Description: "Best quality, default for every role", Provider: "groq"},
	{ID: "llama-3.1-8b-instant", Name: "Llama 3.1 8B", Description: "Fastest, good for critic passes", Provider: "groq"},
	{ID: "deepseek-r1-distill-llama-70b", Name: "DeepSeek R1 Distill 70B", Description: "Strong reasoning, slower", Provider: "groq"},
	{ID: "gemma2-9b-it", Name: "Gemma 2 9B", Description: "Lightweight budget option", Provider: "groq"},
}

// anthropicModels lists Claude models for the fallback provider.
var anthropicModels = []ModelInfo{
	{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", Description: "Balanced speed and capability", Provider: "anthropic"},
	{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", Description: "Budget option", Provider: "anthropic"},
}

// AvailableModels returns models grouped by provider based on configured keys.
func AvailableModels() map[string][]ModelInfo {
	result := make(map[string][]ModelInfo)

	if (&GroqAdapter{}).IsAvailable() {
		result["groq"] = groqModels
	}
	if (&AnthropicAdapter{}).IsAvailable() {
		result["anthropic"] = anthropicModels
	}

	return result
}

// AllModels returns a flat list of all available models, Groq first.
func AllModels() []ModelInfo {
	available := AvailableModels()
	var result []ModelInfo

	if models, ok := available["groq"]; ok {
		result = append(result, models...)
	}
	if models, ok := available["anthropic"]; ok {
		result = append(result, models...)
	}

	return result
}

// DetectBestAdapter finds the best available LLM adapter.
// Priority: Groq > Anthropic.
func DetectBestAdapter(config Config) (Adapter, error) {
	groq, err := NewGroqAdapter(config)
	if err == nil && groq.IsAvailable() {
		return groq, nil
	}

	anthropic, err := NewAnthropicAdapter(config)
	if err == nil && anthropic.IsAvailable() {
		return anthropic, nil
	}

	return nil, fmt.Errorf("no LLM provider available - set GROQ_API_KEY or ANTHROPIC_API_KEY")
}

// NewAdapter builds a specific provider by name, or auto-detects.
func NewAdapter(provider string, config Config) (Adapter, error) {
	switch provider {
	case "", "auto":
		return DetectBestAdapter(config)
	case "groq":
		return NewGroqAdapter(config)
	case "anthropic":
		return NewAnthropicAdapter(config)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", provider)
	}
}

// ListAvailableAdapters returns the names of all adapters that could be used.
func ListAvailableAdapters(config Config) []string {
	available := []string{}

	if groq, err := NewGroqAdapter(config); err == nil && groq.IsAvailable() {
		available = append(available, "groq")
	}
	if anthropic, err := NewAnthropicAdapter(config); err == nil && anthropic.IsAvailable() {
		available = append(available, "anthropic")
	}

	return available
}
