package llm

import "context"

// Request is a single completion call.
type Request struct {
	// Model overrides the adapter's default when set.
	Model string

	System string
	User   string

	// Temperature for the call. Zero means the adapter default.
	Temperature float32

	// MaxTokens limits response length. Zero means the adapter default.
	MaxTokens int
}

// Adapter is the interface all LLM providers must implement.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// IsAvailable checks if this adapter can be used (API key set, etc.)
	IsAvailable() bool

	// Complete sends one system+user exchange and returns the raw text.
	Complete(ctx context.Context, req Request) (string, error)
}

// Config holds configuration for LLM adapters.
type Config struct {
	// Model specifies which model to use (optional, adapter chooses default).
	Model string

	// Per-role model configuration for the agent pipeline.
	// These override Model when set.
	AnalystModel string `yaml:"analyst_model"`
	CriticModel  string `yaml:"critic_model"`
	ReviserModel string `yaml:"reviser_model"`

	// APIKey for direct API access (optional, falls back to env).
	APIKey string

	// BaseURL overrides the provider endpoint (used for OpenAI-compatible
	// gateways; empty means the provider default).
	BaseURL string

	// MaxTokens limits response length.
	MaxTokens int
}

// ModelForRole returns the model to use for a pipeline role.
// Falls back to the default Model if no role-specific model is set.
func (c Config) ModelForRole(role string) string {
	switch role {
	case "analyst":
		if c.AnalystModel != "" {
			return c.AnalystModel
		}
	case "critic":
		if c.CriticModel != "" {
			return c.CriticModel
		}
	case "reviser":
		if c.ReviserModel != "" {
			return c.ReviserModel
		}
	}
	return c.Model
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens: 8192,
	}
}
