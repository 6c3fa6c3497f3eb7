// Package llm wraps completion providers (OpenAI-compatible endpoints,
// Anthropic, Ollama) behind one interface and runs article analysis on
// top of them.
package llm

import (
	"context"
	"errors"
	"time"

	"sourcelens/internal/model"
)

// ErrNoProvider is returned by LLM-backed features when no provider is
// configured. Lookup and scoring never need one; content analysis does.
var ErrNoProvider = errors.New("no LLM provider configured")

// Provider is one completion backend.
type Provider interface {
	// Name identifies the provider in logs and the usage ledger.
	Name() string

	// Complete sends a single-turn prompt and returns the raw text reply.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is one prompt.
type CompletionRequest struct {
	// Prompt is the full user prompt.
	Prompt string

	// Model overrides the provider default when non-empty.
	Model string

	// MaxTokens bounds the reply length.
	MaxTokens int

	// Temperature steers sampling; zero means the provider default.
	Temperature float64
}

// CompletionResponse is the provider's reply plus accounting.
type CompletionResponse struct {
	Text  string
	Model string
	Usage Usage
}

// Usage is the token count of one call, as reported by the provider or
// estimated when it reports none.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is the combined token count.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "openrouter", "anthropic", "ollama", "".
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for hosted providers.
	APIKey string

	// BaseURL for custom endpoints (OpenRouter, local Ollama).
	BaseURL string

	// Timeout for API requests.
	Timeout time.Duration

	// MaxTokens for response generation.
	MaxTokens int

	// Proxy settings.
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns the disabled-by-default configuration.
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Model:     "",
		Timeout:   120 * time.Second,
		MaxTokens: 2000,
	}
}

// ConfigFromModel lifts the application LLM config into this package.
func ConfigFromModel(cfg model.LLMConfig) Config {
	out := DefaultConfig()
	out.Provider = cfg.Provider
	out.Model = cfg.Model
	out.APIKey = cfg.APIKey
	out.BaseURL = cfg.BaseURL
	if cfg.Timeout > 0 {
		out.Timeout = cfg.Timeout
	}
	if cfg.MaxTokens > 0 {
		out.MaxTokens = cfg.MaxTokens
	}
	return out
}
