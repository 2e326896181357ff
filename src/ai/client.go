package ai

import "context"

// Options controls model behavior; zero fields fall back to the client
// defaults.
type Options struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// Client is a provider-agnostic interface for the completions we need.
type Client interface {
	Respond(ctx context.Context, input string, opts Options) (string, error)
}

// FactoryConfig captures the inputs required to construct a provider client.
type FactoryConfig struct {
	Provider  string // "openai" or "claude"
	OpenAIKey string
	ClaudeKey string

	SystemPrompt string
	Model        string
	Temperature  float64
	MaxTokens    int
}

// NewClient returns a provider-agnostic AI client.
func NewClient(cfg FactoryConfig) Client {
	switch cfg.Provider {
	case "claude":
		return newClaudeClient(cfg)
	default:
		return newOpenAIClient(cfg)
	}
}

func valueOrDefault(val, def string) string {
	if val != "" {
		return val
	}
	return def
}

func orInt(v, d int) int {
	if v != 0 {
		return v
	}
	return d
}

func orFloat(v, d float64) float64 {
	if v != 0 {
		return v
	}
	return d
}
