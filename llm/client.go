// Package llm provides chat-completion translation for OpenAI-compatible APIs.
package llm

import (
	"context"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options configures LLM completion behavior.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Completer performs chat completions.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Config describes an OpenAI-compatible endpoint.
type Config struct {
	APIKey  string
	BaseURL string // empty means api.openai.com
	Model   string
	Options Options
}

// NewCompleter creates a Completer for an OpenAI-compatible endpoint such as
// a local Ollama server.
func NewCompleter(cfg Config) Completer {
	return newOpenAICompleter(cfg)
}
