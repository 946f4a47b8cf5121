package llm

import (
	"context"
	"fmt"
	"strings"
)

// DefaultSystemPrompt instructs the model to answer with the translation only.
const DefaultSystemPrompt = "You are a subtitle translator. Translate the user's text faithfully and concisely. Reply with the translation only, without quotes, notes or explanations."

// Engine translates text with a chat model.
type Engine struct {
	completer    Completer
	systemPrompt string
}

// NewEngine creates an Engine. An empty systemPrompt uses DefaultSystemPrompt.
func NewEngine(c Completer, systemPrompt string) *Engine {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Engine{completer: c, systemPrompt: systemPrompt}
}

// Translate implements translate.Engine.
func (e *Engine) Translate(ctx context.Context, text, from, to string) (string, error) {
	out, err := e.completer.Complete(ctx, buildTranslateMessages(e.systemPrompt, text, from, to))
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func buildTranslateMessages(systemPrompt, text, from, to string) []Message {
	content := fmt.Sprintf(
		"please translate the following text from %s to %s:\n\n%s",
		from, to, text,
	)
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: content},
	}
}
