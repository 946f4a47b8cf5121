package translate

import (
	"context"
	"fmt"
	"log/slog"
)

// errorPrefix marks a translation failure shown in place of the translated line.
const errorPrefix = "[翻译错误]"

// Bridge translates into a fixed target language, relaying through a pivot
// language because only pivot pairs are guaranteed to exist for every source.
type Bridge struct {
	engine Engine
	pivot  string
	target string
}

// NewBridge creates a Bridge translating to target through pivot.
func NewBridge(engine Engine, pivot, target string) *Bridge {
	return &Bridge{engine: engine, pivot: pivot, target: target}
}

// Pivot returns the intermediate language code.
func (b *Bridge) Pivot() string { return b.pivot }

// Target returns the target language code.
func (b *Bridge) Target() string { return b.target }

// Translate returns text translated from src to the target language.
// It never fails: errors are returned as displayable text.
func (b *Bridge) Translate(ctx context.Context, text, src string) string {
	out, err := b.translate(ctx, text, src)
	if err != nil {
		slog.Warn("translate caption", "source", src, "error", err)
		return fmt.Sprintf("%s %v", errorPrefix, err)
	}
	return out
}

func (b *Bridge) translate(ctx context.Context, text, src string) (string, error) {
	if src == b.target {
		return text, nil
	}
	if src == b.pivot {
		return b.engine.Translate(ctx, text, b.pivot, b.target)
	}

	pivotText, err := b.engine.Translate(ctx, text, src, b.pivot)
	if err != nil {
		return "", fmt.Errorf("%s -> %s: %w", src, b.pivot, err)
	}
	out, err := b.engine.Translate(ctx, pivotText, b.pivot, b.target)
	if err != nil {
		return "", fmt.Errorf("%s -> %s: %w", b.pivot, b.target, err)
	}
	return out, nil
}
