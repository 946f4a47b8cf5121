package argos

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Engine translates with the argos-translate command.
type Engine struct {
	bin string
}

// NewEngine creates an Engine. An empty bin searches PATH for argos-translate.
func NewEngine(bin string) *Engine {
	if bin == "" {
		bin = "argos-translate"
	}
	return &Engine{bin: bin}
}

// Translate implements translate.Engine.
func (e *Engine) Translate(ctx context.Context, text, from, to string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.bin, "--from-lang", from, "--to-lang", to, "--", text)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("argos-translate: %w: %s", err, lastLine(msg))
		}
		return "", fmt.Errorf("argos-translate: %w", err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
