// Package clipboard copies captions to the system clipboard.
package clipboard

import (
	"errors"
	"strings"

	"go.aimuz.me/livesub/internal/types"
)

// ErrEmpty is returned when there is no caption to copy.
var ErrEmpty = errors.New("clipboard: nothing to copy")

// Writer sets the clipboard text. The Wails clipboard manager satisfies it.
type Writer interface {
	SetText(text string) bool
}

// Format renders a caption as the source line followed by the translation.
func Format(c types.Caption) string {
	lines := make([]string, 0, 2)
	for _, s := range []string{c.Text, c.Translated} {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

// CopyCaption writes c to w.
func CopyCaption(w Writer, c types.Caption) error {
	text := Format(c)
	if text == "" {
		return ErrEmpty
	}
	if !w.SetText(text) {
		return errors.New("clipboard: set text failed")
	}
	return nil
}
