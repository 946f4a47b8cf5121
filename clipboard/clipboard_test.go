package clipboard

import (
	"errors"
	"testing"

	"go.aimuz.me/livesub/internal/types"
)

type fakeWriter struct {
	text string
	ok   bool
}

func (w *fakeWriter) SetText(text string) bool {
	w.text = text
	return w.ok
}

func TestCopyCaption(t *testing.T) {
	tests := []struct {
		name     string
		caption  types.Caption
		ok       bool
		wantText string
		wantErr  error
	}{
		{
			name:     "both lines",
			caption:  types.Caption{Text: "Bonjour le monde", Translated: "你好世界"},
			ok:       true,
			wantText: "Bonjour le monde\n你好世界",
		},
		{
			name:     "source only",
			caption:  types.Caption{Text: " Hello "},
			ok:       true,
			wantText: "Hello",
		},
		{
			name:    "empty caption",
			ok:      true,
			wantErr: ErrEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWriter{ok: tt.ok}
			err := CopyCaption(w, tt.caption)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CopyCaption() error = %v, want %v", err, tt.wantErr)
			}
			if w.text != tt.wantText {
				t.Errorf("clipboard = %q, want %q", w.text, tt.wantText)
			}
		})
	}
}

func TestCopyCaption_WriterFails(t *testing.T) {
	if err := CopyCaption(&fakeWriter{}, types.Caption{Text: "x"}); err == nil {
		t.Error("CopyCaption() expected error")
	}
}
