package app

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"go.aimuz.me/livesub/clipboard"
	"go.aimuz.me/livesub/config"
	"go.aimuz.me/livesub/internal/types"
)

func TestService_Drag(t *testing.T) {
	tests := []struct {
		name   string
		begin  [2]int
		moves  [][2]int
		wantXY [2]int
	}{
		{
			name:   "single move",
			begin:  [2]int{10, 5},
			moves:  [][2]int{{30, 25}},
			wantXY: [2]int{120, 620},
		},
		{
			name:  "pointer returns to anchor after each move",
			begin: [2]int{10, 5},
			moves: [][2]int{{15, 5}, {10, 10}, {0, 0}},
			// +5,+0 then +0,+5 then -10,-5
			wantXY: [2]int{95, 600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, echoEngine())
			s := env.svc

			s.BeginDrag(tt.begin[0], tt.begin[1])
			for _, m := range tt.moves {
				s.DragTo(m[0], m[1])
			}
			x, y := env.main.Position()
			if x != tt.wantXY[0] || y != tt.wantXY[1] {
				t.Errorf("position = (%d, %d), want %v", x, y, tt.wantXY)
			}
		})
	}
}

func TestService_DragWithoutBegin(t *testing.T) {
	env := newTestEnv(t, echoEngine())
	env.svc.DragTo(50, 50)
	if x, y := env.main.Position(); x != 100 || y != 600 {
		t.Errorf("window moved to (%d, %d) without BeginDrag", x, y)
	}
}

func TestService_EndDragSavesPosition(t *testing.T) {
	env := newTestEnv(t, echoEngine())
	s := env.svc
	s.BeginDrag(0, 0)
	s.DragTo(40, -100)
	s.EndDrag()

	if s.cfg.Overlay.X != 140 || s.cfg.Overlay.Y != 500 {
		t.Errorf("saved position = (%d, %d)", s.cfg.Overlay.X, s.cfg.Overlay.Y)
	}
	// Further moves are ignored after the drag ends.
	s.DragTo(0, 0)
	if x, _ := env.main.Position(); x != 140 {
		t.Errorf("window moved after EndDrag")
	}
}

func TestService_EndDragConcurrentWithSettings(t *testing.T) {
	env := newTestEnv(t, echoEngine())
	s := env.svc

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.BeginDrag(0, 0)
			s.DragTo(1, 1)
			s.EndDrag()
		}()
		go func() {
			defer wg.Done()
			s.SetOpacity(0.1 * float64(i%10+1))
			if err := s.saveConfig(); err != nil {
				t.Errorf("saveConfig: %v", err)
			}
		}()
	}
	wg.Wait()

	loaded, err := config.LoadFrom(filepath.Join(s.cfg.Dir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Overlay != s.cfg.Overlay {
		t.Errorf("saved overlay = %+v, want %+v", loaded.Overlay, s.cfg.Overlay)
	}
}

func TestService_ToggleOverlay(t *testing.T) {
	env := newTestEnv(t, echoEngine())
	env.svc.ToggleOverlay()
	if env.main.IsVisible() {
		t.Error("overlay visible after first toggle")
	}
	env.svc.ToggleOverlay()
	if !env.main.IsVisible() {
		t.Error("overlay hidden after second toggle")
	}
}

func TestService_CopyCaption(t *testing.T) {
	env := newTestEnv(t, echoEngine())
	s := env.svc

	if err := s.CopyCaption(); !errors.Is(err, clipboard.ErrEmpty) {
		t.Errorf("CopyCaption() with no caption = %v", err)
	}

	s.caption = types.Caption{Text: "Hello", Translated: "你好"}
	if err := s.CopyCaption(); err != nil {
		t.Fatalf("CopyCaption: %v", err)
	}
	if env.clip.text != "Hello\n你好" {
		t.Errorf("clipboard = %q", env.clip.text)
	}
}

func TestService_GetSpeechProvider(t *testing.T) {
	env := newTestEnv(t, echoEngine())
	info := env.svc.GetSpeechProvider()
	if info.Name != "fake" || !info.IsReady || info.SetupProgress != 100 {
		t.Errorf("GetSpeechProvider() = %+v", info)
	}
	if got := New("x").GetSpeechProvider(); got.SetupProgress != -1 {
		t.Errorf("GetSpeechProvider() without pipeline = %+v", got)
	}
}

func TestService_ListSpeechProviders(t *testing.T) {
	env := newTestEnv(t, echoEngine())
	infos := env.svc.ListSpeechProviders()
	if len(infos) != 1 || infos[0].Name != "fake" {
		t.Errorf("ListSpeechProviders() = %+v", infos)
	}
	if got := New("x").ListSpeechProviders(); got != nil {
		t.Errorf("ListSpeechProviders() without pipeline = %+v", got)
	}
}
