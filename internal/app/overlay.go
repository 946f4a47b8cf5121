package app

import (
	"log/slog"

	"go.aimuz.me/livesub/clipboard"
	"go.aimuz.me/livesub/internal/types"
	"go.aimuz.me/livesub/stt"
)

// dragState is the pointer position, relative to the window, where a drag began.
type dragState struct {
	active bool
	x, y   int
}

// GetState returns what the caption window should render.
func (s *Service) GetState() types.OverlayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.OverlayState{
		Caption: s.caption,
		Status:  s.status,
		Opacity: s.cfg.Overlay.Opacity,
		Visible: s.main != nil && s.main.IsVisible(),
	}
}

// BeginDrag records the window-relative pointer position of a drag start.
func (s *Service) BeginDrag(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = dragState{active: true, x: x, y: y}
}

// DragTo moves the window so the point grabbed in BeginDrag follows the
// pointer, now at window-relative (x, y).
func (s *Service) DragTo(x, y int) {
	s.mu.Lock()
	drag := s.drag
	s.mu.Unlock()
	if !drag.active || s.main == nil {
		return
	}

	wx, wy := s.main.Position()
	s.main.SetPosition(wx+x-drag.x, wy+y-drag.y)
}

// EndDrag finishes a drag and remembers the window position.
func (s *Service) EndDrag() {
	s.mu.Lock()
	s.drag = dragState{}
	s.mu.Unlock()

	if s.main == nil {
		return
	}
	x, y := s.main.Position()
	s.mu.Lock()
	s.cfg.Overlay.X, s.cfg.Overlay.Y = x, y
	s.mu.Unlock()
	if err := s.saveConfig(); err != nil {
		slog.Error("save window position", "error", err)
	}
}

// ToggleOverlay shows or hides the caption window.
func (s *Service) ToggleOverlay() {
	if s.main == nil {
		return
	}
	if s.main.IsVisible() {
		s.main.Hide()
		return
	}
	s.main.Show()
}

// CopyCaption copies the latest caption pair to the clipboard.
func (s *Service) CopyCaption() error {
	s.mu.Lock()
	c := s.caption
	s.mu.Unlock()
	return clipboard.CopyCaption(s.clip, c)
}

// GetSpeechProvider describes the active speech recognizer and its model state.
func (s *Service) GetSpeechProvider() types.STTProviderInfo {
	p := s.activeSpeech()
	if p == nil {
		return types.STTProviderInfo{SetupProgress: -1}
	}
	return speechInfo(p)
}

// ListSpeechProviders describes every registered speech recognizer.
func (s *Service) ListSpeechProviders() []types.STTProviderInfo {
	if s.speech == nil {
		return nil
	}
	providers := s.speech.List()
	infos := make([]types.STTProviderInfo, len(providers))
	for i, p := range providers {
		infos[i] = speechInfo(p)
	}
	return infos
}

func speechInfo(p stt.Provider) types.STTProviderInfo {
	return types.STTProviderInfo{
		Name:          p.Name(),
		DisplayName:   p.DisplayName(),
		SetupProgress: p.SetupProgress(),
		IsReady:       p.IsReady(),
	}
}
