package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.aimuz.me/livesub/internal/types"
)

// OpenSettings shows the settings popup.
func (s *Service) OpenSettings() {
	if s.settings == nil {
		return
	}
	s.settings.Show()
	s.settings.Focus()
	s.emit(EventSettingsOpen, s.GetSettings())
}

// CloseSettings hides the settings popup without applying a language change.
func (s *Service) CloseSettings() {
	if s.settings != nil {
		s.settings.Hide()
	}
}

// GetSettings returns the values edited by the settings popup.
func (s *Service) GetSettings() types.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	langs := make([]types.Language, len(s.cfg.Languages))
	copy(langs, s.cfg.Languages)
	return types.Settings{
		SourceLang: s.cfg.SourceLang,
		Opacity:    s.cfg.Overlay.Opacity,
		Languages:  langs,
	}
}

// SetOpacity applies a new overlay opacity immediately and returns the
// normalized value.
func (s *Service) SetOpacity(v float64) float64 {
	s.mu.Lock()
	v = s.cfg.SetOpacity(v)
	s.mu.Unlock()
	s.emit(EventOpacity, v)
	return v
}

// ApplySettings applies the popup values. A source-language change is only
// applied once req.Confirmed is set; until then the result asks for
// confirmation.
func (s *Service) ApplySettings(req types.SettingsRequest) (types.ApplyResult, error) {
	s.SetOpacity(req.Opacity)

	s.mu.Lock()
	current := s.cfg.SourceLang
	lang, ok := s.cfg.Language(req.SourceLang)
	s.mu.Unlock()

	if req.SourceLang == "" || req.SourceLang == current {
		if err := s.saveConfig(); err != nil {
			return types.ApplyResult{}, err
		}
		s.CloseSettings()
		return types.ApplyResult{Applied: true}, nil
	}
	if !ok {
		return types.ApplyResult{}, fmt.Errorf("unsupported source language: %s", req.SourceLang)
	}
	if !req.Confirmed {
		return types.ApplyResult{
			NeedsConfirm: true,
			Prompt:       fmt.Sprintf(confirmLangChange, lang.Label),
		}, nil
	}

	s.mu.Lock()
	err := s.cfg.SetSourceLang(lang.Code)
	s.mu.Unlock()
	if err != nil {
		return types.ApplyResult{}, err
	}
	if err := s.saveConfig(); err != nil {
		return types.ApplyResult{}, err
	}

	slog.Info("source language changed", "from", current, "to", lang.Code)
	s.live.SetSourceLang(lang.Code)
	s.publishStatus(fmt.Sprintf(statusDownloading, lang.Label))
	go s.prepareLanguage(lang.Code)

	s.CloseSettings()
	return types.ApplyResult{Applied: true}, nil
}

func (s *Service) prepareLanguage(code string) {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.provisioner.Prepare(ctx, code); err != nil {
		slog.Error("prepare translation models", "source", code, "error", err)
	}
}

func (s *Service) saveConfig() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
