// Package app provides the core application service for Wails bindings.
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/wailsapp/wails/v3/pkg/application"

	"go.aimuz.me/livesub/cache"
	"go.aimuz.me/livesub/clipboard"
	"go.aimuz.me/livesub/config"
	"go.aimuz.me/livesub/hotkey"
	"go.aimuz.me/livesub/internal/types"
	"go.aimuz.me/livesub/livetranslate"
	"go.aimuz.me/livesub/stt"
	"go.aimuz.me/livesub/translate"
)

// window is the part of a Wails window the service drives.
type window interface {
	Show()
	Hide()
	Focus()
	IsVisible() bool
	Position() (int, int)
	SetPosition(x, y int)
}

// wailsWindow adapts application.Window to window.
type wailsWindow struct {
	w application.Window
}

func (w wailsWindow) Show()                { w.w.Show() }
func (w wailsWindow) Hide()                { w.w.Hide() }
func (w wailsWindow) Focus()               { w.w.Focus() }
func (w wailsWindow) IsVisible() bool      { return w.w.IsVisible() }
func (w wailsWindow) Position() (int, int) { return w.w.Position() }
func (w wailsWindow) SetPosition(x, y int) { w.w.SetPosition(x, y) }

// Service provides application functionality bound to Wails.
type Service struct {
	cfg     *config.Config
	cache   *cache.Cache
	hotkey  *hotkey.HotkeyManager
	version string

	// UI references - set via Init
	emit     func(name string, data any)
	main     window
	settings window
	clip     clipboard.Writer

	// Pipeline - created by build
	speech      *stt.Registry
	speechName  string
	provisioner *translate.Provisioner
	queue       *livetranslate.BlockQueue
	live        *livetranslate.Service
	audio       AudioAdapter

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// Overlay state, written by forward and the bound methods.
	mu      sync.Mutex
	caption types.Caption
	status  string
	drag    dragState
}

// New creates a new Service. Call Init() after the Wails app is created.
func New(version string) *Service {
	return &Service{
		version: version,
		status:  statusInit,
		emit:    func(string, any) {},
	}
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// Init wires the service to the Wails app and its two windows and builds the
// caption pipeline from cfg.
func (s *Service) Init(app *application.App, main, settings application.Window, cfg *config.Config) error {
	s.emit = func(name string, data any) { app.Event.Emit(name, data) }
	s.main = wailsWindow{main}
	s.settings = wailsWindow{settings}
	s.clip = app.Clipboard
	s.cfg = cfg

	if err := s.build(); err != nil {
		return err
	}
	s.setupHotkey()
	return nil
}

func (s *Service) setupHotkey() {
	s.hotkey = hotkey.NewHotkeyManager(s.ToggleOverlay, s.OpenSettings)
	if err := s.hotkey.SetCombos(s.cfg.Hotkeys.Toggle, s.cfg.Hotkeys.Settings); err != nil {
		slog.Warn("invalid hotkey config, using defaults", "error", err)
	}
	if err := s.hotkey.Start(); err != nil {
		slog.Error("start hotkey", "error", err)
	}
}

// Start launches the caption pipeline in the background.
func (s *Service) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		if err := s.run(s.ctx); err != nil {
			slog.Error("caption pipeline", "error", err)
		}
	}()
}

// Shutdown stops the pipeline and releases resources.
func (s *Service) Shutdown() {
	if s.hotkey != nil {
		s.hotkey.Stop()
	}
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	if err := s.audio.Stop(); err != nil {
		slog.Error("stop audio", "error", err)
	}
	if s.speech != nil {
		if err := s.speech.Close(); err != nil {
			slog.Error("close speech providers", "error", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Error("close cache", "error", err)
		}
	}
}
