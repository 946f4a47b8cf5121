// Package hotkey registers global keyboard shortcuts.
package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"
)

// Default shortcuts.
const (
	DefaultToggle   = "ctrl+shift+l"
	DefaultSettings = "ctrl+shift+o"
)

// ErrRunning is returned by Start when the manager is already listening.
var ErrRunning = errors.New("hotkey: already running")

// modifiers recognized in a combo, in gohook key names.
var modifiers = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"option":  "alt",
	"cmd":     "cmd",
	"command": "cmd",
	"super":   "cmd",
}

// HotkeyManager listens for the overlay shortcuts.
type HotkeyManager struct {
	onToggle   func()
	onSettings func()
	toggle     []string
	settings   []string

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewHotkeyManager creates a manager calling onToggle and onSettings for
// the default shortcuts.
func NewHotkeyManager(onToggle, onSettings func()) *HotkeyManager {
	h := &HotkeyManager{onToggle: onToggle, onSettings: onSettings}
	h.toggle, _ = ParseCombo(DefaultToggle)
	h.settings, _ = ParseCombo(DefaultSettings)
	return h
}

// SetCombos replaces the shortcuts. It must be called before Start.
func (h *HotkeyManager) SetCombos(toggle, settings string) error {
	t, err := ParseCombo(toggle)
	if err != nil {
		return fmt.Errorf("toggle hotkey: %w", err)
	}
	s, err := ParseCombo(settings)
	if err != nil {
		return fmt.Errorf("settings hotkey: %w", err)
	}
	h.toggle, h.settings = t, s
	return nil
}

// Start begins listening for global key events.
func (h *HotkeyManager) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return ErrRunning
	}

	register(h.toggle, h.onToggle)
	register(h.settings, h.onSettings)

	events := hook.Start()
	h.done = make(chan struct{})
	h.running = true

	go func(done chan struct{}) {
		defer close(done)
		<-hook.Process(events)
	}(h.done)

	slog.Info("hotkeys registered",
		"toggle", strings.Join(h.toggle, "+"),
		"settings", strings.Join(h.settings, "+"))
	return nil
}

// Stop stops listening. It is safe to call more than once.
func (h *HotkeyManager) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	hook.End()
	<-h.done
	h.running = false
}

func register(keys []string, fn func()) {
	if len(keys) == 0 || fn == nil {
		return
	}
	hook.Register(hook.KeyDown, keys, func(hook.Event) {
		// Callbacks run on the hook goroutine.
		go fn()
	})
}

// ParseCombo converts "ctrl+shift+l" into gohook key names. Modifiers come
// first, followed by exactly one key.
func ParseCombo(combo string) ([]string, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")
	var keys []string
	var key string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("invalid hotkey %q", combo)
		}
		if m, ok := modifiers[p]; ok {
			keys = append(keys, m)
			continue
		}
		if key != "" {
			return nil, fmt.Errorf("invalid hotkey %q: more than one key", combo)
		}
		key = p
	}
	if key == "" {
		return nil, fmt.Errorf("invalid hotkey %q: no key", combo)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("invalid hotkey %q: no modifier", combo)
	}
	return append(keys, key), nil
}
