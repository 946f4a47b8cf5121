//go:build cgo

package audiocapture

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// microphone captures the default input device through PortAudio.
type microphone struct {
	cfg Config

	mu      sync.Mutex
	stream  *portaudio.Stream
	running bool
}

// New creates a Capturer for the default microphone.
// PortAudio is initialized lazily in Start so that creating a capturer
// never touches the audio subsystem.
func New(cfg Config) (Capturer, error) {
	return &microphone{cfg: cfg.withDefaults()}, nil
}

func (m *microphone) Start(handler AudioHandler) error {
	if handler == nil {
		return errors.New("audiocapture: nil handler")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrRunning
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}

	callback := func(in []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		if flags&portaudio.InputOverflow != 0 {
			slog.Warn("audio input overflow")
		}
		// PortAudio reuses the input buffer between callbacks.
		block := make([]float32, len(in))
		copy(block, in)
		handler(block)
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.cfg.SampleRate), m.cfg.BlockSize, callback)
	if err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("open input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return fmt.Errorf("start input stream: %w", err)
	}

	m.stream = stream
	m.running = true
	slog.Info("microphone capture started", "sample_rate", m.cfg.SampleRate, "block_size", m.cfg.BlockSize)
	return nil
}

func (m *microphone) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}

	var errs []error
	if err := m.stream.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop input stream: %w", err))
	}
	if err := m.stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close input stream: %w", err))
	}
	if err := portaudio.Terminate(); err != nil {
		errs = append(errs, fmt.Errorf("terminate portaudio: %w", err))
	}

	m.stream = nil
	m.running = false
	slog.Info("microphone capture stopped")
	return errors.Join(errs...)
}
