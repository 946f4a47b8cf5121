package audiocapture

import (
	"errors"
	"os"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"whisper_16k", Config{SampleRate: 16000, BlockSize: 4000}},
		{"webrtc_48k", Config{SampleRate: 48000, BlockSize: 960}},
		{"zero_defaults", Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if errors.Is(err, ErrUnsupported) {
				t.Skip("capture unsupported in this build")
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c == nil {
				t.Fatal("expected non-nil Capturer")
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	got := Config{}.withDefaults()
	if got.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", got.SampleRate)
	}
	if got.BlockSize != 4000 {
		t.Errorf("BlockSize = %d, want 4000", got.BlockSize)
	}

	custom := Config{SampleRate: 48000, BlockSize: 480}.withDefaults()
	if custom.SampleRate != 48000 || custom.BlockSize != 480 {
		t.Errorf("custom config overwritten: %+v", custom)
	}
}

func TestStartWithNilHandler(t *testing.T) {
	c, err := New(DefaultConfig())
	if errors.Is(err, ErrUnsupported) {
		t.Skip("capture unsupported in this build")
	}
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := c.Start(nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}

func TestDoubleStart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv("LIVESUB_AUDIO_TESTS") == "" {
		t.Skip("set LIVESUB_AUDIO_TESTS=1 to run tests that open the microphone")
	}

	c, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Stop()

	if err := c.Start(func([]float32) {}); err != nil {
		t.Fatalf("first Start: %v", err)
	}

	if err := c.Start(func([]float32) {}); !errors.Is(err, ErrRunning) {
		t.Fatalf("expected ErrRunning, got %v", err)
	}
}

func TestStopIdempotent(t *testing.T) {
	c, err := New(DefaultConfig())
	if errors.Is(err, ErrUnsupported) {
		t.Skip("capture unsupported in this build")
	}
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop without Start: %v", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("double Stop: %v", err)
	}
}
