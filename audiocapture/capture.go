// Package audiocapture provides microphone capture from the default input device.
package audiocapture

import "errors"

// ErrUnsupported is returned when audio capture is not available in this build.
var ErrUnsupported = errors.New("audiocapture: not supported on this platform")

// ErrRunning is returned when Start is called on a capturer that is already running.
var ErrRunning = errors.New("audiocapture: already running")

// AudioHandler receives one block of mono float32 samples in the range [-1, 1].
// It runs on the audio driver's thread and must return quickly. The slice is
// owned by the handler; the capturer never reuses it.
type AudioHandler func(samples []float32)

// Capturer streams blocks from an input device.
type Capturer interface {
	Start(handler AudioHandler) error
	Stop() error
}

// Config holds configuration for audio capture.
type Config struct {
	SampleRate int // Sample rate, default 16000 Hz (what Whisper expects)
	BlockSize  int // Samples per callback, default 4000 (~250ms at 16 kHz)
}

// DefaultConfig returns the default capture configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		BlockSize:  4000,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SampleRate <= 0 {
		c.SampleRate = d.SampleRate
	}
	if c.BlockSize <= 0 {
		c.BlockSize = d.BlockSize
	}
	return c
}
