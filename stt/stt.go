// Package stt provides speech-to-text provider interface and implementations.
package stt

import (
	"context"
	"errors"
	"slices"
	"time"
)

// DefaultSampleRate is the sample rate every provider expects.
const DefaultSampleRate = 16000

// ErrNotReady is returned by Transcribe when the provider's model is missing.
var ErrNotReady = errors.New("stt: provider not ready")

// TranscribeResult represents the result of a transcription.
type TranscribeResult struct {
	Text     string    `json:"text"`     // Transcribed text
	Language string    `json:"language"` // Detected language code
	Segments []Segment `json:"segments"` // Time-stamped segments
}

// Segment represents a time-stamped audio segment.
type Segment struct {
	Text  string        `json:"text"`
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
}

// Options tunes a single transcription call.
type Options struct {
	Language string // Language hint, e.g. "fr". Empty means auto-detect.
	BeamSize int    // Beam search width, 1 for greedy-ish decoding.
}

// Provider defines the interface for speech-to-text providers.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// DisplayName returns the human-readable provider name.
	DisplayName() string

	// IsReady returns true if the provider is ready to use.
	IsReady() bool

	// SetupProgress returns the setup progress (0-100), -1 if not started.
	SetupProgress() int

	// Setup performs initialization (e.g., download model).
	// The progress callback receives percentage (0-100).
	Setup(ctx context.Context, progress func(percent int)) error

	// Transcribe converts audio samples to text.
	// audio: PCM float32 samples at 16000 Hz sample rate
	Transcribe(ctx context.Context, audio []float32, opts Options) (*TranscribeResult, error)

	// Close releases resources held by the provider.
	Close() error
}

// Registry holds registered STT providers.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get returns a provider by name.
func (r *Registry) Get(name string) Provider {
	return r.providers[name]
}

// List returns all registered providers sorted by name.
func (r *Registry) List() []Provider {
	result := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	slices.SortFunc(result, func(a, b Provider) int {
		switch {
		case a.Name() < b.Name():
			return -1
		case a.Name() > b.Name():
			return 1
		}
		return 0
	})
	return result
}

// Close releases all providers.
func (r *Registry) Close() error {
	var errs []error
	for _, p := range r.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
