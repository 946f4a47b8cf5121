package stt

import (
	"context"
	"fmt"
)

// TranscriberConfig configures a Transcriber.
type TranscriberConfig struct {
	SampleRate int  // Defaults to DefaultSampleRate
	BeamSize   int  // Defaults to 1
	VADFilter  bool // Drop non-speech audio before invoking the model
	VAD        VAD  // Zero value means DefaultVAD
}

// Transcriber turns one audio window into a single line of text.
type Transcriber struct {
	provider Provider
	cfg      TranscriberConfig
}

// NewTranscriber wraps provider with the given configuration.
func NewTranscriber(provider Provider, cfg TranscriberConfig) *Transcriber {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.BeamSize <= 0 {
		cfg.BeamSize = 1
	}
	if cfg.VAD == (VAD{}) {
		cfg.VAD = DefaultVAD()
	}
	return &Transcriber{provider: provider, cfg: cfg}
}

// Provider returns the wrapped provider.
func (t *Transcriber) Provider() Provider {
	return t.provider
}

// Transcribe recognizes speech in segment using language as a hint.
// It returns the recognized spans joined by single spaces, or "" when the
// segment holds no speech.
func (t *Transcriber) Transcribe(ctx context.Context, segment []float32, language string) (string, error) {
	audio := segment
	if t.cfg.VADFilter {
		audio = t.cfg.VAD.Filter(segment, t.cfg.SampleRate)
	}
	if len(audio) == 0 {
		return "", nil
	}

	result, err := t.provider.Transcribe(ctx, audio, Options{
		Language: language,
		BeamSize: t.cfg.BeamSize,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe with %s: %w", t.provider.Name(), err)
	}

	if len(result.Segments) > 0 {
		return joinSegments(result.Segments), nil
	}
	return cleanText(result.Text), nil
}
