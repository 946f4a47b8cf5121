// Package livetranslate turns a stream of microphone blocks into captions.
package livetranslate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"go.aimuz.me/livesub/internal/types"
)

// ErrTooManyFailures is returned by Run after MaxConsecutiveFailures windows
// in a row failed to transcribe.
var ErrTooManyFailures = errors.New("livetranslate: too many consecutive failures")

// Defaults for Config.
const (
	DefaultSegmentDuration        = 2500 * time.Millisecond
	DefaultMaxConsecutiveFailures = 5
	DefaultUpdateBuffer           = 32
)

// Transcriber turns one window of audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, segment []float32, language string) (string, error)
}

// Translator turns source text into target text. Failures are rendered into
// the returned string.
type Translator interface {
	Translate(ctx context.Context, text, src string) string
}

// LanguageChecker reports recognized text that is not in the expected language.
type LanguageChecker interface {
	Mismatch(text, hint string) (detected string, mismatch bool)
}

// Config holds configuration for the caption loop.
type Config struct {
	Queue       *BlockQueue
	Transcriber Transcriber
	Translator  Translator
	Checker     LanguageChecker // optional

	SampleRate             int
	SegmentDuration        time.Duration
	SourceLang             string
	MaxConsecutiveFailures int
	UpdateBuffer           int
}

// Service runs the capture-to-caption loop.
type Service struct {
	queue       *BlockQueue
	buffer      *AudioBuffer
	transcriber Transcriber
	translator  Translator
	checker     LanguageChecker
	maxFailures int
	updates     chan types.Update

	mu         sync.RWMutex
	sourceLang string
}

// NewService creates a caption loop. Zero values in cfg use the defaults.
func NewService(cfg Config) (*Service, error) {
	if cfg.Queue == nil {
		return nil, errors.New("livetranslate: queue required")
	}
	if cfg.Transcriber == nil {
		return nil, errors.New("livetranslate: transcriber required")
	}
	if cfg.Translator == nil {
		return nil, errors.New("livetranslate: translator required")
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("livetranslate: invalid sample rate %d", cfg.SampleRate)
	}
	if cfg.SegmentDuration <= 0 {
		cfg.SegmentDuration = DefaultSegmentDuration
	}
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = DefaultMaxConsecutiveFailures
	}
	if cfg.UpdateBuffer <= 0 {
		cfg.UpdateBuffer = DefaultUpdateBuffer
	}

	return &Service{
		queue:       cfg.Queue,
		buffer:      NewAudioBuffer(cfg.SampleRate, cfg.SegmentDuration),
		transcriber: cfg.Transcriber,
		translator:  cfg.Translator,
		checker:     cfg.Checker,
		maxFailures: cfg.MaxConsecutiveFailures,
		updates:     make(chan types.Update, cfg.UpdateBuffer),
		sourceLang:  cfg.SourceLang,
	}, nil
}

// Updates returns the channel of captions and status messages. It must have
// exactly one reader.
func (s *Service) Updates() <-chan types.Update {
	return s.updates
}

// Publish sends u to the update channel, giving up when ctx is done.
func (s *Service) Publish(ctx context.Context, u types.Update) {
	select {
	case s.updates <- u:
	case <-ctx.Done():
	}
}

// SetSourceLang changes the recognition language for subsequent windows.
func (s *Service) SetSourceLang(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sourceLang = code
}

// SourceLang returns the current recognition language.
func (s *Service) SourceLang() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sourceLang
}

// Run processes audio until ctx is cancelled. It returns nil on cancellation
// and ErrTooManyFailures when transcription keeps failing.
func (s *Service) Run(ctx context.Context) error {
	slog.Info("caption loop started", "source", s.SourceLang(), "window", s.buffer.Window())
	defer func() {
		slog.Info("caption loop stopped", "discarded", s.buffer.Duration())
		s.buffer.Clear()
	}()

	var failures int
	var dropped uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.queue.Ready():
		}

		for _, block := range s.queue.Drain() {
			s.buffer.Append(block)
		}
		if d := s.queue.Dropped(); d > dropped {
			slog.Warn("audio blocks dropped", "count", d-dropped, "total", d)
			dropped = d
		}

		for {
			if ctx.Err() != nil {
				return nil
			}
			segment, ok := s.buffer.Next()
			if !ok {
				break
			}

			if err := s.processWindow(ctx, segment); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				failures++
				slog.Error("process audio window", "error", err, "failures", failures)
				if failures >= s.maxFailures {
					s.Publish(ctx, types.StatusUpdate(fmt.Sprintf("识别已停止: %v", ErrTooManyFailures)))
					return fmt.Errorf("%w: last error: %v", ErrTooManyFailures, err)
				}
				s.Publish(ctx, types.StatusUpdate(fmt.Sprintf("识别失败: %v", err)))
				continue
			}
			failures = 0
		}
	}
}

// processWindow transcribes and translates one window. A panic in either
// stage is returned as an error.
func (s *Service) processWindow(ctx context.Context, segment []float32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	lang := s.SourceLang()
	text, err := s.transcriber.Transcribe(ctx, segment, lang)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	if s.checker != nil {
		if detected, mismatch := s.checker.Mismatch(text, lang); mismatch {
			slog.Warn("recognized language differs from source", "source", lang, "detected", detected)
		}
	}

	translated := s.translator.Translate(ctx, text, lang)
	slog.Info(fmt.Sprintf("[%s] %s -> %s", lang, text, translated))

	s.Publish(ctx, types.CaptionUpdate(types.Caption{
		ID:         uuid.NewString(),
		SourceLang: lang,
		Text:       text,
		Translated: translated,
		Timestamp:  time.Now().UnixMilli(),
	}))
	return nil
}
