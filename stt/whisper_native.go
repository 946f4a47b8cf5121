//go:build whispercpp

// This file contains the WhisperNative provider backed by the whisper.cpp
// CGO bindings. The whisper.cpp static library (libwhisper.a) and headers
// (whisper.h) must be available at link time via LIBRARY_PATH and
// C_INCLUDE_PATH. Build with -tags whispercpp.

package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

var _ Provider = (*WhisperNative)(nil)

// WhisperNative implements Provider in-process. The model is loaded once in
// Setup; every Transcribe call gets its own whisper context.
type WhisperNative struct {
	modelPath string
	modelSize string
	modelURL  string
	http      *http.Client

	mu            sync.RWMutex
	model         whisperlib.Model
	setupProgress int
}

// NewWhisperNative creates a provider that will load the model of the given
// size from modelDir, downloading it in Setup if needed.
func NewWhisperNative(cfg WhisperLocalConfig) (*WhisperNative, error) {
	if cfg.ModelSize == "" {
		cfg.ModelSize = "small"
	}
	if _, ok := modelSizes[cfg.ModelSize]; !ok {
		return nil, fmt.Errorf("invalid model size: %s", cfg.ModelSize)
	}
	if cfg.ModelDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		cfg.ModelDir = filepath.Join(homeDir, ".livesub", "models")
	}
	return &WhisperNative{
		modelPath:     ModelPath(cfg.ModelDir, cfg.ModelSize),
		modelSize:     cfg.ModelSize,
		modelURL:      ModelURL(cfg.Endpoint, cfg.ModelSize),
		http:          &http.Client{},
		setupProgress: -1,
	}, nil
}

func (w *WhisperNative) Name() string        { return "whisper-native" }
func (w *WhisperNative) DisplayName() string { return fmt.Sprintf("Whisper Native (%s)", w.modelSize) }

func (w *WhisperNative) IsReady() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.model != nil
}

func (w *WhisperNative) SetupProgress() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.setupProgress
}

// Setup downloads the model if missing and loads it.
func (w *WhisperNative) Setup(ctx context.Context, progress func(percent int)) error {
	if w.IsReady() {
		return nil
	}

	report := func(pct int) {
		w.mu.Lock()
		w.setupProgress = pct
		w.mu.Unlock()
		if progress != nil {
			progress(pct)
		}
	}
	report(0)

	if _, err := os.Stat(w.modelPath); err != nil {
		info := modelSizes[w.modelSize]
		if err := os.MkdirAll(filepath.Dir(w.modelPath), 0755); err != nil {
			return fmt.Errorf("create model dir: %w", err)
		}
		if err := downloadFile(ctx, w.http, w.modelURL, w.modelPath, info.Size, report); err != nil {
			return fmt.Errorf("download model: %w", err)
		}
	}

	model, err := whisperlib.New(w.modelPath)
	if err != nil {
		return fmt.Errorf("load model %q: %w", w.modelPath, err)
	}

	w.mu.Lock()
	w.model = model
	w.mu.Unlock()
	report(100)
	return nil
}

// Transcribe runs whisper.cpp inference using a fresh context.
func (w *WhisperNative) Transcribe(ctx context.Context, audio []float32, opts Options) (*TranscribeResult, error) {
	w.mu.RLock()
	model := w.model
	w.mu.RUnlock()
	if model == nil {
		return nil, fmt.Errorf("whisper-native: %w", ErrNotReady)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// A whisper context is not thread-safe; the model can be shared.
	wctx, err := model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("create context: %w", err)
	}

	if opts.Language != "" {
		if err := wctx.SetLanguage(opts.Language); err != nil {
			slog.Warn("whisper: set language", "language", opts.Language, "error", err)
		}
	}
	if opts.BeamSize > 0 {
		wctx.SetBeamSize(opts.BeamSize)
	}

	if err := wctx.Process(audio, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("process audio: %w", err)
	}

	result := &TranscribeResult{Language: opts.Language}
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read segment: %w", err)
		}
		if strings.TrimSpace(segment.Text) == "" {
			continue
		}
		result.Segments = append(result.Segments, Segment{
			Text:  segment.Text,
			Start: segment.Start,
			End:   segment.End,
		})
	}
	result.Text = joinSegments(result.Segments)
	return result, nil
}

// Close releases the whisper model.
func (w *WhisperNative) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.model == nil {
		return nil
	}
	err := w.model.Close()
	w.model = nil
	return err
}
