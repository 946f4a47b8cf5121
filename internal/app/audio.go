package app

import (
	"fmt"
	"log/slog"
	"sync"

	"go.aimuz.me/livesub/audiocapture"
	"go.aimuz.me/livesub/livetranslate"
)

// AudioAdapter feeds microphone blocks into the caption queue.
type AudioAdapter struct {
	mu      sync.Mutex
	capture audiocapture.Capturer

	// newCapturer defaults to audiocapture.New.
	newCapturer func(audiocapture.Config) (audiocapture.Capturer, error)
}

// Start opens the default input device and pushes every block into queue.
func (aa *AudioAdapter) Start(cfg audiocapture.Config, queue *livetranslate.BlockQueue) error {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	if aa.capture != nil {
		return fmt.Errorf("audio capture already running")
	}

	newCapturer := aa.newCapturer
	if newCapturer == nil {
		newCapturer = audiocapture.New
	}
	capture, err := newCapturer(cfg)
	if err != nil {
		return fmt.Errorf("create audio capture: %w", err)
	}

	if err := capture.Start(queue.Push); err != nil {
		return fmt.Errorf("start audio capture: %w", err)
	}

	aa.capture = capture
	slog.Info("audio capture started", "sample_rate", cfg.SampleRate, "block_size", cfg.BlockSize)
	return nil
}

// Stop stops audio capture.
func (aa *AudioAdapter) Stop() error {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	if aa.capture == nil {
		return nil
	}

	err := aa.capture.Stop()
	aa.capture = nil

	slog.Info("audio capture stopped")
	return err
}
