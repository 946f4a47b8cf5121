package app

import (
	"errors"
	"testing"

	"go.aimuz.me/livesub/audiocapture"
	"go.aimuz.me/livesub/livetranslate"
)

func TestAudioAdapter(t *testing.T) {
	capturer := &fakeCapturer{blocks: 3, size: 4000}
	aa := &AudioAdapter{newCapturer: func(cfg audiocapture.Config) (audiocapture.Capturer, error) {
		if cfg.SampleRate != 16000 || cfg.BlockSize != 4000 {
			t.Errorf("config = %+v", cfg)
		}
		return capturer, nil
	}}
	q := livetranslate.NewBlockQueue(0)
	cfg := audiocapture.DefaultConfig()

	if err := aa.Start(cfg, q); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if q.Len() != 3 {
		t.Errorf("queued blocks = %d, want 3", q.Len())
	}
	if err := aa.Start(cfg, q); err == nil {
		t.Error("second Start() expected error")
	}

	if err := aa.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !capturer.stopped {
		t.Error("capturer not stopped")
	}
	if err := aa.Stop(); err != nil {
		t.Errorf("second Stop() = %v", err)
	}
}

func TestAudioAdapter_CreateError(t *testing.T) {
	aa := &AudioAdapter{newCapturer: func(audiocapture.Config) (audiocapture.Capturer, error) {
		return nil, audiocapture.ErrUnsupported
	}}
	err := aa.Start(audiocapture.DefaultConfig(), livetranslate.NewBlockQueue(0))
	if !errors.Is(err, audiocapture.ErrUnsupported) {
		t.Errorf("Start() = %v, want ErrUnsupported", err)
	}
}
