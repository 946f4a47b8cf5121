package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"go.aimuz.me/livesub/audiocapture"
	"go.aimuz.me/livesub/cache"
	"go.aimuz.me/livesub/config"
	"go.aimuz.me/livesub/internal/types"
	"go.aimuz.me/livesub/langdetect"
	"go.aimuz.me/livesub/livetranslate"
	"go.aimuz.me/livesub/llm"
	"go.aimuz.me/livesub/stt"
	"go.aimuz.me/livesub/translate"
	"go.aimuz.me/livesub/translate/argos"
)

// build creates the caption pipeline from the configuration.
func (s *Service) build() error {
	c := s.cfg

	if !c.Translation.DisableCache {
		s.setupCache()
	}

	provider, err := newSpeechProvider(c.Speech)
	if err != nil {
		return fmt.Errorf("create speech provider: %w", err)
	}
	s.speech = stt.NewRegistry()
	s.speech.Register(provider)
	s.speechName = provider.Name()

	vad := stt.DefaultVAD()
	if c.Speech.VADLevel > 0 {
		vad.Threshold = c.Speech.VADLevel
	}
	transcriber := stt.NewTranscriber(provider, stt.TranscriberConfig{
		SampleRate: c.Audio.SampleRate,
		BeamSize:   c.Speech.BeamSize,
		VADFilter:  c.Speech.VADEnabled(),
		VAD:        vad,
	})

	engine, index, err := newTranslationEngine(c.Translation)
	if err != nil {
		return fmt.Errorf("create translation engine: %w", err)
	}
	engine = translate.WithCache(engine, s.cache, c.Translation.Engine)
	bridge := translate.NewBridge(engine, c.Translation.Pivot, c.Translation.Target)
	s.provisioner = translate.NewProvisioner(index, c.Translation.Pivot, c.Translation.Target)

	s.queue = livetranslate.NewBlockQueue(c.Audio.QueueBlocks)
	lcfg := livetranslate.Config{
		Queue:           s.queue,
		Transcriber:     transcriber,
		Translator:      bridge,
		SampleRate:      c.Audio.SampleRate,
		SegmentDuration: time.Duration(c.Audio.SegmentMs) * time.Millisecond,
		SourceLang:      c.SourceLang,
	}
	if detector := newDetector(c); detector != nil {
		lcfg.Checker = detector
	}
	s.live, err = livetranslate.NewService(lcfg)
	if err != nil {
		return fmt.Errorf("create caption loop: %w", err)
	}
	s.provisioner.OnStatus = s.publishStatus
	return nil
}

func (s *Service) setupCache() {
	dir := s.cfg.Translation.CacheDir
	if dir == "" {
		dir = filepath.Join(s.cfg.Dir(), "cache")
	}
	c, err := cache.New(dir)
	if err != nil {
		slog.Error("init cache", "error", err)
		return
	}
	s.cache = c
	slog.Info("cache initialized", "path", dir)
}

func newSpeechProvider(c config.SpeechConfig) (stt.Provider, error) {
	wc := stt.WhisperLocalConfig{
		ModelSize: c.ModelSize,
		ModelDir:  c.ModelDir,
		BinPath:   c.BinPath,
		Endpoint:  c.Endpoint,
	}
	switch c.Provider {
	case config.ProviderWhisperNative:
		return stt.NewNative(wc)
	case config.ProviderWhisperLocal:
		return stt.NewWhisperLocal(wc)
	default:
		return nil, fmt.Errorf("unknown speech provider: %s", c.Provider)
	}
}

// newTranslationEngine returns the engine and, for engines with local
// models, the package index used to install them.
func newTranslationEngine(c config.TranslationConfig) (translate.Engine, translate.PackageIndex, error) {
	switch c.Engine {
	case config.EngineArgos:
		index, err := argos.NewIndex(argos.Config{IndexURL: c.IndexURL, PackagesDir: c.PackagesDir})
		if err != nil {
			return nil, nil, err
		}
		return argos.NewEngine(c.ArgosBin), index, nil
	case config.EngineLLM:
		completer := llm.NewCompleter(llm.Config{
			APIKey:  c.LLM.APIKey,
			BaseURL: c.LLM.BaseURL,
			Model:   c.LLM.Model,
			Options: llm.Options{MaxTokens: c.LLM.MaxTokens, Temperature: c.LLM.Temperature},
		})
		return llm.NewEngine(completer, c.LLM.SystemPrompt), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown translation engine: %s", c.Engine)
	}
}

func newDetector(c *config.Config) *langdetect.Detector {
	supported := langdetect.Supported()
	var codes []string
	for _, code := range append(c.LanguageCodes(), c.Translation.Target) {
		if slices.Contains(codes, code) {
			continue
		}
		if !slices.Contains(supported, code) {
			slog.Warn("no detection model for language", "lang", code)
			continue
		}
		codes = append(codes, code)
	}
	d, err := langdetect.New(codes...)
	if err != nil {
		slog.Warn("language detection disabled", "error", err)
		return nil
	}
	return d
}

// run drives the startup sequence and the caption loop until ctx is done.
func (s *Service) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.forward(ctx, s.live.Updates())
		return nil
	})

	g.Go(func() error {
		if err := s.prepareSpeech(ctx); err != nil {
			slog.Error("prepare speech model", "error", err)
			s.publish(ctx, types.StatusUpdate(fmt.Sprintf(statusSpeechFail, err)))
			return nil
		}
		s.publish(ctx, types.StatusUpdate(statusSpeechReady))

		// Failures are reported as status; captions still show source text.
		_ = s.provisioner.Prepare(ctx, s.live.SourceLang())

		audioCfg := audiocapture.Config{SampleRate: s.cfg.Audio.SampleRate, BlockSize: s.cfg.Audio.BlockSize}
		if err := s.audio.Start(audioCfg, s.queue); err != nil {
			slog.Error("start audio", "error", err)
			s.publish(ctx, types.StatusUpdate(fmt.Sprintf(statusAudioFail, err)))
			return nil
		}

		err := s.live.Run(ctx)
		if errors.Is(err, livetranslate.ErrTooManyFailures) {
			slog.Error("caption loop stopped", "error", err)
			return nil
		}
		return err
	})

	return g.Wait()
}

// activeSpeech returns the provider the caption loop transcribes with.
func (s *Service) activeSpeech() stt.Provider {
	if s.speech == nil {
		return nil
	}
	return s.speech.Get(s.speechName)
}

func (s *Service) prepareSpeech(ctx context.Context) error {
	provider := s.activeSpeech()
	if provider == nil {
		return fmt.Errorf("speech provider %q not registered", s.speechName)
	}
	slog.Info("loading speech model", "provider", provider.DisplayName())
	last := -1
	return provider.Setup(ctx, func(pct int) {
		if pct/10 == last/10 && pct != 100 {
			return
		}
		last = pct
		s.publish(ctx, types.StatusUpdate(fmt.Sprintf(statusSpeechLoad, pct)))
	})
}

// forward is the single consumer of pipeline updates. It owns the displayed
// caption and status.
func (s *Service) forward(ctx context.Context, updates <-chan types.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-updates:
			switch u.Kind {
			case types.UpdateCaption:
				s.mu.Lock()
				s.caption = u.Caption
				s.mu.Unlock()
				s.emit(EventCaption, u.Caption)
			case types.UpdateStatus:
				s.mu.Lock()
				s.status = u.Status
				s.mu.Unlock()
				s.emit(EventStatus, u.Status)
			}
		}
	}
}

func (s *Service) publish(ctx context.Context, u types.Update) {
	s.live.Publish(ctx, u)
}

// publishStatus publishes msg on the service context.
func (s *Service) publishStatus(msg string) {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	s.publish(ctx, types.StatusUpdate(msg))
}
