// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"go.aimuz.me/livesub/internal/types"
)

const (
	appName        = "livesub"
	configFileName = "config.json"
)

// Opacity bounds of the overlay window.
const (
	MinOpacity     = 0.1
	MaxOpacity     = 1.0
	DefaultOpacity = 0.8
)

// Translation engines.
const (
	EngineArgos = "argos"
	EngineLLM   = "llm"
)

// Speech providers.
const (
	ProviderWhisperLocal  = "whisper-local"
	ProviderWhisperNative = "whisper-native"
)

// Config represents the application configuration.
type Config struct {
	SourceLang  string            `json:"source_lang"`
	Audio       AudioConfig       `json:"audio"`
	Speech      SpeechConfig      `json:"speech"`
	Translation TranslationConfig `json:"translation"`
	Languages   []types.Language  `json:"languages"`
	Overlay     OverlayConfig     `json:"overlay"`
	Hotkeys     HotkeyConfig      `json:"hotkeys"`

	path string
}

// AudioConfig describes microphone capture and segmentation.
type AudioConfig struct {
	SampleRate  int `json:"sample_rate"`
	BlockSize   int `json:"block_size"`
	SegmentMs   int `json:"segment_ms"`
	QueueBlocks int `json:"queue_blocks"` // pending blocks before the oldest is dropped
}

// SpeechConfig selects and tunes the speech recognizer.
type SpeechConfig struct {
	Provider  string  `json:"provider"`
	ModelSize string  `json:"model_size"`
	ModelDir  string  `json:"model_dir,omitempty"`
	BinPath   string  `json:"bin_path,omitempty"`
	Endpoint  string  `json:"endpoint,omitempty"` // model download mirror
	BeamSize  int     `json:"beam_size"`
	VADFilter *bool   `json:"vad_filter,omitempty"`
	VADLevel  float32 `json:"vad_threshold,omitempty"`
}

// VADEnabled reports whether silent frames are filtered before recognition.
func (s SpeechConfig) VADEnabled() bool {
	return s.VADFilter == nil || *s.VADFilter
}

// TranslationConfig selects the translation engine.
type TranslationConfig struct {
	Engine       string    `json:"engine"`
	Pivot        string    `json:"pivot"`
	Target       string    `json:"target"`
	ArgosBin     string    `json:"argos_bin,omitempty"`
	PackagesDir  string    `json:"packages_dir,omitempty"`
	IndexURL     string    `json:"index_url,omitempty"`
	CacheDir     string    `json:"cache_dir,omitempty"`
	DisableCache bool      `json:"disable_cache,omitempty"`
	LLM          LLMConfig `json:"llm"`
}

// LLMConfig describes an OpenAI-compatible endpoint.
type LLMConfig struct {
	BaseURL      string  `json:"base_url,omitempty"`
	APIKey       string  `json:"api_key,omitempty"`
	Model        string  `json:"model,omitempty"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
}

// OverlayConfig is the caption window geometry and opacity.
type OverlayConfig struct {
	Opacity float64 `json:"opacity"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
}

// HotkeyConfig holds global shortcuts such as "ctrl+shift+l".
type HotkeyConfig struct {
	Toggle   string `json:"toggle"`
	Settings string `json:"settings"`
}

// DefaultLanguages is the built-in source language list.
func DefaultLanguages() []types.Language {
	return []types.Language{
		{Label: "English (英语)", Code: "en"},
		{Label: "French (法语)", Code: "fr"},
		{Label: "Japanese (日语)", Code: "ja"},
		{Label: "German (德语)", Code: "de"},
		{Label: "Spanish (西语)", Code: "es"},
		{Label: "Russian (俄语)", Code: "ru"},
		{Label: "Korean (韩语)", Code: "ko"},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the user config directory.
// Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from path. Save writes back to the same path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	cfg.path = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := configPath()
		if err != nil {
			return fmt.Errorf("get config path: %w", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Dir returns the directory holding the config file.
func (c *Config) Dir() string {
	if c.path != "" {
		return filepath.Dir(c.path)
	}
	path, err := configPath()
	if err != nil {
		return ""
	}
	return filepath.Dir(path)
}

// Language returns the entry for code.
func (c *Config) Language(code string) (types.Language, bool) {
	i := slices.IndexFunc(c.Languages, func(l types.Language) bool { return l.Code == code })
	if i < 0 {
		return types.Language{}, false
	}
	return c.Languages[i], true
}

// LanguageCodes returns the codes of the configured languages in order.
func (c *Config) LanguageCodes() []string {
	codes := make([]string, len(c.Languages))
	for i, l := range c.Languages {
		codes[i] = l.Code
	}
	return codes
}

// SetSourceLang changes the source language. Unknown codes are rejected.
func (c *Config) SetSourceLang(code string) error {
	if _, ok := c.Language(code); !ok {
		return fmt.Errorf("unsupported source language: %s", code)
	}
	c.SourceLang = code
	return nil
}

// SetOpacity stores a normalized opacity and returns it.
func (c *Config) SetOpacity(v float64) float64 {
	c.Overlay.Opacity = NormalizeOpacity(v)
	return c.Overlay.Opacity
}

// NormalizeOpacity clamps v to [MinOpacity, MaxOpacity] and rounds it to a
// multiple of 0.1.
func NormalizeOpacity(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultOpacity
	}
	v = min(max(v, MinOpacity), MaxOpacity)
	return math.Round(v*10) / 10
}

// LanguageLabel returns "English name (Chinese name)" for an ISO 639-1 code.
func LanguageLabel(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	en := display.English.Languages().Name(tag)
	zh := display.Chinese.Languages().Name(tag)
	switch {
	case en == "":
		return code
	case zh == "" || zh == en:
		return en
	default:
		return fmt.Sprintf("%s (%s)", en, zh)
	}
}

func (c *Config) applyDefaults() {
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.BlockSize <= 0 {
		c.Audio.BlockSize = 4000
	}
	if c.Audio.SegmentMs <= 0 {
		c.Audio.SegmentMs = 2500
	}
	if c.Audio.QueueBlocks <= 0 {
		c.Audio.QueueBlocks = 64
	}

	if c.Speech.Provider == "" {
		c.Speech.Provider = ProviderWhisperLocal
	}
	if c.Speech.ModelSize == "" {
		c.Speech.ModelSize = "small"
	}
	if c.Speech.BeamSize <= 0 {
		c.Speech.BeamSize = 1
	}

	if c.Translation.Engine == "" {
		c.Translation.Engine = EngineArgos
	}
	if c.Translation.Pivot == "" {
		c.Translation.Pivot = "en"
	}
	if c.Translation.Target == "" {
		c.Translation.Target = "zh"
	}

	c.Languages = normalizeLanguages(c.Languages)
	if len(c.Languages) == 0 {
		c.Languages = DefaultLanguages()
	}
	if _, ok := c.Language(c.SourceLang); !ok {
		if c.SourceLang != "" {
			slog.Warn("unknown source language, using pivot", "source", c.SourceLang, "pivot", c.Translation.Pivot)
		}
		c.SourceLang = c.Translation.Pivot
		if _, ok := c.Language(c.SourceLang); !ok {
			c.SourceLang = c.Languages[0].Code
		}
	}

	if c.Overlay.Opacity == 0 {
		c.Overlay.Opacity = DefaultOpacity
	}
	c.Overlay.Opacity = NormalizeOpacity(c.Overlay.Opacity)
	if c.Overlay.Width <= 0 || c.Overlay.Height <= 0 {
		c.Overlay.X, c.Overlay.Y = 100, 600
		c.Overlay.Width, c.Overlay.Height = 800, 160
	}

	if c.Hotkeys.Toggle == "" {
		c.Hotkeys.Toggle = "ctrl+shift+l"
	}
	if c.Hotkeys.Settings == "" {
		c.Hotkeys.Settings = "ctrl+shift+o"
	}
}

// normalizeLanguages drops invalid and duplicate codes and fills missing labels.
func normalizeLanguages(langs []types.Language) []types.Language {
	out := make([]types.Language, 0, len(langs))
	for _, l := range langs {
		base, conf := baseCode(l.Code)
		if conf == language.No {
			slog.Warn("skip invalid language code", "code", l.Code)
			continue
		}
		l.Code = base
		if slices.ContainsFunc(out, func(x types.Language) bool { return x.Code == l.Code }) {
			continue
		}
		if l.Label == "" {
			l.Label = LanguageLabel(l.Code)
		}
		out = append(out, l)
	}
	return out
}

func baseCode(code string) (string, language.Confidence) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", language.No
	}
	base, conf := tag.Base()
	return base.String(), conf
}

func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName, configFileName), nil
}
