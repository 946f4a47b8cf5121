package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.aimuz.me/livesub/internal/types"
)

func TestLoadFrom_Missing(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.SourceLang != "en" {
		t.Errorf("SourceLang = %q, want en", cfg.SourceLang)
	}
	if cfg.Audio.SampleRate != 16000 || cfg.Audio.BlockSize != 4000 || cfg.Audio.SegmentMs != 2500 {
		t.Errorf("Audio = %+v", cfg.Audio)
	}
	if cfg.Speech.BeamSize != 1 || !cfg.Speech.VADEnabled() || cfg.Speech.ModelSize != "small" {
		t.Errorf("Speech = %+v", cfg.Speech)
	}
	if cfg.Translation.Pivot != "en" || cfg.Translation.Target != "zh" || cfg.Translation.Engine != EngineArgos {
		t.Errorf("Translation = %+v", cfg.Translation)
	}
	if cfg.Overlay != (OverlayConfig{Opacity: 0.8, X: 100, Y: 600, Width: 800, Height: 160}) {
		t.Errorf("Overlay = %+v", cfg.Overlay)
	}
	want := []string{"en", "fr", "ja", "de", "es", "ru", "ko"}
	codes := cfg.LanguageCodes()
	if len(codes) != len(want) {
		t.Fatalf("LanguageCodes() = %v", codes)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("LanguageCodes()[%d] = %q, want %q", i, codes[i], want[i])
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "livesub", "config.json")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if err := cfg.SetSourceLang("ja"); err != nil {
		t.Fatalf("SetSourceLang: %v", err)
	}
	cfg.SetOpacity(0.5)
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.SourceLang != "ja" || loaded.Overlay.Opacity != 0.5 {
		t.Errorf("loaded = %q/%v", loaded.SourceLang, loaded.Overlay.Opacity)
	}
	if loaded.Dir() != filepath.Dir(path) {
		t.Errorf("Dir() = %q", loaded.Dir())
	}
}

func TestLoadFrom_Normalizes(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		wantSource  string
		wantOpacity float64
		wantCodes   []string
	}{
		{
			name:        "unknown source falls back to pivot",
			json:        `{"source_lang": "xx"}`,
			wantSource:  "en",
			wantOpacity: 0.8,
			wantCodes:   []string{"en", "fr", "ja", "de", "es", "ru", "ko"},
		},
		{
			name:        "opacity clamped",
			json:        `{"overlay": {"opacity": 3}}`,
			wantSource:  "en",
			wantOpacity: 1.0,
			wantCodes:   []string{"en", "fr", "ja", "de", "es", "ru", "ko"},
		},
		{
			name:        "custom languages filtered",
			json:        `{"source_lang": "it", "languages": [{"code": "it"}, {"code": "not a tag"}, {"code": "it"}, {"label": "Portuguese", "code": "pt"}]}`,
			wantSource:  "it",
			wantOpacity: 0.8,
			wantCodes:   []string{"it", "pt"},
		},
		{
			name:        "source falls back to first language without pivot",
			json:        `{"languages": [{"code": "ja"}, {"code": "ko"}]}`,
			wantSource:  "ja",
			wantOpacity: 0.8,
			wantCodes:   []string{"ja", "ko"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.json), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := LoadFrom(path)
			if err != nil {
				t.Fatalf("LoadFrom: %v", err)
			}
			if cfg.SourceLang != tt.wantSource {
				t.Errorf("SourceLang = %q, want %q", cfg.SourceLang, tt.wantSource)
			}
			if cfg.Overlay.Opacity != tt.wantOpacity {
				t.Errorf("Opacity = %v, want %v", cfg.Overlay.Opacity, tt.wantOpacity)
			}
			codes := cfg.LanguageCodes()
			if len(codes) != len(tt.wantCodes) {
				t.Fatalf("codes = %v, want %v", codes, tt.wantCodes)
			}
			for i := range codes {
				if codes[i] != tt.wantCodes[i] {
					t.Errorf("codes = %v, want %v", codes, tt.wantCodes)
				}
			}
		})
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() expected error for invalid JSON")
	}
}

func TestNormalizeOpacity(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0.1},
		{-1, 0.1},
		{0.05, 0.1},
		{0.14, 0.1},
		{0.16, 0.2},
		{0.8, 0.8},
		{0.96, 1.0},
		{1.7, 1.0},
	}
	for _, tt := range tests {
		if got := NormalizeOpacity(tt.in); got != tt.want {
			t.Errorf("NormalizeOpacity(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetSourceLang(t *testing.T) {
	cfg := Default()
	if err := cfg.SetSourceLang("zz"); err == nil {
		t.Error("SetSourceLang(zz) expected error")
	}
	if err := cfg.SetSourceLang("ko"); err != nil || cfg.SourceLang != "ko" {
		t.Errorf("SetSourceLang(ko) = %v, source %q", err, cfg.SourceLang)
	}
}

func TestLanguageLabel(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"fr", "French (法语)"},
		{"it", "Italian (意大利语)"},
		{"!!", "!!"},
	}
	for _, tt := range tests {
		if got := LanguageLabel(tt.code); got != tt.want {
			t.Errorf("LanguageLabel(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestLanguage(t *testing.T) {
	cfg := Default()
	l, ok := cfg.Language("de")
	if !ok || l != (types.Language{Label: "German (德语)", Code: "de"}) {
		t.Errorf("Language(de) = %+v, %v", l, ok)
	}
	if _, ok := cfg.Language("zh"); ok {
		t.Error("Language(zh) found")
	}
}

func TestVADEnabled(t *testing.T) {
	off := false
	if (SpeechConfig{VADFilter: &off}).VADEnabled() {
		t.Error("VADEnabled() with explicit false")
	}
	if !(SpeechConfig{}).VADEnabled() {
		t.Error("VADEnabled() default false")
	}
}
