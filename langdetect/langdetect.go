// Package langdetect identifies the language of recognized speech text.
package langdetect

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
	_ "github.com/pemistahl/lingua-go/language-models/de"
	_ "github.com/pemistahl/lingua-go/language-models/en"
	_ "github.com/pemistahl/lingua-go/language-models/es"
	_ "github.com/pemistahl/lingua-go/language-models/fr"
	_ "github.com/pemistahl/lingua-go/language-models/ja"
	_ "github.com/pemistahl/lingua-go/language-models/ko"
	_ "github.com/pemistahl/lingua-go/language-models/ru"
	_ "github.com/pemistahl/lingua-go/language-models/zh"
)

// Auto is returned when the language cannot be determined.
const Auto = "auto"

// supported lists the codes whose models are linked in above. A language
// without a model is never detected.
var supported = []string{"de", "en", "es", "fr", "ja", "ko", "ru", "zh"}

// Supported returns the ISO 639-1 codes a Detector can be built from.
func Supported() []string {
	return slices.Clone(supported)
}

// Detector detects languages among a fixed set.
type Detector struct {
	detector lingua.LanguageDetector
}

// New creates a Detector for ISO 639-1 codes. Fewer candidate languages give
// faster and more accurate results on short captions.
func New(codes ...string) (*Detector, error) {
	if len(codes) < 2 {
		return nil, fmt.Errorf("need at least two languages, got %d", len(codes))
	}
	byCode := isoLanguages()
	langs := make([]lingua.Language, 0, len(codes))
	for _, code := range codes {
		code = strings.ToLower(code)
		lang, ok := byCode[code]
		if !ok || !slices.Contains(supported, code) {
			return nil, fmt.Errorf("unsupported language: %s", code)
		}
		langs = append(langs, lang)
	}

	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(langs...).
		WithMinimumRelativeDistance(0.1).
		Build()
	return &Detector{detector: d}, nil
}

// Detect returns the ISO 639-1 code and English name of the language of text,
// or Auto when it is undetermined.
func (d *Detector) Detect(text string) (code, name string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Auto, ""
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return Auto, ""
	}
	return strings.ToLower(lang.IsoCode639_1().String()), lang.String()
}

// Mismatch reports whether text is confidently in a language other than hint.
func (d *Detector) Mismatch(text, hint string) (detected string, mismatch bool) {
	code, _ := d.Detect(text)
	if code == Auto {
		return code, false
	}
	return code, code != hint
}

// isoLanguages maps lower-case ISO 639-1 codes to lingua languages.
var isoLanguages = sync.OnceValue(func() map[string]lingua.Language {
	m := make(map[string]lingua.Language)
	for _, lang := range lingua.AllLanguages() {
		m[strings.ToLower(lang.IsoCode639_1().String())] = lang
	}
	return m
})
