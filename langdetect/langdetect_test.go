package langdetect

import "testing"

func TestDetect(t *testing.T) {
	d, err := New(Supported()...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", Auto},
		{"whitespace", "   ", Auto},
		{"english", "The weather is very nice today and we are going for a walk.", "en"},
		{"french", "Bonjour le monde, je suis très content de vous voir aujourd'hui.", "fr"},
		{"german", "Ich habe heute keine Zeit, weil ich arbeiten muss.", "de"},
		{"spanish", "Hola, ¿cómo estás? Espero que tengas un buen día con tu familia.", "es"},
		{"japanese", "今日はとても良い天気ですね。散歩に行きましょう。", "ja"},
		{"korean", "오늘 날씨가 정말 좋네요. 산책하러 갑시다.", "ko"},
		{"russian", "Сегодня очень хорошая погода, давайте погуляем.", "ru"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := d.Detect(tt.text)
			if got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectName(t *testing.T) {
	d, err := New("en", "es", "fr")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	code, name := d.Detect("Hola, ¿cómo estás? Espero que tengas un buen día con tu familia.")
	if code != "es" || name != "Spanish" {
		t.Errorf("Detect() = %q, %q, want es, Spanish", code, name)
	}
}

func TestMismatch(t *testing.T) {
	d, err := New("en", "fr")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name         string
		text         string
		hint         string
		wantMismatch bool
	}{
		{"matches hint", "Bonjour le monde, je suis très content de vous voir.", "fr", false},
		{"wrong hint", "Bonjour le monde, je suis très content de vous voir.", "en", true},
		{"english matches hint", "The weather is very nice today and we are going for a walk.", "en", false},
		{"english under french hint", "The weather is very nice today and we are going for a walk.", "fr", true},
		{"undetermined", "", "en", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := d.Mismatch(tt.text, tt.hint)
			if got != tt.wantMismatch {
				t.Errorf("Mismatch() = %v, want %v", got, tt.wantMismatch)
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New("en"); err == nil {
		t.Error("New() with one language expected error")
	}
	if _, err := New("en", "xx"); err == nil {
		t.Error("New() with unknown code expected error")
	}
	// Italian is a lingua language but its model is not linked in.
	if _, err := New("en", "it"); err == nil {
		t.Error("New() with a language without a model expected error")
	}
}

func TestSupportedDetectsEveryLanguage(t *testing.T) {
	samples := map[string]string{
		"de": "Ich habe heute keine Zeit, weil ich arbeiten muss.",
		"en": "The weather is very nice today and we are going for a walk.",
		"es": "Hola, ¿cómo estás? Espero que tengas un buen día con tu familia.",
		"fr": "Bonjour le monde, je suis très content de vous voir aujourd'hui.",
		"ja": "今日はとても良い天気ですね。散歩に行きましょう。",
		"ko": "오늘 날씨가 정말 좋네요. 산책하러 갑시다.",
		"ru": "Сегодня очень хорошая погода, давайте погуляем.",
		"zh": "今天天气很好，我们去公园散步吧。",
	}
	d, err := New(Supported()...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, code := range Supported() {
		text, ok := samples[code]
		if !ok {
			t.Errorf("no sample for %s", code)
			continue
		}
		if got, _ := d.Detect(text); got != code {
			t.Errorf("Detect(%q) = %q, want %q", text, got, code)
		}
	}
}
