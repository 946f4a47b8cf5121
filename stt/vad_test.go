package stt

import (
	"testing"
	"time"
)

func TestVAD_Filter(t *testing.T) {
	v := DefaultVAD()
	const rate = 16000

	tests := []struct {
		name    string
		samples []float32
		wantNil bool
		maxLen  int
	}{
		{
			name:    "silence",
			samples: makeSilence(rate * 2),
			wantNil: true,
		},
		{
			name:    "click shorter than min speech",
			samples: concat(makeSilence(rate), makeSpeech(rate/100, 0.5), makeSilence(rate)),
			wantNil: true,
		},
		{
			name:    "all speech kept",
			samples: makeSpeech(rate*2, 0.1),
			maxLen:  rate * 2,
		},
		{
			name:    "speech surrounded by silence is trimmed",
			samples: concat(makeSilence(rate), makeSpeech(rate/2, 0.1), makeSilence(rate)),
			// speech plus at most padding on both sides plus frame rounding
			maxLen: rate/2 + 2*durationSamples(v.Padding, rate) + 2*durationSamples(v.FrameDur, rate),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Filter(tt.samples, rate)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("Filter() returned %d samples, want nil", len(got))
				}
				return
			}
			if len(got) == 0 {
				t.Fatal("Filter() removed all speech")
			}
			if len(got) > tt.maxLen {
				t.Errorf("Filter() len = %d, want <= %d", len(got), tt.maxLen)
			}
		})
	}
}

func TestVAD_ZeroFrame(t *testing.T) {
	v := VAD{Threshold: 0.01, FrameDur: 0, MinSpeech: time.Millisecond}
	if got := v.Filter(makeSpeech(100, 0.5), 16000); got != nil {
		t.Errorf("Filter() with zero frame = %d samples, want nil", len(got))
	}
}

// TestCalculateRMS tests RMS calculation
func TestCalculateRMS(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
		want    float32
	}{
		{"empty samples", []float32{}, 0},
		{"all zeros", []float32{0, 0, 0, 0}, 0},
		{"simple positive values", []float32{0.1, 0.1, 0.1, 0.1}, 0.1},
		{"mixed positive/negative", []float32{0.3, -0.3, 0.3, -0.3}, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateRMS(tt.samples)
			if abs(got-tt.want) > 0.001 {
				t.Errorf("calculateRMS() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Helper functions for generating test audio

func makeSilence(samples int) []float32 {
	return make([]float32, samples)
}

func makeSpeech(samples int, amplitude float32) []float32 {
	result := make([]float32, samples)
	for i := range result {
		if i%2 == 0 {
			result[i] = amplitude
		} else {
			result[i] = -amplitude
		}
	}
	return result
}

func concat(parts ...[]float32) []float32 {
	var out []float32
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
