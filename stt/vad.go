package stt

import (
	"math"
	"time"
)

// VAD removes non-speech regions from a segment before it reaches the model.
// Speech is detected per frame by RMS energy; detected regions are widened by
// Padding on both sides and concatenated.
type VAD struct {
	Threshold float32       // RMS threshold for speech detection
	FrameDur  time.Duration // Analysis frame length
	Padding   time.Duration // Audio kept around each speech region
	MinSpeech time.Duration // Total speech below this counts as silence
}

// DefaultVAD returns the filter used for microphone captions.
func DefaultVAD() VAD {
	return VAD{
		Threshold: 0.01,
		FrameDur:  30 * time.Millisecond,
		Padding:   200 * time.Millisecond,
		MinSpeech: 250 * time.Millisecond,
	}
}

// Filter returns only the speech portions of samples, or nil if the segment
// holds less than MinSpeech of speech.
func (v VAD) Filter(samples []float32, sampleRate int) []float32 {
	frame := durationSamples(v.FrameDur, sampleRate)
	if frame <= 0 || len(samples) == 0 {
		return nil
	}

	nFrames := (len(samples) + frame - 1) / frame
	speech := make([]bool, nFrames)
	speechFrames := 0
	for i := range speech {
		start := i * frame
		end := min(start+frame, len(samples))
		if calculateRMS(samples[start:end]) > v.Threshold {
			speech[i] = true
			speechFrames++
		}
	}

	if speechFrames*frame < durationSamples(v.MinSpeech, sampleRate) || speechFrames == 0 {
		return nil
	}

	// Mark every sample within Padding of a speech frame.
	pad := durationSamples(v.Padding, sampleRate)
	keep := make([]bool, len(samples))
	for i, isSpeech := range speech {
		if !isSpeech {
			continue
		}
		start := max(i*frame-pad, 0)
		end := min((i+1)*frame+pad, len(samples))
		for j := start; j < end; j++ {
			keep[j] = true
		}
	}

	out := make([]float32, 0, len(samples))
	for i, k := range keep {
		if k {
			out = append(out, samples[i])
		}
	}
	return out
}

func durationSamples(d time.Duration, sampleRate int) int {
	return int(d.Seconds() * float64(sampleRate))
}

// calculateRMS calculates the root mean square of audio samples.
func calculateRMS(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return float32(math.Sqrt(sum / float64(len(samples))))
}
