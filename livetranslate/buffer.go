package livetranslate

import "time"

// AudioBuffer accumulates samples and cuts them into fixed, non-overlapping
// windows.
type AudioBuffer struct {
	samples    []float32
	window     int
	sampleRate int
}

// NewAudioBuffer creates a buffer yielding windows of the given duration.
func NewAudioBuffer(sampleRate int, window time.Duration) *AudioBuffer {
	n := int(float64(sampleRate) * window.Seconds())
	return &AudioBuffer{
		samples:    make([]float32, 0, 2*n),
		window:     n,
		sampleRate: sampleRate,
	}
}

// Append adds new audio samples to the buffer.
func (b *AudioBuffer) Append(samples []float32) {
	b.samples = append(b.samples, samples...)
}

// Next returns the oldest complete window, keeping the rest of the buffer
// for the following window. It reports false until a full window is buffered.
func (b *AudioBuffer) Next() ([]float32, bool) {
	if b.window <= 0 || len(b.samples) < b.window {
		return nil, false
	}

	segment := make([]float32, b.window)
	copy(segment, b.samples)

	n := copy(b.samples, b.samples[b.window:])
	b.samples = b.samples[:n]
	return segment, true
}

// Clear empties the buffer completely.
func (b *AudioBuffer) Clear() {
	b.samples = b.samples[:0]
}

// Len returns the number of samples currently in the buffer.
func (b *AudioBuffer) Len() int {
	return len(b.samples)
}

// Window returns the number of samples per window.
func (b *AudioBuffer) Window() int {
	return b.window
}

// Duration returns the duration of buffered audio.
func (b *AudioBuffer) Duration() time.Duration {
	if len(b.samples) == 0 || b.sampleRate == 0 {
		return 0
	}
	return time.Duration(len(b.samples)) * time.Second / time.Duration(b.sampleRate)
}
