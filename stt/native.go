//go:build whispercpp

package stt

// NewNative returns the in-process whisper.cpp provider.
func NewNative(cfg WhisperLocalConfig) (Provider, error) {
	return NewWhisperNative(cfg)
}
