//go:build !whispercpp

package stt

import "errors"

// ErrNativeUnavailable is returned when the binary was built without the whispercpp tag.
var ErrNativeUnavailable = errors.New("stt: built without whispercpp tag")

// NewNative returns ErrNativeUnavailable; rebuild with -tags whispercpp to enable it.
func NewNative(cfg WhisperLocalConfig) (Provider, error) {
	return nil, ErrNativeUnavailable
}
