//go:build !cgo

package audiocapture

// New returns ErrUnsupported when built without cgo, since PortAudio is a C library.
func New(cfg Config) (Capturer, error) {
	return nil, ErrUnsupported
}
