// Package translate bridges recognized text into the caption target language
// and keeps the translation models it needs installed.
package translate

import (
	"context"
	"errors"
)

// ErrPackageNotFound is returned when the package index has no model for a pair.
var ErrPackageNotFound = errors.New("translate: package not found")

// Engine translates text between two language codes.
type Engine interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, text, from, to string) (string, error)

// Translate calls f.
func (f EngineFunc) Translate(ctx context.Context, text, from, to string) (string, error) {
	return f(ctx, text, from, to)
}

// Package describes one installable translation model.
type Package struct {
	From     string   `json:"from_code"`
	To       string   `json:"to_code"`
	FromName string   `json:"from_name,omitempty"`
	ToName   string   `json:"to_name,omitempty"`
	Version  string   `json:"package_version,omitempty"`
	Links    []string `json:"links,omitempty"`
}

// Matches reports whether p translates from -> to.
func (p Package) Matches(from, to string) bool {
	return p.From == from && p.To == to
}

// PackageIndex is the model store behind an Engine.
type PackageIndex interface {
	// Update refreshes the remote package index.
	Update(ctx context.Context) error
	// Available lists packages from the last refreshed index.
	Available(ctx context.Context) ([]Package, error)
	// Installed lists packages present locally.
	Installed(ctx context.Context) ([]Package, error)
	// Download fetches a package archive and returns its local path.
	Download(ctx context.Context, pkg Package) (string, error)
	// InstallFromPath installs a previously downloaded archive.
	InstallFromPath(ctx context.Context, path string) error
}
