// Package argos provides Argos Translate packages and translation.
package argos

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.aimuz.me/livesub/translate"
)

// DefaultIndexURL is the public Argos package index.
const DefaultIndexURL = "https://raw.githubusercontent.com/argosopentech/argospm-index/main/index.json"

// metadataFile is present at the root of every installed package.
const metadataFile = "metadata.json"

// Config configures an Index.
type Config struct {
	IndexURL    string
	PackagesDir string
	HTTPClient  *http.Client
}

// Index implements translate.PackageIndex on top of the Argos package index
// and the local Argos packages directory.
type Index struct {
	url  string
	dir  string
	http *http.Client

	mu        sync.Mutex
	available []translate.Package
	fetched   map[string]bool // archives downloaded by this Index
}

// DefaultPackagesDir returns the directory argos-translate loads packages from.
func DefaultPackagesDir() (string, error) {
	if dir := os.Getenv("ARGOS_PACKAGES_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "argos-translate", "packages"), nil
}

// NewIndex creates an Index. Empty fields use the defaults.
func NewIndex(cfg Config) (*Index, error) {
	if cfg.IndexURL == "" {
		cfg.IndexURL = DefaultIndexURL
	}
	if cfg.PackagesDir == "" {
		dir, err := DefaultPackagesDir()
		if err != nil {
			return nil, err
		}
		cfg.PackagesDir = dir
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Index{
		url:     cfg.IndexURL,
		dir:     cfg.PackagesDir,
		http:    cfg.HTTPClient,
		fetched: make(map[string]bool),
	}, nil
}

// Update fetches the remote index.
func (i *Index) Update(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := i.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch index: http status %d", resp.StatusCode)
	}

	var pkgs []translate.Package
	if err := json.NewDecoder(resp.Body).Decode(&pkgs); err != nil {
		return fmt.Errorf("decode index: %w", err)
	}

	i.mu.Lock()
	i.available = pkgs
	i.mu.Unlock()
	return nil
}

// Available returns the packages from the last Update.
func (i *Index) Available(context.Context) ([]translate.Package, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]translate.Package, len(i.available))
	copy(out, i.available)
	return out, nil
}

// Installed reads the metadata of every package under the packages directory.
func (i *Index) Installed(context.Context) ([]translate.Package, error) {
	entries, err := os.ReadDir(i.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read packages dir: %w", err)
	}

	var pkgs []translate.Package
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(i.dir, e.Name(), metadataFile))
		if err != nil {
			continue
		}
		var pkg translate.Package
		if err := json.Unmarshal(data, &pkg); err != nil {
			slog.Warn("skip package with bad metadata", "dir", e.Name(), "error", err)
			continue
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

// Download fetches the package archive into a temporary file.
func (i *Index) Download(ctx context.Context, pkg translate.Package) (string, error) {
	if len(pkg.Links) == 0 {
		return "", fmt.Errorf("package %s -> %s has no download link", pkg.From, pkg.To)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pkg.Links[0], nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := i.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http status: %d", resp.StatusCode)
	}

	f, err := os.CreateTemp("", fmt.Sprintf("translate-%s_%s-*.argosmodel", pkg.From, pkg.To))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("read response: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close file: %w", err)
	}

	i.mu.Lock()
	i.fetched[f.Name()] = true
	i.mu.Unlock()

	slog.Info("downloaded translation package", "from", pkg.From, "to", pkg.To, "path", f.Name())
	return f.Name(), nil
}

// InstallFromPath extracts a .argosmodel archive into the packages directory.
// Archives fetched by Download are removed afterwards.
func (i *Index) InstallFromPath(_ context.Context, path string) error {
	if err := i.extract(path); err != nil {
		return err
	}

	i.mu.Lock()
	fetched := i.fetched[path]
	delete(i.fetched, path)
	i.mu.Unlock()
	if fetched {
		os.Remove(path)
	}
	return nil
}

func (i *Index) extract(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return fmt.Errorf("create packages dir: %w", err)
	}

	hasMetadata := false
	for _, f := range r.File {
		dst, err := safeJoin(i.dir, f.Name)
		if err != nil {
			return err
		}
		if filepath.Base(f.Name) == metadataFile {
			hasMetadata = true
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return fmt.Errorf("create dir: %w", err)
			}
			continue
		}
		if err := extractFile(f, dst); err != nil {
			return err
		}
	}

	if !hasMetadata {
		return fmt.Errorf("archive %s: missing %s", filepath.Base(path), metadataFile)
	}
	return nil
}

func extractFile(f *zip.File, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return out.Close()
}

// safeJoin joins name to dir, rejecting entries that escape dir.
func safeJoin(dir, name string) (string, error) {
	dst := filepath.Join(dir, name)
	if dst != dir && !strings.HasPrefix(dst, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes packages dir: %s", name)
	}
	return dst, nil
}
