package translate

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Provisioner installs the models a Bridge needs before first use.
type Provisioner struct {
	index  PackageIndex
	pivot  string
	target string
	group  singleflight.Group

	// OnStatus, if set, receives human-readable progress messages.
	OnStatus func(msg string)
}

// NewProvisioner creates a Provisioner for the pivot/target pair of a Bridge.
// A nil index means the engine needs no local models.
func NewProvisioner(index PackageIndex, pivot, target string) *Provisioner {
	return &Provisioner{index: index, pivot: pivot, target: target}
}

// Prepare ensures pivot->target and, for a non-pivot source, src->pivot are
// installed. The outcome is reported through OnStatus.
func (p *Provisioner) Prepare(ctx context.Context, src string) error {
	err := p.prepare(ctx, src)
	if err != nil {
		p.status(fmt.Sprintf("模型下载失败: %v", err))
		return err
	}
	p.status(fmt.Sprintf("模型就绪 (%s -> %s)", src, p.target))
	return nil
}

func (p *Provisioner) prepare(ctx context.Context, src string) error {
	if err := p.EnsurePair(ctx, p.pivot, p.target); err != nil {
		return err
	}
	if src != p.pivot && src != p.target {
		if err := p.EnsurePair(ctx, src, p.pivot); err != nil {
			return err
		}
	}
	return nil
}

// EnsurePair installs the from->to package unless it is already installed.
// Concurrent calls for the same pair share one attempt.
func (p *Provisioner) EnsurePair(ctx context.Context, from, to string) error {
	if p.index == nil {
		return nil
	}
	_, err, _ := p.group.Do(from+"->"+to, func() (any, error) {
		return nil, p.ensurePair(ctx, from, to)
	})
	return err
}

func (p *Provisioner) ensurePair(ctx context.Context, from, to string) error {
	slog.Info("checking translation package", "from", from, "to", to)

	if err := p.index.Update(ctx); err != nil {
		return fmt.Errorf("update package index: %w", err)
	}

	available, err := p.index.Available(ctx)
	if err != nil {
		return fmt.Errorf("list available packages: %w", err)
	}
	pkg, ok := findPackage(available, from, to)
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrPackageNotFound, from, to)
	}

	installed, err := p.index.Installed(ctx)
	if err != nil {
		return fmt.Errorf("list installed packages: %w", err)
	}
	if _, ok := findPackage(installed, from, to); ok {
		slog.Info("translation package already installed", "from", from, "to", to)
		return nil
	}

	p.status(fmt.Sprintf("正在下载翻译包 %s -> %s ...", from, to))
	path, err := p.index.Download(ctx, pkg)
	if err != nil {
		return fmt.Errorf("download %s -> %s: %w", from, to, err)
	}
	if err := p.index.InstallFromPath(ctx, path); err != nil {
		return fmt.Errorf("install %s -> %s: %w", from, to, err)
	}

	slog.Info("translation package installed", "from", from, "to", to, "version", pkg.Version)
	return nil
}

func (p *Provisioner) status(msg string) {
	slog.Info("provisioning status", "message", msg)
	if p.OnStatus != nil {
		p.OnStatus(msg)
	}
}

func findPackage(pkgs []Package, from, to string) (Package, bool) {
	for _, pkg := range pkgs {
		if pkg.Matches(from, to) {
			return pkg, true
		}
	}
	return Package{}, false
}
