// Package driver implements the Bundler Driver (§4.7): per-entry
// dependency discovery, bundle/vendor/asset partitioning, freshness-gated
// writes, and the runtime shim copy. Grounded on class-collector's
// cmd/class-collector/main.go orchestration shape (walk -> build artifacts
// -> write), generalized from "one zip per invocation" to "one bundle,
// vendor, and asset set per configured entry point", and carrying a
// context.Context through every stage so a long multi-entry build can be
// cancelled between entry points and top-level assets (never mid-write).
package driver

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"webbundle/internal/bfile"
	"webbundle/internal/collect"
	"webbundle/internal/config"
	"webbundle/internal/events"
	"webbundle/internal/finder"
	"webbundle/internal/freshness"
	"webbundle/internal/partition"
	"webbundle/internal/pipeline"
	"webbundle/internal/resolve"
)

// Driver owns one invocation's worth of wired components and runs the
// per-entry build loop described in §4.7.
type Driver struct {
	opts   *config.Options
	runID  string
	finder *finder.Finder
	pipe   *pipeline.Pipeline
	oracle *freshness.Oracle
	reader diskReader
	writer resolve.Writer
}

// New wires a Driver from opts. sink receives pipeline pre/post-process and
// ready events; pass events.NoOp{} for a silent build.
func New(opts *config.Options, sink events.Sink) *Driver {
	fs := resolve.NewLocalFileSystem()
	resolver := resolve.New(resolve.Config{
		Extensions:   opts.Extensions,
		IncludePaths: opts.IncludePaths,
	}, fs)

	var cache *pipeline.ItemCache
	if opts.IsDev {
		cache = pipeline.NewItemCache(filepath.Join(opts.CacheDir, "items"))
	}

	pipe := pipeline.Default(opts.SourceRoot, sink, cache)

	return &Driver{
		opts:   opts,
		runID:  uuid.NewString(),
		finder: finder.New(collect.Default(), resolver, diskReader{}),
		pipe:   pipe,
		oracle: freshness.New(opts.CacheDir, opts.IsDev),
		reader: diskReader{},
		writer: resolve.NewLocalWriter(),
	}
}

// RunID returns the uuid generated for this Driver in New. The build
// command logs it on its start and finish lines; no artifact carries it.
func (d *Driver) RunID() string { return d.runID }

// Build runs every configured entry point and top-level asset, then
// refreshes the runtime shim. It stops at the first error, and checks
// ctx.Err() before each entry point and each top-level asset; the bundle,
// vendor and asset writes of one entry point run without a check between
// them, though each write receives ctx.
func (d *Driver) Build(ctx context.Context) error {
	for _, entry := range d.opts.EntryPoints {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.buildEntry(ctx, entry); err != nil {
			return err
		}
	}
	for _, asset := range d.opts.AssetFiles {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.buildAsset(ctx, bfile.NewFile(asset)); err != nil {
			return err
		}
	}
	return d.writeShim(ctx)
}

func (d *Driver) buildEntry(ctx context.Context, entryPath string) error {
	entry := bfile.NewFile(entryPath)
	deps, err := d.finder.All(entry)
	if err != nil {
		return err
	}

	split, err := partition.Partition(deps, d.opts.VendorDir, d.peek)
	if err != nil {
		return err
	}

	entryName := entry.Basename()
	if len(split.Bundle) > 0 {
		target := partition.BundleTarget(d.opts.WebRoot, d.opts.OutputDir, entryName)
		if err := d.writeIfStale(ctx, target, split.Bundle); err != nil {
			return err
		}
	}
	if len(split.Vendor) > 0 {
		target := partition.VendorTarget(d.opts.WebRoot, d.opts.OutputDir, entryName)
		if err := d.writeIfStale(ctx, target, split.Vendor); err != nil {
			return err
		}
	}
	for _, asset := range split.Assets {
		if err := d.buildAsset(ctx, asset.File); err != nil {
			return err
		}
	}
	return nil
}

// buildAsset runs a fresh dependency search rooted at asset, per §4.5's
// "each such asset is a fresh root processed as its own pipeline push".
// After writing asset it builds each of its inlined-asset dependencies
// (e.g. a CSS-referenced image) the same way.
func (d *Driver) buildAsset(ctx context.Context, asset bfile.File) error {
	deps, err := d.finder.All(asset)
	if err != nil {
		return err
	}
	ext, err := d.peek(asset)
	if err != nil {
		return err
	}
	target := partition.AssetTarget(d.opts.WebRoot, d.opts.OutputDir, d.opts.SourceRoot, asset, ext)
	if err := d.writeIfStale(ctx, target, deps); err != nil {
		return err
	}
	for _, dep := range deps {
		if dep.InlinedAsset && dep.File.Path() != asset.Path() {
			if err := d.buildAsset(ctx, dep.File); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Driver) peek(f bfile.File) (string, error) {
	return d.pipe.Peek(d.opts.ProjectRoot, f)
}

func (d *Driver) writeIfStale(ctx context.Context, target bfile.File, deps []bfile.Dependency) error {
	inputs := make([]string, 0, len(deps))
	for _, dep := range deps {
		if !dep.Virtual {
			inputs = append(inputs, dep.File.Path())
		}
	}

	stale, err := d.oracle.Stale(target.Path(), inputs)
	if err != nil {
		return err
	}
	if !stale {
		return nil
	}

	content, err := d.pipe.Push(d.opts.ProjectRoot, deps, target, d.reader)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target.Path()), 0o755); err != nil {
		return err
	}
	return d.writer.WriteFile(ctx, target.Path(), []byte(content))
}

func (d *Driver) writeShim(ctx context.Context) error {
	target := bfile.NewFile(path.Join(d.opts.WebRoot, d.opts.OutputDir, shimOutputName))
	variant := "require.min.js"
	if d.opts.IsDev {
		variant = "require.js"
	}

	stale, err := d.oracle.StaleWithVirtual(target.Path(), nil, []string{"embedded:" + variant})
	if err != nil {
		return err
	}
	if !stale {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target.Path()), 0o755); err != nil {
		return err
	}
	return d.writer.WriteFile(ctx, target.Path(), shimContent(d.opts.IsDev))
}

// diskReader implements both finder.Reader and pipeline.Reader by reading
// the local filesystem directly, bypassing the resolve.FileSystem seam
// since it needs no existence/directory checks, only raw bytes.
type diskReader struct{}

func (diskReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
