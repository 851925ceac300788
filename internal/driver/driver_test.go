package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"webbundle/internal/config"
	"webbundle/internal/events"
)

// writeProject lays out a small source tree under dir: an entry point that
// requires a local module and a vendored one, plus a CSS entry referencing
// an image asset.
func writeProject(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"src/main.js":                   `require("./util.js"); require("jquery");`,
		"src/util.js":                   `module.exports = 1;`,
		"node_modules/jquery/index.js":  `module.exports = {};`,
		"src/styles.css":                `.logo { background: url("./img/logo.png"); }`,
		"src/img/logo.png":              "binary",
	}
	for rel, content := range files {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// newTestOptions assumes the caller has already chdir'd into the project
// root: every path the Driver touches (EntryPoints, AssetFiles, WebRoot,
// CacheDir) is relative to the process's working directory, the same
// convention the cobra build command's config.Load-produced Options follow.
func newTestOptions() *config.Options {
	return &config.Options{
		ProjectRoot: ".",
		WebRoot:     ".",
		OutputDir:   "dist",
		SourceRoot:  "src",
		VendorDir:   "node_modules",
		EntryPoints: []string{"src/main.js"},
		Extensions:  []string{".js", ".css"},
		CacheDir:    "tmp/.webbundle-cache",
		IsDev:       true,
	}
}

// TestDriverBuildProducesBundleVendorAndShim covers scenario S6 end to end:
// a real bundle, a vendor bundle, and the runtime shim land on disk.
func TestDriverBuildProducesBundleVendorAndShim(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeProject(t, dir)
	opts := newTestOptions()

	d := New(opts, events.NoOp{})
	require.NoError(t, d.Build(context.Background()))

	bundlePath := filepath.Join(dir, "dist", "main.js")
	vendorPath := filepath.Join(dir, "dist", "main.vendor.js")
	shimPath := filepath.Join(dir, "dist", "require.js")

	require.FileExists(t, bundlePath)
	require.FileExists(t, vendorPath)
	require.FileExists(t, shimPath)

	bundle, err := os.ReadFile(bundlePath)
	require.NoError(t, err)
	require.Contains(t, string(bundle), "__webbundle.register")

	vendor, err := os.ReadFile(vendorPath)
	require.NoError(t, err)
	require.Contains(t, string(vendor), "jquery")
}

// TestDriverBuildIsIdempotentOnSecondRun covers invariant #6: rebuilding
// with nothing changed must not rewrite any artifact.
func TestDriverBuildIsIdempotentOnSecondRun(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeProject(t, dir)
	opts := newTestOptions()

	d := New(opts, events.NoOp{})
	require.NoError(t, d.Build(context.Background()))

	bundlePath := filepath.Join(dir, "dist", "main.js")
	before, err := os.Stat(bundlePath)
	require.NoError(t, err)

	d2 := New(opts, events.NoOp{})
	require.NoError(t, d2.Build(context.Background()))

	after, err := os.Stat(bundlePath)
	require.NoError(t, err)
	require.Equal(t, before.ModTime(), after.ModTime(), "unchanged inputs must not trigger a rewrite")
}

// TestDriverBuildAssetFile covers a CSS entry point whose referenced image
// is emitted as a side-channel asset rather than bundled inline.
func TestDriverBuildAssetFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeProject(t, dir)
	opts := newTestOptions()
	opts.EntryPoints = nil
	opts.AssetFiles = []string{"src/styles.css"}

	d := New(opts, events.NoOp{})
	require.NoError(t, d.Build(context.Background()))

	require.FileExists(t, filepath.Join(dir, "dist", "styles.css"))
	require.FileExists(t, filepath.Join(dir, "dist", "img/logo.png"))
}

func TestDriverBuildRespectsContextCancellation(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeProject(t, dir)
	opts := newTestOptions()
	opts.EntryPoints = []string{"src/main.js", "src/main.js"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(opts, events.NoOp{})
	err := d.Build(ctx)
	require.Error(t, err)
}
