package resolve

import (
	"testing"

	"webbundle/internal/bfile"
)

// memFS is an in-memory FileSystem for resolver tests, per fs.go's doc
// comment promise that a non-afs backend can stand in without touching
// resolver.go.
type memFS struct {
	files map[string][]byte
	dirs  map[string]bool
}

func newMemFS() *memFS {
	return &memFS{files: map[string][]byte{}, dirs: map[string]bool{}}
}

func (m *memFS) put(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *memFS) putDir(path string) {
	m.dirs[path] = true
}

func (m *memFS) Exists(path string) bool {
	_, ok := m.files[path]
	return ok || m.dirs[path]
}

func (m *memFS) IsDir(path string) bool {
	return m.dirs[path]
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, newNotFound(path, "")
	}
	return data, nil
}

func TestResolveRelativeLiteralFile(t *testing.T) {
	fs := newMemFS()
	fs.put("src/app/util.ts", "export {}")
	r := New(Config{}, fs)

	imp, err := r.Resolve("./util.ts", bfile.NewFile("src/app/main.ts"))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if imp.ResolvedFile().Path() != "src/app/util.ts" {
		t.Fatalf("got %q", imp.ResolvedFile().Path())
	}
	if imp.IsModule {
		t.Fatalf("relative import should not be a module")
	}
}

func TestResolveRelativeExtensionProbe(t *testing.T) {
	fs := newMemFS()
	fs.put("src/app/util.ts", "export {}")
	r := New(Config{Extensions: []string{".ts", ".js"}}, fs)

	imp, err := r.Resolve("./util", bfile.NewFile("src/app/main.ts"))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if imp.ResolvedFile().Path() != "src/app/util.ts" {
		t.Fatalf("got %q", imp.ResolvedFile().Path())
	}
}

func TestResolveRelativeIndexInsideDirectory(t *testing.T) {
	fs := newMemFS()
	fs.putDir("src/app/widgets")
	fs.put("src/app/widgets/index.ts", "export {}")
	r := New(Config{Extensions: []string{".ts", ".js"}}, fs)

	imp, err := r.Resolve("./widgets", bfile.NewFile("src/app/main.ts"))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if imp.ResolvedFile().Path() != "src/app/widgets/index.ts" {
		t.Fatalf("got %q", imp.ResolvedFile().Path())
	}
}

func TestResolveRelativeNotFound(t *testing.T) {
	fs := newMemFS()
	r := New(Config{}, fs)
	_, err := r.Resolve("./missing", bfile.NewFile("src/app/main.ts"))
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

// TestResolveBareSpecifierPackageMain is scenario S2: package.json "main"
// takes precedence over index.* probing.
func TestResolveBareSpecifierPackageMain(t *testing.T) {
	fs := newMemFS()
	fs.putDir("node_modules/pkg")
	fs.put("node_modules/pkg/package.json", `{"main": "src/index.js"}`)
	fs.put("node_modules/pkg/src/index.js", "module.exports = {}")
	r := New(Config{Extensions: []string{".ts", ".js"}}, fs)

	imp, err := r.Resolve("pkg", bfile.NewFile("src/app/main.ts"))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !imp.IsModule || imp.Module.Name != "pkg" {
		t.Fatalf("expected a named module, got %+v", imp)
	}
	if imp.ResolvedFile().Path() != "node_modules/pkg/src/index.js" {
		t.Fatalf("got %q", imp.ResolvedFile().Path())
	}
}

func TestResolveBareSpecifierIndexFallback(t *testing.T) {
	fs := newMemFS()
	fs.putDir("node_modules/pkg")
	fs.put("node_modules/pkg/index.js", "module.exports = {}")
	r := New(Config{Extensions: []string{".ts", ".js"}}, fs)

	imp, err := r.Resolve("pkg", bfile.NewFile("src/app/main.ts"))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if imp.ResolvedFile().Path() != "node_modules/pkg/index.js" {
		t.Fatalf("got %q", imp.ResolvedFile().Path())
	}
}

func TestResolveBareSpecifierWalksAncestors(t *testing.T) {
	fs := newMemFS()
	fs.putDir("node_modules/pkg")
	fs.put("node_modules/pkg/index.js", "module.exports = {}")
	r := New(Config{Extensions: []string{".js"}}, fs)

	imp, err := r.Resolve("pkg", bfile.NewFile("src/app/deep/nested/main.ts"))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if imp.ResolvedFile().Path() != "node_modules/pkg/index.js" {
		t.Fatalf("got %q", imp.ResolvedFile().Path())
	}
}

func TestResolveScopedPackage(t *testing.T) {
	fs := newMemFS()
	fs.putDir("node_modules/@scope/pkg")
	fs.put("node_modules/@scope/pkg/lib/thing.js", "module.exports = {}")
	r := New(Config{Extensions: []string{".js"}}, fs)

	imp, err := r.Resolve("@scope/pkg/lib/thing", bfile.NewFile("src/app/main.ts"))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if imp.ResolvedFile().Path() != "node_modules/@scope/pkg/lib/thing.js" {
		t.Fatalf("got %q", imp.ResolvedFile().Path())
	}
}

func TestResolveBareSpecifierNonStringMainFallsThrough(t *testing.T) {
	fs := newMemFS()
	fs.putDir("node_modules/pkg")
	fs.put("node_modules/pkg/package.json", `{"main": ["a.js", "b.js"]}`)
	fs.put("node_modules/pkg/index.js", "module.exports = {}")
	r := New(Config{Extensions: []string{".js"}}, fs)

	imp, err := r.Resolve("pkg", bfile.NewFile("src/app/main.ts"))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if imp.ResolvedFile().Path() != "node_modules/pkg/index.js" {
		t.Fatalf("got %q", imp.ResolvedFile().Path())
	}
}
