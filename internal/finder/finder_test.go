package finder

import (
	"fmt"
	"testing"

	"webbundle/internal/bfile"
	"webbundle/internal/collect"
	"webbundle/internal/resolve"
)

// fixture is both a resolve.FileSystem and a finder.Reader over an
// in-memory corpus, letting these tests exercise the real collectors and
// resolver rather than stubbing finder's own seams.
type fixture struct {
	files map[string]string
}

func newFixture(files map[string]string) *fixture {
	return &fixture{files: files}
}

func (f *fixture) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fixture) IsDir(path string) bool { return false }

func (f *fixture) ReadFile(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return []byte(data), nil
}

func newFinder(files map[string]string) *Finder {
	fx := newFixture(files)
	resolver := resolve.New(resolve.Config{Extensions: []string{".js", ".css"}}, fx)
	return New(collect.Default(), resolver, fx)
}

// TestFinderLinearChainOrdering covers invariant #3: every import precedes
// its importer, and the root is emitted last.
func TestFinderLinearChainOrdering(t *testing.T) {
	f := newFinder(map[string]string{
		"src/main.js": `require("./a.js");`,
		"src/a.js":    `require("./b.js");`,
		"src/b.js":    `// leaf`,
	})

	deps, err := f.All(bfile.NewFile("src/main.js"))
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if len(deps) != 3 {
		t.Fatalf("expected 3 deps, got %d", len(deps))
	}
	order := []string{deps[0].File.Path(), deps[1].File.Path(), deps[2].File.Path()}
	want := []string{"src/b.js", "src/a.js", "src/main.js"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v, want %v", i, order, want)
		}
	}
}

// TestFinderDedupesDiamondDependency covers invariant #2: a file imported
// by two different paths appears exactly once in the result.
func TestFinderDedupesDiamondDependency(t *testing.T) {
	f := newFinder(map[string]string{
		"src/main.js":   `require("./a.js"); require("./b.js");`,
		"src/a.js":      `require("./shared.js");`,
		"src/b.js":      `require("./shared.js");`,
		"src/shared.js": `// leaf`,
	})

	deps, err := f.All(bfile.NewFile("src/main.js"))
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	count := 0
	for _, d := range deps {
		if d.File.Path() == "src/shared.js" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected src/shared.js exactly once, found %d times", count)
	}
	if len(deps) != 4 {
		t.Fatalf("expected 4 unique deps, got %d", len(deps))
	}
}

// TestFinderRejectsImportCycle is scenario S7.
func TestFinderRejectsImportCycle(t *testing.T) {
	f := newFinder(map[string]string{
		"src/a.js": `require("./b.js");`,
		"src/b.js": `require("./a.js");`,
	})

	_, err := f.All(bfile.NewFile("src/a.js"))
	if err == nil {
		t.Fatalf("expected a cycle error")
	}
	if _, ok := err.(*CycleError); !ok {
		t.Fatalf("expected *CycleError, got %T: %v", err, err)
	}
}

func TestFinderMarksCSSResourceAsInlinedAsset(t *testing.T) {
	f := newFinder(map[string]string{
		"src/main.css": `.logo { background: url("./logo.png"); }`,
		"src/logo.png": `binary`,
	})

	deps, err := f.All(bfile.NewFile("src/main.css"))
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	var found bool
	for _, d := range deps {
		if d.File.Path() == "src/logo.png" {
			found = true
			if !d.InlinedAsset {
				t.Fatalf("expected logo.png to be marked InlinedAsset")
			}
		}
	}
	if !found {
		t.Fatalf("expected src/logo.png in the dependency list")
	}
}

func TestFinderLeafFileWithNoCollector(t *testing.T) {
	f := newFinder(map[string]string{
		"src/logo.png": `binary`,
	})
	deps, err := f.All(bfile.NewFile("src/logo.png"))
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if len(deps) != 1 || deps[0].File.Path() != "src/logo.png" {
		t.Fatalf("expected a single leaf dependency, got %+v", deps)
	}
}
