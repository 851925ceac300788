package pipeline

import (
	"fmt"
	"testing"

	"webbundle/internal/berr"
	"webbundle/internal/bfile"
	"webbundle/internal/events"
)

type memReader struct {
	files map[string][]byte
}

func (m memReader) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return data, nil
}

// stuckProcessor claims every non-Ready state but never advances it,
// exercising the pipeline's stuck-detection guard.
type stuckProcessor struct{}

func (stuckProcessor) Supports(state ContentState) bool { return state.Phase != Ready }
func (stuckProcessor) Transpile(cwd string, item *ContentItem) error { return nil }
func (stuckProcessor) Peek(cwd string, state *ContentState) error    { return nil }

func TestPipelinePushWrapsJSInModuleEnvelope(t *testing.T) {
	reader := memReader{files: map[string][]byte{
		"src/a.js": []byte("module.exports = 1;"),
	}}
	p := Default("src", events.NoOp{}, nil)
	deps := []bfile.Dependency{bfile.NewDependency(bfile.NewFile("src/a.js"))}

	out, err := p.Push(".", deps, bfile.NewFile("dist/bundle.js"), reader)
	if err != nil {
		t.Fatalf("Push error: %v", err)
	}
	if !contains(out, `__webbundle.register("a.js"`) {
		t.Fatalf("expected module envelope in output, got %q", out)
	}
	if !contains(out, "module.exports = 1;") {
		t.Fatalf("expected original content preserved, got %q", out)
	}
}

func TestPipelinePushSkipsVirtualAndInlinedDeps(t *testing.T) {
	reader := memReader{files: map[string][]byte{
		"src/a.js": []byte("real();"),
	}}
	p := Default("src", events.NoOp{}, nil)
	virtual := bfile.NewDependency(bfile.NewFile("src/virtual.js"))
	virtual.Virtual = true
	inlined := bfile.NewDependency(bfile.NewFile("src/logo.png"))
	inlined.InlinedAsset = true
	real := bfile.NewDependency(bfile.NewFile("src/a.js"))

	out, err := p.Push(".", []bfile.Dependency{virtual, inlined, real}, bfile.NewFile("dist/bundle.js"), reader)
	if err != nil {
		t.Fatalf("Push error: %v", err)
	}
	if !contains(out, "real();") {
		t.Fatalf("expected real content, got %q", out)
	}
	if contains(out, "virtual") || contains(out, "logo") {
		t.Fatalf("expected virtual/inlined deps skipped, got %q", out)
	}
}

func TestPipelineCSSResourceRewritesURL(t *testing.T) {
	reader := memReader{files: map[string][]byte{
		"src/main.css": []byte(`.logo { background: url("./logo.png"); }`),
	}}
	p := Default("src", events.NoOp{}, nil)
	dep := bfile.NewDependency(bfile.NewFile("src/main.css"))

	out, err := p.Push(".", []bfile.Dependency{dep}, bfile.NewFile("dist/main.css"), reader)
	if err != nil {
		t.Fatalf("Push error: %v", err)
	}
	if !contains(out, "url(") {
		t.Fatalf("expected rewritten CSS content, got %q", out)
	}
	// No asset target was registered for ./logo.png, so the reference
	// should pass through unchanged rather than be blanked out.
	if !contains(out, "logo.png") {
		t.Fatalf("expected logo.png reference preserved when no target is known, got %q", out)
	}
}

func TestPipelinePeekReturnsTerminalExtensionWithoutReading(t *testing.T) {
	reader := panicReader{}
	p := Default("src", events.NoOp{}, nil)
	ext, err := p.Peek(".", bfile.NewFile("src/main.css"))
	if err != nil {
		t.Fatalf("Peek error: %v", err)
	}
	if ext != ".css" {
		t.Fatalf("got %q", ext)
	}
	_ = reader // Peek must never touch a Reader at all.
}

type panicReader struct{}

func (panicReader) ReadFile(path string) ([]byte, error) {
	panic("Peek must not read file content")
}

func TestPipelineDetectsStuckState(t *testing.T) {
	reader := memReader{files: map[string][]byte{
		"src/a.weird": []byte("content"),
	}}
	p := New("src", events.NoOp{}, nil)
	p.Register(stuckProcessor{})
	dep := bfile.NewDependency(bfile.NewFile("src/a.weird"))

	_, err := p.Push(".", []bfile.Dependency{dep}, bfile.NewFile("dist/out.weird"), reader)
	if !berr.IsStateStuck(err) {
		t.Fatalf("expected a StateStuckError, got %v", err)
	}
}

func TestPipelinePushOneUsesItemCache(t *testing.T) {
	reader := memReader{files: map[string][]byte{"src/a.js": []byte("x();")}}
	cache := NewItemCache(t.TempDir())
	p := Default("src", events.NoOp{}, cache)
	dep := bfile.NewDependency(bfile.NewFile("src/a.js"))

	first, err := p.Push(".", []bfile.Dependency{dep}, bfile.NewFile("dist/a.js"), reader)
	if err != nil {
		t.Fatalf("Push error: %v", err)
	}
	if cached, ext, ok := cache.Get(contentHash([]byte("x();"))); !ok || ext != ".js" {
		t.Fatalf("expected an item cache entry after Push, got ok=%v ext=%q content=%q", ok, ext, cached)
	}

	second, err := p.Push(".", []bfile.Dependency{dep}, bfile.NewFile("dist/a.js"), reader)
	if err != nil {
		t.Fatalf("Push error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical output on a cache hit, got %q vs %q", first, second)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
