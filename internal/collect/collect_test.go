package collect

import (
	"fmt"
	"testing"

	"webbundle/internal/bfile"
)

// stubResolver answers any specifier whose target was registered, and
// returns a NotFoundError-shaped error for anything else, mirroring the
// drop-silently contract collectors rely on.
type stubResolver struct {
	files map[string]bool
}

func newStubResolver(known ...string) *stubResolver {
	files := make(map[string]bool, len(known))
	for _, k := range known {
		files[k] = true
	}
	return &stubResolver{files: files}
}

func (s *stubResolver) Resolve(specifier string, from bfile.File) (bfile.Import, error) {
	target := from.Join(specifier)
	if !s.files[target.Path()] {
		return bfile.Import{}, fmt.Errorf("not found: %s", target.Path())
	}
	return bfile.Import{Specifier: specifier, Module: bfile.Module{File: target}}, nil
}

func TestJSCollectorExtractsRequireCalls(t *testing.T) {
	r := newStubResolver("src/app/util.js")
	into := &ImportCollection{}
	data := []byte(`const util = require("./util.js");\nrequire('./missing.js');`)

	if err := (JSCollector{}).Collect(".", bfile.NewFile("src/app/main.js"), data, r, into); err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if len(into.Imports()) != 1 {
		t.Fatalf("expected 1 import (missing dropped), got %d", len(into.Imports()))
	}
	if into.Imports()[0].ResolvedFile().Path() != "src/app/util.js" {
		t.Fatalf("got %q", into.Imports()[0].ResolvedFile().Path())
	}
}

func TestJSCollectorSupports(t *testing.T) {
	c := JSCollector{}
	if !c.Supports(bfile.NewFile("a.js")) || !c.Supports(bfile.NewFile("a.node")) {
		t.Fatalf("expected .js/.node support")
	}
	if c.Supports(bfile.NewFile("a.ts")) {
		t.Fatalf(".ts should not be supported by JSCollector")
	}
}

func TestESModuleCollectorExtractsImportsAndDelegatesToRequire(t *testing.T) {
	r := newStubResolver("src/app/a.ts", "src/app/b.ts", "src/app/c.ts", "src/app/d.js")
	into := &ImportCollection{}
	data := []byte("import Foo from './a.ts';\n" +
		"import './b.ts';\n" +
		"export { X } from './c.ts';\n" +
		"const d = require('./d.js');\n")

	c := ESModuleCollector{JS: JSCollector{}}
	if err := c.Collect(".", bfile.NewFile("src/app/main.ts"), data, r, into); err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if len(into.Imports()) != 4 {
		t.Fatalf("expected 4 imports, got %d: %+v", len(into.Imports()), into.Imports())
	}
}

func TestESModuleCollectorSupports(t *testing.T) {
	c := ESModuleCollector{}
	if !c.Supports(bfile.NewFile("a.js")) || !c.Supports(bfile.NewFile("a.ts")) {
		t.Fatalf("expected .js/.ts support")
	}
	if c.Supports(bfile.NewFile("a.css")) {
		t.Fatalf(".css should not be supported")
	}
}

func TestJSONCollectorIsLeaf(t *testing.T) {
	c := JSONCollector{}
	into := &ImportCollection{}
	if err := c.Collect(".", bfile.NewFile("a.json"), []byte(`{"x":1}`), newStubResolver(), into); err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if !into.Empty() {
		t.Fatalf("expected no imports or resources from a JSON leaf")
	}
}

func TestCSSCollectorImportsAndResources(t *testing.T) {
	r := newStubResolver("src/app/base.css", "src/app/img/logo.png")
	into := &ImportCollection{}
	data := []byte(`@import "./base.css";
.logo { background: url("./img/logo.png"); }
.icon { background: url(data:image/png;base64,AAAA); }
.frag { background: url(#gradient); }
.missing { background: url("./missing.png"); }`)

	if err := CSSCollector{}.Collect(".", bfile.NewFile("src/app/main.css"), data, r, into); err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if len(into.Imports()) != 1 {
		t.Fatalf("expected 1 import, got %d", len(into.Imports()))
	}
	if len(into.Resources()) != 1 {
		t.Fatalf("expected 1 resource (data:/frag/missing dropped), got %d", len(into.Resources()))
	}
	if into.Resources()[0].Path() != "src/app/img/logo.png" {
		t.Fatalf("got %q", into.Resources()[0].Path())
	}
}

func TestCSSCollectorSupports(t *testing.T) {
	if !CSSCollector{}.Supports(bfile.NewFile("a.css")) {
		t.Fatalf("expected .css support")
	}
	if CSSCollector{}.Supports(bfile.NewFile("a.js")) {
		t.Fatalf(".js should not be supported")
	}
}

func TestRegistrySelectFirstMatch(t *testing.T) {
	reg := Default()
	if _, ok := reg.Select(bfile.NewFile("a.ts")).(ESModuleCollector); !ok {
		t.Fatalf("expected ESModuleCollector for .ts")
	}
	if _, ok := reg.Select(bfile.NewFile("a.json")).(JSONCollector); !ok {
		t.Fatalf("expected JSONCollector for .json")
	}
	if reg.Select(bfile.NewFile("a.png")) != nil {
		t.Fatalf("expected no collector for an unsupported extension")
	}
}

func TestCachedCollectorMemoizesByContentHash(t *testing.T) {
	calls := 0
	inner := countingCollector{onCollect: func() { calls++ }}
	c := Cached(inner, 4)

	into := &ImportCollection{}
	data := []byte("same content")
	if err := c.Collect(".", bfile.NewFile("a.js"), data, newStubResolver(), into); err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if err := c.Collect(".", bfile.NewFile("a.js"), data, newStubResolver(), into); err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected inner Collect to run once, ran %d times", calls)
	}
}

type countingCollector struct {
	onCollect func()
}

func (countingCollector) Supports(bfile.File) bool { return true }

func (c countingCollector) Collect(cwd string, f bfile.File, data []byte, resolver Resolver, into *ImportCollection) error {
	c.onCollect()
	return nil
}
