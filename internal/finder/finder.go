// Package finder implements the Import Finder: a depth-first, post-order
// traversal over a file's transitive imports that returns a deduplicated,
// dependency-ordered Dependency list. Grounded on class-collector's
// internal/index.gatherSymbolsIndex traversal-and-accumulate shape,
// generalized from "walk a pre-collected file list" to "walk the import
// graph on demand starting from one entry file".
package finder

import (
	"github.com/dominikbraun/graph"

	"webbundle/internal/bfile"
	"webbundle/internal/collect"
)

// Reader supplies file contents to the Finder. The default implementation
// reads the local disk; tests can substitute an in-memory map.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// Finder performs the transitive closure traversal described in §4.3.
type Finder struct {
	registry *collect.Registry
	resolver collect.Resolver
	reader   Reader
}

// New builds a Finder over the given collector registry, resolver, and
// file reader.
func New(registry *collect.Registry, resolver collect.Resolver, reader Reader) *Finder {
	return &Finder{registry: registry, resolver: resolver, reader: reader}
}

// CycleError reports that the dependency graph contains an import cycle,
// which makes invariant #3 ("imported files precede their importers")
// unsatisfiable. The regex collectors cannot detect this themselves; the
// dominikbraun/graph topological witness can.
type CycleError struct {
	Importer string
	Importee string
}

func (e *CycleError) Error() string {
	return "finder: import cycle: " + e.Importer + " -> " + e.Importee
}

// All returns the transitive, deduplicated closure of imports rooted at
// root, with root last in emission order (§4.3).
func (f *Finder) All(root bfile.File) ([]bfile.Dependency, error) {
	state := &traversal{
		finder:  f,
		visited: make(map[string]bool),
		g:       graph.New(graph.StringHash, graph.Directed(), graph.Acyclic()),
	}
	if err := state.visit(root); err != nil {
		return nil, err
	}
	if err := state.verifyTopology(); err != nil {
		return nil, err
	}
	for i, dep := range state.order {
		if state.inlinedAsset[dep.File.Path()] {
			state.order[i].InlinedAsset = true
		}
	}
	return state.order, nil
}

type traversal struct {
	finder       *Finder
	visited      map[string]bool
	inlinedAsset map[string]bool
	order        []bfile.Dependency
	g            graph.Graph[string, string]
}

func (t *traversal) visit(f bfile.File) error {
	key := f.Path()
	if t.visited[key] {
		return nil
	}
	t.visited[key] = true
	_ = t.g.AddVertex(key)

	imports, resources, err := t.children(f)
	if err != nil {
		return err
	}
	for _, child := range imports {
		if err := t.visitChild(f, child); err != nil {
			return err
		}
	}
	for _, child := range resources {
		if t.inlinedAsset == nil {
			t.inlinedAsset = make(map[string]bool)
		}
		t.inlinedAsset[child.Path()] = true
		if err := t.visitChild(f, child); err != nil {
			return err
		}
	}

	t.order = append(t.order, bfile.NewDependency(f))
	return nil
}

func (t *traversal) visitChild(parent, child bfile.File) error {
	if err := t.visit(child); err != nil {
		return err
	}
	if err := t.g.AddEdge(child.Path(), parent.Path()); err != nil {
		if err == graph.ErrEdgeCreatesCycle {
			return &CycleError{Importer: parent.Path(), Importee: child.Path()}
		}
		// ErrEdgeAlreadyExists and similar are harmless; multiple
		// importers of the same child produce duplicate edge attempts.
	}
	return nil
}

// children resolves and returns the Files a node imports and the
// resources it references, in collector emission order. A file with no
// matching collector is a leaf.
func (t *traversal) children(f bfile.File) (imports, resources []bfile.File, err error) {
	c := t.finder.registry.Select(f)
	if c == nil {
		return nil, nil, nil
	}
	data, err := t.finder.reader.ReadFile(f.Path())
	if err != nil {
		return nil, nil, err
	}
	into := &collect.ImportCollection{}
	if err := c.Collect(f.Dir(), f, data, t.finder.resolver, into); err != nil {
		return nil, nil, err
	}
	for _, imp := range into.Imports() {
		imports = append(imports, imp.ResolvedFile())
	}
	resources = into.Resources()
	return imports, resources, nil
}

// verifyTopology runs the library's topological sort over the mirrored
// graph and returns its error, if any: a second acyclicity check beside
// the Acyclic() trait that AddEdge enforces. It does not compare the
// sorted order against t.order.
func (t *traversal) verifyTopology() error {
	_, err := graph.TopologicalSort(t.g)
	return err
}
