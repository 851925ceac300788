// Package collect implements the per-extension import collectors: JS
// require() calls, ES module import/export-from statements, JSON leaves,
// and CSS @import/url() resource references. Parsing is pattern-based, not
// AST-level, matching the reference behavior this module is grounded on
// (class-collector's internal/graph regex scanners, generalized from
// Go/Java/TS-graph-node extraction to full JS/TS/CSS import resolution).
package collect

import "webbundle/internal/bfile"

// ImportCollection is the mutable builder a Collector fills in. Insertion
// order is preserved and is the emission order a caller observes.
type ImportCollection struct {
	imports   []bfile.Import
	resources []bfile.File
}

// AddImport appends imp to the collection, preserving call order.
func (c *ImportCollection) AddImport(imp bfile.Import) {
	c.imports = append(c.imports, imp)
}

// AddResource appends f to the collection's resource list (e.g. a
// CSS-referenced image), preserving call order.
func (c *ImportCollection) AddResource(f bfile.File) {
	c.resources = append(c.resources, f)
}

// Imports returns the collected imports in insertion order.
func (c *ImportCollection) Imports() []bfile.Import { return c.imports }

// Resources returns the collected resources in insertion order.
func (c *ImportCollection) Resources() []bfile.File { return c.resources }

// Empty reports whether nothing was collected.
func (c *ImportCollection) Empty() bool { return len(c.imports) == 0 && len(c.resources) == 0 }

// Resolver is the subset of internal/resolve's Resolver the collectors
// need: turn a specifier written in `from` into a resolved Import.
type Resolver interface {
	Resolve(specifier string, from bfile.File) (bfile.Import, error)
}

// Collector extracts imports and resources from a single file's contents.
// Unresolved specifiers (resolver returns NotFoundError) must be dropped
// silently rather than surfaced, matching the reference's tolerance of
// dynamic or non-existent imports.
type Collector interface {
	Supports(f bfile.File) bool
	Collect(cwd string, f bfile.File, data []byte, resolver Resolver, into *ImportCollection) error
}

// Registry is an ordered list of Collectors scanned for the first match,
// preserving first-match semantics over the reference's runtime-polymorphic
// dispatch.
type Registry struct {
	collectors []Collector
}

// NewRegistry builds a Registry from collectors in priority order.
func NewRegistry(collectors ...Collector) *Registry {
	return &Registry{collectors: collectors}
}

// Select returns the first Collector supporting f, or nil if none do.
func (r *Registry) Select(f bfile.File) Collector {
	for _, c := range r.collectors {
		if c.Supports(f) {
			return c
		}
	}
	return nil
}

// Default returns the registry of built-in collectors in priority order:
// the ES-module collector first (it also delegates to require() collection
// on the same file, so .js files get both kinds of edges), then the JS
// (require) collector for .node files, then JSON (a leaf, no imports), then
// CSS (resources only).
func Default() *Registry {
	js := JSCollector{}
	return NewRegistry(
		ESModuleCollector{JS: js},
		js,
		JSONCollector{},
		CSSCollector{},
	)
}
