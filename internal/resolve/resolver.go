// Package resolve implements the module-style file resolver: mapping an
// import specifier written in one file to a concrete File (relative
// imports) or Module (package imports) on disk, following node-style
// lookup. Grounded on class-collector's internal/graph.tsResolver
// (baseUrl/paths extension-probing loop), generalized from tsconfig-only
// resolution to full relative- and node_modules-based resolution.
package resolve

import (
	"encoding/json"
	"path"
	"strings"

	"webbundle/internal/bfile"
)

// Config configures a Resolver: the ordered candidate extensions tried
// during probing, and additional include paths searched for bare
// specifiers beyond the requesting file's own ancestor chain.
type Config struct {
	Extensions   []string // e.g. [".ts", ".js", ".json", ".node"], tried in order
	IncludePaths []string // additional roots for bare-specifier resolution
}

// Resolver resolves specifiers against a FileSystem.
type Resolver struct {
	cfg Config
	fs  FileSystem
}

// New builds a Resolver over fs with the given Config.
func New(cfg Config, fs FileSystem) *Resolver {
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".ts", ".js", ".json", ".node"}
	}
	return &Resolver{cfg: cfg, fs: fs}
}

// Resolve implements the §4.1 algorithm.
func (r *Resolver) Resolve(specifier string, from bfile.File) (bfile.Import, error) {
	if isRelative(specifier) {
		f, ok := r.resolveRelative(from.Dir(), specifier)
		if !ok {
			return bfile.Import{}, newNotFound(specifier, from.Path())
		}
		return bfile.Import{
			Specifier: specifier,
			Module:    bfile.Module{File: f},
			IsModule:  false,
		}, nil
	}

	f, ok := r.resolveBare(specifier, from)
	if !ok {
		return bfile.Import{}, newNotFound(specifier, from.Path())
	}
	return bfile.Import{
		Specifier: specifier,
		Module:    bfile.Module{Name: specifier, File: f},
		IsModule:  true,
	}, nil
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// resolveRelative joins specifier against dir and probes it as described
// in §4.1.1: literal file, then each configured extension, then
// index.<ext> inside it treated as a directory.
func (r *Resolver) resolveRelative(dir, specifier string) (bfile.File, bool) {
	joined := path.Join(dir, specifier)
	return r.probe(joined)
}

// probe applies the extension-probing algorithm shared by relative and
// bare resolution: literal path as a file, then <path><ext> for each
// configured extension, then <path>/index<ext> for each configured
// extension (directory form). Extension order is strict.
func (r *Resolver) probe(p string) (bfile.File, bool) {
	if r.fs.Exists(p) && !r.fs.IsDir(p) {
		return bfile.NewFile(p), true
	}
	for _, ext := range r.cfg.Extensions {
		candidate := p + ext
		if r.fs.Exists(candidate) {
			return bfile.NewFile(candidate), true
		}
	}
	if r.fs.Exists(p) && r.fs.IsDir(p) {
		for _, ext := range r.cfg.Extensions {
			candidate := path.Join(p, "index"+ext)
			if r.fs.Exists(candidate) {
				return bfile.NewFile(candidate), true
			}
		}
	}
	return bfile.File{}, false
}

// resolveBare implements §4.1.2: walk upward from from.dir, and from each
// configured include path, looking for node_modules/<head>/... at each
// level.
func (r *Resolver) resolveBare(specifier string, from bfile.File) (bfile.File, bool) {
	head, rest := splitBareSpecifier(specifier)

	for _, dir := range ancestorChain(from.Dir()) {
		if f, ok := r.tryPackageAt(dir, head, rest); ok {
			return f, true
		}
	}
	for _, inc := range r.cfg.IncludePaths {
		if f, ok := r.tryPackageAt(inc, head, rest); ok {
			return f, true
		}
	}
	return bfile.File{}, false
}

// tryPackageAt looks for <dir>/node_modules/<head> and, if present,
// resolves the package per §4.1.2.
func (r *Resolver) tryPackageAt(dir, head, rest string) (bfile.File, bool) {
	pkgRoot := path.Join(dir, "node_modules", head)
	if !r.fs.Exists(pkgRoot) || !r.fs.IsDir(pkgRoot) {
		return bfile.File{}, false
	}
	if rest != "" {
		return r.probe(path.Join(pkgRoot, rest))
	}
	if main, ok := r.packageMain(pkgRoot); ok {
		if f, ok := r.probe(path.Join(pkgRoot, main)); ok {
			return f, true
		}
	}
	for _, ext := range r.cfg.Extensions {
		candidate := path.Join(pkgRoot, "index"+ext)
		if r.fs.Exists(candidate) {
			return bfile.NewFile(candidate), true
		}
	}
	return bfile.File{}, false
}

// packageMain reads <pkgRoot>/package.json and returns its "main" field if
// it is present and a string. A missing package.json is not fatal: the
// caller falls back to index.<ext> probing. A non-string "main" (array or
// object) also falls through, per the spec's explicit open-question
// resolution: no browser/esm-aware field selection.
func (r *Resolver) packageMain(pkgRoot string) (string, bool) {
	data, err := r.fs.ReadFile(path.Join(pkgRoot, "package.json"))
	if err != nil {
		return "", false
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", false
	}
	main, ok := raw["main"].(string)
	if !ok || main == "" {
		return "", false
	}
	return main, true
}

// splitBareSpecifier splits a bare specifier into its package head (the
// node_modules directory name) and the remainder path, honoring scoped
// packages ("@scope/x/y" -> head "@scope/x", rest "y").
func splitBareSpecifier(specifier string) (head, rest string) {
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		head = parts[0] + "/" + parts[1]
		rest = strings.Join(parts[2:], "/")
		return
	}
	head = parts[0]
	rest = strings.Join(parts[1:], "/")
	return
}

// ancestorChain returns dir and each of its ancestors, closest first,
// ending with the top of the path ("" for a relative dir, "/" for an
// absolute one), so node_modules at that top level is searched too.
func ancestorChain(dir string) []string {
	var chain []string
	cur := dir
	for {
		chain = append(chain, cur)
		if cur == "" || cur == "." || cur == "/" {
			break
		}
		parent := path.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
		if cur == "." {
			cur = ""
		}
	}
	return chain
}
