package collect

import (
	"regexp"

	"webbundle/internal/bfile"
)

// reRequire matches require("spec") / require('spec') where the argument is
// a single string literal, the only call shape the reference recognizes.
var reRequire = regexp.MustCompile(`require\(\s*(['"])([^'"]+)['"]\s*\)`)

// JSCollector extracts require(...) calls. It supports .js and .node files.
type JSCollector struct{}

func (JSCollector) Supports(f bfile.File) bool {
	switch f.Extension() {
	case ".js", ".node":
		return true
	default:
		return false
	}
}

func (JSCollector) Collect(cwd string, f bfile.File, data []byte, resolver Resolver, into *ImportCollection) error {
	return collectRequires(f, data, resolver, into)
}

// collectRequires is factored out so ESModuleCollector can delegate to it
// on the same file without constructing a second JSCollector value.
func collectRequires(f bfile.File, data []byte, resolver Resolver, into *ImportCollection) error {
	for _, m := range reRequire.FindAllSubmatch(data, -1) {
		spec := string(m[2])
		imp, err := resolver.Resolve(spec, f)
		if err != nil {
			// Dynamic or non-existent requires are dropped silently.
			continue
		}
		into.AddImport(imp)
	}
	return nil
}
