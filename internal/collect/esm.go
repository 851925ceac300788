package collect

import (
	"regexp"

	"webbundle/internal/bfile"
)

// reESImport recognizes the three ES import/export-from shapes the
// reference supports in a single pattern so FindAllSubmatch yields matches
// in true document order: "import X from 'spec'" (and the "import * as m
// from 'spec'" variant), bare "import 'spec'", and "export {...} from
// 'spec'". It does not handle line comments, block comments, or
// template-string specifiers, matching the reference exactly.
var reESImport = regexp.MustCompile(
	`import\s+[^"';]*?\s+from\s+['"]([^'"]+)['"]` +
		`|import\s+['"]([^'"]+)['"]` +
		`|export\s*\{[^}]*\}\s*from\s+['"]([^'"]+)['"]`,
)

// ESModuleCollector extracts import/export-from statements and delegates
// to JS for require(...) calls on the same file, so mixed ESM/CJS sources
// produce both kinds of edges. It supports .js and .ts files.
type ESModuleCollector struct {
	JS JSCollector
}

func (ESModuleCollector) Supports(f bfile.File) bool {
	switch f.Extension() {
	case ".js", ".ts":
		return true
	default:
		return false
	}
}

func (c ESModuleCollector) Collect(cwd string, f bfile.File, data []byte, resolver Resolver, into *ImportCollection) error {
	for _, m := range reESImport.FindAllSubmatch(data, -1) {
		spec := firstNonEmpty(m[1], m[2], m[3])
		if len(spec) == 0 {
			continue
		}
		imp, err := resolver.Resolve(string(spec), f)
		if err != nil {
			continue
		}
		into.AddImport(imp)
	}
	// Per spec: concatenate ES output first, then delegate to JS collection
	// on the same file so require(...) calls are picked up too.
	return collectRequires(f, data, resolver, into)
}

func firstNonEmpty(candidates ...[]byte) []byte {
	for _, c := range candidates {
		if len(c) > 0 {
			return c
		}
	}
	return nil
}
