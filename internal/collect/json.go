package collect

import "webbundle/internal/bfile"

// JSONCollector treats a .json file as a leaf: it extracts no imports.
type JSONCollector struct{}

func (JSONCollector) Supports(f bfile.File) bool { return f.Extension() == ".json" }

func (JSONCollector) Collect(cwd string, f bfile.File, data []byte, resolver Resolver, into *ImportCollection) error {
	return nil
}
