package collect

import (
	"regexp"

	"webbundle/internal/bfile"
)

var (
	reCSSImport = regexp.MustCompile(`@import\s+['"]([^'"]+)['"]`)
	reCSSURL    = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)
)

// CSSCollector extracts @import rules (as imports, so the Finder keeps
// traversing stylesheets) and url(...) resource references (as resources,
// so the Finder emits them as side-channel asset Dependencies rather than
// bundle content). Data URIs and fragment-only URLs are not resolvable
// files and are dropped the same way an unresolved import would be.
type CSSCollector struct{}

func (CSSCollector) Supports(f bfile.File) bool { return f.Extension() == ".css" }

func (CSSCollector) Collect(cwd string, f bfile.File, data []byte, resolver Resolver, into *ImportCollection) error {
	for _, m := range reCSSImport.FindAllSubmatch(data, -1) {
		imp, err := resolver.Resolve(string(m[1]), f)
		if err != nil {
			continue
		}
		into.AddImport(imp)
	}
	for _, m := range reCSSURL.FindAllSubmatch(data, -1) {
		ref := string(m[1])
		if ref == "" || ref[0] == '#' || isDataURI(ref) {
			continue
		}
		imp, err := resolver.Resolve(ref, f)
		if err != nil {
			continue
		}
		into.AddResource(imp.ResolvedFile())
	}
	return nil
}

func isDataURI(s string) bool {
	return len(s) >= 5 && s[:5] == "data:"
}
