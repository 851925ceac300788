// Package partition implements the Entry/Asset Partition (§4.5): splitting
// a dependency list into bundle, vendor, and asset groups, and computing
// each group's output target path. Grounded on class-collector's
// internal/bundle writers (zipfull.go, zipdelta.go), which sort a flat file
// list into named groups before writing; generalized here from "ZIP entry
// groups" to "bundle/vendor/asset output groups".
package partition

import (
	"path"
	"strings"

	"webbundle/internal/bfile"
)

// TerminalExtension resolves the extension a dependency's file will carry
// once the Content Pipeline finishes with it (pipeline.Peek, via an
// interface so this package stays free of the pipeline import).
type TerminalExtension func(bfile.File) (string, error)

// Split is a pure function of deps, the external-packages directory name,
// and the peek oracle; it never reads file contents.
type Split struct {
	Bundle []bfile.Dependency
	Vendor []bfile.Dependency
	Assets []bfile.Dependency
}

// scriptLike reports whether ext is the pipeline's terminal script
// extension. Only ".js" qualifies: it is the sole extension the default
// passthrough/cssResource processors settle on for code rather than data or
// style, so a ".json" or ".css" terminal is always an asset.
func scriptLike(ext string) bool {
	return ext == ".js"
}

// Partition groups deps per §4.5: non-virtual, non-inlined-asset
// dependencies with a script-like terminal extension go to Bundle or
// Vendor depending on whether their path lies under vendorDir; everything
// else (non-script terminal, or explicitly inlined) becomes an Asset.
func Partition(deps []bfile.Dependency, vendorDir string, peek TerminalExtension) (Split, error) {
	var s Split
	for _, dep := range deps {
		if dep.Virtual {
			continue
		}
		ext, err := peek(dep.File)
		if err != nil {
			return Split{}, err
		}
		switch {
		case dep.InlinedAsset || !scriptLike(ext):
			s.Assets = append(s.Assets, dep)
		case vendorDir != "" && dep.File.HasPrefix(vendorDir):
			s.Vendor = append(s.Vendor, dep)
		default:
			s.Bundle = append(s.Bundle, dep)
		}
	}
	return s, nil
}

// BundleTarget returns the output File for an entry's bundle artifact.
func BundleTarget(webRoot, outputDir, entryName string) bfile.File {
	return bfile.NewFile(path.Join(webRoot, outputDir, entryName+".js"))
}

// VendorTarget returns the output File for an entry's vendor artifact.
func VendorTarget(webRoot, outputDir, entryName string) bfile.File {
	return bfile.NewFile(path.Join(webRoot, outputDir, entryName+".vendor.js"))
}

// AssetTarget returns the output File for a single asset dependency: its
// source-root-relative path under <webRoot>/<outputDir>, with the
// extension replaced by the peeked terminal extension.
func AssetTarget(webRoot, outputDir, sourceRoot string, f bfile.File, terminalExt string) bfile.File {
	rel := f.Path()
	if sourceRoot != "" && f.HasPrefix(sourceRoot) {
		rel = f.TrimPrefix(sourceRoot)
	}
	rel = strings.TrimSuffix(rel, f.Extension()) + terminalExt
	return bfile.NewFile(path.Join(webRoot, outputDir, rel))
}
