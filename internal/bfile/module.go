package bfile

// Module is a File plus the logical module name dependents use to import it
// (e.g. "jquery", "foo/bar"). For project files the name is usually the
// source-root-relative path; for packages it is the bare specifier as written.
type Module struct {
	Name string
	File File
}

// Import is a resolved specifier: the textual form a collector saw, paired
// with either a resolved File (relative-import case) or a resolved Module
// (package-import case). Exactly one of File/IsModule distinguishes the two.
type Import struct {
	Specifier string
	Module    Module // Module.File is always set; Module.Name is "" for the relative-import case
	IsModule  bool
}

// ResolvedFile returns the File an Import ultimately points at, regardless
// of whether it resolved to a bare File or a named Module.
func (i Import) ResolvedFile() File { return i.Module.File }

// Dependency wraps a File with the bookkeeping the Finder and partition
// logic need: whether it's synthesized rather than read from disk, whether
// it's a side-channel asset rather than bundle content, and the chain of
// extensions it has traversed through the pipeline.
type Dependency struct {
	File           File
	Virtual        bool
	InlinedAsset   bool
	ExtensionChain []string
}

// NewDependency returns a Dependency seeded with its starting extension.
func NewDependency(f File) Dependency {
	return Dependency{File: f, ExtensionChain: []string{f.Extension()}}
}

// PushExtension appends ext to the chain, recording a pipeline transition.
func (d *Dependency) PushExtension(ext string) {
	d.ExtensionChain = append(d.ExtensionChain, ext)
}

// CurrentExtension returns the most recently recorded extension, or the
// File's own extension if the chain is empty.
func (d Dependency) CurrentExtension() string {
	if len(d.ExtensionChain) == 0 {
		return d.File.Extension()
	}
	return d.ExtensionChain[len(d.ExtensionChain)-1]
}
