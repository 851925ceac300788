// Package bfile holds the small immutable value types the bundler passes
// around: File, Module, Import and Dependency. Nothing here touches disk.
package bfile

import (
	"path"
	"strings"
)

// File is a relative-or-absolute POSIX-style path. Two Files are equal iff
// their normalized Path strings are equal.
type File struct {
	p string // already normalized: forward slashes, no "./" prefix, no trailing slash
}

// NewFile normalizes p (backslashes to forward slashes, "." segments
// collapsed) and returns the corresponding File value.
func NewFile(p string) File {
	norm := filepathToSlash(p)
	if norm == "" {
		return File{p: ""}
	}
	cleaned := path.Clean(norm)
	if cleaned == "." {
		cleaned = ""
	}
	return File{p: cleaned}
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Path returns the normalized path string.
func (f File) Path() string { return f.p }

// IsZero reports whether f was never assigned a path.
func (f File) IsZero() bool { return f.p == "" }

// Dir returns the directory portion of the path ("" for a bare basename at root).
func (f File) Dir() string {
	d := path.Dir(f.p)
	if d == "." {
		return ""
	}
	return d
}

// Extension returns the final dot-suffix including the leading dot, or "" if none.
func (f File) Extension() string {
	base := path.Base(f.p)
	if idx := strings.LastIndexByte(base, '.'); idx > 0 {
		return base[idx:]
	}
	return ""
}

// Basename returns the final path segment without its extension.
func (f File) Basename() string {
	base := path.Base(f.p)
	ext := f.Extension()
	return strings.TrimSuffix(base, ext)
}

// Name returns basename + extension (i.e. the final path segment).
func (f File) Name() string { return path.Base(f.p) }

// Equal reports whether f and other denote the same normalized path.
func (f File) Equal(other File) bool { return f.p == other.p }

// Join resolves rel against f's directory, the way a relative import
// specifier is joined against the file that wrote it.
func (f File) Join(rel string) File {
	return NewFile(path.Join(f.Dir(), rel))
}

// WithExtension returns a copy of f with its extension replaced by ext
// (ext should include the leading dot, or be empty to strip it).
func (f File) WithExtension(ext string) File {
	trimmed := strings.TrimSuffix(f.p, f.Extension())
	return NewFile(trimmed + ext)
}

// HasPrefix reports whether f's path lies under dir (dir itself counts as
// a prefix of any of its descendants, and of itself).
func (f File) HasPrefix(dir string) bool {
	dir = strings.TrimSuffix(filepathToSlash(dir), "/")
	if dir == "" {
		return true
	}
	return f.p == dir || strings.HasPrefix(f.p, dir+"/")
}

// TrimPrefix strips dir + "/" from the front of f's path, returning the
// remainder unchanged if f does not have that prefix.
func (f File) TrimPrefix(dir string) string {
	dir = strings.TrimSuffix(filepathToSlash(dir), "/")
	if dir == "" {
		return f.p
	}
	if f.p == dir {
		return ""
	}
	return strings.TrimPrefix(f.p, dir+"/")
}

func (f File) String() string { return f.p }
