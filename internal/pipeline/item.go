package pipeline

import "webbundle/internal/bfile"

// Reader supplies the raw bytes for a dependency's file. Mirrors
// finder.Reader; kept as its own type so this package doesn't reach across
// into finder for a one-method interface.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// ContentItem is a File moving through the pipeline's state machine: a
// module identity, its current content buffer, the resolved targets of any
// asset references it carries (consulted by cssResource), and the
// ContentState processors advance.
type ContentItem struct {
	File         bfile.File
	ModuleName   string
	Content      []byte
	AssetTargets map[string]string // resolved source path -> emitted target path
	State        ContentState
}

// newContentItem seeds an item at Reading with the file's own extension.
func newContentItem(f bfile.File, moduleName string, content []byte) *ContentItem {
	return &ContentItem{
		File:       f,
		ModuleName: moduleName,
		Content:    content,
		State:      NewContentState(f.Extension()),
	}
}
