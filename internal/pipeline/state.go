package pipeline

// Phase is a ContentItem's position in the three-phase state machine §4.4
// describes: freshly read, mid-transformation, or settled.
type Phase int

const (
	Reading Phase = iota
	Processing
	Ready
)

func (p Phase) String() string {
	switch p {
	case Reading:
		return "reading"
	case Processing:
		return "processing"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// ContentState is the mutable part of a ContentItem a Processor inspects and
// advances: its phase and current extension, plus an append-only record of
// every extension the item has carried. History stays on the state;
// nothing copies it into bfile.Dependency.ExtensionChain.
type ContentState struct {
	Phase     Phase
	Extension string
	History   []string
}

// NewContentState seeds a state at Reading with the file's own extension as
// the first history entry.
func NewContentState(ext string) ContentState {
	return ContentState{Phase: Reading, Extension: ext, History: []string{ext}}
}

// advance records a transition to (phase, ext) and returns whether the
// phase or extension changed. The pipeline loop detects a stuck item by
// comparing snapshot values instead, so callers may ignore the result.
func (s *ContentState) advance(phase Phase, ext string) bool {
	changed := phase != s.Phase || ext != s.Extension
	s.Phase = phase
	s.Extension = ext
	if len(s.History) == 0 || s.History[len(s.History)-1] != ext {
		s.History = append(s.History, ext)
	}
	return changed
}

// snapshot returns a value copy sufficient to detect "nothing changed"
// after a processor runs, without aliasing the History slice.
func (s ContentState) snapshot() ContentState {
	return ContentState{Phase: s.Phase, Extension: s.Extension}
}

func (s ContentState) equalSnapshot(other ContentState) bool {
	return s.Phase == other.Phase && s.Extension == other.Extension
}
