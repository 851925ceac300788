// Package events defines the Content Pipeline's advisory event sink
// (pre/post-process and ready notifications) and a couple of default
// implementations. The pipeline never depends on how, or whether, a sink
// handles an event.
package events

import "github.com/rs/zerolog"

// Kind distinguishes the three notification points §4.4 describes.
type Kind int

const (
	PreProcess Kind = iota
	PostProcess
	Ready
)

func (k Kind) String() string {
	switch k {
	case PreProcess:
		return "pre-process"
	case PostProcess:
		return "post-process"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Event carries the minimal context a sink needs: which module, which
// kind of notification, and (for pre/post-process) which processor.
type Event struct {
	Kind      Kind
	Module    string
	Extension string
	Processor string
}

// Sink receives pipeline events. Implementations must not block the
// pipeline for long, and must never panic.
type Sink interface {
	Dispatch(Event)
}

// NoOp discards every event. It is the Pipeline's default when no sink is
// configured.
type NoOp struct{}

func (NoOp) Dispatch(Event) {}

// Func adapts a plain function to Sink.
type Func func(Event)

func (f Func) Dispatch(e Event) { f(e) }

// ZerologSink logs every event at debug level through a shared logger.
// The build command passes one to the Driver; a Pipeline given no sink
// uses NoOp instead.
type ZerologSink struct {
	Logger zerolog.Logger
}

func (s ZerologSink) Dispatch(e Event) {
	s.Logger.Debug().
		Str("kind", e.Kind.String()).
		Str("module", e.Module).
		Str("extension", e.Extension).
		Str("processor", e.Processor).
		Msg("pipeline event")
}
