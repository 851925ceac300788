// Package pipeline implements the Content Pipeline (§4.4): a per-file state
// machine driven by a registry of Processors until every item reaches
// Ready, then concatenated into a target's content. Grounded on
// class-collector's internal/bundle writer loop (iterate items, accumulate
// into one artifact) combined with the cache/snapshot package's
// atomic-write discipline for the optional per-item cache.
package pipeline

import (
	"path"
	"strings"

	"github.com/pkg/errors"

	"webbundle/internal/berr"
	"webbundle/internal/bfile"
	"webbundle/internal/events"
)

// Pipeline owns an ordered Processor registry and drives items through it.
type Pipeline struct {
	processors []Processor
	sink       events.Sink
	cache      *ItemCache
	sourceRoot string
}

// New builds an empty Pipeline rooted at sourceRoot (used to derive module
// names) with no registered processors. Call Register for host transpilers,
// then RegisterDefaults to add the built-in passthrough/cssResource
// fallbacks last.
func New(sourceRoot string, sink events.Sink, cache *ItemCache) *Pipeline {
	if sink == nil {
		sink = events.NoOp{}
	}
	return &Pipeline{sourceRoot: sourceRoot, sink: sink, cache: cache}
}

// Default builds a Pipeline with only the built-in processors registered,
// suitable when the host declares no transpilers of its own.
func Default(sourceRoot string, sink events.Sink, cache *ItemCache) *Pipeline {
	p := New(sourceRoot, sink, cache)
	p.RegisterDefaults()
	return p
}

// Register appends a host processor. Processors registered here run ahead
// of the built-in defaults, preserving first-match semantics.
func (p *Pipeline) Register(proc Processor) {
	p.processors = append(p.processors, proc)
}

// RegisterDefaults appends cssResource then passthrough. Call this last,
// after any host transpilers, since passthrough matches everything.
func (p *Pipeline) RegisterDefaults() {
	p.processors = append(p.processors, cssResourceProcessor{}, passthroughProcessor{})
}

func (p *Pipeline) moduleName(f bfile.File) string {
	if p.sourceRoot != "" && f.HasPrefix(p.sourceRoot) {
		return f.TrimPrefix(p.sourceRoot)
	}
	return f.Path()
}

// selector returns the first registered processor whose Supports matches
// state, or nil if none do.
func (p *Pipeline) selector(state ContentState) Processor {
	for _, proc := range p.processors {
		if proc.Supports(state) {
			return proc
		}
	}
	return nil
}

// runToReady drives item through the registry until its state reaches
// Ready, dispatching pre/post-process events around each processor call and
// failing with berr.StateStuck if a processor claims a state but makes no
// progress.
func (p *Pipeline) runToReady(cwd string, item *ContentItem) error {
	for item.State.Phase != Ready {
		proc := p.selector(item.State)
		if proc == nil {
			return berr.StateStuck(item.ModuleName, item.State.Phase.String())
		}
		before := item.State.snapshot()
		p.sink.Dispatch(events.Event{Kind: events.PreProcess, Module: item.ModuleName, Extension: item.State.Extension, Processor: processorName(proc)})
		if err := proc.Transpile(cwd, item); err != nil {
			return berr.Parse(item.ModuleName, err)
		}
		p.sink.Dispatch(events.Event{Kind: events.PostProcess, Module: item.ModuleName, Extension: item.State.Extension, Processor: processorName(proc)})
		if item.State.equalSnapshot(before) {
			return berr.StateStuck(item.ModuleName, item.State.Phase.String())
		}
	}
	return nil
}

// peekToReady mirrors runToReady but advances only a ContentState, never
// touching content, for callers that only need the terminal extension.
func (p *Pipeline) peekToReady(cwd string, module string, state *ContentState) error {
	for state.Phase != Ready {
		proc := p.selector(*state)
		if proc == nil {
			return berr.StateStuck(module, state.Phase.String())
		}
		before := state.snapshot()
		if err := proc.Peek(cwd, state); err != nil {
			return berr.Parse(module, err)
		}
		if state.equalSnapshot(before) {
			return berr.StateStuck(module, state.Phase.String())
		}
	}
	return nil
}

// Peek returns the terminal extension f would carry after a full Push,
// without reading or transforming its content (§4.4, invariant #4).
func (p *Pipeline) Peek(cwd string, f bfile.File) (string, error) {
	state := NewContentState(f.Extension())
	if err := p.peekToReady(cwd, p.moduleName(f), &state); err != nil {
		return "", err
	}
	return state.Extension, nil
}

// Push runs every non-virtual, non-inlined-asset dependency in deps through
// the pipeline and concatenates the results, honoring the per-item cache
// when configured. target identifies the artifact being produced, used
// only to label the final "ready" event.
func (p *Pipeline) Push(cwd string, deps []bfile.Dependency, target bfile.File, reader Reader) (string, error) {
	var out strings.Builder
	for _, dep := range deps {
		if dep.Virtual || dep.InlinedAsset {
			continue
		}
		content, err := p.pushOne(cwd, dep, reader)
		if err != nil {
			return "", err
		}
		out.Write(content)
		out.WriteByte('\n')
	}
	p.sink.Dispatch(events.Event{Kind: events.Ready, Module: p.moduleName(target), Extension: target.Extension()})
	return out.String(), nil
}

func (p *Pipeline) pushOne(cwd string, dep bfile.Dependency, reader Reader) ([]byte, error) {
	raw, err := reader.ReadFile(dep.File.Path())
	if err != nil {
		return nil, berr.IO("read", dep.File.Path(), err)
	}

	hash := contentHash(raw)
	if cached, ext, ok := p.cache.Get(hash); ok {
		return wrapModule(p.moduleName(dep.File), ext, cached), nil
	}

	item := newContentItem(dep.File, p.moduleName(dep.File), raw)
	if err := p.runToReady(cwd, item); err != nil {
		return nil, errors.WithMessage(err, dep.File.Path())
	}
	if err := p.cache.Put(hash, item.Content, item.State.Extension); err != nil {
		return nil, berr.IO("write", dep.File.Path(), err)
	}
	return wrapModule(item.ModuleName, item.State.Extension, item.Content), nil
}

// wrapModule wraps a Ready item's content in the runtime registry's module
// envelope. Only script-like extensions are registered by name; other
// terminal extensions (notably .css, left untouched by cssResource) are
// emitted as-is, since the runtime loader has nothing to require() them by.
func wrapModule(name, extension string, content []byte) []byte {
	if extension != ".js" {
		return content
	}
	var b strings.Builder
	b.WriteString(`__webbundle.register(`)
	b.WriteString(quoteModuleName(name))
	b.WriteString(`, function(module, exports, require) {`)
	b.WriteByte('\n')
	b.Write(content)
	b.WriteString("\n});\n")
	return []byte(b.String())
}

func quoteModuleName(name string) string {
	return `"` + strings.ReplaceAll(path.Clean(name), `"`, `\"`) + `"`
}

func processorName(p Processor) string {
	switch p.(type) {
	case passthroughProcessor:
		return "passthrough"
	case cssResourceProcessor:
		return "cssResource"
	default:
		return "host"
	}
}
