package pipeline

import (
	"path"
	"regexp"
	"strings"
)

// Processor is the Content Pipeline's extension point, matching §4.2's
// transpiler contract. Supports inspects only the state machine's current
// phase/extension; Transpile and Peek must perform the identical state
// transition, the latter without touching content.
type Processor interface {
	Supports(state ContentState) bool
	Transpile(cwd string, item *ContentItem) error
	Peek(cwd string, state *ContentState) error
}

// passthroughProcessor accepts any item not yet Ready and marks it Ready
// without altering content or extension. It is the terminal case for
// already-compiled output (.js, .json, …) and is registered last.
type passthroughProcessor struct{}

func (passthroughProcessor) Supports(state ContentState) bool {
	return state.Phase != Ready
}

func (passthroughProcessor) Transpile(cwd string, item *ContentItem) error {
	item.State.advance(Ready, item.State.Extension)
	return nil
}

func (passthroughProcessor) Peek(cwd string, state *ContentState) error {
	state.advance(Ready, state.Extension)
	return nil
}

// cssResourceProcessor handles .css -> .css: it rewrites url(…) references
// whose resolved path is a key of item.AssetTargets to the mapped target
// path, then marks the item Ready. Pipeline.Push leaves AssetTargets
// empty, so in a build every url(…) reference passes through unchanged.
// Peek performs the same transition with no rewrite, since the terminal
// extension doesn't change.
type cssResourceProcessor struct{}

var reCSSURLRewrite = regexp.MustCompile(`url\(\s*(['"]?)([^'")]+)(['"]?)\s*\)`)

func (cssResourceProcessor) Supports(state ContentState) bool {
	return state.Phase != Ready && state.Extension == ".css"
}

func (cssResourceProcessor) Transpile(cwd string, item *ContentItem) error {
	item.Content = []byte(reCSSURLRewrite.ReplaceAllStringFunc(string(item.Content), func(m string) string {
		parts := reCSSURLRewrite.FindStringSubmatch(m)
		quote, ref := parts[1], parts[2]
		if strings.HasPrefix(ref, "data:") || strings.Contains(ref, "://") {
			return m
		}
		target, ok := item.AssetTargets[path.Join(path.Dir(item.File.Path()), ref)]
		if !ok {
			return m
		}
		return "url(" + quote + target + quote + ")"
	}))
	item.State.advance(Ready, item.State.Extension)
	return nil
}

func (cssResourceProcessor) Peek(cwd string, state *ContentState) error {
	state.advance(Ready, state.Extension)
	return nil
}
