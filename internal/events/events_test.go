package events

import "testing"

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		PreProcess:  "pre-process",
		PostProcess: "post-process",
		Ready:       "ready",
		Kind(99):    "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestNoOpDiscardsEvents(t *testing.T) {
	var s Sink = NoOp{}
	s.Dispatch(Event{Kind: Ready, Module: "main.js"})
}

func TestFuncAdaptsPlainFunction(t *testing.T) {
	var got Event
	var s Sink = Func(func(e Event) { got = e })
	s.Dispatch(Event{Kind: PreProcess, Module: "util.js", Processor: "css"})
	if got.Kind != PreProcess || got.Module != "util.js" || got.Processor != "css" {
		t.Fatalf("Func sink did not receive the dispatched event, got %+v", got)
	}
}
