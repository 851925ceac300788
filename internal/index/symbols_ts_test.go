package index

import "testing"

func TestScanTSBasic(t *testing.T) {
	src := []byte(`
export class Foo {
}

export function bar() {}
export const baz = () => {}
`)
	_, kind, typ, exports, syms := extractTS("foo.ts", src)
	if kind != "class" {
		t.Fatalf("kind = %q", kind)
	}
	if typ != "Foo" {
		t.Fatalf("typ = %q", typ)
	}
	if len(exports) != 2 {
		t.Fatalf("exports = %v", exports)
	}
	if len(syms) != 2 {
		t.Fatalf("symbols = %d", len(syms))
	}
	want := []string{"Foo.bar", "Foo.baz"}
	for i, sym := range syms {
		if sym.Symbol != want[i] {
			t.Fatalf("symbol[%d] = %q, want %q", i, sym.Symbol, want[i])
		}
	}
}
