package bfile

import "testing"

func TestDependencyExtensionChain(t *testing.T) {
	dep := NewDependency(NewFile("src/app/main.ts"))
	if dep.CurrentExtension() != ".ts" {
		t.Fatalf("got %q", dep.CurrentExtension())
	}
	dep.PushExtension(".js")
	if dep.CurrentExtension() != ".js" {
		t.Fatalf("got %q", dep.CurrentExtension())
	}
	if len(dep.ExtensionChain) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(dep.ExtensionChain))
	}
}

func TestImportResolvedFile(t *testing.T) {
	target := NewFile("src/app/util.ts")
	imp := Import{Specifier: "./util", Module: Module{File: target}}
	if !imp.ResolvedFile().Equal(target) {
		t.Fatalf("ResolvedFile mismatch")
	}
}
