package bfile

import "testing"

func TestNewFileNormalizes(t *testing.T) {
	f := NewFile(`src\app\main.ts`)
	if f.Path() != "src/app/main.ts" {
		t.Fatalf("got %q", f.Path())
	}
	if NewFile("").Path() != "" {
		t.Fatalf("expected empty path to stay empty")
	}
	if NewFile(".").Path() != "" {
		t.Fatalf("expected '.' to collapse to empty")
	}
}

func TestFileDirExtensionBasename(t *testing.T) {
	f := NewFile("src/app/main.ts")
	if f.Dir() != "src/app" {
		t.Fatalf("Dir got %q", f.Dir())
	}
	if f.Extension() != ".ts" {
		t.Fatalf("Extension got %q", f.Extension())
	}
	if f.Basename() != "main" {
		t.Fatalf("Basename got %q", f.Basename())
	}
	if f.Name() != "main.ts" {
		t.Fatalf("Name got %q", f.Name())
	}
}

func TestFileNoExtension(t *testing.T) {
	f := NewFile("src/Makefile")
	if f.Extension() != "" {
		t.Fatalf("expected no extension, got %q", f.Extension())
	}
	if f.Basename() != "Makefile" {
		t.Fatalf("Basename got %q", f.Basename())
	}
}

func TestFileJoin(t *testing.T) {
	f := NewFile("src/app/main.ts")
	got := f.Join("./util.ts")
	if got.Path() != "src/app/util.ts" {
		t.Fatalf("got %q", got.Path())
	}
	got = f.Join("../shared/util.ts")
	if got.Path() != "src/shared/util.ts" {
		t.Fatalf("got %q", got.Path())
	}
}

func TestFileWithExtension(t *testing.T) {
	f := NewFile("src/app/main.ts")
	got := f.WithExtension(".js")
	if got.Path() != "src/app/main.js" {
		t.Fatalf("got %q", got.Path())
	}
}

func TestFileHasPrefixAndTrimPrefix(t *testing.T) {
	f := NewFile("src/app/main.ts")
	if !f.HasPrefix("src") {
		t.Fatalf("expected src to be a prefix")
	}
	if f.HasPrefix("lib") {
		t.Fatalf("lib should not be a prefix")
	}
	if f.TrimPrefix("src") != "app/main.ts" {
		t.Fatalf("got %q", f.TrimPrefix("src"))
	}
	if NewFile("src").TrimPrefix("src") != "" {
		t.Fatalf("trimming self should yield empty string")
	}
}

func TestFileEqual(t *testing.T) {
	a := NewFile("src/app/main.ts")
	b := NewFile(`src\app\main.ts`)
	if !a.Equal(b) {
		t.Fatalf("expected normalized paths to be equal")
	}
}
