package main

import (
	"reflect"
	"testing"
)

func TestSplitCSV(t *testing.T) {
	got := splitCSV(".go, .java ,,.py")
	want := []string{".go", " .java ", ".py"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSplitCSVEmpty(t *testing.T) {
	if got := splitCSV(""); got != nil {
		t.Fatalf("expected nil for an empty string, got %v", got)
	}
}

func TestToSet(t *testing.T) {
	set := toSet([]string{"a", "b", "", "a"})
	if len(set) != 2 {
		t.Fatalf("expected 2 entries (empty dropped, duplicate collapsed), got %d", len(set))
	}
	if _, ok := set["a"]; !ok {
		t.Fatalf("expected \"a\" in the set")
	}
}

func TestNewRootCmdWiresBuildAndInspect(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	if !names["build"] || !names["inspect"] {
		t.Fatalf("expected both build and inspect subcommands, got %v", names)
	}
}

func TestNewBuildCmdUse(t *testing.T) {
	cmd := newBuildCmd()
	if cmd.Use != "build" {
		t.Fatalf("got Use=%q", cmd.Use)
	}
}

func TestNewInspectCmdRequiresExactlyOneArg(t *testing.T) {
	cmd := newInspectCmd()
	if err := cmd.Args(cmd, nil); err == nil {
		t.Fatalf("expected an error with zero positional args")
	}
	if err := cmd.Args(cmd, []string{"src"}); err != nil {
		t.Fatalf("expected one positional arg to be accepted, got %v", err)
	}
}
