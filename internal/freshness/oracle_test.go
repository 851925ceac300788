package freshness

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// TestOracleFreshnessCycle is scenario S3: build, rebuild unchanged (no
// write needed), touch an input, rebuild again (write needed).
func TestOracleFreshnessCycle(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.js")
	output := filepath.Join(dir, "out.js")
	writeFile(t, input, "v1")

	o := New(filepath.Join(dir, "cache"), true)

	stale, err := o.Stale(output, []string{input})
	if err != nil {
		t.Fatalf("Stale error: %v", err)
	}
	if !stale {
		t.Fatalf("expected stale on first check (no sidecar yet)")
	}
	writeFile(t, output, "built-v1")

	stale, err = o.Stale(output, []string{input})
	if err != nil {
		t.Fatalf("Stale error: %v", err)
	}
	if stale {
		t.Fatalf("expected fresh on second check: same inputs, output newer than input")
	}

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(input, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	stale, err = o.Stale(output, []string{input})
	if err != nil {
		t.Fatalf("Stale error: %v", err)
	}
	if !stale {
		t.Fatalf("expected stale after touching the input to a newer mtime")
	}
}

func TestOracleNonDevAlwaysStale(t *testing.T) {
	dir := t.TempDir()
	o := New(filepath.Join(dir, "cache"), false)
	stale, err := o.Stale(filepath.Join(dir, "out.js"), nil)
	if err != nil {
		t.Fatalf("Stale error: %v", err)
	}
	if !stale {
		t.Fatalf("expected non-dev mode to always report stale")
	}
}

func TestOracleStaleWhenInputSetChanges(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.js")
	b := filepath.Join(dir, "b.js")
	output := filepath.Join(dir, "out.js")
	writeFile(t, a, "a")
	writeFile(t, b, "b")
	o := New(filepath.Join(dir, "cache"), true)

	if _, err := o.Stale(output, []string{a}); err != nil {
		t.Fatalf("Stale error: %v", err)
	}
	writeFile(t, output, "built")

	stale, err := o.Stale(output, []string{a, b})
	if err != nil {
		t.Fatalf("Stale error: %v", err)
	}
	if !stale {
		t.Fatalf("expected stale when the input set gains a member")
	}
}

// TestOracleVirtualInputsExemptFromMtimeCheck ensures the embedded runtime
// shim's synthetic input participates in "did the input set change" but is
// never os.Stat'd, since it names no file on disk.
func TestOracleVirtualInputsExemptFromMtimeCheck(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "require.min.js")
	o := New(filepath.Join(dir, "cache"), true)

	stale, err := o.StaleWithVirtual(output, nil, []string{"embedded:require.min.js"})
	if err != nil {
		t.Fatalf("StaleWithVirtual error: %v", err)
	}
	if !stale {
		t.Fatalf("expected stale on first check")
	}
	writeFile(t, output, "shim content")

	stale, err = o.StaleWithVirtual(output, nil, []string{"embedded:require.min.js"})
	if err != nil {
		t.Fatalf("StaleWithVirtual error: %v", err)
	}
	if stale {
		t.Fatalf("expected fresh: virtual input unchanged, output present, no real inputs to stat")
	}
}

func TestOracleTreatsVanishedInputAsStale(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.js")
	output := filepath.Join(dir, "out.js")
	writeFile(t, input, "v1")
	o := New(filepath.Join(dir, "cache"), true)

	if _, err := o.Stale(output, []string{input}); err != nil {
		t.Fatalf("Stale error: %v", err)
	}
	writeFile(t, output, "built")
	if err := os.Remove(input); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	stale, err := o.Stale(output, []string{input})
	if err != nil {
		t.Fatalf("Stale error: %v", err)
	}
	if !stale {
		t.Fatalf("expected a vanished input to be treated as stale")
	}
}
