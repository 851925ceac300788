// Package freshness implements the Freshness Oracle (§4.6): a sidecar file
// per output recording its last-seen input set, used to decide whether an
// output needs rewriting. Directly adapted from class-collector's
// internal/cache/snapshot.go: PathKey (sha256-keyed cache naming) and the
// tempfile-then-rename atomic Load/Save discipline, generalized from "one
// snapshot per project" to "one sidecar per output artifact".
package freshness

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"webbundle/internal/berr"
)

// Oracle checks output staleness against a cache directory of sidecar
// files. A zero-value Oracle with Dev=false always reports stale, per
// §4.6's "non-dev mode bypasses the oracle" rule.
type Oracle struct {
	CacheDir string
	Dev      bool
}

// New returns an Oracle rooted at cacheDir, active only when dev is true.
func New(cacheDir string, dev bool) *Oracle {
	return &Oracle{CacheDir: cacheDir, Dev: dev}
}

type sidecar struct {
	Inputs []string `json:"inputs"`
}

// pathKey mirrors class-collector's PathKey: a short, stable sha256-derived
// identifier for an absolute output path.
func pathKey(outputPath string) string {
	sum := sha256.Sum256([]byte(outputPath))
	return hex.EncodeToString(sum[:])[:16]
}

func (o *Oracle) sidecarPath(outputPath string) string {
	return filepath.Join(o.CacheDir, pathKey(outputPath)+".sources")
}

// Stale reports whether outputPath needs rewriting given inputPaths, per
// the four conditions in §4.6. When stale, it immediately rewrites the
// sidecar with inputPaths so a second check in the same run sees it as
// fresh. In non-dev mode it always returns true without touching the
// sidecar.
func (o *Oracle) Stale(outputPath string, inputPaths []string) (bool, error) {
	return o.StaleWithVirtual(outputPath, inputPaths, nil)
}

// StaleWithVirtual is Stale plus a set of virtual input identifiers (e.g.
// the embedded runtime shim's resource name): they participate in the
// input-set-changed comparison like any input, but are exempt from the
// per-input mtime check since they name no file on disk (§3's virtual
// dependency concept, applied to freshness tracking).
func (o *Oracle) StaleWithVirtual(outputPath string, inputPaths, virtualInputs []string) (bool, error) {
	if !o.Dev {
		return true, nil
	}

	sorted := append([]string(nil), inputPaths...)
	sorted = append(sorted, virtualInputs...)
	sort.Strings(sorted)
	virtual := make(map[string]bool, len(virtualInputs))
	for _, v := range virtualInputs {
		virtual[v] = true
	}

	stale, err := o.isStale(outputPath, sorted, virtual)
	if err != nil {
		return false, err
	}
	if !stale {
		return false, nil
	}
	if err := o.save(outputPath, sorted); err != nil {
		return false, err
	}
	return true, nil
}

func (o *Oracle) isStale(outputPath string, sortedInputs []string, virtual map[string]bool) (bool, error) {
	prev, err := o.load(outputPath)
	if err != nil {
		return false, err
	}
	if prev == nil {
		return true, nil
	}
	if !equalStrings(prev.Inputs, sortedInputs) {
		return true, nil
	}

	outInfo, err := os.Stat(outputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, berr.IO("stat", outputPath, err)
	}

	for _, in := range sortedInputs {
		if virtual[in] {
			continue
		}
		inInfo, err := os.Stat(in)
		if err != nil {
			if os.IsNotExist(err) {
				// A vanished input can't be compared; treat as stale so
				// the next push surfaces the read error instead of a
				// silently stale artifact.
				return true, nil
			}
			return false, berr.IO("stat", in, err)
		}
		if inInfo.ModTime().After(outInfo.ModTime()) {
			return true, nil
		}
	}
	return false, nil
}

func (o *Oracle) load(outputPath string) (*sidecar, error) {
	raw, err := os.ReadFile(o.sidecarPath(outputPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, berr.IO("read", o.sidecarPath(outputPath), err)
	}
	var s sidecar
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, nil
	}
	return &s, nil
}

func (o *Oracle) save(outputPath string, sortedInputs []string) error {
	path := o.sidecarPath(outputPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return berr.IO("mkdir", filepath.Dir(path), err)
	}
	raw, err := json.Marshal(sidecar{Inputs: sortedInputs})
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "sidecar-*.tmp")
	if err != nil {
		return berr.IO("write", path, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return berr.IO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return berr.IO("write", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return berr.IO("rename", path, err)
	}
	return nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
