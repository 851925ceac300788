package collect

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"webbundle/internal/bfile"
)

// cachedResult is what the LRU stores: a snapshot of the collection's
// imports/resources, immutable once recorded.
type cachedResult struct {
	imports   []bfile.Import
	resources []bfile.File
}

// cachedCollector decorates an inner Collector with an LRU memoization
// layer keyed by the sha256 of the file's contents, so re-scanning an
// unchanged file within or across Finder runs in the same process is free.
// This is the Go re-architecture of the reference's CachedImportCollector
// decorator: a higher-order constructor returning a new Collector value
// rather than object-wrapping, per SPEC_FULL.md's design notes.
type cachedCollector struct {
	inner Collector
	cache *lru.Cache[string, cachedResult]
}

// Cached wraps inner with an LRU of the given size. A size of 0 selects a
// sane default.
func Cached(inner Collector, size int) Collector {
	if size <= 0 {
		size = 2048
	}
	c, err := lru.New[string, cachedResult](size)
	if err != nil {
		// Only returns an error for a non-positive size, which we already
		// guarded against above.
		panic(err)
	}
	return &cachedCollector{inner: inner, cache: c}
}

func (c *cachedCollector) Supports(f bfile.File) bool { return c.inner.Supports(f) }

func (c *cachedCollector) Collect(cwd string, f bfile.File, data []byte, resolver Resolver, into *ImportCollection) error {
	key := contentKey(data)
	if hit, ok := c.cache.Get(key); ok {
		replay(hit, into)
		return nil
	}
	scratch := &ImportCollection{}
	if err := c.inner.Collect(cwd, f, data, resolver, scratch); err != nil {
		return err
	}
	c.cache.Add(key, cachedResult{imports: scratch.Imports(), resources: scratch.Resources()})
	replay(cachedResult{imports: scratch.Imports(), resources: scratch.Resources()}, into)
	return nil
}

func replay(r cachedResult, into *ImportCollection) {
	for _, imp := range r.imports {
		into.AddImport(imp)
	}
	for _, res := range r.resources {
		into.AddResource(res)
	}
}

func contentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
