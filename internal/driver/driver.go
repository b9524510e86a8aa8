// Package driver orchestrates the load and build pipeline behind the CLI:
// read the sheet document, decode (or fetch the decoded graph from the disk
// cache), build the registry, and time the phases.
package driver

import (
	"bytes"
	"fmt"
	"os"

	"tokensheet/internal/diag"
	"tokensheet/internal/observ"
	"tokensheet/internal/registry"
	"tokensheet/internal/sheet"
)

// CacheApp names the cache directory under ${XDG_CACHE_HOME:-~/.cache}.
const CacheApp = "tokensheet"

// BuildOptions configures the pipeline.
type BuildOptions struct {
	// MaxDiagnostics caps the merged bag.
	MaxDiagnostics int
	// Jobs bounds timeline build parallelism; GOMAXPROCS when zero.
	Jobs int
	// NoCache skips the disk cache entirely.
	NoCache bool
}

// BuildResult is everything the CLI needs after a pipeline run.
type BuildResult struct {
	Registry  *registry.Registry
	Bag       *diag.Bag
	Digest    Digest
	FromCache bool
	Timer     *observ.Timer
}

// BuildRegistry runs the full pipeline over the sheet document at path.
// Decode failures are returned as errors — there is no graph to collect them
// into; everything later lands in the bag.
func BuildRegistry(path string, opts BuildOptions) (*BuildResult, error) {
	timer := observ.NewTimer()

	phase := timer.Begin("read")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	digest := SheetDigest(data)
	timer.End(phase, fmt.Sprintf("%d bytes", len(data)))

	var cache *DiskCache
	if !opts.NoCache {
		// A broken cache must never break a build.
		cache, _ = OpenDiskCache(CacheApp)
	}

	phase = timer.Begin("decode")
	sh, fromCache, err := loadSheet(data, digest, cache)
	if err != nil {
		return nil, err
	}
	note := fmt.Sprintf("%d tokens", len(sh.Tokens))
	if fromCache {
		note += ", cached"
	}
	timer.End(phase, note)

	phase = timer.Begin("build")
	reg, bag := registry.Build(sh, registry.Options{
		MaxDiagnostics: opts.MaxDiagnostics,
		Jobs:           opts.Jobs,
	})
	timer.End(phase, fmt.Sprintf("%d diagnostics", bag.Len()))

	return &BuildResult{
		Registry:  reg,
		Bag:       bag,
		Digest:    digest,
		FromCache: fromCache,
		Timer:     timer,
	}, nil
}

func loadSheet(data []byte, digest Digest, cache *DiskCache) (*sheet.Sheet, bool, error) {
	if sh, ok, err := cache.Get(digest); err == nil && ok {
		return sh, true, nil
	}
	sh, err := sheet.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	// A failed cache write costs a re-decode next time, nothing else.
	_ = cache.Put(digest, sh)
	return sh, false, nil
}
