package driver

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"tokensheet/internal/sheet"
)

// Bump when DiskPayload changes shape; stale payloads are ignored, never
// migrated.
const diskCacheSchemaVersion uint16 = 1

// DiskCache keeps decoded entity graphs on disk, keyed by sheet digest, so
// repeated CLI invocations skip XML decoding. Thread-safe.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached form of a decoded sheet. Timelines and the name
// trie are not cached; they rebuild quickly and their diagnostics must come
// out fresh.
type DiskPayload struct {
	Schema   uint16
	Digest   Digest
	Tokens   []*sheet.Token
	Prefixes []byte
}

// OpenDiskCache initializes the cache at the standard XDG location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "sheets", key.String()+".mp")
}

// Put serializes a decoded sheet under its digest, atomically.
func (c *DiskCache) Put(key Digest, sh *sheet.Sheet) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	payload := DiskPayload{
		Schema:   diskCacheSchemaVersion,
		Digest:   key,
		Tokens:   sh.Tokens,
		Prefixes: sh.Prefixes,
	}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the sheet cached under key. A missing entry is (nil, false, nil);
// corrupt or schema-mismatched payloads are treated as missing, never
// trusted.
func (c *DiskCache) Get(key Digest) (*sheet.Sheet, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, nil
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Digest != key || len(payload.Tokens) == 0 {
		return nil, false, nil
	}
	return sheet.New(payload.Tokens, payload.Prefixes), true, nil
}

// DropAll invalidates everything, e.g. after a schema bump during
// development.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
