// Package fs persists crawled page content as a JSON snapshot file on
// the local filesystem.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/askcuny/askcuny"
)

// DefaultTTL is how long a snapshot stays fresh.
const DefaultTTL = 24 * time.Hour

// Ensure Cache implements askcuny.SnapshotCache at compile time.
var _ askcuny.SnapshotCache = (*Cache)(nil)

// cacheFile is the on-disk snapshot format.
type cacheFile struct {
	Timestamp string            `json:"timestamp"`
	Content   map[string]string `json:"content"`
}

// Cache stores the full crawl result as a single JSON file. A snapshot
// older than the TTL, missing, or unreadable is reported as a miss, not
// an error: the pipeline regenerates it by crawling.
type Cache struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL overrides the snapshot freshness window.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock overrides the clock. Used in tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a Cache backed by the file at path.
func NewCache(path string, opts ...CacheOption) *Cache {
	c := &Cache{
		path: path,
		ttl:  DefaultTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads the snapshot. The second result is false when the file is
// missing, unreadable, malformed, or stale; none of those are errors.
func (c *Cache) Load(ctx context.Context) (map[string]string, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false, nil
	}

	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, false, nil
	}

	ts, err := time.Parse(time.RFC3339, file.Timestamp)
	if err != nil {
		return nil, false, nil
	}
	if c.now().Sub(ts) > c.ttl {
		return nil, false, nil
	}
	if file.Content == nil {
		return nil, false, nil
	}

	return file.Content, true, nil
}

// Save writes the snapshot atomically via a temp file and rename, so a
// crash mid-write never leaves a truncated snapshot behind.
func (c *Cache) Save(ctx context.Context, content map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file := cacheFile{
		Timestamp: c.now().Format(time.RFC3339),
		Content:   content,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return askcuny.Errorf(askcuny.EINTERNAL, "marshaling snapshot: %v", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return askcuny.Errorf(askcuny.EINTERNAL, "creating snapshot directory: %v", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return askcuny.Errorf(askcuny.EINTERNAL, "creating temp snapshot: %v", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return askcuny.Errorf(askcuny.EINTERNAL, "writing snapshot: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return askcuny.Errorf(askcuny.EINTERNAL, "closing snapshot: %v", err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return askcuny.Errorf(askcuny.EINTERNAL, "renaming snapshot: %v", err)
	}
	return nil
}
