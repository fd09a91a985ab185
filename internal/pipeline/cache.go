package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/clipforge/api/internal/model"
)

// DefaultCacheTTL bounds how long an analysis result is trusted for an
// unchanged source.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	value      *model.AnalysisResult
	insertedAt time.Time
}

// ResultCache stores expensive analysis results keyed by source
// fingerprint. Entries older than the TTL count as misses on read;
// they are not deleted proactively. Growth is unbounded, an accepted
// limitation for a single-process cache.
type ResultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewResultCache builds a cache with the given TTL; ttl <= 0 selects
// DefaultCacheTTL.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResultCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached analysis for the fingerprint, or ok=false on a
// miss. A physically present entry past its TTL is a miss.
func (c *ResultCache) Get(fingerprint string) (*model.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[fingerprint]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.insertedAt) > c.ttl {
		return nil, false
	}
	return entry.value, true
}

// Put stores the analysis unconditionally, overwriting any existing
// entry and resetting its age.
func (c *ResultCache) Put(fingerprint string, value *model.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprint] = cacheEntry{value: value, insertedAt: c.now()}
}

// Fingerprint derives the cache key from stable identifying attributes
// of the source. Name+size alone is collision-prone for same-named
// files, so the upload timestamp is folded in as well; content hashing
// is a possible future strengthening with a real I/O cost.
func Fingerprint(src model.SourceFile) string {
	return fmt.Sprintf("%s:%d:%d", src.Name, src.Size, src.UploadedAt.Unix())
}
