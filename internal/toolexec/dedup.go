package toolexec

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DedupWindow is the interval within which an identical (source_tool,
// claim) pair must not persist a second evidence pin (SPEC_FULL §8,
// Testable Property 8).
const DedupWindow = 60 * time.Second

// DedupCache tracks the last-seen time of a (sourceTool, claim) key per
// session so the executor can suppress a repeated call's pin.
type DedupCache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, time.Time]
}

// NewDedupCache builds a DedupCache bounded to size entries.
func NewDedupCache(size int) *DedupCache {
	if size <= 0 {
		size = 1024
	}
	c, _ := lru.New[string, time.Time](size)
	return &DedupCache{cache: c}
}

// Seen reports whether (sourceTool, claim) was already recorded within
// DedupWindow of now. Only an occurrence that was not seen is recorded, so
// a suppressed repeat does not extend the window.
func (d *DedupCache) Seen(sourceTool, claim string, now time.Time) bool {
	key := sourceTool + "\x00" + claim
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.cache.Get(key); ok && now.Sub(last) < DedupWindow {
		return true
	}
	d.cache.Add(key, now)
	return false
}
