package app

import (
	"sync"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

// MemoryResultCache implements ports.ResultCache in process memory.
type MemoryResultCache struct {
	mu      sync.RWMutex
	entries map[core.RunKey]*stats.ResultTable
}

// NewMemoryResultCache creates an empty cache
func NewMemoryResultCache() *MemoryResultCache {
	return &MemoryResultCache{entries: make(map[core.RunKey]*stats.ResultTable)}
}

func (c *MemoryResultCache) Get(key core.RunKey) (*stats.ResultTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.entries[key]
	return t, ok
}

func (c *MemoryResultCache) Put(table *stats.ResultTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[table.Key] = table
}

func (c *MemoryResultCache) InvalidateTable(id core.TableID) int {
	if id.IsEmpty() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, t := range c.entries {
		if t.FeatureTableID == id || t.MetadataTableID == id {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *MemoryResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
