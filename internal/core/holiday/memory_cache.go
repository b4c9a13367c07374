package holiday

import (
	"sync"
	"time"
)

// memoryCacheEntry is one holiday mapping held in process memory
type memoryCacheEntry struct {
	Holidays     map[string]string
	UpdatedAt    time.Time
	LastAccessed int64
}

// memoryCache sits in front of the disk cache so repeated lookups within one process,
// such as re-rendering a watched preview, do not re-read the cache files
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryCacheEntry
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*memoryCacheEntry)}
}

func (mc *memoryCache) Set(key string, holidays map[string]string, updatedAt time.Time) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.entries[key] = &memoryCacheEntry{
		Holidays:     copyHolidays(holidays),
		UpdatedAt:    updatedAt,
		LastAccessed: time.Now().Unix(),
	}
}

// Get returns the entry for key. Callers must copy Holidays before handing it out.
func (mc *memoryCache) Get(key string) (*memoryCacheEntry, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[key]
	if ok {
		entry.LastAccessed = time.Now().Unix()
	}
	return entry, ok
}

func (mc *memoryCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.entries)
}

func (mc *memoryCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.entries = make(map[string]*memoryCacheEntry)
}
