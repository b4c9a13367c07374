package holiday

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timesheet/internal/util"
)

// cacheSchemaVersion is part of every cache key; bump it when HolidayCache changes shape.
const cacheSchemaVersion = "v1"

// ErrCacheMiss is returned when no cache entry exists for a key
var ErrCacheMiss = errors.New("no cached holidays")

// CacheManager stores one holiday file per (version, year, region) key
type CacheManager struct {
	mu  sync.RWMutex
	dir string
}

// HolidayCache represents one cached holiday mapping
type HolidayCache struct {
	Year      int               `json:"year"`
	Region    string            `json:"region"`
	Source    string            `json:"source"`
	UpdatedAt time.Time         `json:"updated_at"`
	Holidays  map[string]string `json:"holidays"`
}

// NewCacheManager creates a cache manager rooted at dir
func NewCacheManager(dir string) (*CacheManager, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create holiday cache directory: %w", err)
	}
	return &CacheManager{dir: dir}, nil
}

// CacheKey identifies the cache entry of one year and region.
func CacheKey(year int, region string) string {
	return fmt.Sprintf("holidays-%s-%d-%s", cacheSchemaVersion, year, region)
}

func (m *CacheManager) path(year int, region string) string {
	return filepath.Join(m.dir, CacheKey(year, region)+".json")
}

// Save writes the holidays of year and region, stamped with updatedAt
func (m *CacheManager) Save(ctx context.Context, source string, year int, region string, holidays map[string]string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cache := HolidayCache{
		Year:      year,
		Region:    region,
		Source:    source,
		UpdatedAt: updatedAt,
		Holidays:  holidays,
	}

	data, err := sonic.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal holiday cache: %w", err)
	}

	path := m.path(year, region)
	if err := util.WriteFileAtomic(path, data, 0644); err != nil {
		return err
	}

	util.LogDebug(fmt.Sprintf("Saved %d holidays to %s", len(holidays), path))
	return nil
}

// Load reads the entry for year and region regardless of its age
func (m *CacheManager) Load(ctx context.Context, year int, region string) (*HolidayCache, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path := m.path(year, region)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}

	var cache HolidayCache
	if err := sonic.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("failed to unmarshal holiday cache %s: %w", path, err)
	}
	if cache.Holidays == nil {
		cache.Holidays = map[string]string{}
	}
	return &cache, nil
}

// ClearCache removes every cached holiday file
func (m *CacheManager) ClearCache() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "holidays-") || filepath.Ext(name) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cache file: %w", err)
		}
	}
	return nil
}
