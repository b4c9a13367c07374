package holiday

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/go-timesheet/internal/util"
)

// DefaultTTL is how long a cache entry is served without contacting the source.
const DefaultTTL = 30 * 24 * time.Hour

// CachedProvider wraps a Provider with a TTL disk cache and stale fallback.
// FetchHolidays never fails: it degrades to stale data, then to an empty mapping.
type CachedProvider struct {
	provider     Provider
	cacheManager *CacheManager
	memory       *memoryCache
	offline      bool
	ttl          time.Duration
	now          func() time.Time
}

// CachedOption customises a CachedProvider
type CachedOption func(*CachedProvider)

// WithTTL overrides DefaultTTL
func WithTTL(ttl time.Duration) CachedOption {
	return func(p *CachedProvider) { p.ttl = ttl }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) CachedOption {
	return func(p *CachedProvider) { p.now = now }
}

// WithOffline serves only cached data, fresh or stale, and never calls the source
func WithOffline(offline bool) CachedOption {
	return func(p *CachedProvider) { p.offline = offline }
}

// NewCachedProvider creates a new cached holiday provider
func NewCachedProvider(provider Provider, cacheManager *CacheManager, opts ...CachedOption) *CachedProvider {
	p := &CachedProvider{
		provider:     provider,
		cacheManager: cacheManager,
		memory:       newMemoryCache(),
		ttl:          DefaultTTL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetProviderName returns the name of this holiday provider
func (p *CachedProvider) GetProviderName() string {
	if p.offline {
		return fmt.Sprintf("%s-offline", p.provider.GetProviderName())
	}
	return fmt.Sprintf("%s-cached", p.provider.GetProviderName())
}

// FetchHolidays returns the holidays of year for region as ISO date -> local name.
func (p *CachedProvider) FetchHolidays(ctx context.Context, year int, region string) map[string]string {
	code, ok := NormalizeRegion(region)
	if !ok {
		util.LogWarn(fmt.Sprintf("Unsupported holiday region %q, using %s", region, code))
	}

	key := CacheKey(year, code)
	if hit, ok := p.memory.Get(key); ok && p.now().Sub(hit.UpdatedAt) < p.ttl {
		return copyHolidays(hit.Holidays)
	}

	cached, err := p.cacheManager.Load(ctx, year, code)
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		util.LogDebug(fmt.Sprintf("Ignoring unreadable holiday cache for %s/%d: %v", code, year, err))
	}

	if cached != nil && p.now().Sub(cached.UpdatedAt) < p.ttl {
		util.LogDebug(fmt.Sprintf("Using cached holidays for %s/%d (updated %s)",
			code, year, cached.UpdatedAt.Format("2006-01-02 15:04:05")))
		p.memory.Set(key, cached.Holidays, cached.UpdatedAt)
		return copyHolidays(cached.Holidays)
	}

	if p.offline {
		if cached != nil {
			util.LogDebug(fmt.Sprintf("Offline mode, serving stale holidays for %s/%d", code, year))
			return copyHolidays(cached.Holidays)
		}
		util.LogDebug(fmt.Sprintf("Offline mode and no cached holidays for %s/%d", code, year))
		return map[string]string{}
	}

	fresh, err := p.provider.Fetch(ctx, year, code)
	if err != nil {
		if cached != nil {
			util.LogWarn(fmt.Sprintf("Holiday fetch failed for %s/%d, serving stale cache: %v", code, year, err))
			return copyHolidays(cached.Holidays)
		}
		util.LogWarn(fmt.Sprintf("Holiday fetch failed for %s/%d and no cache exists: %v", code, year, err))
		return map[string]string{}
	}

	p.store(ctx, year, code, fresh)
	return copyHolidays(fresh)
}

// Refresh fetches from the source unconditionally and updates the cache.
// Unlike FetchHolidays it reports the fetch error.
func (p *CachedProvider) Refresh(ctx context.Context, year int, region string) (map[string]string, error) {
	if p.offline {
		return nil, fmt.Errorf("cannot refresh holidays in offline mode")
	}

	code, _ := NormalizeRegion(region)
	fresh, err := p.provider.Fetch(ctx, year, code)
	if err != nil {
		return nil, err
	}
	p.store(ctx, year, code, fresh)
	return copyHolidays(fresh), nil
}

// ClearCache removes every cached holiday mapping
func (p *CachedProvider) ClearCache() error {
	p.memory.Clear()
	return p.cacheManager.ClearCache()
}

// cache write failures are logged and otherwise ignored
func (p *CachedProvider) store(ctx context.Context, year int, region string, holidays map[string]string) {
	p.memory.Set(CacheKey(year, region), holidays, p.now())
	if err := p.cacheManager.Save(ctx, p.provider.GetProviderName(), year, region, holidays, p.now()); err != nil {
		util.LogWarn(fmt.Sprintf("Failed to update holiday cache for %s/%d: %v", region, year, err))
	}
}
