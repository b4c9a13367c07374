package holiday

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider counts calls and returns canned data or an error
type stubProvider struct {
	holidays map[string]string
	err      error
	calls    int
	regions  []string
}

func (s *stubProvider) Fetch(ctx context.Context, year int, region string) (map[string]string, error) {
	s.calls++
	s.regions = append(s.regions, region)
	if s.err != nil {
		return nil, s.err
	}
	return copyHolidays(s.holidays), nil
}

func (s *stubProvider) GetProviderName() string { return "stub" }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestProvider(t *testing.T, stub *stubProvider, clock *fakeClock, opts ...CachedOption) *CachedProvider {
	t.Helper()
	cm, err := NewCacheManager(t.TempDir())
	require.NoError(t, err)
	opts = append([]CachedOption{WithClock(clock.Now)}, opts...)
	return NewCachedProvider(stub, cm, opts...)
}

var polishMay = map[string]string{
	"2025-05-01": "Święto Pracy",
	"2025-05-03": "Święto Narodowe Trzeciego Maja",
}

func TestCachedProvider_TTLBoundary(t *testing.T) {
	stub := &stubProvider{holidays: polishMay}
	clock := &fakeClock{t: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)}
	provider := newTestProvider(t, stub, clock)
	ctx := context.Background()

	first := provider.FetchHolidays(ctx, 2025, "PL")
	assert.Equal(t, polishMay, first)
	assert.Equal(t, 1, stub.calls)

	clock.Advance(29 * 24 * time.Hour)
	assert.Equal(t, polishMay, provider.FetchHolidays(ctx, 2025, "PL"))
	assert.Equal(t, 1, stub.calls, "entry younger than the TTL must be served from cache")

	clock.Advance(2 * 24 * time.Hour)
	assert.Equal(t, polishMay, provider.FetchHolidays(ctx, 2025, "PL"))
	assert.Equal(t, 2, stub.calls, "entry older than the TTL must trigger a fetch")
}

func TestCachedProvider_StaleFallback(t *testing.T) {
	stub := &stubProvider{holidays: polishMay}
	clock := &fakeClock{t: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)}
	provider := newTestProvider(t, stub, clock)
	ctx := context.Background()

	provider.FetchHolidays(ctx, 2025, "PL")

	stub.err = errors.New("network down")
	clock.Advance(90 * 24 * time.Hour)

	assert.Equal(t, polishMay, provider.FetchHolidays(ctx, 2025, "PL"))
	assert.Equal(t, 2, stub.calls)
}

func TestCachedProvider_EmptyWithoutCache(t *testing.T) {
	stub := &stubProvider{err: ErrHolidaysUnavailable}
	provider := newTestProvider(t, stub, &fakeClock{t: time.Now()})

	holidays := provider.FetchHolidays(context.Background(), 2025, "PL")
	assert.NotNil(t, holidays)
	assert.Empty(t, holidays)
}

func TestCachedProvider_NormalizesRegion(t *testing.T) {
	stub := &stubProvider{holidays: polishMay}
	provider := newTestProvider(t, stub, &fakeClock{t: time.Now()})
	ctx := context.Background()

	provider.FetchHolidays(ctx, 2025, "de")
	provider.FetchHolidays(ctx, 2025, "XX")

	assert.Equal(t, []string{"DE", "PL"}, stub.regions)
}

func TestCachedProvider_CacheKeyIncludesYear(t *testing.T) {
	stub := &stubProvider{holidays: polishMay}
	provider := newTestProvider(t, stub, &fakeClock{t: time.Now()})
	ctx := context.Background()

	provider.FetchHolidays(ctx, 2025, "PL")
	provider.FetchHolidays(ctx, 2026, "PL")
	provider.FetchHolidays(ctx, 2025, "PL")

	assert.Equal(t, 2, stub.calls)
}

func TestCachedProvider_Offline(t *testing.T) {
	stub := &stubProvider{holidays: polishMay}
	clock := &fakeClock{t: time.Now()}
	dir := t.TempDir()
	cm, err := NewCacheManager(dir)
	require.NoError(t, err)
	ctx := context.Background()

	offline := NewCachedProvider(stub, cm, WithClock(clock.Now), WithOffline(true))
	assert.Empty(t, offline.FetchHolidays(ctx, 2025, "PL"))
	assert.Equal(t, 0, stub.calls)
	assert.Equal(t, "stub-offline", offline.GetProviderName())

	require.NoError(t, cm.Save(ctx, "stub", 2025, "PL", polishMay, clock.Now().Add(-365*24*time.Hour)))
	assert.Equal(t, polishMay, offline.FetchHolidays(ctx, 2025, "PL"))
	assert.Equal(t, 0, stub.calls)

	_, err = offline.Refresh(ctx, 2025, "PL")
	assert.Error(t, err)
}

func TestCachedProvider_CacheWriteFailureIsSwallowed(t *testing.T) {
	stub := &stubProvider{holidays: polishMay}
	dir := filepath.Join(t.TempDir(), "cache")
	cm, err := NewCacheManager(dir)
	require.NoError(t, err)

	// replace the cache directory by a plain file so every save fails
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("blocked"), 0644))

	provider := NewCachedProvider(stub, cm)
	assert.Equal(t, polishMay, provider.FetchHolidays(context.Background(), 2025, "PL"))
}

func TestCachedProvider_ReturnsIndependentCopies(t *testing.T) {
	stub := &stubProvider{holidays: polishMay}
	provider := newTestProvider(t, stub, &fakeClock{t: time.Now()})
	ctx := context.Background()

	first := provider.FetchHolidays(ctx, 2025, "PL")
	first["2025-05-01"] = "mutated"

	assert.Equal(t, "Święto Pracy", provider.FetchHolidays(ctx, 2025, "PL")["2025-05-01"])
}

func TestCachedProvider_Refresh(t *testing.T) {
	stub := &stubProvider{holidays: polishMay}
	clock := &fakeClock{t: time.Now()}
	provider := newTestProvider(t, stub, clock)
	ctx := context.Background()

	provider.FetchHolidays(ctx, 2025, "PL")
	holidays, err := provider.Refresh(ctx, 2025, "pl")
	require.NoError(t, err)
	assert.Equal(t, polishMay, holidays)
	assert.Equal(t, 2, stub.calls)

	stub.err = ErrHolidaysUnavailable
	_, err = provider.Refresh(ctx, 2025, "PL")
	assert.ErrorIs(t, err, ErrHolidaysUnavailable)

	require.NoError(t, provider.ClearCache())
	assert.Empty(t, provider.FetchHolidays(ctx, 2025, "PL"))
}

func TestCachedProvider_MemoryLayer(t *testing.T) {
	stub := &stubProvider{holidays: polishMay}
	clock := &fakeClock{t: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)}
	dir := t.TempDir()
	cm, err := NewCacheManager(dir)
	require.NoError(t, err)
	provider := NewCachedProvider(stub, cm, WithClock(clock.Now))
	ctx := context.Background()

	provider.FetchHolidays(ctx, 2025, "PL")
	assert.Equal(t, 1, provider.memory.Len())

	// files removed behind the provider's back do not matter within the TTL
	require.NoError(t, cm.ClearCache())
	assert.Equal(t, polishMay, provider.FetchHolidays(ctx, 2025, "PL"))
	assert.Equal(t, 1, stub.calls)

	clock.Advance(31 * 24 * time.Hour)
	assert.Equal(t, polishMay, provider.FetchHolidays(ctx, 2025, "PL"))
	assert.Equal(t, 2, stub.calls, "expired memory entries are refetched")
}

func TestMemoryCache(t *testing.T) {
	mc := newMemoryCache()
	updated := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	source := map[string]string{"2025-01-01": "Nowy Rok"}

	mc.Set("k", source, updated)
	source["2025-01-01"] = "changed"

	entry, ok := mc.Get("k")
	require.True(t, ok)
	assert.Equal(t, "Nowy Rok", entry.Holidays["2025-01-01"])
	assert.Equal(t, updated, entry.UpdatedAt)
	assert.NotZero(t, entry.LastAccessed)

	_, ok = mc.Get("missing")
	assert.False(t, ok)

	mc.Clear()
	assert.Equal(t, 0, mc.Len())
}
