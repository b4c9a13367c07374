package holiday

import (
	"fmt"
	"time"

	"github.com/penwyp/go-timesheet/internal/util"
)

// SourceConfig selects and tunes the holiday source
type SourceConfig struct {
	Source  string        `yaml:"source" json:"source"`
	BaseURL string        `yaml:"baseURL" json:"baseURL"`
	Offline bool          `yaml:"offline" json:"offline"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// CreateHolidayProvider creates the cached provider described by cfg
func CreateHolidayProvider(cfg *SourceConfig, cacheDir string, opts ...CachedOption) (*CachedProvider, error) {
	var baseProvider Provider

	switch cfg.Source {
	case "nager", "":
		baseProvider = NewNagerProvider(cfg.BaseURL, cfg.Timeout)
	case "builtin":
		baseProvider = NewBuiltinProvider()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, cfg.Source)
	}

	cacheManager, err := NewCacheManager(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache manager: %w", err)
	}

	util.LogDebug(fmt.Sprintf("Holiday provider: source=%s offline=%t cache_dir=%s",
		baseProvider.GetProviderName(), cfg.Offline, cacheDir))

	opts = append([]CachedOption{WithOffline(cfg.Offline)}, opts...)
	return NewCachedProvider(baseProvider, cacheManager, opts...), nil
}
