package holiday

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// Provider fetches the public holidays of one year and region from a source.
type Provider interface {
	// Fetch returns a mapping from ISO date to the local holiday name
	Fetch(ctx context.Context, year int, region string) (map[string]string, error)

	// GetProviderName returns the name of this holiday provider
	GetProviderName() string
}

// ErrHolidaysUnavailable is returned when a source cannot deliver holiday data
var ErrHolidaysUnavailable = errors.New("holiday data unavailable")

// ErrUnknownSource is returned by the factory for an unrecognised source name
var ErrUnknownSource = errors.New("unknown holiday source")

// DefaultRegion is used whenever a requested region is not supported.
const DefaultRegion = "PL"

var supportedRegions = map[string]string{
	"PL": "Poland",
	"DE": "Germany",
	"GB": "United Kingdom",
	"US": "United States",
	"FR": "France",
	"ES": "Spain",
	"IT": "Italy",
	"NL": "Netherlands",
	"BE": "Belgium",
}

// NormalizeRegion upper-cases region and reports whether it is supported.
// Unsupported regions resolve to DefaultRegion.
func NormalizeRegion(region string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(region))
	if _, ok := supportedRegions[code]; ok {
		return code, true
	}
	return DefaultRegion, false
}

// SupportedRegions lists the region codes in alphabetical order.
func SupportedRegions() []string {
	codes := make([]string, 0, len(supportedRegions))
	for code := range supportedRegions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// RegionName returns the English country name of a supported region code.
func RegionName(code string) string {
	return supportedRegions[strings.ToUpper(code)]
}

func copyHolidays(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
