package holiday

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timesheet/internal/util"
)

const (
	DefaultNagerBaseURL = "https://date.nager.at/api/v3"
	defaultHTTPTimeout  = 30 * time.Second
)

// NagerProvider implements Provider against the Nager.Date public holiday API
type NagerProvider struct {
	baseURL    string
	httpClient *http.Client
}

// nagerHoliday represents one element of the PublicHolidays response
type nagerHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// NewNagerProvider creates a provider for baseURL. An empty baseURL uses the public service
// and a non-positive timeout uses 30 seconds.
func NewNagerProvider(baseURL string, timeout time.Duration) *NagerProvider {
	if baseURL == "" {
		baseURL = DefaultNagerBaseURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &NagerProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetProviderName returns the name of this holiday provider
func (p *NagerProvider) GetProviderName() string {
	return "nager"
}

// Fetch downloads the holidays of year for region. Any non-2xx status is an error, and so is
// a 2xx response without a body (Nager answers 204 for unknown countries).
func (p *NagerProvider) Fetch(ctx context.Context, year int, region string) (map[string]string, error) {
	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", p.baseURL, year, region)
	util.LogDebug(fmt.Sprintf("Fetching holidays from %s", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHolidaysUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrHolidaysUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty response (status %d)", ErrHolidaysUnavailable, resp.StatusCode)
	}

	var holidays []nagerHoliday
	if err := sonic.Unmarshal(body, &holidays); err != nil {
		return nil, fmt.Errorf("failed to parse holiday data: %w", err)
	}

	mapped := make(map[string]string, len(holidays))
	for _, h := range holidays {
		mapped[h.Date] = h.LocalName
	}

	util.LogDebug(fmt.Sprintf("Loaded %d holidays for %s/%d", len(mapped), region, year))
	return mapped, nil
}
