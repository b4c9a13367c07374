package editor

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/penwyp/go-timesheet/internal/core/holiday"
	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/penwyp/go-timesheet/internal/i18n"
)

// Settings is a partial update of the document settings. Nil fields are kept.
type Settings struct {
	Client       *string
	Person       *string
	DefaultProj  *string
	DefaultHours *string
	Lang         *string
	Region       *string
	CustomRef    *string
	Year         *int
	Month        *int
}

// UpdateSettings validates s and saves the fields it sets in one write
func (e *Editor) UpdateSettings(s Settings) error {
	p := model.Partial{
		Client:       s.Client,
		Person:       s.Person,
		DefaultProj:  s.DefaultProj,
		DefaultHours: s.DefaultHours,
		CustomRef:    s.CustomRef,
		Year:         s.Year,
		Month:        s.Month,
	}

	if s.Lang != nil {
		lang := i18n.Normalize(*s.Lang)
		p.Lang = &lang
	}
	if s.Region != nil {
		region, ok := holiday.NormalizeRegion(*s.Region)
		if !ok {
			return fmt.Errorf("unsupported region %q (supported: %s)", *s.Region, strings.Join(holiday.SupportedRegions(), ", "))
		}
		p.HolidayBank = &region
	}
	if s.Month != nil && (*s.Month < 1 || *s.Month > 12) {
		return fmt.Errorf("month must be between 1 and 12, got %d", *s.Month)
	}
	if s.Year != nil && (*s.Year < 1 || *s.Year > 9999) {
		return fmt.Errorf("year must be between 1 and 9999, got %d", *s.Year)
	}

	if p.IsEmpty() {
		return nil
	}
	return e.store.SaveData(p)
}

// SetLogo stores the image at path as a data URL
func (e *Editor) SetLogo(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read logo: %w", err)
	}
	if len(content) == 0 {
		return fmt.Errorf("logo file %s is empty", path)
	}

	logo := LogoDataURL(content)
	return e.store.SaveData(model.Partial{Logo: &logo})
}

// ClearLogo removes the logo
func (e *Editor) ClearLogo() error {
	empty := ""
	return e.store.SaveData(model.Partial{Logo: &empty})
}

// LogoDataURL encodes image bytes as a data URL with their sniffed content type
func LogoDataURL(content []byte) string {
	mime := http.DetectContentType(content)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content)
}
