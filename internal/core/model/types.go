package model

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// Entry is a single day's project and hours. Hours is kept as free text.
type Entry struct {
	Project string `json:"project"`
	Hours   string `json:"hours"`
}

// UnmarshalJSON accepts hours written as a JSON number as well as a string.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Project string      `json:"project"`
		Hours   interface{} `json:"hours"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Project = raw.Project
	switch h := raw.Hours.(type) {
	case nil:
		e.Hours = ""
	case string:
		e.Hours = h
	case float64:
		e.Hours = strconv.FormatFloat(h, 'f', -1, 64)
	default:
		return fmt.Errorf("hours must be a string or number, got %T", raw.Hours)
	}
	return nil
}

// Entries maps ISO dates to entries.
type Entries map[string]Entry

// Clone returns an independent copy; nil becomes an empty map.
func (e Entries) Clone() Entries {
	out := make(Entries, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Dates returns the keys in ascending order.
func (e Entries) Dates() []string {
	dates := make([]string, 0, len(e))
	for d := range e {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Template is a named snapshot of an entries mapping.
type Template struct {
	Name    string  `json:"name"`
	Entries Entries `json:"entries"`
}

// Templates maps template ids to templates.
type Templates map[string]Template

func (t Templates) Clone() Templates {
	out := make(Templates, len(t))
	for id, tpl := range t {
		out[id] = Template{Name: tpl.Name, Entries: tpl.Entries.Clone()}
	}
	return out
}

// PersistedData is the whole durable editor state.
type PersistedData struct {
	Client       string    `json:"client"`
	Person       string    `json:"person"`
	DefaultProj  string    `json:"defaultProj"`
	DefaultHours string    `json:"defaultHours"`
	Lang         string    `json:"lang"`
	Logo         *string   `json:"logo"`
	HolidayBank  string    `json:"holidayBank"`
	CustomRef    string    `json:"customRef"`
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	Entries      Entries   `json:"entries"`
	Templates    Templates `json:"templates"`
}

// DefaultData returns the state used on first run and after a clear.
func DefaultData() PersistedData {
	return PersistedData{
		DefaultHours: "8",
		Lang:         LangPL,
		HolidayBank:  DefaultRegion,
		Year:         2025,
		Month:        1,
		Entries:      Entries{},
		Templates:    Templates{},
	}
}

// Clone returns a deep copy.
func (d PersistedData) Clone() PersistedData {
	out := d
	if d.Logo != nil {
		logo := *d.Logo
		out.Logo = &logo
	}
	out.Entries = d.Entries.Clone()
	out.Templates = d.Templates.Clone()
	return out
}

// LogoData returns the logo or "" when none is set.
func (d PersistedData) LogoData() string {
	if d.Logo == nil {
		return ""
	}
	return *d.Logo
}

// DayInfo describes one calendar day. HolidayName is empty unless IsHoliday.
type DayInfo struct {
	Date        string `json:"date"`
	DayName     string `json:"dayName"`
	IsWeekend   bool   `json:"isWeekend"`
	HolidayName string `json:"holidayName,omitempty"`
	IsHoliday   bool   `json:"isHoliday"`
}

// IsWorkingDay reports whether bulk edits may touch the day.
func (d DayInfo) IsWorkingDay() bool {
	return !d.IsWeekend && !d.IsHoliday
}

// DayOfMonth returns the day number encoded in Date, or 0 if Date is malformed.
func (d DayInfo) DayOfMonth() int {
	t, err := time.Parse(ISODateLayout, d.Date)
	if err != nil {
		return 0
	}
	return t.Day()
}

// TimesheetEntry is one export row.
type TimesheetEntry struct {
	Date        string `json:"date"`
	Day         string `json:"day"`
	Project     string `json:"project"`
	Hours       string `json:"hours"`
	IsWeekend   bool   `json:"isWeekend"`
	IsHoliday   bool   `json:"isHoliday"`
	HolidayName string `json:"holidayName,omitempty"`
}

// TimesheetData is the normalized export view of one month.
type TimesheetData struct {
	Client  string           `json:"client"`
	Person  string           `json:"person"`
	Year    int              `json:"year"`
	Month   int              `json:"month"`
	Entries []TimesheetEntry `json:"entries"`
	Logo    string           `json:"logo,omitempty"`
	Ref     string           `json:"ref,omitempty"`
}

// IsISODate reports whether s is a valid calendar date in YYYY-MM-DD form.
func IsISODate(s string) bool {
	if len(s) != len(ISODateLayout) {
		return false
	}
	_, err := time.Parse(ISODateLayout, s)
	return err == nil
}

// FormatISODate formats a year, month and day as YYYY-MM-DD.
func FormatISODate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
