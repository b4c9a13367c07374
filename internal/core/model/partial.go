package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrNotObject is returned when a payload is not a JSON object.
var ErrNotObject = errors.New("payload is not a JSON object")

// Partial is a shallow update of PersistedData. Nil fields are left untouched.
// A non-nil Logo pointing at "" clears the logo.
type Partial struct {
	Client       *string
	Person       *string
	DefaultProj  *string
	DefaultHours *string
	Lang         *string
	Logo         *string
	HolidayBank  *string
	CustomRef    *string
	Year         *int
	Month        *int
	Entries      Entries
	Templates    Templates
}

// IsEmpty reports whether the partial would change nothing.
func (p Partial) IsEmpty() bool {
	return p.Client == nil && p.Person == nil && p.DefaultProj == nil && p.DefaultHours == nil &&
		p.Lang == nil && p.Logo == nil && p.HolidayBank == nil && p.CustomRef == nil &&
		p.Year == nil && p.Month == nil && p.Entries == nil && p.Templates == nil
}

// Apply returns d with every set field of p replacing the current value.
// Entries and Templates replace whole maps.
func (d PersistedData) Apply(p Partial) PersistedData {
	out := d.Clone()
	setString(&out.Client, p.Client)
	setString(&out.Person, p.Person)
	setString(&out.DefaultProj, p.DefaultProj)
	setString(&out.DefaultHours, p.DefaultHours)
	setString(&out.Lang, p.Lang)
	setString(&out.HolidayBank, p.HolidayBank)
	setString(&out.CustomRef, p.CustomRef)
	if p.Logo != nil {
		if *p.Logo == "" {
			out.Logo = nil
		} else {
			logo := *p.Logo
			out.Logo = &logo
		}
	}
	if p.Year != nil {
		out.Year = *p.Year
	}
	if p.Month != nil {
		out.Month = *p.Month
	}
	if p.Entries != nil {
		out.Entries = p.Entries.Clone()
	}
	if p.Templates != nil {
		out.Templates = p.Templates.Clone()
	}
	return out
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// ParseObject decodes data into its top-level fields.
func ParseObject(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := sonic.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, ErrNotObject
	}
	return fields, nil
}

// IsJSONObject reports whether raw holds a JSON object.
func IsJSONObject(raw json.RawMessage) bool {
	_, err := ParseObject(raw)
	return err == nil
}

// DecodePartial turns the fields of a PersistedData-shaped object into a Partial.
// Fields that fail to decode are skipped and reported in problems, so one bad field
// never discards the rest. Entry keys that are not ISO dates are dropped the same way.
func DecodePartial(fields map[string]json.RawMessage) (Partial, []error) {
	var (
		p        Partial
		problems []error
	)

	decode := func(key string, dst interface{}) bool {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			return false
		}
		if err := sonic.Unmarshal(raw, dst); err != nil {
			problems = append(problems, fmt.Errorf("field %q: %w", key, err))
			return false
		}
		return true
	}

	stringField := func(key string) *string {
		var v string
		if decode(key, &v) {
			return &v
		}
		return nil
	}
	intField := func(key string) *int {
		var v int
		if decode(key, &v) {
			return &v
		}
		return nil
	}

	p.Client = stringField("client")
	p.Person = stringField("person")
	p.DefaultProj = stringField("defaultProj")
	p.DefaultHours = stringField("defaultHours")
	p.Lang = stringField("lang")
	p.HolidayBank = stringField("holidayBank")
	p.CustomRef = stringField("customRef")
	p.Year = intField("year")
	p.Month = intField("month")

	if raw, ok := fields["logo"]; ok {
		if string(raw) == "null" {
			empty := ""
			p.Logo = &empty
		} else {
			p.Logo = stringField("logo")
		}
	}

	var entries Entries
	if decode("entries", &entries) {
		p.Entries = validEntries(entries, "entries", &problems)
	}

	var templates Templates
	if decode("templates", &templates) {
		p.Templates = make(Templates, len(templates))
		for id, tpl := range templates {
			tpl.Entries = validEntries(tpl.Entries, fmt.Sprintf("templates[%s]", id), &problems)
			p.Templates[id] = tpl
		}
	}

	return p, problems
}

func validEntries(entries Entries, scope string, problems *[]error) Entries {
	out := make(Entries, len(entries))
	for date, entry := range entries {
		if !IsISODate(date) {
			*problems = append(*problems, fmt.Errorf("%s: dropped non-date key %q", scope, date))
			continue
		}
		out[date] = entry
	}
	return out
}
