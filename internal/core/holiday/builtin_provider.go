package holiday

import (
	"context"
	"fmt"
	"time"
)

// BuiltinProvider computes national holidays locally, without network access.
// Only regions with a rule set are covered; others report ErrHolidaysUnavailable.
type BuiltinProvider struct{}

// NewBuiltinProvider creates a new offline holiday provider
func NewBuiltinProvider() *BuiltinProvider {
	return &BuiltinProvider{}
}

// GetProviderName returns the name of this holiday provider
func (p *BuiltinProvider) GetProviderName() string {
	return "builtin"
}

// Fetch returns the computed holidays of year for region
func (p *BuiltinProvider) Fetch(ctx context.Context, year int, region string) (map[string]string, error) {
	switch region {
	case "PL":
		return polishHolidays(year), nil
	case "DE":
		return germanHolidays(year), nil
	default:
		return nil, fmt.Errorf("%w: no built-in rules for region %s", ErrHolidaysUnavailable, region)
	}
}

func polishHolidays(year int) map[string]string {
	easter := easterSunday(year)
	h := map[string]string{
		isoDate(year, 1, 1):              "Nowy Rok",
		isoDate(year, 1, 6):              "Święto Trzech Króli",
		isoDay(easter):                   "Wielkanoc",
		isoDay(easter.AddDate(0, 0, 1)):  "Drugi Dzień Wielkanocy",
		isoDate(year, 5, 1):              "Święto Pracy",
		isoDate(year, 5, 3):              "Święto Narodowe Trzeciego Maja",
		isoDay(easter.AddDate(0, 0, 49)): "Zielone Świątki",
		isoDay(easter.AddDate(0, 0, 60)): "Boże Ciało",
		isoDate(year, 8, 15):             "Wniebowzięcie Najświętszej Maryi Panny",
		isoDate(year, 11, 1):             "Wszystkich Świętych",
		isoDate(year, 11, 11):            "Narodowe Święto Niepodległości",
		isoDate(year, 12, 25):            "Pierwszy Dzień Bożego Narodzenia",
		isoDate(year, 12, 26):            "Drugi Dzień Bożego Narodzenia",
	}
	// Christmas Eve became a public holiday in 2025
	if year >= 2025 {
		h[isoDate(year, 12, 24)] = "Wigilia Bożego Narodzenia"
	}
	return h
}

func germanHolidays(year int) map[string]string {
	easter := easterSunday(year)
	return map[string]string{
		isoDate(year, 1, 1):              "Neujahr",
		isoDay(easter.AddDate(0, 0, -2)): "Karfreitag",
		isoDay(easter.AddDate(0, 0, 1)):  "Ostermontag",
		isoDate(year, 5, 1):              "Tag der Arbeit",
		isoDay(easter.AddDate(0, 0, 39)): "Christi Himmelfahrt",
		isoDay(easter.AddDate(0, 0, 50)): "Pfingstmontag",
		isoDate(year, 10, 3):             "Tag der Deutschen Einheit",
		isoDate(year, 12, 25):            "Erster Weihnachtstag",
		isoDate(year, 12, 26):            "Zweiter Weihnachtstag",
	}
}

// easterSunday uses the Meeus/Jones/Butcher algorithm (Gregorian calendar)
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
}

func isoDate(year, month, day int) string {
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC).Format("2006-01-02")
}

func isoDay(t time.Time) string {
	return t.Format("2006-01-02")
}
