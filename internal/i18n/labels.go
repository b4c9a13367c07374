// Package i18n holds the user-facing strings of the timesheet documents in every
// supported language, looked up by language code.
package i18n

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	EN = "EN"
	PL = "PL"
)

// Labels is the set of strings one document needs.
type Labels struct {
	Title          string
	Client         string
	Person         string
	Period         string
	Date           string
	Day            string
	Project        string // table header in PDF
	ProjectShort   string // tabular exports
	Hours          string
	Total          string // PDF footer
	TotalShort     string // tabular exports
	WorkingDays    string
	Contractor     string
	Recipient      string
	TimesheetLabel string
	DocumentRef    string
}

var labels = map[string]Labels{
	EN: {
		Title:          "Timesheet Pro",
		Client:         "Client",
		Person:         "Consultant",
		Period:         "Period",
		Date:           "Date",
		Day:            "Day",
		Project:        "Project name",
		ProjectShort:   "Project",
		Hours:          "Hours",
		Total:          "Total hours:",
		TotalShort:     "Total",
		WorkingDays:    "Working days",
		Contractor:     "Contractor",
		Recipient:      "Recipient",
		TimesheetLabel: "TIMESHEET",
		DocumentRef:    "Document Ref",
	},
	PL: {
		Title:          "Karta czasu pracy",
		Client:         "Klient",
		Person:         "Konsultant",
		Period:         "Okres",
		Date:           "Data",
		Day:            "Dzień",
		Project:        "Nazwa projektu",
		ProjectShort:   "Projekt",
		Hours:          "Godziny",
		Total:          "Suma godzin",
		TotalShort:     "Suma",
		WorkingDays:    "Dni robocze",
		Contractor:     "Wykonawca",
		Recipient:      "Odbiorca",
		TimesheetLabel: "KARTA CZASU PRACY",
		DocumentRef:    "Numer Ref.",
	},
}

var (
	supported = []language.Tag{language.English, language.Polish}
	matcher   = language.NewMatcher(supported)
)

// Normalize maps any language code or BCP 47 tag ("pl", "pl-PL", "en_US") onto a
// supported code. Unknown input resolves to EN.
func Normalize(code string) string {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return EN
	}
	tag, err := language.Parse(code)
	if err != nil {
		return EN
	}
	_, idx, _ := matcher.Match(tag)
	if supported[idx] == language.Polish {
		return PL
	}
	return EN
}

// For returns the labels of a language code.
func For(code string) Labels {
	return labels[Normalize(code)]
}

func tag(code string) language.Tag {
	if Normalize(code) == PL {
		return language.Polish
	}
	return language.English
}

// Upper upper-cases s with the casing rules of the language.
func Upper(code, s string) string {
	return cases.Upper(tag(code)).String(s)
}

// Title capitalises the words of s with the casing rules of the language.
func Title(code, s string) string {
	return cases.Title(tag(code)).String(s)
}

var weekdays = map[string][7]string{
	EN: {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	PL: {"niedziela", "poniedziałek", "wtorek", "środa", "czwartek", "piątek", "sobota"},
}

var months = map[string][12]string{
	EN: {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	PL: {"styczeń", "luty", "marzec", "kwiecień", "maj", "czerwiec", "lipiec", "sierpień", "wrzesień", "październik", "listopad", "grudzień"},
}

// genitive month forms used in Polish full dates ("5 stycznia 2025")
var monthsGenitive = [12]string{
	"stycznia", "lutego", "marca", "kwietnia", "maja", "czerwca", "lipca", "sierpnia", "września", "października", "listopada", "grudnia",
}

// WeekdayName returns the long weekday name.
func WeekdayName(code string, wd time.Weekday) string {
	return weekdays[Normalize(code)][wd]
}

// MonthName returns the long month name for month 1-12, or "" when out of range.
func MonthName(code string, month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return months[Normalize(code)][month-1]
}

// MonthYear formats a period heading such as "March 2025" or "marzec 2025".
func MonthYear(code string, year, month int) string {
	return fmt.Sprintf("%s %d", MonthName(code, month), year)
}

// LongDate formats a full date such as "March 5, 2025" or "5 marca 2025".
func LongDate(code string, t time.Time) string {
	if Normalize(code) == PL {
		return fmt.Sprintf("%d %s %d", t.Day(), monthsGenitive[t.Month()-1], t.Year())
	}
	return fmt.Sprintf("%s %d, %d", months[EN][t.Month()-1], t.Day(), t.Year())
}

// StatsLine summarises a month for the PDF period card.
func StatsLine(code string, workingDays, weekendDays, holidays int, avgHours string) string {
	if Normalize(code) == PL {
		return fmt.Sprintf("%d dni roboczych • %d weekendów • %d świąt • Śr. %sh/dzień", workingDays, weekendDays, holidays, avgHours)
	}
	return fmt.Sprintf("%d work days • %d weekends • %d holidays • Avg %sh/day", workingDays, weekendDays, holidays, avgHours)
}
