// Package bulkedit computes month-wide edits of the entries mapping. Each operation works on a
// snapshot and returns the complete new mapping, so the caller commits it with a single write.
package bulkedit

import (
	"github.com/penwyp/go-timesheet/internal/core/calendar"
	"github.com/penwyp/go-timesheet/internal/core/model"
)

// ApplyDefaults fills the empty project or hours of every working day with the defaults.
// Non-empty values are kept. Weekends and holidays are never touched.
func ApplyDefaults(days []model.DayInfo, entries model.Entries, defaultProj, defaultHours string) (model.Entries, bool) {
	out := entries.Clone()
	changed := false

	for _, day := range days {
		if !day.IsWorkingDay() {
			continue
		}

		current := out[day.Date]
		if current.Project != "" && current.Hours != "" {
			continue
		}

		next := current
		if next.Project == "" {
			next.Project = defaultProj
		}
		if next.Hours == "" {
			next.Hours = defaultHours
		}
		if next == current {
			continue
		}

		out[day.Date] = next
		changed = true
	}

	return out, changed
}

// CopyPreviousMonth copies, for every working day of (year, month), the entry stored under the
// same day number of the previous month, overwriting the current value. Days whose number does
// not exist in the previous month are skipped.
func CopyPreviousMonth(days []model.DayInfo, entries model.Entries, year, month int) (model.Entries, bool) {
	prevYear, prevMonth := calendar.PreviousMonth(year, month)
	out := entries.Clone()
	changed := false

	for _, day := range days {
		if !day.IsWorkingDay() {
			continue
		}

		dayNum := day.DayOfMonth()
		if dayNum == 0 {
			continue
		}

		prev, ok := entries[model.FormatISODate(prevYear, prevMonth, dayNum)]
		if !ok {
			continue
		}

		out[day.Date] = model.Entry{Project: prev.Project, Hours: prev.Hours}
		changed = true
	}

	return out, changed
}
