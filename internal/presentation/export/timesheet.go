// Package export renders one month of entries as PDF, XLSX or CSV documents.
package export

import (
	"strings"

	"github.com/penwyp/go-timesheet/internal/core/model"
)

// holidaySeparator joins a day name and a holiday name in a row's day label
const holidaySeparator = " ("

// BuildTimesheetData joins the days of a month with the stored entries. Every renderer
// consumes the result, so all formats agree on the rows and their totals.
func BuildTimesheetData(days []model.DayInfo, data model.PersistedData) model.TimesheetData {
	rows := make([]model.TimesheetEntry, 0, len(days))
	for _, day := range days {
		entry := data.Entries[day.Date]

		label := day.DayName
		if day.IsHoliday {
			label = day.DayName + holidaySeparator + day.HolidayName + ")"
		}

		rows = append(rows, model.TimesheetEntry{
			Date:        day.Date,
			Day:         label,
			Project:     entry.Project,
			Hours:       entry.Hours,
			IsWeekend:   day.IsWeekend,
			IsHoliday:   day.IsHoliday,
			HolidayName: day.HolidayName,
		})
	}

	return model.TimesheetData{
		Client:  data.Client,
		Person:  data.Person,
		Year:    data.Year,
		Month:   data.Month,
		Entries: rows,
		Logo:    data.LogoData(),
		Ref:     data.CustomRef,
	}
}

// StripHoliday removes the holiday suffix from a day label
func StripHoliday(label string) string {
	if i := strings.Index(label, holidaySeparator); i >= 0 {
		return label[:i]
	}
	return label
}

// holidayName returns the holiday of a row. Rows built elsewhere may only carry the
// name inside the day label.
func holidayName(e model.TimesheetEntry) string {
	if e.HolidayName != "" {
		return e.HolidayName
	}
	open := strings.Index(e.Day, "(")
	end := strings.LastIndex(e.Day, ")")
	if open < 0 || end <= open {
		return ""
	}
	return e.Day[open+1 : end]
}
