package export

import (
	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/shopspring/decimal"
)

// Summary holds the month statistics shown in the document headers and footers.
type Summary struct {
	// WorkingDays counts weekdays that are not holidays and have hours above zero.
	WorkingDays int `json:"workingDays"`
	WeekendDays int `json:"weekendDays"`
	// Holidays counts holidays falling on weekdays.
	Holidays int `json:"holidays"`
	// FilledDays counts weekdays that are not holidays and have a project.
	FilledDays int             `json:"filledDays"`
	TotalHours decimal.Decimal `json:"totalHours"`
	AvgHours   decimal.Decimal `json:"avgHours"`
}

// Summarize computes the statistics of a month
func Summarize(data model.TimesheetData) Summary {
	s := Summary{TotalHours: data.TotalHours()}

	for _, e := range data.Entries {
		switch {
		case e.IsWeekend:
			s.WeekendDays++
		case e.IsHoliday:
			s.Holidays++
		default:
			if model.ParseHours(e.Hours).IsPositive() {
				s.WorkingDays++
			}
			if e.Project != "" {
				s.FilledDays++
			}
		}
	}

	s.AvgHours = decimal.Zero
	if s.WorkingDays > 0 {
		s.AvgHours = s.TotalHours.Div(decimal.NewFromInt(int64(s.WorkingDays)))
	}
	return s
}

// Total returns the total formatted the way every document prints it
func (s Summary) Total() string {
	return model.FormatHours(s.TotalHours)
}

func (s Summary) Avg() string {
	return model.FormatHours(s.AvgHours)
}
