// Package calendar derives the day list of a month, flagging weekends and public holidays.
package calendar

import (
	"context"
	"time"

	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/penwyp/go-timesheet/internal/i18n"
)

// HolidaySource resolves the holidays of a year and region. It must not fail.
type HolidaySource interface {
	FetchHolidays(ctx context.Context, year int, region string) map[string]string
}

// Builder produces month day lists. It does not memoize; caching is the source's concern.
type Builder struct {
	holidays HolidaySource
}

// NewBuilder creates a builder backed by holidays
func NewBuilder(holidays HolidaySource) *Builder {
	return &Builder{holidays: holidays}
}

// GetMonthDays returns one DayInfo per day of month (1-12) in ascending order.
// An out-of-range month yields an empty list.
func (b *Builder) GetMonthDays(ctx context.Context, year, month int, region, lang string) []model.DayInfo {
	if month < 1 || month > 12 {
		return []model.DayInfo{}
	}

	holidays := b.holidays.FetchHolidays(ctx, year, region)
	count := DaysInMonth(year, month)
	days := make([]model.DayInfo, 0, count)

	for day := 1; day <= count; day++ {
		date := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
		iso := model.FormatISODate(year, month, day)
		name := holidays[iso]

		days = append(days, model.DayInfo{
			Date:        iso,
			DayName:     i18n.WeekdayName(lang, date.Weekday()),
			IsWeekend:   IsWeekend(date),
			HolidayName: name,
			IsHoliday:   name != "",
		})
	}
	return days
}

// DaysInMonth returns the number of days in month of year, leap years included.
func DaysInMonth(year, month int) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// PreviousMonth returns the month before (year, month), rolling January back to December.
func PreviousMonth(year, month int) (int, int) {
	if month <= 1 {
		return year - 1, 12
	}
	return year, month - 1
}
