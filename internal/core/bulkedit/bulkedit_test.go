package bulkedit

import (
	"context"
	"testing"

	"github.com/penwyp/go-timesheet/internal/core/calendar"
	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holidayMap map[string]string

func (h holidayMap) FetchHolidays(ctx context.Context, year int, region string) map[string]string {
	return h
}

func monthDays(year, month int, holidays holidayMap) []model.DayInfo {
	return calendar.NewBuilder(holidays).GetMonthDays(context.Background(), year, month, "PL", "EN")
}

func TestApplyDefaults_FillsOnlyMissingFields(t *testing.T) {
	days := monthDays(2025, 3, nil)
	entries := model.Entries{
		"2025-03-03": {Project: "Existing", Hours: ""},
		"2025-03-04": {Project: "", Hours: "6"},
		"2025-03-05": {Project: "Full", Hours: "4"},
	}

	out, changed := ApplyDefaults(days, entries, "Default", "8")

	require.True(t, changed)
	assert.Equal(t, model.Entry{Project: "Existing", Hours: "8"}, out["2025-03-03"])
	assert.Equal(t, model.Entry{Project: "Default", Hours: "6"}, out["2025-03-04"])
	assert.Equal(t, model.Entry{Project: "Full", Hours: "4"}, out["2025-03-05"])
	assert.Equal(t, model.Entry{Project: "Default", Hours: "8"}, out["2025-03-06"])

	// March 2025 has 21 working days
	assert.Len(t, out, 21)

	// input snapshot is untouched
	assert.Equal(t, model.Entry{Project: "Existing", Hours: ""}, entries["2025-03-03"])
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	days := monthDays(2025, 5, holidayMap{"2025-05-01": "Święto Pracy"})
	entries := model.Entries{"2025-05-05": {Project: "Keep", Hours: ""}}

	once, changed := ApplyDefaults(days, entries, "Default", "8")
	require.True(t, changed)

	twice, changedAgain := ApplyDefaults(days, once, "Default", "8")
	assert.False(t, changedAgain)
	assert.Equal(t, once, twice)
}

func TestApplyDefaults_EmptyDefaultsChangeNothing(t *testing.T) {
	days := monthDays(2025, 3, nil)
	_, changed := ApplyDefaults(days, model.Entries{}, "", "")
	assert.False(t, changed)
}

func TestBulkEdits_NeverTouchWeekendsOrHolidays(t *testing.T) {
	holidays := holidayMap{"2025-02-12": "Test Holiday"}
	days := monthDays(2025, 2, holidays)

	previous := model.Entries{}
	for day := 1; day <= 31; day++ {
		previous[model.FormatISODate(2025, 1, day)] = model.Entry{Project: "Prev", Hours: "5"}
	}

	defaulted, _ := ApplyDefaults(days, model.Entries{}, "Default", "8")
	copied, _ := CopyPreviousMonth(days, previous, 2025, 2)

	for _, day := range days {
		if day.IsWorkingDay() {
			continue
		}
		assert.NotContains(t, defaulted, day.Date, "defaults written to %s", day.Date)
		assert.NotContains(t, copied, day.Date, "copy written to %s", day.Date)
	}
}

func TestCopyPreviousMonth(t *testing.T) {
	days := monthDays(2025, 2, nil)
	entries := model.Entries{
		"2025-01-15": {Project: "A", Hours: "8"},
		"2025-01-17": {Project: "A", Hours: "8"},
		"2025-02-17": {Project: "Old", Hours: "1"},
	}

	out, changed := CopyPreviousMonth(days, entries, 2025, 2)

	require.True(t, changed)
	// 2025-02-15 is a Saturday
	assert.NotContains(t, out, "2025-02-15")
	assert.Equal(t, model.Entry{Project: "A", Hours: "8"}, out["2025-02-17"])
	assert.Equal(t, model.Entry{Project: "A", Hours: "8"}, out["2025-01-15"])
}

func TestCopyPreviousMonth_YearRollover(t *testing.T) {
	days := monthDays(2025, 1, nil)
	entries := model.Entries{"2024-12-02": {Project: "December", Hours: "7"}}

	out, changed := CopyPreviousMonth(days, entries, 2025, 1)

	require.True(t, changed)
	assert.Equal(t, model.Entry{Project: "December", Hours: "7"}, out["2025-01-02"])
}

func TestCopyPreviousMonth_NoMatches(t *testing.T) {
	days := monthDays(2025, 2, nil)
	entries := model.Entries{"2025-02-03": {Project: "Current", Hours: "8"}}

	out, changed := CopyPreviousMonth(days, entries, 2025, 2)

	assert.False(t, changed)
	assert.Equal(t, entries, out)
}
