package grid

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMonth() model.TimesheetData {
	return model.TimesheetData{
		Client: "ACME",
		Year:   2025,
		Month:  1,
		Entries: []model.TimesheetEntry{
			{Date: "2025-01-01", Day: "Wednesday (New Year's Day)", IsHoliday: true, HolidayName: "New Year's Day"},
			{Date: "2025-01-02", Day: "Thursday", Project: "Zażółć gęślą jaźń", Hours: "8"},
			{Date: "2025-01-04", Day: "Saturday", IsWeekend: true},
			{Date: "2025-01-06", Day: "Monday", Project: "A very long project name that keeps going and going", Hours: "4.5"},
		},
	}
}

func TestTable_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTable(&buf, 0).Render(sampleMonth(), "EN"))
	out := buf.String()

	assert.Contains(t, out, "Client: ACME")
	assert.Contains(t, out, "Consultant: —")
	assert.Contains(t, out, "Period: January 2025")
	assert.Contains(t, out, "Wednesday (New Year's Day)")
	assert.Contains(t, out, "A very long project name that keeps going and going")
	assert.Contains(t, out, "12.5")
	assert.Contains(t, out, "2 work days")
}

func TestTable_RowsLineUp(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTable(&buf, 0).Render(sampleMonth(), "PL"))

	var tableLines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "│") || strings.HasPrefix(line, "┌") || strings.HasPrefix(line, "├") || strings.HasPrefix(line, "└") {
			tableLines = append(tableLines, line)
		}
	}
	require.NotEmpty(t, tableLines)

	width := displayWidth(tableLines[0])
	for _, line := range tableLines {
		assert.Equal(t, width, displayWidth(line), line)
	}
}

func TestTable_TruncatesProjectToWidth(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTable(&buf, 70).Render(sampleMonth(), "EN"))

	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "│") {
			assert.LessOrEqual(t, displayWidth(line), 70, line)
		}
	}
	assert.Contains(t, buf.String(), "…")
}

func TestPadAndTruncate(t *testing.T) {
	assert.Equal(t, "ab  ", pad("ab", 4, true))
	assert.Equal(t, "  ab", pad("ab", 4, false))
	assert.Equal(t, "abcdef", pad("abcdef", 4, true))
	assert.Equal(t, "日本 ", pad("日本", 5, true))

	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "", truncate("abc", 0))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleMonth()))

	var decoded map[string]interface{}
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "ACME", decoded["client"])
	assert.Len(t, decoded["entries"], 4)

	summary, ok := decoded["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "12.5", summary["totalHours"])
	assert.EqualValues(t, 2, summary["workingDays"])
}
