package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/penwyp/go-timesheet/internal/i18n"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVRenderer writes the month as UTF-8 CSV with a byte order mark
type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

func (r *CSVRenderer) Format() Format {
	return FormatCSV
}

func (r *CSVRenderer) Render(w io.Writer, data model.TimesheetData, lang string) error {
	t := i18n.For(lang)

	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	out := bufio.NewWriter(bom)

	lines := make([]string, 0, len(data.Entries)+3)
	lines = append(lines, strings.Join([]string{t.Date, t.Day, t.ProjectShort, t.Hours}, ","))
	for _, e := range data.Entries {
		lines = append(lines, strings.Join([]string{
			e.Date,
			quoteCSV(StripHoliday(e.Day)),
			quoteCSV(e.Project),
			escapeCSV(e.Hours),
		}, ","))
	}
	lines = append(lines, "", strings.Join([]string{"", "", t.TotalShort, Summarize(data).Total()}, ","))

	for _, line := range lines {
		if _, err := out.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if err := out.Flush(); err != nil {
		return err
	}
	return bom.Close()
}

// quoteCSV always quotes a field and doubles the quotes inside it
func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// escapeCSV quotes a field only when it would otherwise break the row
func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quoteCSV(s)
	}
	return s
}
