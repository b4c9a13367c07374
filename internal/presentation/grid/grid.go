// Package grid prints a month of entries as a terminal table.
package grid

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/penwyp/go-timesheet/internal/i18n"
	"github.com/penwyp/go-timesheet/internal/presentation/export"
)

const (
	markHoliday = "*"
	markWeekend = "~"
)

// Table renders months as box-drawn tables no wider than Width cells
type Table struct {
	w     io.Writer
	Width int
}

func NewTable(w io.Writer, width int) *Table {
	return &Table{w: w, Width: width}
}

// Render prints the header block, one row per day and the totals
func (t *Table) Render(data model.TimesheetData, lang string) error {
	labels := i18n.For(lang)
	summary := export.Summarize(data)

	headers := []string{"", labels.Date, labels.Day, labels.ProjectShort, labels.Hours}
	rows := make([][]string, 0, len(data.Entries))
	for _, e := range data.Entries {
		mark := ""
		switch {
		case e.IsHoliday:
			mark = markHoliday
		case e.IsWeekend:
			mark = markWeekend
		}
		rows = append(rows, []string{mark, e.Date, e.Day, e.Project, e.Hours})
	}
	total := []string{"", "", "", labels.TotalShort, summary.Total()}

	widths := t.columnWidths(headers, rows, total)

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", labels.Client, orDash(data.Client))
	fmt.Fprintf(&b, "%s: %s\n", labels.Person, orDash(data.Person))
	fmt.Fprintf(&b, "%s: %s\n\n", labels.Period, i18n.MonthYear(lang, data.Year, data.Month))

	t.border(&b, widths, "top")
	t.row(&b, headers, widths)
	t.border(&b, widths, "middle")
	for _, r := range rows {
		t.row(&b, r, widths)
	}
	t.border(&b, widths, "middle")
	t.row(&b, total, widths)
	t.border(&b, widths, "bottom")

	fmt.Fprintf(&b, "%s  %s holiday  %s weekend\n", i18n.StatsLine(lang, summary.WorkingDays, summary.WeekendDays, summary.Holidays, summary.Avg()), markHoliday, markWeekend)

	_, err := io.WriteString(t.w, b.String())
	return err
}

// columnWidths sizes columns to their content. The project column absorbs any overflow
// beyond Width.
func (t *Table) columnWidths(headers []string, rows [][]string, total []string) []int {
	widths := make([]int, len(headers))
	measure := func(values []string) {
		for i, v := range values {
			if w := displayWidth(v); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(headers)
	for _, r := range rows {
		measure(r)
	}
	measure(total)

	if widths[3] < 8 {
		widths[3] = 8
	}

	if t.Width > 0 {
		// each column adds two padding spaces and one border
		used := 1
		for _, w := range widths {
			used += w + 3
		}
		if over := used - t.Width; over > 0 {
			widths[3] -= over
			if widths[3] < 8 {
				widths[3] = 8
			}
		}
	}
	return widths
}

func (t *Table) border(b *strings.Builder, widths []int, kind string) {
	var left, middle, right string
	switch kind {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat("─", w+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right + "\n")
}

func (t *Table) row(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, v := range values {
		v = truncate(v, widths[i])
		// hours are right-aligned
		b.WriteString(" " + pad(v, widths[i], i != len(values)-1) + " │")
	}
	b.WriteString("\n")
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
