package export

import (
	"fmt"
	"io"

	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/penwyp/go-timesheet/internal/i18n"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single worksheet
const SheetName = "Timesheet"

// hours columns show one decimal, like the other formats
var hoursNumFmt = "0.0"

type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) Format() Format {
	return FormatXLSX
}

// Render writes a workbook with a metadata block, one row per day and the summary rows.
// Hours are numeric cells so spreadsheet formulas work on them.
func (r *XLSXRenderer) Render(w io.Writer, data model.TimesheetData, lang string) (err error) {
	t := i18n.For(lang)

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	hoursStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &hoursNumFmt})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &hoursNumFmt})
	if err != nil {
		return err
	}

	row := 1
	setRow := func(values ...interface{}) (string, error) {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return "", err
		}
		row++
		return cell, nil
	}

	if _, err := setRow(t.Client, data.Client); err != nil {
		return err
	}
	if _, err := setRow(t.Person, data.Person); err != nil {
		return err
	}
	if _, err := setRow(t.Period, fmt.Sprintf("%02d/%d", data.Month, data.Year)); err != nil {
		return err
	}
	row++

	header, err := setRow(t.Date, t.Day, t.ProjectShort, t.Hours)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, header, fmt.Sprintf("D%d", row-1), bold); err != nil {
		return err
	}

	firstData := row
	for _, e := range data.Entries {
		var hours interface{}
		if e.Hours != "" {
			hours = model.ParseHours(e.Hours).InexactFloat64()
		}
		if _, err := setRow(e.Date, StripHoliday(e.Day), e.Project, hours); err != nil {
			return err
		}
	}
	if row > firstData {
		if err := f.SetCellStyle(SheetName, fmt.Sprintf("D%d", firstData), fmt.Sprintf("D%d", row-1), hoursStyle); err != nil {
			return err
		}
	}
	row++

	summary := Summarize(data)
	if _, err := setRow("", "", t.TotalShort, summary.TotalHours.InexactFloat64()); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, fmt.Sprintf("C%d", row-1), fmt.Sprintf("D%d", row-1), totalStyle); err != nil {
		return err
	}
	if _, err := setRow("", "", t.WorkingDays, summary.FilledDays); err != nil {
		return err
	}

	for col, width := range map[string]float64{"A": 12, "B": 15, "C": 40, "D": 10} {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return err
		}
	}

	return f.Write(w)
}
