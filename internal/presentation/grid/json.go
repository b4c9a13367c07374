package grid

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/penwyp/go-timesheet/internal/presentation/export"
)

// MonthView is the machine-readable form of one month
type MonthView struct {
	model.TimesheetData
	Summary export.Summary `json:"summary"`
}

// WriteJSON prints the month with its summary as indented JSON
func WriteJSON(w io.Writer, data model.TimesheetData) error {
	out, err := sonic.MarshalIndent(MonthView{TimesheetData: data, Summary: export.Summarize(data)}, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}
