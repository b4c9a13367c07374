package export

import (
	"fmt"
	"strings"
)

// Format identifies an artifact type
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Formats lists every artifact type in export order
func Formats() []Format {
	return []Format{FormatPDF, FormatXLSX, FormatCSV}
}

// ParseFormat accepts a format name in any case
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatPDF, FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected pdf, xlsx or csv)", name)
	}
}

// Filename returns the artifact name for a month. Spreadsheets use a zero-padded month,
// the PDF does not.
func Filename(format Format, year, month int) string {
	if format == FormatPDF {
		return fmt.Sprintf("timesheet-%d-%d.pdf", year, month)
	}
	return fmt.Sprintf("timesheet_%d_%02d.%s", year, month, format)
}
