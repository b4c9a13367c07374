package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/penwyp/go-timesheet/internal/util"
)

// ErrExportInProgress is returned when an export of the same format is already running
var ErrExportInProgress = errors.New("export already in progress")

// Renderer turns a month into one artifact format
type Renderer interface {
	Format() Format
	Render(w io.Writer, data model.TimesheetData, lang string) error
}

// Exporter runs renderers and allows one export per format at a time
type Exporter struct {
	mu        sync.Mutex
	renderers map[Format]Renderer
	inFlight  map[Format]bool
}

// NewExporter registers renderers by format. With no arguments the PDF, XLSX and CSV
// renderers are used with their defaults.
func NewExporter(renderers ...Renderer) *Exporter {
	if len(renderers) == 0 {
		renderers = []Renderer{NewPDFRenderer(), NewXLSXRenderer(), NewCSVRenderer()}
	}

	e := &Exporter{
		renderers: make(map[Format]Renderer, len(renderers)),
		inFlight:  make(map[Format]bool),
	}
	for _, r := range renderers {
		e.renderers[r.Format()] = r
	}
	return e
}

// IsExporting reports whether an export of format is running
func (e *Exporter) IsExporting(format Format) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight[format]
}

func (e *Exporter) acquire(format Format) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inFlight[format] {
		return fmt.Errorf("%w: %s", ErrExportInProgress, format)
	}
	e.inFlight[format] = true
	return nil
}

func (e *Exporter) release(format Format) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, format)
}

// Render produces the artifact in memory
func (e *Exporter) Render(format Format, data model.TimesheetData, lang string) ([]byte, error) {
	renderer, ok := e.renderers[format]
	if !ok {
		return nil, fmt.Errorf("no renderer for format %q", format)
	}

	if err := e.acquire(format); err != nil {
		return nil, err
	}
	defer e.release(format)

	var buf bytes.Buffer
	if err := renderer.Render(&buf, data, lang); err != nil {
		return nil, fmt.Errorf("%s export failed: %w", format, err)
	}
	return buf.Bytes(), nil
}

// ExportFile renders the artifact and writes it into dir under its conventional name.
// The file only appears once it is complete.
func (e *Exporter) ExportFile(format Format, data model.TimesheetData, lang, dir string) (string, error) {
	content, err := e.Render(format, data, lang)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename(format, data.Year, data.Month))
	if err := util.WriteFileAtomic(path, content, 0644); err != nil {
		return "", fmt.Errorf("%s export failed: %w", format, err)
	}

	util.LogInfo(fmt.Sprintf("Exported %s (%d bytes)", path, len(content)))
	return path, nil
}
