// Package editor is the single owner of the timesheet state. Commands act through it and
// never touch the state file, the holiday cache or the renderers directly.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-timesheet/internal/core/bulkedit"
	"github.com/penwyp/go-timesheet/internal/core/calendar"
	"github.com/penwyp/go-timesheet/internal/core/holiday"
	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/penwyp/go-timesheet/internal/data/store"
	"github.com/penwyp/go-timesheet/internal/presentation/export"
	"github.com/penwyp/go-timesheet/internal/util"
)

// ErrNoMatchingEntries is returned when the previous month has nothing to copy onto the
// working days of the current month
var ErrNoMatchingEntries = errors.New("no matching entries in the previous month")

// HolidayService is the holiday provider as the editor uses it
type HolidayService interface {
	calendar.HolidaySource
	Refresh(ctx context.Context, year int, region string) (map[string]string, error)
	ClearCache() error
}

// Option customises an Editor
type Option func(*Editor)

// WithHolidayService replaces the configured holiday provider
func WithHolidayService(h HolidayService) Option {
	return func(e *Editor) {
		e.holidays = h
	}
}

// WithExporter replaces the default renderers
func WithExporter(x *export.Exporter) Option {
	return func(e *Editor) {
		e.exporter = x
	}
}

// WithClock sets the time used for backups and the PDF generation date
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}

type Editor struct {
	config   *Config
	store    *store.Store
	holidays HolidayService
	calendar *calendar.Builder
	exporter *export.Exporter
	previews *export.PreviewRegistry
	now      func() time.Time
}

// New opens the state file named by cfg and wires the holiday provider and renderers
func New(cfg *Config, opts ...Option) (*Editor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Editor{
		config:   cfg,
		store:    store.New(util.ExpandPath(cfg.DataFile)),
		previews: export.NewPreviewRegistry(),
		now:      util.GetTimeProvider().Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.holidays == nil {
		provider, err := holiday.CreateHolidayProvider(&cfg.Holidays, util.ExpandPath(cfg.CacheDir))
		if err != nil {
			return nil, fmt.Errorf("failed to create holiday provider: %w", err)
		}
		e.holidays = provider
	}
	if e.exporter == nil {
		pdfOpts := []export.PDFOption{export.WithPDFClock(e.now)}
		if cfg.FontDir != "" {
			pdfOpts = append(pdfOpts, export.WithFontDir(util.ExpandPath(cfg.FontDir)))
		}
		e.exporter = export.NewExporter(export.NewPDFRenderer(pdfOpts...), export.NewXLSXRenderer(), export.NewCSVRenderer())
	}
	e.calendar = calendar.NewBuilder(e.holidays)

	e.store.Load()
	return e, nil
}

// Store exposes the underlying store for watchers
func (e *Editor) Store() *store.Store {
	return e.store
}

// Previews returns the registry serving PDF previews
func (e *Editor) Previews() *export.PreviewRegistry {
	return e.previews
}

// State returns a copy of the current state
func (e *Editor) State() model.PersistedData {
	return e.store.Snapshot()
}

// Reload picks up changes another process wrote to the state file
func (e *Editor) Reload() (bool, error) {
	return e.store.Reload()
}

// Days returns the calendar of the selected month
func (e *Editor) Days(ctx context.Context) []model.DayInfo {
	state := e.store.Snapshot()
	return e.calendar.GetMonthDays(ctx, state.Year, state.Month, state.HolidayBank, state.Lang)
}

// TimesheetData joins the selected month with its entries
func (e *Editor) TimesheetData(ctx context.Context) model.TimesheetData {
	state := e.store.Snapshot()
	return e.MonthData(ctx, state.Year, state.Month)
}

// MonthData joins any month with the stored entries without changing the selection
func (e *Editor) MonthData(ctx context.Context, year, month int) model.TimesheetData {
	state := e.store.Snapshot()
	state.Year, state.Month = year, month
	days := e.calendar.GetMonthDays(ctx, year, month, state.HolidayBank, state.Lang)
	return export.BuildTimesheetData(days, state)
}

// SetEntry edits one day. A nil project or hours keeps the stored value.
func (e *Editor) SetEntry(date string, project, hours *string) error {
	current := e.store.Snapshot().Entries[date]
	if project != nil {
		current.Project = *project
	}
	if hours != nil {
		current.Hours = *hours
	}
	return e.store.SaveEntry(date, current.Project, current.Hours)
}

// ApplyDefaults fills the empty fields of the selected month's working days with the
// default project and hours. It reports whether anything changed.
func (e *Editor) ApplyDefaults(ctx context.Context) (bool, error) {
	state := e.store.Snapshot()
	days := e.calendar.GetMonthDays(ctx, state.Year, state.Month, state.HolidayBank, state.Lang)

	entries, changed := bulkedit.ApplyDefaults(days, state.Entries, state.DefaultProj, state.DefaultHours)
	if !changed {
		return false, nil
	}
	if err := e.store.SaveData(model.Partial{Entries: entries}); err != nil {
		return false, err
	}
	util.LogInfo(fmt.Sprintf("Applied defaults to %04d-%02d", state.Year, state.Month))
	return true, nil
}

// CopyPreviousMonth copies the previous month's entries onto the working days with the same
// day number. It fails with ErrNoMatchingEntries when nothing matched.
func (e *Editor) CopyPreviousMonth(ctx context.Context) error {
	state := e.store.Snapshot()
	days := e.calendar.GetMonthDays(ctx, state.Year, state.Month, state.HolidayBank, state.Lang)

	entries, changed := bulkedit.CopyPreviousMonth(days, state.Entries, state.Year, state.Month)
	if !changed {
		prevYear, prevMonth := calendar.PreviousMonth(state.Year, state.Month)
		return fmt.Errorf("%w (%04d-%02d)", ErrNoMatchingEntries, prevYear, prevMonth)
	}
	if err := e.store.SaveData(model.Partial{Entries: entries}); err != nil {
		return err
	}
	util.LogInfo(fmt.Sprintf("Copied previous month into %04d-%02d", state.Year, state.Month))
	return nil
}

// SaveTemplate stores the current entries under name and returns the template id
func (e *Editor) SaveTemplate(name string) (string, error) {
	if name == "" {
		return "", errors.New("template name must not be empty")
	}
	return e.store.SaveTemplate(name, e.store.Snapshot().Entries)
}

func (e *Editor) LoadTemplate(id string) error {
	return e.store.LoadTemplate(id)
}

func (e *Editor) DeleteTemplate(id string) error {
	return e.store.DeleteTemplate(id)
}

func (e *Editor) Templates() []store.TemplateInfo {
	return e.store.Templates()
}

// Clear resets everything to defaults
func (e *Editor) Clear() error {
	return e.store.ClearData()
}

// ExportBackup writes the versioned backup of the whole state
func (e *Editor) ExportBackup(w io.Writer) error {
	return e.store.ExportBackup(w, e.now())
}

// BackupFilename names a backup taken now
func (e *Editor) BackupFilename() string {
	return store.BackupFilename(e.now())
}

// ImportBackup merges a backup or bare state object over the current state
func (e *Editor) ImportBackup(r io.Reader) error {
	return e.store.ImportBackup(r)
}

// Export writes one artifact of the selected month into dir, or the configured output
// directory when dir is empty
func (e *Editor) Export(ctx context.Context, format export.Format, dir string) (string, error) {
	if dir == "" {
		dir = e.config.OutputDir
	}
	data := e.TimesheetData(ctx)
	return e.exporter.ExportFile(format, data, e.store.Snapshot().Lang, util.ExpandPath(dir))
}

// ExportAll writes every format. It stops at the first failure.
func (e *Editor) ExportAll(ctx context.Context, dir string) ([]string, error) {
	var paths []string
	for _, format := range export.Formats() {
		path, err := e.Export(ctx, format, dir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Preview renders the PDF in memory and publishes it, revoking the previous preview
func (e *Editor) Preview(ctx context.Context) (string, error) {
	data := e.TimesheetData(ctx)
	pdf, err := e.exporter.Render(export.FormatPDF, data, e.store.Snapshot().Lang)
	if err != nil {
		return "", err
	}
	url := e.previews.Publish(pdf)
	util.LogDebug(fmt.Sprintf("Published preview %s (%d bytes)", url, len(pdf)))
	return url, nil
}

// Holidays returns the holidays of a year and region, using the cache
func (e *Editor) Holidays(ctx context.Context, year int, region string) map[string]string {
	return e.holidays.FetchHolidays(ctx, year, region)
}

// RefreshHolidays bypasses the cache and reports fetch failures
func (e *Editor) RefreshHolidays(ctx context.Context, year int, region string) (map[string]string, error) {
	return e.holidays.Refresh(ctx, year, region)
}

func (e *Editor) ClearHolidayCache() error {
	return e.holidays.ClearCache()
}
