package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/penwyp/go-timesheet/internal/i18n"
	"github.com/penwyp/go-timesheet/internal/util"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// BrandText is printed in the header when no logo can be embedded
	BrandText = "TIMESHEET PRO"

	fontFamilyUTF8 = "Roboto"
	fontFamilyCore = "Helvetica"
	fontRegular    = "Roboto-Regular.ttf"
	fontBold       = "Roboto-Bold.ttf"

	pageMargin   = 10.0
	headerHeight = 32.0
	cardY        = 38.0
	cardHeight   = 22.0
	tableBottom  = 28.0
	ptToMM       = 25.4 / 72
)

var errUnsupportedLogo = errors.New("unsupported logo format")

type rgb struct{ r, g, b int }

var (
	colorHeaderBar  = rgb{25, 25, 25}
	colorTableHead  = rgb{35, 35, 35}
	colorCard       = rgb{250, 250, 250}
	colorGrid       = rgb{220, 220, 220}
	colorAltRow     = rgb{252, 252, 252}
	colorHolidayBg  = rgb{232, 245, 233}
	colorHolidayFg  = rgb{46, 125, 50}
	colorWeekendBg  = rgb{245, 245, 245}
	colorWeekendFg  = rgb{150, 150, 150}
	colorFooterBg   = rgb{240, 240, 240}
	colorBottomBar  = rgb{248, 248, 248}
	colorText       = rgb{30, 30, 30}
	colorMuted      = rgb{120, 120, 120}
	colorWhite      = rgb{255, 255, 255}
	colorSubtleText = rgb{180, 180, 180}
)

// PDFOption configures a PDFRenderer
type PDFOption func(*PDFRenderer)

// WithFontDir points the renderer at a directory holding Roboto-Regular.ttf and
// Roboto-Bold.ttf. Without them the core Helvetica font is used and characters outside
// Windows-1252 lose their diacritics.
func WithFontDir(dir string) PDFOption {
	return func(r *PDFRenderer) {
		r.fontDir = dir
	}
}

// WithPDFClock overrides the time used for the generation date and document reference
func WithPDFClock(now func() time.Time) PDFOption {
	return func(r *PDFRenderer) {
		r.now = now
	}
}

// PDFRenderer draws the single-page A4 timesheet
type PDFRenderer struct {
	fontDir  string
	now      func() time.Time
	compress bool
}

func NewPDFRenderer(opts ...PDFOption) *PDFRenderer {
	r := &PDFRenderer{now: time.Now, compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PDFRenderer) Format() Format {
	return FormatPDF
}

// DocumentRef builds the generated reference TS-YYYYMM-XXXX, where XXXX are the last four
// base-36 digits of the millisecond clock.
func DocumentRef(year, month int, now time.Time) string {
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	if len(stamp) > 4 {
		stamp = stamp[len(stamp)-4:]
	}
	return fmt.Sprintf("TS-%d%02d-%s", year, month, stamp)
}

// pdfRow is one table row as printed
type pdfRow struct {
	cells [4]string
	bg    *rgb
	fg    *rgb
}

// pdfLayout holds every value the document prints, computed before any drawing
type pdfLayout struct {
	labels    i18n.Labels
	lang      string
	ref       string
	generated time.Time
	period    string
	stats     string
	total     string
	rows      []pdfRow
	fontSize  float64
	padding   float64
}

func (r *PDFRenderer) layout(data model.TimesheetData, lang string) pdfLayout {
	now := r.now()
	summary := Summarize(data)

	ref := data.Ref
	if ref == "" {
		ref = DocumentRef(data.Year, data.Month, now)
	}

	l := pdfLayout{
		labels:    i18n.For(lang),
		lang:      lang,
		ref:       ref,
		generated: now,
		period:    i18n.MonthYear(lang, data.Year, data.Month),
		stats:     i18n.StatsLine(lang, summary.WorkingDays, summary.WeekendDays, summary.Holidays, summary.Avg()),
		total:     summary.Total() + "h",
	}

	switch n := len(data.Entries); {
	case n > 28:
		l.fontSize, l.padding = 6.5, 0.8
	case n > 25:
		l.fontSize, l.padding = 7, 1
	default:
		l.fontSize, l.padding = 7.5, 1.2
	}

	for i, e := range data.Entries {
		day, project := e.Day, e.Project
		if e.IsHoliday {
			if name := holidayName(e); name != "" {
				day = StripHoliday(e.Day)
				if project != "" {
					project = fmt.Sprintf("%s (%s)", project, name)
				} else {
					project = name
				}
			}
		}

		row := pdfRow{cells: [4]string{e.Date, day, project, e.Hours}}
		switch {
		case e.IsHoliday:
			row.bg, row.fg = &colorHolidayBg, &colorHolidayFg
		case e.IsWeekend:
			row.bg, row.fg = &colorWeekendBg, &colorWeekendFg
		case i%2 == 1:
			row.bg = &colorAltRow
		}
		l.rows = append(l.rows, row)
	}

	return l
}

// Render draws the document and writes it to w. The preview sink and the file sink both
// go through here, so their bytes match for the same input and clock.
func (r *PDFRenderer) Render(w io.Writer, data model.TimesheetData, lang string) error {
	l := r.layout(data, lang)

	doc := r.newDocument()
	doc.SetCreationDate(l.generated)
	doc.SetTitle(fmt.Sprintf("%s %s", l.labels.TimesheetLabel, l.period), true)
	if data.Person != "" {
		doc.SetAuthor(data.Person, true)
	}
	doc.AddPage()

	doc.drawHeader(l, data.Logo)
	doc.drawCards(l, data)
	finalY := doc.drawTable(l)
	doc.drawFooter(l, finalY)

	if err := doc.Error(); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return doc.Output(w)
}

// document wraps fpdf with the font family and text encoding chosen at construction
type document struct {
	*fpdf.Fpdf
	family string
	encode func(string) string
}

func (r *PDFRenderer) newDocument() *document {
	if r.fontDir != "" && fileExists(filepath.Join(r.fontDir, fontRegular)) && fileExists(filepath.Join(r.fontDir, fontBold)) {
		pdf := fpdf.New("P", "mm", "A4", r.fontDir)
		pdf.AddUTF8Font(fontFamilyUTF8, "", fontRegular)
		pdf.AddUTF8Font(fontFamilyUTF8, "B", fontBold)
		if pdf.Ok() {
			d := &document{Fpdf: pdf, family: fontFamilyUTF8, encode: func(s string) string { return s }}
			d.configure(r.compress)
			return d
		}
		util.LogWarn(fmt.Sprintf("Failed to load fonts from %s, using Helvetica: %v", r.fontDir, pdf.Error()))
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	d := &document{Fpdf: pdf, family: fontFamilyCore, encode: func(s string) string { return translate(foldToCP1252(s)) }}
	d.configure(r.compress)
	return d
}

func (d *document) configure(compress bool) {
	d.SetCompression(compress)
	d.SetMargins(pageMargin, pageMargin, pageMargin)
	d.SetAutoPageBreak(false, 0)
	d.SetLineWidth(0.1)
}

func (d *document) font(style string, size float64) {
	d.SetFont(d.family, style, size)
}

func (d *document) fill(c rgb)      { d.SetFillColor(c.r, c.g, c.b) }
func (d *document) textColor(c rgb) { d.SetTextColor(c.r, c.g, c.b) }

// text prints s with its baseline at y. align is L, C or R relative to x.
func (d *document) text(x, y float64, s, align string) {
	s = d.encode(s)
	switch align {
	case "R":
		x -= d.GetStringWidth(s)
	case "C":
		x -= d.GetStringWidth(s) / 2
	}
	d.Text(x, y, s)
}

func (d *document) drawHeader(l pdfLayout, logo string) {
	pageW, _ := d.GetPageSize()

	d.fill(colorHeaderBar)
	d.Rect(0, 0, pageW, headerHeight, "F")

	if logo == "" || !d.drawLogo(logo) {
		d.font("B", 11)
		d.textColor(colorWhite)
		d.text(12, 18, BrandText, "L")
	}

	d.font("B", 18)
	d.textColor(colorWhite)
	d.text(pageW-12, 15, l.labels.TimesheetLabel, "R")

	d.font("", 8)
	d.textColor(colorSubtleText)
	d.text(pageW-12, 22, "Ref: "+l.ref, "R")
	d.text(pageW-12, 27, i18n.LongDate(l.lang, l.generated), "R")
}

// drawLogo embeds the logo and reports whether it worked. Embedding errors are cleared so
// the rest of the document still renders.
func (d *document) drawLogo(logo string) bool {
	img, imgType, err := decodeLogo(logo)
	if err != nil {
		util.LogWarn(fmt.Sprintf("Logo not embedded: %v", err))
		return false
	}

	opts := fpdf.ImageOptions{ImageType: imgType}
	d.RegisterImageOptionsReader("logo", opts, bytes.NewReader(img))
	if d.Ok() {
		d.ImageOptions("logo", 12, 8, 28, 16, false, opts, 0, "")
	}
	if !d.Ok() {
		util.LogWarn(fmt.Sprintf("Logo not embedded: %v", d.Error()))
		d.ClearError()
		return false
	}
	return true
}

func (d *document) drawCards(l pdfLayout, data model.TimesheetData) {
	pageW, _ := d.GetPageSize()
	cardW := (pageW - 30) / 2

	d.fill(colorCard)
	d.RoundedRect(pageMargin, cardY, cardW, cardHeight, 2, "1234", "F")

	d.font("", 7)
	d.textColor(colorMuted)
	d.text(15, cardY+6, i18n.Upper(l.lang, l.labels.Client), "L")
	d.text(15, cardY+15, i18n.Upper(l.lang, l.labels.Person), "L")

	d.font("B", 9)
	d.textColor(colorText)
	d.text(50, cardY+6, orDash(data.Client), "L")
	d.text(50, cardY+15, orDash(data.Person), "L")

	rightX := pageMargin + cardW + 10
	d.fill(colorCard)
	d.RoundedRect(rightX, cardY, cardW, cardHeight, 2, "1234", "F")

	d.font("", 7)
	d.textColor(colorMuted)
	d.text(rightX+5, cardY+6, i18n.Upper(l.lang, l.labels.Period), "L")

	d.font("B", 9)
	d.textColor(colorText)
	d.text(rightX+35, cardY+6, l.period, "L")

	d.font("", 7)
	d.textColor(colorMuted)
	d.text(rightX+5, cardY+15, l.stats, "L")
}

// drawTable prints the day table and returns the y coordinate below its footer
func (d *document) drawTable(l pdfLayout) float64 {
	pageW, _ := d.GetPageSize()
	tableW := pageW - 2*pageMargin
	widths := [4]float64{18, 35, 0, 16}
	widths[2] = tableW - widths[0] - widths[1] - widths[3]
	aligns := [4]string{"C", "L", "L", "C"}

	d.SetDrawColor(colorGrid.r, colorGrid.g, colorGrid.b)
	d.SetLineWidth(0.1)

	y := cardY + cardHeight + 4

	// header
	headH := 7*ptToMM + 4
	d.font("B", 7)
	d.fill(colorTableHead)
	d.textColor(colorWhite)
	d.SetXY(pageMargin, y)
	headers := [4]string{l.labels.Date, l.labels.Day, l.labels.Project, l.labels.Hours}
	for i, h := range headers {
		d.CellFormat(widths[i], headH, d.encode(h), "1", 0, "C", true, 0, "")
	}
	y += headH

	rowH := l.fontSize*ptToMM*1.15 + 2*l.padding
	for _, row := range l.rows {
		d.SetXY(pageMargin, y)
		for i, cell := range row.cells {
			size := l.fontSize
			if i == 1 {
				size -= 0.5
			}
			d.font("", size)

			fill := row.bg != nil
			if fill {
				d.fill(*row.bg)
			}
			d.textColor(colorText)
			if row.fg != nil {
				d.textColor(*row.fg)
			}
			d.CellFormat(widths[i], rowH, d.fit(cell, widths[i]-2*l.padding), "1", 0, aligns[i], fill, 0, "")
		}
		y += rowH
	}

	// footer
	footH := 8*ptToMM + 2*l.padding + 1
	d.font("B", 8)
	d.fill(colorFooterBg)
	d.textColor(colorText)
	d.SetXY(pageMargin, y)
	d.CellFormat(widths[0]+widths[1]+widths[2], footH, d.encode(l.labels.Total), "1", 0, "R", true, 0, "")
	d.CellFormat(widths[3], footH, d.encode(l.total), "1", 0, "C", true, 0, "")
	y += footH

	return y
}

func (d *document) drawFooter(l pdfLayout, finalY float64) {
	pageW, pageH := d.GetPageSize()

	sigY := math.Min(finalY+8, pageH-22)
	d.SetDrawColor(180, 180, 180)
	d.SetLineWidth(0.3)
	d.Line(25, sigY+6, 85, sigY+6)
	d.Line(125, sigY+6, 185, sigY+6)

	d.font("", 7)
	d.textColor(rgb{100, 100, 100})
	d.text(55, sigY+11, l.labels.Contractor, "C")
	d.text(155, sigY+11, l.labels.Recipient, "C")

	d.fill(colorBottomBar)
	d.Rect(0, pageH-8, pageW, 8, "F")

	d.font("", 6)
	d.textColor(colorWeekendFg)
	d.text(pageMargin, pageH-3, "Document: "+l.ref, "L")
	d.text(pageW/2, pageH-3, "Generated: "+l.generated.UTC().Format("2006-01-02T15:04:05.000Z07:00"), "C")
	d.text(pageW-pageMargin, pageH-3, "Page 1 of 1", "R")
}

// fit encodes s and shortens it with an ellipsis until it fits width
func (d *document) fit(s string, width float64) string {
	enc := d.encode(s)
	if d.GetStringWidth(enc) <= width {
		return enc
	}
	ellipsis := d.encode("…")
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		enc = d.encode(strings.TrimRightFunc(string(r), unicode.IsSpace)) + ellipsis
		if d.GetStringWidth(enc) <= width {
			return enc
		}
	}
	return ellipsis
}

// decodeLogo accepts a data URL or bare base64 data and returns the image bytes with the
// fpdf image type.
func decodeLogo(logo string) ([]byte, string, error) {
	payload := strings.TrimSpace(logo)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, "", fmt.Errorf("%w: malformed data URL", errUnsupportedLogo)
		}
		payload = payload[comma+1:]
	}

	img, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errUnsupportedLogo, err)
	}

	switch {
	case bytes.HasPrefix(img, []byte("\x89PNG\r\n\x1a\n")):
		return img, "PNG", nil
	case bytes.HasPrefix(img, []byte{0xFF, 0xD8, 0xFF}):
		return img, "JPG", nil
	case bytes.HasPrefix(img, []byte("GIF8")):
		return img, "GIF", nil
	}
	return nil, "", errUnsupportedLogo
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// letters without a decomposition that Windows-1252 cannot hold
var asciiFolds = map[rune]string{'ł': "l", 'Ł': "L", 'đ': "d", 'Đ': "D"}

// foldToCP1252 replaces characters the core fonts cannot print with their base letter,
// keeping everything Windows-1252 can represent.
func foldToCP1252(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		if _, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteRune(r)
			continue
		}
		if folded, ok := asciiFolds[r]; ok {
			b.WriteString(folded)
			continue
		}
		if folded, _, err := transform.String(stripMarks, string(r)); err == nil {
			b.WriteString(folded)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
