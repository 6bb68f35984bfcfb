package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pdfFontFamily = "timetable"

// ErrFontRequired is returned when text cannot be encoded without a Unicode font.
var ErrFontRequired = errors.New("pdf text requires a unicode font")

// PDFExporter renders datasets into a landscape table.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. fontPath points at a TrueType font
// with CJK coverage; without it the core Arial font is used and only text
// representable in cp1252 can be rendered.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)

	family := "Arial"
	tr := func(s string) string { return s }
	if e.fontPath != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", e.fontPath)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load pdf font: %w", err)
		}
		family = pdfFontFamily
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
		if err := checkEncodable(tr, title, data); err != nil {
			return nil, err
		}
	}
	pdf.AddPage()

	if title != "" {
		pdf.SetFont(family, "", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(data.Headers))
	lineHeight := 5.0

	pdf.SetFont(family, "", 10)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 8)
	for _, row := range data.Rows {
		// Cells wrap, so the row is as tall as its tallest cell.
		lines := 1
		for _, header := range data.Headers {
			if n := len(pdf.SplitText(row[header], colWidth-2)); n > lines {
				lines = n
			}
		}
		height := float64(lines) * lineHeight
		x, y := pdf.GetXY()
		for i, header := range data.Headers {
			cx := x + float64(i)*colWidth
			pdf.Rect(cx, y, colWidth, height, "D")
			pdf.SetXY(cx, y)
			pdf.MultiCell(colWidth, lineHeight, tr(row[header]), "", "L", false)
		}
		pdf.SetXY(x, y+height)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// checkEncodable rejects text the core fonts cannot lay out: runes beyond
// Latin-1, which the width table does not cover, and runes the cp1252
// translator maps to '.'.
func checkEncodable(tr func(string) string, title string, data Dataset) error {
	texts := append([]string{title}, data.Headers...)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			texts = append(texts, row[header])
		}
	}
	for _, text := range texts {
		for _, r := range text {
			if r > 0xFF || r >= 0x80 && tr(string(r)) == "." {
				return fmt.Errorf("%w: cannot encode %q", ErrFontRequired, r)
			}
		}
	}
	return nil
}
