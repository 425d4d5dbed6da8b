package invoice

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"

	"github.com/vladislavdragonenkov/cafebill/internal/domain"
)

const (
	pdfStampLayout = "2006-01-02 15:04"
	pageWidth      = 190.0
	rowHeight      = 10.0
	itemColWidth   = 100.0
	colWidth       = 30.0
)

// PDFUnsupported возвращает символы s, которых нет в cp1252: встроенные шрифты
// PDF их не выводят, переводчик gofpdf подменяет их точкой.
func PDFUnsupported(s string) []rune {
	tr := gofpdf.New("P", "mm", "A4", "").UnicodeTranslatorFromDescriptor("")
	var unsupported []rune
	for _, r := range s {
		if r < utf8.RuneSelf {
			continue
		}
		if out := tr(string(r)); len(out) != 1 || out == "." {
			unsupported = append(unsupported, r)
		}
	}
	return unsupported
}

// PDFWriter пишет счета в виде таблицы Item / Size / Qty / Price.
type PDFWriter struct {
	dir      string
	style    Style
	compress bool
}

// NewPDFWriter создаёт writer, сохраняющий PDF-счета в dir.
func NewPDFWriter(dir string, style Style) *PDFWriter {
	return &PDFWriter{dir: dir, style: style, compress: true}
}

// Format возвращает FormatPDF.
func (w *PDFWriter) Format() string { return FormatPDF }

// Render формирует PDF-документ счёта.
func (w *PDFWriter) Render(snapshot domain.Snapshot, at time.Time) ([]byte, error) {
	if snapshot.Len() == 0 {
		return nil, domain.ErrEmptyOrder
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(w.compress)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pageWidth, rowHeight, tr(w.style.CafeName), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(pageWidth, rowHeight, "Invoice: "+at.Format(pdfStampLayout), "", 1, "", false, 0, "")
	pdf.Ln(rowHeight)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(itemColWidth, rowHeight, "Item", "1", 0, "", false, 0, "")
	pdf.CellFormat(colWidth, rowHeight, "Size", "1", 0, "", false, 0, "")
	pdf.CellFormat(colWidth, rowHeight, "Qty", "1", 0, "", false, 0, "")
	pdf.CellFormat(colWidth, rowHeight, tr(fmt.Sprintf("Price (%s)", w.style.PDFCurrency)), "1", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range snapshot.Lines() {
		pdf.CellFormat(itemColWidth, rowHeight, tr(line.Item), "1", 0, "", false, 0, "")
		pdf.CellFormat(colWidth, rowHeight, tr(line.Size), "1", 0, "", false, 0, "")
		pdf.CellFormat(colWidth, rowHeight, strconv.Itoa(line.Qty), "1", 0, "", false, 0, "")
		pdf.CellFormat(colWidth, rowHeight, tr(money(w.style.PDFCurrency, line.LineTotal)), "1", 1, "", false, 0, "")
	}

	pdf.Ln(rowHeight)
	pdf.CellFormat(itemColWidth+2*colWidth, rowHeight, "Total:", "", 0, "", false, 0, "")
	pdf.CellFormat(colWidth, rowHeight, tr(money(w.style.PDFCurrency, snapshot.Total())), "", 1, "", false, 0, "")

	pdf.Ln(2 * rowHeight)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(pageWidth, rowHeight, tr(w.style.Farewell), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Write сохраняет счёт в invoice_<stamp>.pdf.
func (w *PDFWriter) Write(snapshot domain.Snapshot, at time.Time) (string, error) {
	data, err := w.Render(snapshot, at)
	if err != nil {
		return "", err
	}
	return writeFile(w.dir, FileName(at, "pdf"), data)
}

var _ Writer = (*PDFWriter)(nil)
