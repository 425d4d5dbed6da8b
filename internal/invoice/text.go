package invoice

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/cafebill/internal/domain"
)

const textStampLayout = "20060102 150405"

var rule = strings.Repeat("-", 50)

// TextWriter пишет счета в виде простого текста.
type TextWriter struct {
	dir   string
	style Style
}

// NewTextWriter создаёт writer, сохраняющий счета в dir.
func NewTextWriter(dir string, style Style) *TextWriter {
	return &TextWriter{dir: dir, style: style}
}

// Format возвращает FormatText.
func (w *TextWriter) Format() string { return FormatText }

// Render формирует содержимое текстового счёта.
func (w *TextWriter) Render(snapshot domain.Snapshot, at time.Time) ([]byte, error) {
	if snapshot.Len() == 0 {
		return nil, domain.ErrEmptyOrder
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "=== %s ===\n", w.style.CafeName)
	fmt.Fprintf(&buf, "Invoice: %s\n\n", at.Format(textStampLayout))
	buf.WriteString("Items Ordered:\n")
	buf.WriteString(rule + "\n")
	for _, line := range snapshot.Lines() {
		fmt.Fprintf(&buf, "%s %s x%d: %s\n", line.Size, line.Item, line.Qty, money(w.style.Currency, line.LineTotal))
	}
	buf.WriteString(rule + "\n")
	fmt.Fprintf(&buf, "Total: %s\n", money(w.style.Currency, snapshot.Total()))
	fmt.Fprintf(&buf, "\n%s\n", w.style.Farewell)
	return buf.Bytes(), nil
}

// Write сохраняет счёт в invoice_<stamp>.txt.
func (w *TextWriter) Write(snapshot domain.Snapshot, at time.Time) (string, error) {
	data, err := w.Render(snapshot, at)
	if err != nil {
		return "", err
	}
	return writeFile(w.dir, FileName(at, "txt"), data)
}

var _ Writer = (*TextWriter)(nil)
