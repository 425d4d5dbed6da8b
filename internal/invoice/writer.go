// Package invoice формирует текстовые и PDF-счета по снимку заказа.
package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vladislavdragonenkov/cafebill/internal/domain"
)

const (
	// FormatText — текстовый счёт (.txt).
	FormatText = "text"
	// FormatPDF — табличный счёт (.pdf).
	FormatPDF = "pdf"

	fileStampLayout = "20060102_150405"
)

// Writer сериализует снимок заказа в файл счёта и возвращает путь к нему.
// Снимок не изменяется; пустой снимок даёт ErrEmptyOrder без создания файлов.
type Writer interface {
	Format() string
	Write(snapshot domain.Snapshot, at time.Time) (string, error)
}

// Style задаёт оформление счёта.
type Style struct {
	CafeName string
	// Currency печатается перед суммами текстового счёта.
	Currency string
	// PDFCurrency используется в PDF: базовые шрифты не умеют символ ₹.
	PDFCurrency string
	Farewell    string
}

// DefaultStyle возвращает оформление исходной кассы.
func DefaultStyle() Style {
	return Style{
		CafeName:    "I am Groot Café",
		Currency:    "₹",
		PDFCurrency: "Rs.",
		Farewell:    "Thank you for your visit!",
	}
}

// FileName возвращает имя файла счёта вида invoice_20060102_150405.<ext>.
func FileName(at time.Time, ext string) string {
	return fmt.Sprintf("invoice_%s.%s", at.Format(fileStampLayout), ext)
}

func money(currency string, amount int64) string {
	return currency + strconv.FormatInt(amount, 10)
}

// writeFile создаёт каталог при необходимости и записывает файл целиком:
// данные пишутся во временный файл рядом и переименовываются в name.
// При ошибке удаляется только временный файл, существующий name не трогается.
func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create directory %s: %w", domain.ErrIOFailure, dir, err)
	}
	path := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %w", domain.ErrIOFailure, path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("%w: write %s: %w", domain.ErrIOFailure, path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("%w: chmod %s: %w", domain.ErrIOFailure, path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: close %s: %w", domain.ErrIOFailure, path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: rename %s: %w", domain.ErrIOFailure, path, err)
	}
	return path, nil
}
