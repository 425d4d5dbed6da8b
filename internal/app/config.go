package app

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cafebill/internal/invoice"
	"github.com/vladislavdragonenkov/cafebill/internal/session"
)

// Config описывает настройки кассы. Значения по умолчанию повторяют исходную кассу.
type Config struct {
	InvoiceDir  string
	CafeName    string
	Currency    string
	PDFCurrency string
	// CatalogFile — YAML-файл меню; пусто — встроенное меню.
	CatalogFile string
	// MaxQty — верхняя граница количества в строке; 0 — без ограничения.
	MaxQty   int
	LogLevel string
	// MetricsFile — путь для выгрузки метрик при выходе; пусто — не выгружать.
	MetricsFile string
}

// DefaultConfig возвращает базовые настройки.
func DefaultConfig() Config {
	style := invoice.DefaultStyle()
	return Config{
		InvoiceDir:  "invoices",
		CafeName:    style.CafeName,
		Currency:    style.Currency,
		PDFCurrency: style.PDFCurrency,
		MaxQty:      session.DefaultMaxQty,
		LogLevel:    "error",
	}
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	if c.InvoiceDir == "" {
		return fmt.Errorf("invoice dir is required")
	}
	if c.MaxQty < 0 {
		return fmt.Errorf("max qty must be >= 0, got %d", c.MaxQty)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Style возвращает оформление счетов.
func (c Config) Style() invoice.Style {
	style := invoice.DefaultStyle()
	style.CafeName = c.CafeName
	style.Currency = c.Currency
	style.PDFCurrency = c.PDFCurrency
	return style
}

// Policy возвращает правила ввода для сессии.
func (c Config) Policy() session.Policy {
	return session.Policy{MaxQty: c.MaxQty}
}
