package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vladislavdragonenkov/cafebill/internal/app"
)

const (
	envInvoiceDir  = "CAFEBILL_INVOICE_DIR"
	envCafeName    = "CAFEBILL_CAFE_NAME"
	envCurrency    = "CAFEBILL_CURRENCY"
	envPDFCurrency = "CAFEBILL_PDF_CURRENCY"
	envCatalogFile = "CAFEBILL_CATALOG_FILE"
	envMaxQty      = "CAFEBILL_MAX_QTY"
	envLogLevel    = "CAFEBILL_LOG_LEVEL"
	envMetricsFile = "CAFEBILL_METRICS_FILE"
)

// envLookup повторяет сигнатуру os.LookupEnv, чтобы подменять окружение в тестах.
type envLookup func(key string) (string, bool)

// readConfigFromEnv формирует конфигурацию из переменных окружения.
// Некорректные значения игнорируются с предупреждением, остаётся значение по умолчанию.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := app.DefaultConfig()
	var warnings []string

	if v, ok := lookupTrimmed(lookup, envInvoiceDir); ok {
		cfg.InvoiceDir = v
	}
	if v, ok := lookupTrimmed(lookup, envCafeName); ok {
		cfg.CafeName = v
	}
	if v, ok := lookupTrimmed(lookup, envCurrency); ok {
		cfg.Currency = v
	}
	if v, ok := lookupTrimmed(lookup, envPDFCurrency); ok {
		cfg.PDFCurrency = v
	}
	if v, ok := lookupTrimmed(lookup, envCatalogFile); ok {
		cfg.CatalogFile = v
	}
	if v, ok := lookupTrimmed(lookup, envMetricsFile); ok {
		cfg.MetricsFile = v
	}
	if v, ok := lookupTrimmed(lookup, envMaxQty); ok {
		maxQty, err := parseInt(v, func(n int) bool { return n >= 0 }, "must be >= 0")
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envMaxQty, err))
		} else {
			cfg.MaxQty = maxQty
		}
	}
	if v, ok := lookupTrimmed(lookup, envLogLevel); ok {
		level, err := parseLogLevel(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envLogLevel, err))
		} else {
			cfg.LogLevel = level
		}
	}

	return cfg, warnings
}

func lookupTrimmed(lookup envLookup, key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// parseInt разбирает целое и проверяет его валидатором.
func parseInt(raw string, valid func(int) bool, rule string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	if valid != nil && !valid(v) {
		return 0, fmt.Errorf("value %d %s", v, rule)
	}
	return v, nil
}

// parseLogLevel нормализует уровень логирования.
func parseLogLevel(raw string) (string, error) {
	level := strings.ToLower(strings.TrimSpace(raw))
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
		return level, nil
	default:
		return "", fmt.Errorf("unknown log level %q", raw)
	}
}
