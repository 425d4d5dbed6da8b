package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cafebill/internal/domain"
	"github.com/vladislavdragonenkov/cafebill/internal/health"
	"github.com/vladislavdragonenkov/cafebill/internal/invoice"
	"github.com/vladislavdragonenkov/cafebill/internal/version"
)

// Run запускает интерактивную кассу: команды читаются из in, ответы пишутся в out.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, logger *log.Entry) error {
	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Flush()

	s := deps.NewSession()
	deps.Logger.WithFields(log.Fields{
		"session_id":  s.ID(),
		"invoice_dir": cfg.InvoiceDir,
		"items":       len(deps.Catalog.Items()),
	}).Info("billing session started")

	shell := NewShell(s, cfg.CafeName, cfg.Currency, out, deps.Logger.WithField("component", "shell"))
	err = shell.Run(ctx, in)
	if errors.Is(err, context.Canceled) {
		deps.Logger.Info("billing session interrupted")
		return nil
	}
	deps.Logger.WithField("session_id", s.ID()).Info("billing session finished")
	return err
}

// BillLine — одна строка разового счёта.
type BillLine struct {
	Item string
	Size string
	Qty  int
}

// ParseBillLine разбирает строку вида "Green Tea:Large:2" (количество необязательно).
func ParseBillLine(raw string) (BillLine, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return BillLine{}, fmt.Errorf("%w: line %q must look like item:size[:qty]", domain.ErrFieldRequired, raw)
	}
	line := BillLine{
		Item: strings.TrimSpace(parts[0]),
		Size: strings.TrimSpace(parts[1]),
		Qty:  1,
	}
	if len(parts) == 3 {
		qty, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return BillLine{}, fmt.Errorf("%w: line %q: %v", domain.ErrInvalidQuantity, raw, err)
		}
		line.Qty = qty
	}
	return line, nil
}

// Bill собирает заказ из строк и сразу выставляет счёт в format (text, pdf или all).
// Возвращает пути записанных файлов.
func Bill(cfg Config, lines []BillLine, format string, out io.Writer, logger *log.Entry) ([]string, error) {
	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer deps.Flush()

	s := deps.NewSession()
	for _, line := range lines {
		item, size := resolveNames(deps.Catalog, line.Item, line.Size)
		if _, err := s.Add(item, size, line.Qty); err != nil {
			return nil, err
		}
	}

	var paths []string
	if format == "all" {
		paths, err = s.InvoiceAll()
	} else {
		var path string
		path, err = s.Invoice(format)
		if path != "" {
			paths = append(paths, path)
		}
	}
	for _, path := range paths {
		fmt.Fprintf(out, "Invoice saved as: %s\n", path)
	}
	if err != nil {
		return paths, err
	}
	fmt.Fprintf(out, "Total: %s%d\n", cfg.Currency, s.Total())
	return paths, nil
}

// PrintMenu печатает меню: в виде YAML (asYAML) или списком «позиция: размер цена».
func PrintMenu(cfg Config, asYAML bool, out io.Writer) error {
	catalog, err := LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return err
	}
	if asYAML {
		return WriteCatalog(out, catalog)
	}
	for _, entry := range catalog.Entries() {
		prices := make([]string, 0, len(entry.Sizes))
		for _, size := range entry.Sizes {
			prices = append(prices, fmt.Sprintf("%s %s%d", size.Label, cfg.Currency, size.Price))
		}
		fmt.Fprintf(out, "%s: %s\n", entry.Name, strings.Join(prices, ", "))
	}
	return nil
}

// Doctor проверяет, что касса может работать: меню читается, каталог счетов доступен на запись.
func Doctor(cfg Config, out io.Writer) (health.Report, error) {
	registry := health.NewRegistry(version.GetVersion())
	registry.RegisterChecker("catalog", health.NewSimpleChecker("catalog", func() error {
		_, err := LoadCatalog(cfg.CatalogFile)
		return err
	}))
	registry.RegisterChecker("invoice_dir", health.NewSimpleChecker("invoice_dir", health.DirWritable(cfg.InvoiceDir)))
	registry.RegisterChecker("config", health.NewSimpleChecker("config", cfg.Validate))
	registry.RegisterChecker("pdf_text", health.NewSimpleChecker("pdf_text", func() error {
		catalog, err := LoadCatalog(cfg.CatalogFile)
		if err != nil {
			return err
		}
		return CheckPDFText(catalog, cfg.Style())
	}))

	report := registry.Run()
	if err := report.WriteJSON(out); err != nil {
		return report, err
	}
	return report, nil
}

// Formats возвращает допустимые значения формата счёта.
func Formats() []string {
	return []string{invoice.FormatText, invoice.FormatPDF, "all"}
}
