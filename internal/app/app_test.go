package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/cafebill/internal/domain"
	"github.com/vladislavdragonenkov/cafebill/internal/health"
)

func TestParseBillLine(t *testing.T) {
	line, err := ParseBillLine("Green Tea:Large:2")
	require.NoError(t, err)
	require.Equal(t, BillLine{Item: "Green Tea", Size: "Large", Qty: 2}, line)

	line, err = ParseBillLine(" tea : small ")
	require.NoError(t, err)
	require.Equal(t, BillLine{Item: "tea", Size: "small", Qty: 1}, line)

	_, err = ParseBillLine("Tea")
	require.ErrorIs(t, err, domain.ErrFieldRequired)

	_, err = ParseBillLine("Tea:Small:two")
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestBill_AllFormats(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsFile = filepath.Join(t.TempDir(), "cafebill.prom")

	var out bytes.Buffer
	paths, err := Bill(cfg, []BillLine{
		{Item: "tea", Size: "medium", Qty: 2},
		{Item: "Espresso", Size: "Small", Qty: 1},
	}, "all", &out, loggerForTests())
	require.NoError(t, err)
	require.Len(t, paths, 2)
	require.True(t, strings.HasSuffix(paths[0], ".txt"))
	require.True(t, strings.HasSuffix(paths[1], ".pdf"))
	require.Contains(t, out.String(), "Total: ₹270")

	text, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	require.Contains(t, string(text), "Medium Tea x2: ₹200\n")
	require.Contains(t, string(text), "Total: ₹270\n")

	metricsData, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	require.Contains(t, string(metricsData), "cafebill_lines_added_total 2")
}

func TestBill_Failures(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	_, err := Bill(cfg, []BillLine{{Item: "Tea", Size: "Jumbo", Qty: 1}}, "text", &out, loggerForTests())
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = Bill(cfg, nil, "text", &out, loggerForTests())
	require.ErrorIs(t, err, domain.ErrEmptyOrder)

	_, statErr := os.Stat(cfg.InvoiceDir)
	require.True(t, os.IsNotExist(statErr), "no invoice directory for failed bills")
}

func TestPrintMenu(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, PrintMenu(DefaultConfig(), false, &out))
	require.Contains(t, out.String(), "Tea: Small ₹70, Medium ₹100, Large ₹130\n")

	out.Reset()
	require.NoError(t, PrintMenu(DefaultConfig(), true, &out))
	catalog, err := ReadCatalog(&out)
	require.NoError(t, err)
	require.Len(t, catalog.Items(), 4)
}

func TestDoctor(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	report, err := Doctor(cfg, &out)
	require.NoError(t, err)
	require.Equal(t, health.StatusHealthy, report.Status)
	require.Contains(t, out.String(), `"invoice_dir"`)

	cfg.CatalogFile = filepath.Join(t.TempDir(), "missing.yaml")
	report, err = Doctor(cfg, &out)
	require.NoError(t, err)
	require.False(t, report.Healthy())
	require.Equal(t, health.StatusUnhealthy, report.Checks["catalog"].Status)
}

func TestDoctor_PDFText(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogFile = filepath.Join(t.TempDir(), "menu.yaml")
	menu := "items:\n  - name: Чай\n    sizes:\n      - {label: Small, price: 50}\n"
	require.NoError(t, os.WriteFile(cfg.CatalogFile, []byte(menu), 0o644))

	var out bytes.Buffer
	report, err := Doctor(cfg, &out)
	require.NoError(t, err)
	require.False(t, report.Healthy())
	require.Equal(t, health.StatusHealthy, report.Checks["catalog"].Status)
	require.Equal(t, health.StatusUnhealthy, report.Checks["pdf_text"].Status)
	require.Contains(t, out.String(), "Чай")
}

func TestCheckPDFText(t *testing.T) {
	style := DefaultConfig().Style()
	require.NoError(t, CheckPDFText(domain.DefaultCatalog(), style))

	style.Farewell = "Спасибо!"
	err := CheckPDFText(domain.DefaultCatalog(), style)
	require.ErrorContains(t, err, `"Спасибо!"`)
}

func TestRun_ReadsCommands(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	in := strings.NewReader("add ice latte medium 2\ninvoice text\nquit\n")
	require.NoError(t, Run(context.Background(), cfg, in, &out, loggerForTests()))
	require.Contains(t, out.String(), "Total: ₹240")
	require.Contains(t, out.String(), "Invoice saved as: "+cfg.InvoiceDir)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxQty = -1

	err := Run(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{}, loggerForTests())
	require.Error(t, err)
}
