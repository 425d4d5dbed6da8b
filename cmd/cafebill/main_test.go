package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/vladislavdragonenkov/cafebill/internal/app"
)

func TestReadConfigFromEnv_Defaults(t *testing.T) {
	cfg, warnings := readConfigFromEnv(mapLookup(nil))

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %d", len(warnings))
	}

	if cfg != app.DefaultConfig() {
		t.Fatalf("expected default config, got %#v", cfg)
	}
}

func TestReadConfigFromEnv_ValidOverrides(t *testing.T) {
	cfg, warnings := readConfigFromEnv(mapLookup(map[string]string{
		envInvoiceDir:  " /tmp/bills ",
		envCafeName:    "Corner Café",
		envCurrency:    "$",
		envPDFCurrency: "USD ",
		envCatalogFile: "menu.yaml",
		envMaxQty:      "0",
		envLogLevel:    " DEBUG ",
		envMetricsFile: "/var/lib/node_exporter/cafebill.prom",
	}))

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %d", len(warnings))
	}
	if cfg.InvoiceDir != "/tmp/bills" {
		t.Fatalf("unexpected invoice dir: %s", cfg.InvoiceDir)
	}
	if cfg.CafeName != "Corner Café" {
		t.Fatalf("unexpected cafe name: %s", cfg.CafeName)
	}
	if cfg.Currency != "$" {
		t.Fatalf("unexpected currency: %s", cfg.Currency)
	}
	if cfg.PDFCurrency != "USD" {
		t.Fatalf("unexpected pdf currency: %q", cfg.PDFCurrency)
	}
	if cfg.CatalogFile != "menu.yaml" {
		t.Fatalf("unexpected catalog file: %s", cfg.CatalogFile)
	}
	if cfg.MaxQty != 0 {
		t.Fatalf("unexpected max qty: %d", cfg.MaxQty)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if cfg.MetricsFile != "/var/lib/node_exporter/cafebill.prom" {
		t.Fatalf("unexpected metrics file: %s", cfg.MetricsFile)
	}
}

func TestReadConfigFromEnv_InvalidValuesFallbackToDefaults(t *testing.T) {
	defaultCfg := app.DefaultConfig()

	cfg, warnings := readConfigFromEnv(mapLookup(map[string]string{
		envMaxQty:     "-2",
		envLogLevel:   "loud",
		envInvoiceDir: "   ",
	}))

	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}
	if cfg.MaxQty != defaultCfg.MaxQty {
		t.Fatal("expected MaxQty to keep default on invalid value")
	}
	if cfg.LogLevel != defaultCfg.LogLevel {
		t.Fatal("expected LogLevel to keep default on invalid value")
	}
	if cfg.InvoiceDir != defaultCfg.InvoiceDir {
		t.Fatal("expected blank InvoiceDir to keep default")
	}
}

func TestParseInt(t *testing.T) {
	value, err := parseInt(" 12 ", func(v int) bool { return v > 0 }, "must be > 0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 12 {
		t.Fatalf("unexpected value: %d", value)
	}

	if _, err := parseInt("0", func(v int) bool { return v > 0 }, "must be > 0"); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := parseInt("ten", nil, ""); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := parseLogLevel(" Info ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level != "info" {
		t.Fatalf("unexpected level: %s", level)
	}

	if _, err := parseLogLevel("chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func runCLI(t *testing.T, env map[string]string, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cliApp := newCLI(strings.NewReader(stdin), &out, &errOut, mapLookup(env))
	err := cliApp.RunContext(context.Background(), append([]string{"cafebill"}, args...))
	return out.String(), err
}

func TestCLI_Menu(t *testing.T) {
	out, err := runCLI(t, nil, "", "menu")
	require.NoError(t, err)
	require.Contains(t, out, "Espresso: Small ₹70, Medium ₹100, Large ₹120\n")
}

func TestCLI_BillWritesInvoices(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "invoices")

	out, err := runCLI(t, nil, "", "--invoice-dir", dir, "bill", "-l", "Tea:Medium:2", "--line", "Green Tea:Small", "--format", "all")
	require.NoError(t, err)
	require.Contains(t, out, "Total: ₹280")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestCLI_BillFailureHasExitCode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "invoices")

	_, err := runCLI(t, map[string]string{envInvoiceDir: dir}, "", "bill", "--line", "Tea:Jumbo:1")
	require.Error(t, err)

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.ExitCode())
	require.Contains(t, err.Error(), "not found in catalog")
}

func TestCLI_FlagsOverrideEnv(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, map[string]string{envMaxQty: "3", envInvoiceDir: dir}, "", "--max-qty", "0", "bill", "--line", "Tea:Small:20")
	require.NoError(t, err)
}

func TestApplyFlags(t *testing.T) {
	env := map[string]string{envPDFCurrency: "EUR", envCurrency: "€", envMaxQty: "3"}

	var cfg app.Config
	cliApp := &cli.App{
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			cfg, _ = readConfigFromEnv(mapLookup(env))
			applyFlags(c, &cfg)
			return nil
		},
	}
	err := cliApp.Run([]string{"cafebill", "--pdf-currency", "USD", "--max-qty", "0"})
	require.NoError(t, err)

	require.Equal(t, "USD", cfg.PDFCurrency)
	require.Equal(t, "€", cfg.Currency)
	require.Equal(t, 0, cfg.MaxQty)
}

func TestCLI_ShellIsDefault(t *testing.T) {
	out, err := runCLI(t, map[string]string{envInvoiceDir: t.TempDir()}, "add tea small 3\ntotal\nexit\n")
	require.NoError(t, err)
	require.Contains(t, out, "Total: ₹210")
}

func TestCLI_Doctor(t *testing.T) {
	out, err := runCLI(t, map[string]string{envInvoiceDir: t.TempDir()}, "", "doctor")
	require.NoError(t, err)
	require.Contains(t, out, `"status": "healthy"`)

	_, err = runCLI(t, map[string]string{envInvoiceDir: t.TempDir()}, "", "--catalog", filepath.Join(t.TempDir(), "missing.yaml"), "doctor")
	require.Error(t, err)
}

func TestCLI_InvalidConfig(t *testing.T) {
	_, err := runCLI(t, nil, "", "--max-qty", "-1", "menu")
	require.Error(t, err)
}

func TestCLI_Version(t *testing.T) {
	out, err := runCLI(t, nil, "", "version")
	require.NoError(t, err)
	require.Contains(t, out, "version=")
}

func mapLookup(values map[string]string) envLookup {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
