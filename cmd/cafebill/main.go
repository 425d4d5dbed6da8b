package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/vladislavdragonenkov/cafebill/internal/app"
	"github.com/vladislavdragonenkov/cafebill/internal/version"
)

// setupLogger настраивает формат логирования до разбора конфигурации.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.WarnLevel)
	log.SetOutput(os.Stderr)
}

func main() {
	setupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCLI(os.Stdin, os.Stdout, os.Stderr, os.LookupEnv).RunContext(ctx, os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitErr.ExitCode())
		}
		log.WithError(err).Fatal("cafebill failed")
	}
}

// newCLI собирает команды кассы; ввод-вывод и окружение передаются явно ради тестов.
func newCLI(in io.Reader, out, errOut io.Writer, lookup envLookup) *cli.App {
	var (
		cfg    app.Config
		logger *log.Entry
	)

	before := func(c *cli.Context) error {
		var warnings []string
		cfg, warnings = readConfigFromEnv(lookup)
		applyFlags(c, &cfg)
		if err := cfg.Validate(); err != nil {
			return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), 2)
		}

		base, err := app.NewLogger(cfg.LogLevel, errOut)
		if err != nil {
			return cli.Exit(fmt.Sprintf("logger: %v", err), 2)
		}
		logger = base.WithField("component", "app")
		for _, warning := range warnings {
			logger.Warn(warning)
		}
		return nil
	}

	shell := func(c *cli.Context) error {
		return app.Run(c.Context, cfg, in, out, logger)
	}

	return &cli.App{
		Name:      "cafebill",
		Usage:     "café point-of-sale billing: build an order, print text and PDF invoices",
		Version:   version.GetVersion(),
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags:     globalFlags(),

		Before: before,
		Action: shell,
		// Коды выхода обрабатывает main, иначе cli вызывает os.Exit прямо из RunContext.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:   "shell",
				Usage:  "interactive billing shell (default)",
				Action: shell,
			},
			{
				Name:  "menu",
				Usage: "print the menu",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yaml", Usage: "print in catalog file format"},
				},
				Action: func(c *cli.Context) error {
					return app.PrintMenu(cfg, c.Bool("yaml"), out)
				},
			},
			{
				Name:      "bill",
				Usage:     "build an order from --line flags and write an invoice",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "line", Aliases: []string{"l"}, Usage: `order line "item:size[:qty]", repeatable`, Required: true},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "text, pdf or all"},
				},
				Action: func(c *cli.Context) error {
					lines := make([]app.BillLine, 0, len(c.StringSlice("line")))
					for _, raw := range c.StringSlice("line") {
						line, err := app.ParseBillLine(raw)
						if err != nil {
							return cli.Exit(err.Error(), 1)
						}
						lines = append(lines, line)
					}
					if _, err := app.Bill(cfg, lines, c.String("format"), out, logger); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					return nil
				},
			},
			{
				Name:  "version",
				Usage: "print build information",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(out, version.String())
					return err
				},
			},
			{
				Name:  "doctor",
				Usage: "check that the menu loads and invoices can be written",
				Action: func(c *cli.Context) error {
					report, err := app.Doctor(cfg, out)
					if err != nil {
						return err
					}
					if !report.Healthy() {
						return cli.Exit("cafebill is not ready", 1)
					}
					return nil
				},
			},
		},
	}
}

// globalFlags — флаги, переопределяющие переменные окружения CAFEBILL_*.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "invoice-dir", Usage: "directory for invoice files"},
		&cli.StringFlag{Name: "catalog", Usage: "YAML menu file (defaults to the built-in menu)"},
		&cli.StringFlag{Name: "cafe-name", Usage: "name printed in invoice headers"},
		&cli.StringFlag{Name: "currency", Usage: "currency symbol for text invoices"},
		&cli.StringFlag{Name: "pdf-currency", Usage: "currency label for PDF invoices (cp1252 only)"},
		&cli.IntFlag{Name: "max-qty", Usage: "largest quantity per line, 0 for no limit"},
		&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error"},
		&cli.StringFlag{Name: "metrics-file", Usage: "write Prometheus metrics to this textfile on exit"},
	}
}

// applyFlags переопределяет значения из окружения явно заданными флагами.
func applyFlags(c *cli.Context, cfg *app.Config) {
	if c.IsSet("invoice-dir") {
		cfg.InvoiceDir = c.String("invoice-dir")
	}
	if c.IsSet("catalog") {
		cfg.CatalogFile = c.String("catalog")
	}
	if c.IsSet("cafe-name") {
		cfg.CafeName = c.String("cafe-name")
	}
	if c.IsSet("currency") {
		cfg.Currency = c.String("currency")
	}
	if c.IsSet("pdf-currency") {
		cfg.PDFCurrency = c.String("pdf-currency")
	}
	if c.IsSet("max-qty") {
		cfg.MaxQty = c.Int("max-qty")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("metrics-file") {
		cfg.MetricsFile = c.String("metrics-file")
	}
}
