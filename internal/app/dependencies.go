package app

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cafebill/internal/domain"
	"github.com/vladislavdragonenkov/cafebill/internal/invoice"
	"github.com/vladislavdragonenkov/cafebill/internal/metrics"
	"github.com/vladislavdragonenkov/cafebill/internal/session"
	"github.com/vladislavdragonenkov/cafebill/internal/storage/memory"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Config   Config
	Catalog  *domain.Catalog
	Journal  domain.JournalRepository
	Writers  []invoice.Writer
	Registry *prometheus.Registry
	Metrics  *metrics.BillingMetrics
	Logger   *log.Entry
}

// NewDependencies создаёт и инициализирует все зависимости приложения.
func NewDependencies(cfg Config, logger *log.Entry) (*Dependencies, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	catalog, err := LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	style := cfg.Style()
	if err := CheckPDFText(catalog, style); err != nil {
		logger.WithError(err).Warn("pdf invoices will replace unsupported characters")
	}
	registry := prometheus.NewRegistry()
	return &Dependencies{
		Config:  cfg,
		Catalog: catalog,
		Journal: memory.NewJournalRepository(),
		Writers: []invoice.Writer{
			invoice.NewTextWriter(cfg.InvoiceDir, style),
			invoice.NewPDFWriter(cfg.InvoiceDir, style),
		},
		Registry: registry,
		Metrics:  metrics.NewBillingMetrics(registry),
		Logger:   logger,
	}, nil
}

// NewSession открывает кассовую сессию с пустым заказом.
func (d *Dependencies) NewSession() *session.Session {
	return session.New(d.Catalog, d.Journal, d.Writers, d.Metrics, d.Config.Policy(), d.Logger.WithField("component", "session"))
}

// Flush выгружает метрики, если настроен MetricsFile.
func (d *Dependencies) Flush() {
	if err := metrics.WriteTextfile(d.Config.MetricsFile, d.Registry); err != nil {
		d.Logger.WithError(err).Warn("failed to write metrics textfile")
	}
}

// NewLogger настраивает формат и уровень логирования кассы.
func NewLogger(level string, out io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger.SetLevel(lvl)
	logger.SetOutput(out)
	return logger, nil
}
