package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// BillingMetrics содержит метрики кассовой сессии.
type BillingMetrics struct {
	// Счётчики операций с заказом
	linesAdded    prometheus.Counter
	itemsSold     *prometheus.CounterVec
	ordersCleared prometheus.Counter

	// Счётчики счетов
	invoicesGenerated *prometheus.CounterVec
	invoiceAmount     prometheus.Histogram

	// Ошибки по видам
	operationErrors *prometheus.CounterVec

	// Текущий итог открытого заказа
	orderTotal prometheus.Gauge
}

// NewBillingMetrics регистрирует метрики в registerer (по умолчанию — глобальном).
func NewBillingMetrics(registerer prometheus.Registerer) *BillingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &BillingMetrics{
		linesAdded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cafebill_lines_added_total",
			Help: "Total number of order lines added",
		}),
		itemsSold: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "cafebill_items_sold_total",
			Help: "Total quantity added to orders by menu item and size",
		}, []string{"item", "size"}),
		ordersCleared: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cafebill_orders_cleared_total",
			Help: "Total number of orders cleared",
		}),
		invoicesGenerated: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "cafebill_invoices_generated_total",
			Help: "Total number of invoices written by format",
		}, []string{"format"}),
		invoiceAmount: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "cafebill_invoice_amount",
			Help:    "Grand total of written invoices in whole currency units",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000},
		}),
		operationErrors: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "cafebill_operation_errors_total",
			Help: "Total number of failed operations by kind",
		}, []string{"kind"}),
		orderTotal: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "cafebill_open_order_amount",
			Help: "Running total of the open order",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordLineAdded учитывает новую строку заказа и обновляет итог.
func (m *BillingMetrics) RecordLineAdded(item, size string, qty int, total int64) {
	m.linesAdded.Inc()
	m.itemsSold.WithLabelValues(item, size).Add(float64(qty))
	m.orderTotal.Set(float64(total))
}

// RecordOrderCleared учитывает сброс заказа.
func (m *BillingMetrics) RecordOrderCleared() {
	m.ordersCleared.Inc()
	m.orderTotal.Set(0)
}

// RecordInvoice учитывает записанный счёт.
func (m *BillingMetrics) RecordInvoice(format string, total int64) {
	m.invoicesGenerated.WithLabelValues(format).Inc()
	m.invoiceAmount.Observe(float64(total))
}

// RecordError увеличивает счётчик ошибок указанного вида.
func (m *BillingMetrics) RecordError(kind string) {
	m.operationErrors.WithLabelValues(kind).Inc()
}
