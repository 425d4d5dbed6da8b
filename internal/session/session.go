// Package session — кассовая сессия: владеет текущим заказом и выставляет счета.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cafebill/internal/domain"
	"github.com/vladislavdragonenkov/cafebill/internal/invoice"
	"github.com/vladislavdragonenkov/cafebill/internal/metrics"
)

// ErrUnsupportedFormat — запрошен формат счёта, для которого нет writer.
var ErrUnsupportedFormat = errors.New("unsupported invoice format")

// Session связывает меню, текущий заказ, журнал, метрики и writers счетов.
// Все методы вызываются из одного управляющего потока.
type Session struct {
	id      string
	catalog *domain.Catalog
	ledger  *domain.Ledger
	journal domain.JournalRepository
	writers []invoice.Writer
	metrics *metrics.BillingMetrics
	policy  Policy
	logger  *log.Entry
	now     func() time.Time
}

// New создаёт сессию с пустым заказом. metrics может быть nil.
func New(
	catalog *domain.Catalog,
	journal domain.JournalRepository,
	writers []invoice.Writer,
	billingMetrics *metrics.BillingMetrics,
	policy Policy,
	logger *log.Entry,
) *Session {
	id := uuid.NewString()
	if logger == nil {
		logger = log.New().WithField("component", "session")
	}
	s := &Session{
		id:      id,
		catalog: catalog,
		journal: journal,
		writers: writers,
		metrics: billingMetrics,
		policy:  policy,
		logger:  logger.WithField("session_id", id),
		now:     time.Now,
	}
	s.ledger = domain.NewLedgerWithClock(catalog, func() time.Time { return s.now() })
	return s
}

// SetClock подменяет часы сессии (имена файлов счетов, время событий).
func (s *Session) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ID возвращает идентификатор сессии.
func (s *Session) ID() string { return s.id }

// Catalog возвращает меню сессии.
func (s *Session) Catalog() *domain.Catalog { return s.catalog }

// Policy возвращает правила ввода.
func (s *Session) Policy() Policy { return s.policy }

// SizesFor возвращает размеры выбранной позиции.
func (s *Session) SizesFor(item string) ([]string, error) {
	return s.catalog.SizesFor(item)
}

// Add проверяет ввод и добавляет строку в заказ. Возвращает новый итог.
func (s *Session) Add(item, size string, qty int) (int64, error) {
	if err := s.policy.Check(item, size, qty); err != nil {
		return s.ledger.Total(), s.fail("add", err)
	}
	total, err := s.ledger.Add(item, size, qty)
	if err != nil {
		return total, s.fail("add", err)
	}

	lines := s.ledger.Snapshot().Lines()
	line := lines[len(lines)-1]
	s.logger.WithFields(log.Fields{
		"line_id": line.ID,
		"item":    item,
		"size":    size,
		"qty":     qty,
		"total":   total,
	}).Debug("line added")
	if s.metrics != nil {
		s.metrics.RecordLineAdded(item, size, qty, total)
	}
	s.record(domain.EventLineAdded, fmt.Sprintf("%s %s x%d", size, item, qty), total)
	return total, nil
}

// Total возвращает итог текущего заказа.
func (s *Session) Total() int64 { return s.ledger.Total() }

// Snapshot возвращает неизменяемую копию заказа.
func (s *Session) Snapshot() domain.Snapshot { return s.ledger.Snapshot() }

// Clear сбрасывает заказ.
func (s *Session) Clear() {
	lines := s.ledger.Len()
	s.ledger.Clear()
	s.logger.WithField("lines", lines).Debug("order cleared")
	if s.metrics != nil {
		s.metrics.RecordOrderCleared()
	}
	s.record(domain.EventOrderCleared, fmt.Sprintf("%d lines dropped", lines), 0)
}

// Formats возвращает доступные форматы счетов.
func (s *Session) Formats() []string {
	formats := make([]string, 0, len(s.writers))
	for _, w := range s.writers {
		formats = append(formats, w.Format())
	}
	return formats
}

// Invoice выставляет счёт в указанном формате. Заказ после этого не очищается.
func (s *Session) Invoice(format string) (string, error) {
	writer := s.writerFor(format)
	if writer == nil {
		return "", s.fail("invoice", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format))
	}
	snapshot := s.ledger.Snapshot()
	path, err := writer.Write(snapshot, s.now())
	if err != nil {
		return "", s.fail("invoice", err)
	}

	s.logger.WithFields(log.Fields{
		"format": format,
		"path":   path,
		"total":  snapshot.Total(),
	}).Info("invoice written")
	if s.metrics != nil {
		s.metrics.RecordInvoice(format, snapshot.Total())
	}
	s.record(domain.EventInvoiceGenerated, path, snapshot.Total())
	return path, nil
}

// InvoiceAll выставляет счёт во всех форматах; останавливается на первой ошибке.
func (s *Session) InvoiceAll() ([]string, error) {
	paths := make([]string, 0, len(s.writers))
	for _, w := range s.writers {
		path, err := s.Invoice(w.Format())
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// History возвращает журнал событий сессии.
func (s *Session) History() ([]domain.SessionEvent, error) {
	return s.journal.List(s.id)
}

func (s *Session) writerFor(format string) invoice.Writer {
	for _, w := range s.writers {
		if w.Format() == format {
			return w
		}
	}
	return nil
}

// fail логирует ошибку один раз, учитывает её и возвращает вызывающему.
func (s *Session) fail(op string, err error) error {
	kind := ErrorKind(err)
	s.logger.WithError(err).WithFields(log.Fields{
		"op":   op,
		"kind": kind,
	}).Warn("operation failed")
	if s.metrics != nil {
		s.metrics.RecordError(kind)
	}
	s.record(domain.EventOperationFailed, fmt.Sprintf("%s: %v", op, err), s.ledger.Total())
	return err
}

func (s *Session) record(eventType domain.EventType, detail string, total int64) {
	event := domain.SessionEvent{
		SessionID: s.id,
		Type:      eventType,
		Detail:    detail,
		Total:     total,
		Occurred:  s.now().UTC(),
	}
	if err := s.journal.Append(event); err != nil {
		s.logger.WithError(err).WithField("event", eventType).Warn("journal append failed")
	}
}

// ErrorKind возвращает короткое имя вида ошибки для метрик и логов.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrQuantityOutOfRange):
		return "quantity_out_of_range"
	case errors.Is(err, domain.ErrAmountOverflow):
		return "amount_overflow"
	case errors.Is(err, domain.ErrFieldRequired):
		return "field_required"
	case errors.Is(err, domain.ErrEmptyOrder):
		return "empty_order"
	case errors.Is(err, domain.ErrIOFailure):
		return "io_failure"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	default:
		return "other"
	}
}
