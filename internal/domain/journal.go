package domain

import "time"

// EventType — тип события в журнале кассовой сессии.
type EventType string

const (
	EventLineAdded        EventType = "line_added"
	EventOrderCleared     EventType = "order_cleared"
	EventInvoiceGenerated EventType = "invoice_generated"
	EventOperationFailed  EventType = "operation_failed"
)

// SessionEvent описывает событие в жизни кассовой сессии.
type SessionEvent struct {
	SessionID string
	Type      EventType
	Detail    string
	// Total — итог заказа сразу после события.
	Total    int64
	Occurred time.Time
}

// JournalRepository хранит события сессии в хронологическом порядке.
type JournalRepository interface {
	Append(event SessionEvent) error
	List(sessionID string) ([]SessionEvent, error)
}
