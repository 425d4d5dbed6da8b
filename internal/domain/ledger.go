package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// PriceLookup — источник цен для журнала заказа (обычно *Catalog).
type PriceLookup interface {
	PriceOf(item, size string) (int64, error)
}

// LineEntry — одна строка заказа: позиция, размер, количество и сумма строки.
type LineEntry struct {
	// ID уникален в пределах процесса, повторные одинаковые строки различимы.
	ID   string
	Item string
	Size string
	Qty  int
	// UnitPrice — цена за единицу на момент добавления.
	UnitPrice int64
	// LineTotal = UnitPrice * Qty, без округлений.
	LineTotal int64
	AddedAt   time.Time
}

// Ledger — упорядоченный список строк текущего заказа.
// Не потокобезопасен: владеет им один управляющий поток сессии.
type Ledger struct {
	prices PriceLookup
	lines  []LineEntry
	total  int64
	now    func() time.Time
}

// NewLedger создаёт пустой заказ, цены берутся из prices.
func NewLedger(prices PriceLookup) *Ledger {
	return NewLedgerWithClock(prices, time.Now)
}

// NewLedgerWithClock создаёт пустой заказ с заданными часами (для тестов).
func NewLedgerWithClock(prices PriceLookup, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{prices: prices, now: now}
}

// Add добавляет новую строку и возвращает итог заказа.
// Одинаковые строки не объединяются. При ошибке заказ не меняется.
func (l *Ledger) Add(item, size string, qty int) (int64, error) {
	if qty < 1 {
		return l.total, fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}
	price, err := l.prices.PriceOf(item, size)
	if err != nil {
		return l.total, err
	}
	if price > 0 && int64(qty) > math.MaxInt64/price {
		return l.total, fmt.Errorf("%w: %d x %d", ErrAmountOverflow, price, qty)
	}
	lineTotal := price * int64(qty)
	if l.total > math.MaxInt64-lineTotal {
		return l.total, fmt.Errorf("%w: %d + %d", ErrAmountOverflow, l.total, lineTotal)
	}

	line := LineEntry{
		ID:        uuid.NewString(),
		Item:      item,
		Size:      size,
		Qty:       qty,
		UnitPrice: price,
		LineTotal: lineTotal,
		AddedAt:   l.now().UTC(),
	}
	l.lines = append(l.lines, line)
	l.total += line.LineTotal
	return l.total, nil
}

// Total возвращает сумму всех строк; для пустого заказа — 0.
func (l *Ledger) Total() int64 {
	return l.total
}

// Len возвращает количество строк.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// Clear сбрасывает заказ. Подтверждение — забота слоя представления.
func (l *Ledger) Clear() {
	l.lines = nil
	l.total = 0
}

// Snapshot возвращает независимую копию строк заказа.
func (l *Ledger) Snapshot() Snapshot {
	lines := make([]LineEntry, len(l.lines))
	copy(lines, l.lines)
	return Snapshot{lines: lines}
}

// Snapshot — неизменяемый срез заказа для формирования счёта.
type Snapshot struct {
	lines []LineEntry
}

// NewSnapshot собирает снимок из готовых строк (копирует их).
func NewSnapshot(lines []LineEntry) Snapshot {
	copied := make([]LineEntry, len(lines))
	copy(copied, lines)
	return Snapshot{lines: copied}
}

// Lines возвращает копию строк снимка.
func (s Snapshot) Lines() []LineEntry {
	result := make([]LineEntry, len(s.lines))
	copy(result, s.lines)
	return result
}

// Len возвращает количество строк снимка.
func (s Snapshot) Len() int {
	return len(s.lines)
}

// Total пересчитывает итог по строкам снимка.
func (s Snapshot) Total() int64 {
	var total int64
	for _, line := range s.lines {
		total += line.LineTotal
	}
	return total
}
