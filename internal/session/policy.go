package session

import (
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/cafebill/internal/domain"
)

// DefaultMaxQty — верхняя граница количества в одной строке, как у кассового счётчика.
const DefaultMaxQty = 10

// Policy — правила ввода кассира. Это не инварианты заказа:
// Ledger принимает любое количество >= 1.
type Policy struct {
	// MaxQty ограничивает количество в строке; 0 — без ограничения.
	MaxQty int
}

// DefaultPolicy возвращает правила исходной кассы (1..10).
func DefaultPolicy() Policy {
	return Policy{MaxQty: DefaultMaxQty}
}

// Check проверяет обязательные поля и границы количества.
// Количество < 1 оставлено на проверку Ledger (ErrInvalidQuantity).
func (p Policy) Check(item, size string, qty int) error {
	if strings.TrimSpace(item) == "" || strings.TrimSpace(size) == "" {
		return domain.ErrFieldRequired
	}
	if p.MaxQty > 0 && qty > p.MaxQty {
		return fmt.Errorf("%w: %d exceeds %d", domain.ErrQuantityOutOfRange, qty, p.MaxQty)
	}
	return nil
}
