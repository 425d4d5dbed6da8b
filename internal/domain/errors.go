package domain

import "errors"

var (
	// ErrNotFound возвращается, если позиции или размера нет в меню.
	ErrNotFound = errors.New("not found in catalog")
	// ErrInvalidQuantity — количество меньше единицы.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrEmptyOrder — попытка выставить счёт по пустому заказу.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrIOFailure — ошибка создания каталога или записи файла счёта.
	ErrIOFailure = errors.New("invoice io failure")
	// ErrInvalidCatalog — меню не прошло валидацию при построении.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrFieldRequired — не выбрана позиция или размер.
	ErrFieldRequired = errors.New("item and size are required")
	// ErrQuantityOutOfRange — количество вне границ, разрешённых кассовой политикой.
	ErrQuantityOutOfRange = errors.New("quantity out of allowed range")
	// ErrAmountOverflow — сумма строки или заказа не помещается в int64.
	ErrAmountOverflow = errors.New("order amount overflow")
)

// IsNotFound проверяет, относится ли ошибка к отсутствующей позиции меню.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
