// Package apperrors задаёт типизированные ошибки доменных операций.
// Конкретные отказы переходов заворачивают базовые категории через %w,
// поэтому проверка делается errors.Is как по категории, так и по
// конкретной ошибке.
package apperrors

import (
	"errors"
	"fmt"
)

// Базовые категории
var (
	ErrNotFound     = errors.New("запись не найдена")
	ErrValidation   = errors.New("ошибка валидации")
	ErrInvalidState = errors.New("недопустимый переход состояния")
	ErrUnauthorized = errors.New("доступ запрещён")
	ErrNotConfirmed = errors.New("операция требует явного подтверждения")
)

// Отказы переходов жизненного цикла дела
var (
	ErrAlreadyCheckedOut = fmt.Errorf("%w: дело уже выдано", ErrInvalidState)
	ErrNotCheckedOut     = fmt.Errorf("%w: дело не выдано", ErrInvalidState)
	ErrAlreadyArchived   = fmt.Errorf("%w: дело уже в архиве", ErrInvalidState)
	ErrNotArchived       = fmt.Errorf("%w: дело не в архиве", ErrInvalidState)
	ErrAlreadyDestroyed  = fmt.Errorf("%w: дело уже уничтожено", ErrInvalidState)
	ErrNotDestroyed      = fmt.Errorf("%w: дело не уничтожено", ErrInvalidState)
	ErrDestroyed         = fmt.Errorf("%w: дело уничтожено", ErrInvalidState)

	// ErrArchivedNeedsConfirm : перемещение архивного дела без явного подтверждения
	ErrArchivedNeedsConfirm = fmt.Errorf("%w: дело в архиве, требуется подтверждение перемещения", ErrInvalidState)

	// ErrCheckedOutMove : перемещать выданное дело может только администратор
	ErrCheckedOutMove = fmt.Errorf("%w: дело выдано, перемещение доступно только администратору", ErrUnauthorized)
)

// Reason возвращает короткий машинный код ошибки для ответов API
// и для поля reason в итогах пакетных операций.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyCheckedOut):
		return "already_checked_out"
	case errors.Is(err, ErrNotCheckedOut):
		return "not_checked_out"
	case errors.Is(err, ErrAlreadyArchived):
		return "already_archived"
	case errors.Is(err, ErrNotArchived):
		return "not_archived"
	case errors.Is(err, ErrAlreadyDestroyed):
		return "already_destroyed"
	case errors.Is(err, ErrNotDestroyed):
		return "not_destroyed"
	case errors.Is(err, ErrArchivedNeedsConfirm):
		return "archived_confirmation_required"
	case errors.Is(err, ErrDestroyed):
		return "destroyed"
	case errors.Is(err, ErrCheckedOutMove):
		return "checked_out"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotConfirmed):
		return "not_confirmed"
	}
	return "internal"
}
