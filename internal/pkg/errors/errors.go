package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken используется, когда токен (например, refresh) истек.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict используется для конфликтов состояния (например, попытка
	// изменить рейтинг после дедлайна драфта или оценить закрытый эпизод).
	ErrConflict = errors.New("resource state conflict")
)

// Ошибки драфт-движка. Нарушение предусловий не чинится молча:
// вызывающая сторона обязана показать ошибку или повторить с исправленным входом.
var (
	// ErrMalformedRanking — рейтинг не является полной перестановкой 1..N
	// (пропущен участник, дубликат позиции, позиция вне диапазона).
	ErrMalformedRanking = errors.New("malformed ranking")

	// ErrUnknownContestant — карта статусов выбывания ссылается на участника,
	// которого нет в составе сезона, или наоборот.
	ErrUnknownContestant = errors.New("unknown contestant")

	// ErrNoActivePick — операция требует активного пика, но его нет
	// (например, инкремент episodes_held без выбранного sole survivor).
	ErrNoActivePick = errors.New("no active pick")
)
