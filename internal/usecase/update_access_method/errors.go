package update_access_method

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("update_access_method: resource not found")

	// ErrInvalidMethod возвращается при неизвестном способе доступа
	ErrInvalidMethod = errors.New("update_access_method: invalid access method")

	// ErrEffectiveDateInPast возвращается при попытке изменения задним числом
	// История append-only: прошлое неизменяемо
	ErrEffectiveDateInPast = errors.New("update_access_method: effective date cannot be in the past")

	// ErrDuplicateDate возвращается, когда на дату уже есть запись истории
	ErrDuplicateDate = errors.New("update_access_method: entry for this date already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_access_method: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_access_method: internal error")
)
