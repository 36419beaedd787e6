package accessmethod

import "errors"

var (
	// ErrEntryInPast возвращается при попытке создать запись истории задним числом
	ErrEntryInPast = errors.New("accessmethod: effective date cannot be in the past")

	// ErrDuplicateDate возвращается, когда на дату уже есть запись истории
	ErrDuplicateDate = errors.New("accessmethod: entry for this date already exists")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("accessmethod: internal error")
)
