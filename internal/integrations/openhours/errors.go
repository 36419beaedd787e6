package openhours

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не известен сервису часов работы
	ErrResourceNotFound = errors.New("openhours client: resource not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("openhours client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("openhours client: invalid response")
)
