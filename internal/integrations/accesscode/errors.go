package accesscode

import "errors"

var (
	// ErrGrantNotFound возвращается, когда у серии нет активного кода доступа
	ErrGrantNotFound = errors.New("accesscode client: grant not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("accesscode client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("accesscode client: invalid response")

	// ErrServiceDegraded возвращается при недоступности сервиса кодов доступа
	// Вызывающий код логирует и проглатывает эту ошибку: серия и инстансы
	// коммитятся в любом случае, сверку кодов позже выполнит фоновый процесс
	ErrServiceDegraded = errors.New("accesscode service unavailable: reconciliation deferred")
)
