package create_series

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("create_series: resource not found")

	// ErrResourceNotPublished возвращается при попытке бронирования неопубликованного ресурса
	ErrResourceNotPublished = errors.New("create_series: resource is not published")

	// ErrInvalidRecurrence возвращается при некорректном правиле повторения
	ErrInvalidRecurrence = errors.New("create_series: invalid recurrence rule")

	// ErrInvalidReservee возвращается при некорректных данных заявителя
	ErrInvalidReservee = errors.New("create_series: invalid reservee data")

	// ErrNoCandidates возвращается, когда правило повторения не порождает ни одного кандидата
	ErrNoCandidates = errors.New("create_series: recurrence rule produces no occurrences")

	// ErrAllSlotsRejected возвращается, когда все кандидаты отклонены
	// Детали отказов (по корзинам) передаются в Response рядом с ошибкой
	ErrAllSlotsRejected = errors.New("create_series: all generated slots were rejected")

	// ErrConflictDetected возвращается при нарушении ограничения пересечений на коммите
	// Данные за время расчета изменились - запрос можно безопасно повторить
	ErrConflictDetected = errors.New("create_series: conflicting reservation detected at commit, retry the request")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_series: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_series: internal error")
)
