package reschedule_series

import "errors"

var (
	// ErrSeriesNotFound возвращается, когда серия не найдена
	ErrSeriesNotFound = errors.New("reschedule_series: series not found")

	// ErrSeriesEmpty возвращается, когда у серии нет ни одного инстанса
	// Перепланирование пустой серии запрещено - создайте новую серию
	ErrSeriesEmpty = errors.New("reschedule_series: series has no instances")

	// ErrNotSeriesOwner возвращается, когда пользователь не владеет серией
	ErrNotSeriesOwner = errors.New("reschedule_series: user is not the series owner")

	// ErrResourceNotFound возвращается, когда ресурс серии не найден
	ErrResourceNotFound = errors.New("reschedule_series: resource not found")

	// ErrInvalidRecurrence возвращается при некорректном правиле повторения
	ErrInvalidRecurrence = errors.New("reschedule_series: invalid recurrence rule")

	// ErrNoCandidates возвращается, когда новое правило не порождает ни одного кандидата
	ErrNoCandidates = errors.New("reschedule_series: recurrence rule produces no occurrences")

	// ErrAllSlotsRejected возвращается, когда все новые кандидаты отклонены
	// Существующие инстансы при этом не трогаются
	ErrAllSlotsRejected = errors.New("reschedule_series: all generated slots were rejected")

	// ErrConflictDetected возвращается при нарушении ограничения пересечений на коммите
	ErrConflictDetected = errors.New("reschedule_series: conflicting reservation detected at commit, retry the request")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_series: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_series: internal error")
)
