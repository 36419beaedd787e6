package add_series_instance

import "errors"

var (
	// ErrSeriesNotFound возвращается, когда серия не найдена
	ErrSeriesNotFound = errors.New("add_series_instance: series not found")

	// ErrSeriesEmpty возвращается, когда у серии нет ни одного инстанса
	// Без существующего инстанса нечего взять за образец данных заявителя
	ErrSeriesEmpty = errors.New("add_series_instance: series has no instances")

	// ErrNotSeriesOwner возвращается, когда пользователь не владеет серией
	ErrNotSeriesOwner = errors.New("add_series_instance: user is not the series owner")

	// ErrResourceNotFound возвращается, когда ресурс серии не найден
	ErrResourceNotFound = errors.New("add_series_instance: resource not found")

	// ErrSlotOverlaps возвращается, когда слот пересекается с существующим бронированием
	ErrSlotOverlaps = errors.New("add_series_instance: slot overlaps an existing reservation")

	// ErrSlotNotReservable возвращается, когда слот вне часов работы ресурса
	ErrSlotNotReservable = errors.New("add_series_instance: slot is outside reservable hours")

	// ErrInvalidStartInterval возвращается, когда начало слота не кратно шагу ресурса
	ErrInvalidStartInterval = errors.New("add_series_instance: slot start does not match the allowed interval")

	// ErrInvalidSlot возвращается при некорректном интервале слота
	ErrInvalidSlot = errors.New("add_series_instance: invalid slot")

	// ErrConflictDetected возвращается при нарушении ограничения пересечений на коммите
	ErrConflictDetected = errors.New("add_series_instance: conflicting reservation detected at commit, retry the request")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("add_series_instance: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("add_series_instance: internal error")
)
