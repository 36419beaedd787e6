package deny_series

import "errors"

var (
	// ErrSeriesNotFound возвращается, когда серия не найдена
	ErrSeriesNotFound = errors.New("deny_series: series not found")

	// ErrNothingToDeny возвращается, когда у серии нет будущих активных инстансов
	ErrNothingToDeny = errors.New("deny_series: series has no future active instances")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("deny_series: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("deny_series: internal error")
)
