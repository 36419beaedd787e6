package slotgen

import "errors"

var (
	// ErrOccupancyUnavailable возвращается, когда индекс занятости недоступен
	// Без него классификация пересечений невозможна - операция падает целиком
	ErrOccupancyUnavailable = errors.New("slotgen: occupancy index unavailable")

	// ErrOpenHoursUnavailable возвращается, когда сервис часов работы недоступен
	// при включенной проверке check_open_hours
	ErrOpenHoursUnavailable = errors.New("slotgen: open hours oracle unavailable")

	// ErrInvalidSpec возвращается, когда спецификация не прошла валидацию
	// до вызова генератора (защитная проверка, в норме недостижима)
	ErrInvalidSpec = errors.New("slotgen: recurrence spec is not valid")
)
