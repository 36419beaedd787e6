package slotgen

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// OccupancyIndex интерфейс денормализованного представления занятости
// Возвращает буферизованные интервалы всех существующих бронирований,
// которые могут конфликтовать с новым - агрегировано по всем ресурсам,
// физически делящим пространство с целевым (resource group)
type OccupancyIndex interface {
	ConflictingIntervals(ctx context.Context, resourceGroupID int64, from, to time.Time, excludeInstanceIDs []int64) ([]domain.TimeInterval, error)
}

// OpenHoursOracle интерфейс внешнего сервиса часов работы
// GetReservableWindows возвращает только резервируемые (открытые) окна;
// GetOverrideClosures - авторитетные закрытия (override=true), информационные
// записи о закрытии оракул отфильтровывает сам. Оба могут быть пусты
type OpenHoursOracle interface {
	GetReservableWindows(ctx context.Context, resourceUUID uuid.UUID, from, to time.Time) ([]domain.TimeInterval, error)
	GetOverrideClosures(ctx context.Context, resourceUUID uuid.UUID, from, to time.Time) ([]domain.TimeInterval, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
