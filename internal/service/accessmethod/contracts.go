package accessmethod

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// HistoryRepository интерфейс хранилища истории методов доступа
type HistoryRepository interface {
	// ListByResource возвращает записи истории ресурса,
	// отсортированные по effective_from по возрастанию
	ListByResource(ctx context.Context, resourceID int64) ([]*domain.AccessMethodEntry, error)

	// GetEntryOnDate возвращает запись с максимальным effective_from <= date
	GetEntryOnDate(ctx context.Context, resourceID int64, date time.Time) (*domain.AccessMethodEntry, error)

	// CreateEntry добавляет запись истории
	CreateEntry(ctx context.Context, entry *domain.AccessMethodEntry) (*domain.AccessMethodEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
