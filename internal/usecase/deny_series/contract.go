package deny_series

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SeriesRepository интерфейс репозитория серий бронирований
type SeriesRepository interface {
	GetSeriesByID(ctx context.Context, id int64) (*domain.ReservationSeries, error)
	ListInstancesBySeries(ctx context.Context, seriesID int64) ([]*domain.ReservationInstance, error)
	UpdateInstanceStates(ctx context.Context, ids []int64, state domain.InstanceState) error
	RefreshAccessCodeFlag(ctx context.Context, seriesID int64) error
}

// AccessCodeRevoker интерфейс клиента сервиса кодов доступа
type AccessCodeRevoker interface {
	RevokeSeriesAccess(ctx context.Context, seriesID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
