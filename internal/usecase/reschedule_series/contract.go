package reschedule_series

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/accesscode"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotgen"
)

// SeriesRepository интерфейс репозитория серий бронирований
type SeriesRepository interface {
	GetSeriesByID(ctx context.Context, id int64) (*domain.ReservationSeries, error)
	UpdateSeriesRecurrence(ctx context.Context, s *domain.ReservationSeries) error
	ListInstancesBySeries(ctx context.Context, seriesID int64) ([]*domain.ReservationInstance, error)
	CreateInstances(ctx context.Context, groupID int64, instances []*domain.ReservationInstance) ([]*domain.ReservationInstance, error)
	DeleteInstances(ctx context.Context, ids []int64) error
	CreateRejectedOccurrences(ctx context.Context, rejected []*domain.RejectedOccurrence) error
	RefreshAccessCodeFlag(ctx context.Context, seriesID int64) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// SlotGenerator интерфейс генератора слотов
type SlotGenerator interface {
	Generate(ctx context.Context, spec *domain.RecurrenceSpec, resource *domain.Resource, opts slotgen.Options) (*slotgen.Result, error)
}

// AccessMethodResolver интерфейс резолвера способов доступа
type AccessMethodResolver interface {
	ResolveRange(ctx context.Context, resourceID int64, from, to time.Time) (map[string]domain.AccessMethod, error)
}

// AccessCodeIssuer интерфейс клиента сервиса кодов доступа
type AccessCodeIssuer interface {
	GrantSeriesAccess(ctx context.Context, seriesID int64, resourceUUID uuid.UUID, instances []*domain.ReservationInstance) (*accesscode.Grant, error)
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
