package get_series

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SeriesRepository интерфейс репозитория серий бронирований
type SeriesRepository interface {
	GetSeriesByID(ctx context.Context, id int64) (*domain.ReservationSeries, error)
	ListInstancesBySeries(ctx context.Context, seriesID int64) ([]*domain.ReservationInstance, error)
	ListRejectedBySeries(ctx context.Context, seriesID int64) ([]*domain.RejectedOccurrence, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
