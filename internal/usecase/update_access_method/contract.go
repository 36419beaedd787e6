package update_access_method

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// AccessMethodService интерфейс сервиса истории способов доступа
type AccessMethodService interface {
	AddEntry(ctx context.Context, resourceID int64, method domain.AccessMethod, effectiveFrom time.Time) (*domain.AccessMethodEntry, error)
	Resolve(ctx context.Context, resourceID int64, date time.Time) (domain.AccessMethod, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
