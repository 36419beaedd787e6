package create_series

import (
	"context"

	createSeries "github.com/m04kA/SMC-ReservationService/internal/usecase/create_series"
)

type CreateSeriesUseCase interface {
	Execute(ctx context.Context, req *createSeries.Request) (*createSeries.Response, error)
}

// Metrics бизнес-метрики создания серий; nil, когда метрики выключены
type Metrics interface {
	IncSeriesCreated(result string)
	AddSlotsRejected(reason string, count int)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
