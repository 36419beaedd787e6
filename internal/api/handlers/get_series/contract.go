package get_series

import (
	"context"

	getSeries "github.com/m04kA/SMC-ReservationService/internal/usecase/get_series"
)

type GetSeriesUseCase interface {
	Execute(ctx context.Context, req *getSeries.Request) (*getSeries.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
