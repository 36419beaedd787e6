package add_series_instance

import (
	"context"

	addSeriesInstance "github.com/m04kA/SMC-ReservationService/internal/usecase/add_series_instance"
)

type AddSeriesInstanceUseCase interface {
	Execute(ctx context.Context, req *addSeriesInstance.Request) (*addSeriesInstance.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
