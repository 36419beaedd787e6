package reschedule_series

import (
	"context"

	rescheduleSeries "github.com/m04kA/SMC-ReservationService/internal/usecase/reschedule_series"
)

type RescheduleSeriesUseCase interface {
	Execute(ctx context.Context, req *rescheduleSeries.Request) (*rescheduleSeries.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
