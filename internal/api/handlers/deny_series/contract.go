package deny_series

import (
	"context"

	denySeries "github.com/m04kA/SMC-ReservationService/internal/usecase/deny_series"
)

type DenySeriesUseCase interface {
	Execute(ctx context.Context, req *denySeries.Request) (*denySeries.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
