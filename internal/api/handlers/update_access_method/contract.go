package update_access_method

import (
	"context"

	updateAccessMethod "github.com/m04kA/SMC-ReservationService/internal/usecase/update_access_method"
)

type UpdateAccessMethodUseCase interface {
	Execute(ctx context.Context, req *updateAccessMethod.Request) (*updateAccessMethod.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
