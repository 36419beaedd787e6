package update_access_method

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/resource"
	accessService "github.com/m04kA/SMC-ReservationService/internal/service/accessmethod"
)

// UseCase use case для смены способа доступа ресурса персоналом
//
// История способов доступа append-only: уже созданные инстансы хранят
// способ доступа, разрешенный на момент создания, и не пересчитываются
type UseCase struct {
	accessMethods AccessMethodService
	resourceRepo  ResourceRepository
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(accessMethods AccessMethodService, resourceRepository ResourceRepository, logger Logger) *UseCase {
	return &UseCase{
		accessMethods: accessMethods,
		resourceRepo:  resourceRepository,
		logger:        logger,
	}
}

// Execute выполняет use case смены способа доступа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateAccessMethod: staff=%d, resource=%d, method=%s, from=%s",
		req.StaffUserID, req.ResourceID, req.AccessMethod, req.EffectiveFrom.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.StaffUserID <= 0 {
		return nil, fmt.Errorf("%w: staffUserID must be positive", ErrInvalidInput)
	}
	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}
	if req.EffectiveFrom.IsZero() {
		return nil, fmt.Errorf("%w: effectiveFrom is required", ErrInvalidInput)
	}

	method, err := domain.ParseAccessMethod(req.AccessMethod)
	if err != nil {
		uc.logger.Warn("UpdateAccessMethod: invalid method %q", req.AccessMethod)
		return nil, fmt.Errorf("%w: %v", ErrInvalidMethod, err)
	}

	// 2. Проверяем существование ресурса
	if _, err := uc.resourceRepo.GetByID(ctx, req.ResourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("UpdateAccessMethod: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("UpdateAccessMethod: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	// 3. Добавляем запись истории
	entry, err := uc.accessMethods.AddEntry(ctx, req.ResourceID, method, req.EffectiveFrom)
	if err != nil {
		switch {
		case errors.Is(err, accessService.ErrEntryInPast):
			uc.logger.Warn("UpdateAccessMethod: effective date in the past: %v", err)
			return nil, ErrEffectiveDateInPast
		case errors.Is(err, accessService.ErrDuplicateDate):
			uc.logger.Warn("UpdateAccessMethod: duplicate entry date: %v", err)
			return nil, ErrDuplicateDate
		default:
			uc.logger.Error("UpdateAccessMethod: failed to add entry: %v", err)
			return nil, fmt.Errorf("%w: failed to add entry: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("UpdateAccessMethod: created entry id=%d for resource id=%d", entry.ID, req.ResourceID)

	return &Response{
		ID:            entry.ID,
		ResourceID:    entry.ResourceID,
		AccessMethod:  entry.AccessMethod,
		EffectiveFrom: entry.EffectiveFrom,
		CreatedAt:     entry.CreatedAt,
	}, nil
}
