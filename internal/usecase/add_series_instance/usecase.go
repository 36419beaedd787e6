package add_series_instance

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/resource"
	seriesRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/series"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotgen"
)

// UseCase use case для добавления одиночного инстанса к серии
//
// Новый инстанс проходит ту же классификацию, что и кандидаты при
// генерации серии (однодневное правило), но любой отказ здесь - ошибка,
// а не данные: пользователь запросил конкретный слот и должен узнать,
// почему он недоступен
type UseCase struct {
	seriesRepo     SeriesRepository
	resourceRepo   ResourceRepository
	generator      SlotGenerator
	accessResolver AccessMethodResolver
	accessCodes    AccessCodeIssuer
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	seriesRepository SeriesRepository,
	resourceRepository ResourceRepository,
	generator SlotGenerator,
	accessResolver AccessMethodResolver,
	accessCodes AccessCodeIssuer,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		seriesRepo:     seriesRepository,
		resourceRepo:   resourceRepository,
		generator:      generator,
		accessResolver: accessResolver,
		accessCodes:    accessCodes,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case добавления инстанса к серии
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AddSeriesInstance: user=%d, series=%d, date=%s, time=%s-%s",
		req.UserID, req.SeriesID, req.Date.Format(domain.DateFormat), req.BeginTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AddSeriesInstance: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем серию и проверяем владельца
	series, err := uc.seriesRepo.GetSeriesByID(ctx, req.SeriesID)
	if err != nil {
		if errors.Is(err, seriesRepo.ErrSeriesNotFound) {
			uc.logger.Warn("AddSeriesInstance: series id=%d not found", req.SeriesID)
			return nil, ErrSeriesNotFound
		}
		uc.logger.Error("AddSeriesInstance: failed to get series id=%d: %v", req.SeriesID, err)
		return nil, fmt.Errorf("%w: failed to get series: %v", ErrInternal, err)
	}

	if series.UserID != req.UserID {
		uc.logger.Warn("AddSeriesInstance: user=%d is not the owner of series id=%d", req.UserID, req.SeriesID)
		return nil, ErrNotSeriesOwner
	}

	// 4. Валидация слота как однодневного правила
	spec := singleDaySpec(req, series.ResourceID)
	if err := spec.Validate(now, domain.DefaultHorizonDays); err != nil {
		uc.logger.Warn("AddSeriesInstance: slot validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}

	// 5. Получаем ресурс серии
	resource, err := uc.resourceRepo.GetByID(ctx, series.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("AddSeriesInstance: resource id=%d not found", series.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("AddSeriesInstance: failed to get resource id=%d: %v", series.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	// 6. Источник данных заявителя - последний инстанс серии
	existing, err := uc.seriesRepo.ListInstancesBySeries(ctx, req.SeriesID)
	if err != nil {
		uc.logger.Error("AddSeriesInstance: failed to list instances: %v", err)
		return nil, fmt.Errorf("%w: failed to list instances: %v", ErrInternal, err)
	}

	if len(existing) == 0 {
		uc.logger.Warn("AddSeriesInstance: series id=%d has no instances", req.SeriesID)
		return nil, ErrSeriesEmpty
	}

	template := latestByBegin(existing)

	// 7. Классифицируем единственного кандидата
	result, err := uc.generator.Generate(ctx, spec, resource, slotgen.Options{
		CheckOpenHours:     req.CheckOpenHours,
		CheckBuffers:       req.CheckBuffers,
		CheckStartInterval: req.CheckStartInterval,
	})
	if err != nil {
		uc.logger.Error("AddSeriesInstance: slot classification failed: %v", err)
		return nil, fmt.Errorf("%w: slot classification failed: %v", ErrInternal, err)
	}

	if err := classificationError(result); err != nil {
		uc.logger.Warn("AddSeriesInstance: slot rejected: %v", err)
		return nil, err
	}

	slot := result.Accepted[0]

	// 8. Резолвим способ доступа на дату слота
	accessMethod, err := uc.accessResolver.Resolve(ctx, series.ResourceID, req.Date)
	if err != nil {
		uc.logger.Error("AddSeriesInstance: failed to resolve access method: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve access method: %v", ErrInternal, err)
	}

	instance := &domain.ReservationInstance{
		SeriesID:     &series.ID,
		ResourceID:   series.ResourceID,
		UserID:       series.UserID,
		BeginsAt:     slot.Start,
		EndsAt:       slot.End,
		BufferBefore: slot.BufferBefore,
		BufferAfter:  slot.BufferAfter,
		AccessMethod: accessMethod,
		State:        domain.StateConfirmed,

		ReserveeType:  template.ReserveeType,
		ReserveeName:  template.ReserveeName,
		ReserveeEmail: template.ReserveeEmail,
		ReserveePhone: template.ReserveePhone,
	}

	var created *domain.ReservationInstance

	// 9. Атомарная вставка
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		inserted, err := uc.seriesRepo.CreateInstances(txCtx, resource.GroupID, []*domain.ReservationInstance{instance})
		if err != nil {
			if errors.Is(err, seriesRepo.ErrOverlapConstraint) {
				uc.logger.Warn("AddSeriesInstance: conflict detected at commit for series id=%d", req.SeriesID)
				return ErrConflictDetected
			}
			uc.logger.Error("AddSeriesInstance: failed to create instance: %v", err)
			return fmt.Errorf("%w: failed to create instance: %v", ErrInternal, err)
		}
		created = inserted[0]

		if err := uc.seriesRepo.RefreshAccessCodeFlag(txCtx, req.SeriesID); err != nil {
			uc.logger.Error("AddSeriesInstance: failed to refresh access code flag: %v", err)
			return fmt.Errorf("%w: failed to refresh access code flag: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("AddSeriesInstance: created instance id=%d for series id=%d", created.ID, req.SeriesID)

	// 10. Выдача кода доступа - best-effort после коммита
	all := append(activeInstances(existing), created)
	if domain.ShouldHaveActiveAccessCode(all, now) {
		if _, err := uc.accessCodes.GrantSeriesAccess(ctx, series.ID, resource.OpenHoursUUID, all); err != nil {
			uc.logger.Warn("AddSeriesInstance: access code grant deferred for series id=%d: %v", series.ID, err)
		}
	}

	return &Response{
		ID:           created.ID,
		SeriesID:     req.SeriesID,
		ResourceID:   series.ResourceID,
		BeginsAt:     created.BeginsAt,
		EndsAt:       created.EndsAt,
		AccessMethod: created.AccessMethod,
		State:        created.State,
		CreatedAt:    created.CreatedAt,
	}, nil
}

// classificationError переводит отказ классификации в ошибку usecase
func classificationError(result *slotgen.Result) error {
	switch {
	case len(result.Accepted) > 0:
		return nil
	case len(result.Overlapping) > 0:
		return ErrSlotOverlaps
	case len(result.NotReservable) > 0:
		return ErrSlotNotReservable
	case len(result.InvalidStartInterval) > 0:
		return ErrInvalidStartInterval
	default:
		return ErrInvalidSlot
	}
}
