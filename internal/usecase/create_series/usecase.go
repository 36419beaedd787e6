package create_series

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/resource"
	seriesRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/series"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotgen"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// UseCase use case для создания серии бронирований
//
// Границы транзакции: генерация и классификация слотов выполняются до
// транзакции (чистый расчет), в сериализуемой транзакции - только
// атомарная материализация (серия + инстансы + записи отказов).
// Конфликт, возникший между расчетом и коммитом, ловится ограничением
// пересечений в БД и возвращается как ErrConflictDetected
type UseCase struct {
	seriesRepo     SeriesRepository
	resourceRepo   ResourceRepository
	generator      SlotGenerator
	accessResolver AccessMethodResolver
	accessCodes    AccessCodeIssuer
	txManager      TransactionManager
	timeProvider   TimeProvider
	location       *time.Location
	horizonDays    int
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	seriesRepository SeriesRepository,
	resourceRepo ResourceRepository,
	generator SlotGenerator,
	accessResolver AccessMethodResolver,
	accessCodes AccessCodeIssuer,
	txManager TransactionManager,
	location *time.Location,
	horizonDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		seriesRepo:     seriesRepository,
		resourceRepo:   resourceRepo,
		generator:      generator,
		accessResolver: accessResolver,
		accessCodes:    accessCodes,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		location:       location,
		horizonDays:    horizonDays,
		logger:         logger,
	}
}

// Execute выполняет use case создания серии бронирований
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSeries: user=%d, resource=%d, dates=%s..%s, time=%s-%s, interval=%d",
		req.UserID, req.ResourceID,
		req.BeginDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat),
		req.BeginTime, req.EndTime, req.RecurrenceIntervalDays)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateSeries: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация правила повторения
	spec := buildSpec(req)
	if err := spec.Validate(now, uc.horizonDays); err != nil {
		uc.logger.Warn("CreateSeries: recurrence validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}

	// 4. Получаем ресурс
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateSeries: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateSeries: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	if !resource.Published {
		uc.logger.Warn("CreateSeries: resource id=%d is not published", req.ResourceID)
		return nil, ErrResourceNotPublished
	}

	// 5. Генерация и классификация кандидатов (чистый расчет, вне транзакции)
	result, err := uc.generator.Generate(ctx, spec, resource, slotgen.Options{
		CheckOpenHours:     req.CheckOpenHours,
		CheckBuffers:       req.CheckBuffers,
		CheckStartInterval: req.CheckStartInterval,
	})
	if err != nil {
		uc.logger.Error("CreateSeries: slot generation failed: %v", err)
		return nil, fmt.Errorf("%w: slot generation failed: %v", ErrInternal, err)
	}

	if result.TotalCandidates() == 0 {
		uc.logger.Warn("CreateSeries: recurrence rule produced no occurrences")
		return nil, ErrNoCandidates
	}

	rejected := rejectedInfos(result)

	// 6. Все кандидаты отклонены - без AllowPartial серию не создаем,
	// но детали отказов возвращаем рядом с ошибкой
	if len(result.Accepted) == 0 && !req.AllowPartial {
		uc.logger.Warn("CreateSeries: all %d candidates rejected", result.RejectedCount())
		return &Response{Rejected: rejected}, ErrAllSlotsRejected
	}

	// 7. Резолвим способы доступа одной выборкой на весь диапазон серии
	accessMethods, err := uc.accessResolver.ResolveRange(ctx, req.ResourceID, req.BeginDate, req.EndDate)
	if err != nil {
		uc.logger.Error("CreateSeries: failed to resolve access methods: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve access methods: %v", ErrInternal, err)
	}

	var (
		createdSeries    *domain.ReservationSeries
		createdInstances []*domain.ReservationInstance
	)

	// 8. Атомарная материализация: серия + инстансы + записи отказов
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		series := &domain.ReservationSeries{
			ResourceID:             req.ResourceID,
			UserID:                 req.UserID,
			Name:                   req.Name,
			RecurrenceIntervalDays: req.RecurrenceIntervalDays,
			Weekdays:               spec.EffectiveWeekdays(),
			BeginDate:              req.BeginDate,
			EndDate:                req.EndDate,
			BeginTime:              req.BeginTime,
			EndTime:                req.EndTime,
			AgeGroup:               req.AgeGroup,
		}

		created, err := uc.seriesRepo.CreateSeries(txCtx, series)
		if err != nil {
			uc.logger.Error("CreateSeries: failed to create series: %v", err)
			return fmt.Errorf("%w: failed to create series: %v", ErrInternal, err)
		}
		createdSeries = created

		// 8.1. Материализуем принятые слоты
		instances := uc.buildInstances(created.ID, req, result.Accepted, accessMethods)

		if len(instances) > 0 {
			createdInstances, err = uc.seriesRepo.CreateInstances(txCtx, resource.GroupID, instances)
			if err != nil {
				if errors.Is(err, seriesRepo.ErrOverlapConstraint) {
					uc.logger.Warn("CreateSeries: conflict detected at commit for series id=%d", created.ID)
					return ErrConflictDetected
				}
				uc.logger.Error("CreateSeries: failed to create instances: %v", err)
				return fmt.Errorf("%w: failed to create instances: %v", ErrInternal, err)
			}
		}

		// 8.2. Фиксируем отказы как данные для отчетности
		if result.RejectedCount() > 0 {
			if err := uc.seriesRepo.CreateRejectedOccurrences(txCtx, result.RejectedOccurrences(created.ID)); err != nil {
				uc.logger.Error("CreateSeries: failed to record rejected occurrences: %v", err)
				return fmt.Errorf("%w: failed to record rejected occurrences: %v", ErrInternal, err)
			}
		}

		// 8.3. Обновляем денормализованный флаг кода доступа
		if err := uc.seriesRepo.RefreshAccessCodeFlag(txCtx, created.ID); err != nil {
			uc.logger.Error("CreateSeries: failed to refresh access code flag: %v", err)
			return fmt.Errorf("%w: failed to refresh access code flag: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateSeries: created series id=%d, instances=%d, rejected=%d",
		createdSeries.ID, len(createdInstances), result.RejectedCount())

	// 9. Выдача кода доступа - best-effort после коммита: недоступность
	// сервиса кодов не откатывает созданную серию
	if domain.ShouldHaveActiveAccessCode(createdInstances, now) {
		if _, err := uc.accessCodes.GrantSeriesAccess(ctx, createdSeries.ID, resource.OpenHoursUUID, createdInstances); err != nil {
			uc.logger.Warn("CreateSeries: access code grant deferred for series id=%d: %v", createdSeries.ID, err)
		}
	}

	return buildResponse(createdSeries, createdInstances, rejected), nil
}

// buildInstances материализует принятые слоты в инстансы серии
// Данные заявителя денормализуются при создании и не пересчитываются
func (uc *UseCase) buildInstances(
	seriesID int64,
	req *Request,
	accepted []domain.TimeInterval,
	accessMethods map[string]domain.AccessMethod,
) []*domain.ReservationInstance {
	instances := make([]*domain.ReservationInstance, 0, len(accepted))

	for _, slot := range accepted {
		instances = append(instances, &domain.ReservationInstance{
			SeriesID:     &seriesID,
			ResourceID:   req.ResourceID,
			UserID:       req.UserID,
			BeginsAt:     slot.Start,
			EndsAt:       slot.End,
			BufferBefore: slot.BufferBefore,
			BufferAfter:  slot.BufferAfter,
			AccessMethod: accessMethodFor(accessMethods, slot.Start, uc.location),
			State:        domain.StateConfirmed,

			ReserveeType:  req.Reservee.Type(),
			ReserveeName:  req.Reservee.DisplayName(),
			ReserveeEmail: optionalString(req.Reservee.ContactEmail()),
			ReserveePhone: optionalString(req.Reservee.ContactPhone()),
		})
	}

	return instances
}

func buildResponse(series *domain.ReservationSeries, instances []*domain.ReservationInstance, rejected []*RejectedInfo) *Response {
	resp := &Response{
		Series: &SeriesInfo{
			ID:                     series.ID,
			ResourceID:             series.ResourceID,
			UserID:                 series.UserID,
			Name:                   series.Name,
			RecurrenceIntervalDays: series.RecurrenceIntervalDays,
			Weekdays:               series.Weekdays,
			BeginDate:              series.BeginDate,
			EndDate:                series.EndDate,
			BeginTime:              series.BeginTime,
			EndTime:                series.EndTime,
			AgeGroup:               series.AgeGroup,
			CreatedAt:              series.CreatedAt,
		},
		Instances: make([]*InstanceInfo, 0, len(instances)),
		Rejected:  rejected,
	}

	for _, inst := range instances {
		resp.Instances = append(resp.Instances, &InstanceInfo{
			ID:           inst.ID,
			BeginsAt:     inst.BeginsAt,
			EndsAt:       inst.EndsAt,
			AccessMethod: inst.AccessMethod,
			State:        inst.State,
		})
	}

	return resp
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return ptr.Ptr(s)
}
