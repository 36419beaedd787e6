package reschedule_series

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/resource"
	seriesRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/series"
	accessCodeClient "github.com/m04kA/SMC-ReservationService/internal/integrations/accesscode"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotgen"
)

// UseCase use case для перепланирования серии бронирований
//
// Новое правило повторения заменяет будущие подтвержденные инстансы;
// начавшиеся, завершенные и терминальные инстансы сохраняются.
// Собственные заменяемые инстансы исключаются из проверки пересечений,
// иначе серия конфликтовала бы сама с собой
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
	resourceRepository ResourceRepository,
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
		resourceRepo:   resourceRepository,
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

// Execute выполняет use case перепланирования серии
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleSeries: user=%d, series=%d, dates=%s..%s, time=%s-%s",
		req.UserID, req.SeriesID,
		req.BeginDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat),
		req.BeginTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleSeries: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем серию и проверяем владельца
	series, err := uc.seriesRepo.GetSeriesByID(ctx, req.SeriesID)
	if err != nil {
		if errors.Is(err, seriesRepo.ErrSeriesNotFound) {
			uc.logger.Warn("RescheduleSeries: series id=%d not found", req.SeriesID)
			return nil, ErrSeriesNotFound
		}
		uc.logger.Error("RescheduleSeries: failed to get series id=%d: %v", req.SeriesID, err)
		return nil, fmt.Errorf("%w: failed to get series: %v", ErrInternal, err)
	}

	if series.UserID != req.UserID {
		uc.logger.Warn("RescheduleSeries: user=%d is not the owner of series id=%d", req.UserID, req.SeriesID)
		return nil, ErrNotSeriesOwner
	}

	// 4. Валидация нового правила повторения
	spec := buildSpec(req, series.ResourceID)
	if err := spec.Validate(now, uc.horizonDays); err != nil {
		uc.logger.Warn("RescheduleSeries: recurrence validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}

	// 5. Получаем ресурс серии
	resource, err := uc.resourceRepo.GetByID(ctx, series.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("RescheduleSeries: resource id=%d not found", series.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("RescheduleSeries: failed to get resource id=%d: %v", series.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	// 6. Предварительное чтение инстансов - определяем заменяемые,
	// чтобы исключить их из проверки пересечений при генерации
	existing, err := uc.seriesRepo.ListInstancesBySeries(ctx, req.SeriesID)
	if err != nil {
		uc.logger.Error("RescheduleSeries: failed to list instances: %v", err)
		return nil, fmt.Errorf("%w: failed to list instances: %v", ErrInternal, err)
	}

	if len(existing) == 0 {
		uc.logger.Warn("RescheduleSeries: series id=%d has no instances", req.SeriesID)
		return nil, ErrSeriesEmpty
	}

	replaceable, _ := splitInstances(existing, now)

	// 7. Генерация и классификация кандидатов (чистый расчет, вне транзакции)
	result, err := uc.generator.Generate(ctx, spec, resource, slotgen.Options{
		CheckOpenHours:     req.CheckOpenHours,
		CheckBuffers:       req.CheckBuffers,
		CheckStartInterval: req.CheckStartInterval,
		IgnoreInstanceIDs:  instanceIDs(replaceable),
	})
	if err != nil {
		uc.logger.Error("RescheduleSeries: slot generation failed: %v", err)
		return nil, fmt.Errorf("%w: slot generation failed: %v", ErrInternal, err)
	}

	if result.TotalCandidates() == 0 {
		uc.logger.Warn("RescheduleSeries: recurrence rule produced no occurrences")
		return nil, ErrNoCandidates
	}

	rejected := rejectedInfos(result)

	// 8. Все кандидаты отклонены - без AllowPartial серию не трогаем
	if len(result.Accepted) == 0 && !req.AllowPartial {
		uc.logger.Warn("RescheduleSeries: all %d candidates rejected", result.RejectedCount())
		return &Response{SeriesID: req.SeriesID, Rejected: rejected}, ErrAllSlotsRejected
	}

	// 9. Резолвим способы доступа одной выборкой на новый диапазон
	accessMethods, err := uc.accessResolver.ResolveRange(ctx, series.ResourceID, req.BeginDate, req.EndDate)
	if err != nil {
		uc.logger.Error("RescheduleSeries: failed to resolve access methods: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve access methods: %v", ErrInternal, err)
	}

	var (
		createdInstances []*domain.ReservationInstance
		keptInstances    []*domain.ReservationInstance
		replacedIDs      []int64
	)

	// 10. Атомарная замена: удаление будущих подтвержденных инстансов,
	// вставка новых, обновление правила серии
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 10.1. Перечитываем инстансы с блокировкой (FOR UPDATE)
		locked, err := uc.seriesRepo.ListInstancesBySeries(txCtx, req.SeriesID)
		if err != nil {
			uc.logger.Error("RescheduleSeries: failed to lock instances: %v", err)
			return fmt.Errorf("%w: failed to lock instances: %v", ErrInternal, err)
		}

		toReplace, toKeep := splitInstances(locked, now)
		keptInstances = toKeep
		replacedIDs = instanceIDs(toReplace)

		// Источник денормализованных данных заявителя
		template := latestByBegin(locked)

		// 10.2. Удаляем заменяемые инстансы
		if len(replacedIDs) > 0 {
			if err := uc.seriesRepo.DeleteInstances(txCtx, replacedIDs); err != nil {
				uc.logger.Error("RescheduleSeries: failed to delete instances: %v", err)
				return fmt.Errorf("%w: failed to delete instances: %v", ErrInternal, err)
			}
		}

		// 10.3. Вставляем новые инстансы по новому правилу
		instances := uc.buildInstances(series, template, result.Accepted, accessMethods)

		if len(instances) > 0 {
			createdInstances, err = uc.seriesRepo.CreateInstances(txCtx, resource.GroupID, instances)
			if err != nil {
				if errors.Is(err, seriesRepo.ErrOverlapConstraint) {
					uc.logger.Warn("RescheduleSeries: conflict detected at commit for series id=%d", req.SeriesID)
					return ErrConflictDetected
				}
				uc.logger.Error("RescheduleSeries: failed to create instances: %v", err)
				return fmt.Errorf("%w: failed to create instances: %v", ErrInternal, err)
			}
		}

		// 10.4. Обновляем правило повторения серии
		series.RecurrenceIntervalDays = req.RecurrenceIntervalDays
		series.Weekdays = spec.EffectiveWeekdays()
		series.BeginDate = req.BeginDate
		series.EndDate = req.EndDate
		series.BeginTime = req.BeginTime
		series.EndTime = req.EndTime

		if err := uc.seriesRepo.UpdateSeriesRecurrence(txCtx, series); err != nil {
			uc.logger.Error("RescheduleSeries: failed to update series: %v", err)
			return fmt.Errorf("%w: failed to update series: %v", ErrInternal, err)
		}

		// 10.5. Фиксируем отказы как данные для отчетности
		if result.RejectedCount() > 0 {
			if err := uc.seriesRepo.CreateRejectedOccurrences(txCtx, result.RejectedOccurrences(req.SeriesID)); err != nil {
				uc.logger.Error("RescheduleSeries: failed to record rejected occurrences: %v", err)
				return fmt.Errorf("%w: failed to record rejected occurrences: %v", ErrInternal, err)
			}
		}

		// 10.6. Обновляем денормализованный флаг кода доступа
		if err := uc.seriesRepo.RefreshAccessCodeFlag(txCtx, req.SeriesID); err != nil {
			uc.logger.Error("RescheduleSeries: failed to refresh access code flag: %v", err)
			return fmt.Errorf("%w: failed to refresh access code flag: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleSeries: series id=%d rescheduled, new=%d, kept=%d, replaced=%d, rejected=%d",
		req.SeriesID, len(createdInstances), len(keptInstances), len(replacedIDs), result.RejectedCount())

	// 11. Синхронизация кода доступа - best-effort после коммита
	uc.syncAccessCode(ctx, series, resource, append(keptInstances, createdInstances...), now)

	return buildResponse(req.SeriesID, createdInstances, keptInstances, replacedIDs, rejected), nil
}

// buildInstances материализует принятые слоты в новые инстансы серии
// Данные заявителя копируются из последнего существующего инстанса
func (uc *UseCase) buildInstances(
	series *domain.ReservationSeries,
	template *domain.ReservationInstance,
	accepted []domain.TimeInterval,
	accessMethods map[string]domain.AccessMethod,
) []*domain.ReservationInstance {
	instances := make([]*domain.ReservationInstance, 0, len(accepted))

	for _, slot := range accepted {
		instances = append(instances, &domain.ReservationInstance{
			SeriesID:     &series.ID,
			ResourceID:   series.ResourceID,
			UserID:       series.UserID,
			BeginsAt:     slot.Start,
			EndsAt:       slot.End,
			BufferBefore: slot.BufferBefore,
			BufferAfter:  slot.BufferAfter,
			AccessMethod: accessMethodFor(accessMethods, slot.Start, uc.location),
			State:        domain.StateConfirmed,

			ReserveeType:  template.ReserveeType,
			ReserveeName:  template.ReserveeName,
			ReserveeEmail: template.ReserveeEmail,
			ReserveePhone: template.ReserveePhone,
		})
	}

	return instances
}

// syncAccessCode приводит код доступа серии в соответствие с новым
// набором инстансов. Ошибки логируются и проглатываются: выдачу
// довыполнит фоновая сверка
func (uc *UseCase) syncAccessCode(
	ctx context.Context,
	series *domain.ReservationSeries,
	resource *domain.Resource,
	instances []*domain.ReservationInstance,
	now time.Time,
) {
	if domain.ShouldHaveActiveAccessCode(instances, now) {
		if _, err := uc.accessCodes.GrantSeriesAccess(ctx, series.ID, resource.OpenHoursUUID, instances); err != nil {
			uc.logger.Warn("RescheduleSeries: access code grant deferred for series id=%d: %v", series.ID, err)
		}
		return
	}

	err := uc.accessCodes.RevokeSeriesAccess(ctx, series.ID)
	if err != nil && !errors.Is(err, accessCodeClient.ErrGrantNotFound) {
		uc.logger.Warn("RescheduleSeries: access code revoke deferred for series id=%d: %v", series.ID, err)
	}
}

func buildResponse(
	seriesID int64,
	created []*domain.ReservationInstance,
	kept []*domain.ReservationInstance,
	replacedIDs []int64,
	rejected []*RejectedInfo,
) *Response {
	resp := &Response{
		SeriesID:            seriesID,
		Instances:           make([]*InstanceInfo, 0, len(created)),
		KeptInstanceIDs:     instanceIDs(kept),
		ReplacedInstanceIDs: replacedIDs,
		Rejected:            rejected,
	}

	for _, inst := range created {
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
