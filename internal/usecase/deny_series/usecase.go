package deny_series

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	seriesRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/series"
	accessCodeClient "github.com/m04kA/SMC-ReservationService/internal/integrations/accesscode"
)

// UseCase use case для отклонения серии бронирований персоналом
//
// Переводит все будущие активные инстансы серии в DENIED одной
// транзакцией. Начавшиеся и завершенные инстансы не трогаются:
// состоявшееся использование помещения остается в истории
type UseCase struct {
	seriesRepo   SeriesRepository
	accessCodes  AccessCodeRevoker
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	seriesRepository SeriesRepository,
	accessCodes AccessCodeRevoker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		seriesRepo:   seriesRepository,
		accessCodes:  accessCodes,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case отклонения серии
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("DenySeries: staff=%d, series=%d", req.StaffUserID, req.SeriesID)

	// 1. Валидация входных данных
	if req.StaffUserID <= 0 {
		return nil, fmt.Errorf("%w: staffUserID must be positive", ErrInvalidInput)
	}
	if req.SeriesID <= 0 {
		return nil, fmt.Errorf("%w: seriesID must be positive", ErrInvalidInput)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование серии
	if _, err := uc.seriesRepo.GetSeriesByID(ctx, req.SeriesID); err != nil {
		if errors.Is(err, seriesRepo.ErrSeriesNotFound) {
			uc.logger.Warn("DenySeries: series id=%d not found", req.SeriesID)
			return nil, ErrSeriesNotFound
		}
		uc.logger.Error("DenySeries: failed to get series id=%d: %v", req.SeriesID, err)
		return nil, fmt.Errorf("%w: failed to get series: %v", ErrInternal, err)
	}

	var deniedIDs, skippedIDs []int64

	// 4. Атомарный перевод будущих активных инстансов в DENIED
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Читаем инстансы с блокировкой (FOR UPDATE)
		instances, err := uc.seriesRepo.ListInstancesBySeries(txCtx, req.SeriesID)
		if err != nil {
			uc.logger.Error("DenySeries: failed to list instances: %v", err)
			return fmt.Errorf("%w: failed to list instances: %v", ErrInternal, err)
		}

		deniedIDs, skippedIDs = splitDeniable(instances, now)

		if len(deniedIDs) == 0 {
			uc.logger.Warn("DenySeries: series id=%d has no future active instances", req.SeriesID)
			return ErrNothingToDeny
		}

		// 4.2. Переводим в DENIED одним запросом
		if err := uc.seriesRepo.UpdateInstanceStates(txCtx, deniedIDs, domain.StateDenied); err != nil {
			uc.logger.Error("DenySeries: failed to deny instances: %v", err)
			return fmt.Errorf("%w: failed to deny instances: %v", ErrInternal, err)
		}

		// 4.3. Обновляем денормализованный флаг кода доступа
		if err := uc.seriesRepo.RefreshAccessCodeFlag(txCtx, req.SeriesID); err != nil {
			uc.logger.Error("DenySeries: failed to refresh access code flag: %v", err)
			return fmt.Errorf("%w: failed to refresh access code flag: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("DenySeries: series id=%d denied, instances=%d, skipped=%d",
		req.SeriesID, len(deniedIDs), len(skippedIDs))

	// 5. Отзыв кода доступа - best-effort после коммита
	if err := uc.accessCodes.RevokeSeriesAccess(ctx, req.SeriesID); err != nil && !errors.Is(err, accessCodeClient.ErrGrantNotFound) {
		uc.logger.Warn("DenySeries: access code revoke deferred for series id=%d: %v", req.SeriesID, err)
	}

	return &Response{
		SeriesID:           req.SeriesID,
		DeniedInstanceIDs:  deniedIDs,
		SkippedInstanceIDs: skippedIDs,
		DeniedAt:           now,
	}, nil
}

// splitDeniable делит инстансы на отклоняемые и пропускаемые
// Отклоняются только активные и еще не начавшиеся
func splitDeniable(instances []*domain.ReservationInstance, now time.Time) (denied, skipped []int64) {
	for _, inst := range instances {
		if inst.CanBeDenied(now) {
			denied = append(denied, inst.ID)
		} else {
			skipped = append(skipped, inst.ID)
		}
	}
	return denied, skipped
}
