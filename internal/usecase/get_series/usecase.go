package get_series

import (
	"context"
	"errors"
	"fmt"

	seriesRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/series"
)

// UseCase use case для получения серии с инстансами и историей отказов
type UseCase struct {
	seriesRepo SeriesRepository
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(seriesRepository SeriesRepository, logger Logger) *UseCase {
	return &UseCase{
		seriesRepo: seriesRepository,
		logger:     logger,
	}
}

// Execute выполняет use case получения серии
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.SeriesID <= 0 {
		return nil, fmt.Errorf("%w: seriesID must be positive", ErrInvalidInput)
	}

	series, err := uc.seriesRepo.GetSeriesByID(ctx, req.SeriesID)
	if err != nil {
		if errors.Is(err, seriesRepo.ErrSeriesNotFound) {
			uc.logger.Warn("GetSeries: series id=%d not found", req.SeriesID)
			return nil, ErrSeriesNotFound
		}
		uc.logger.Error("GetSeries: failed to get series id=%d: %v", req.SeriesID, err)
		return nil, fmt.Errorf("%w: failed to get series: %v", ErrInternal, err)
	}

	instances, err := uc.seriesRepo.ListInstancesBySeries(ctx, req.SeriesID)
	if err != nil {
		uc.logger.Error("GetSeries: failed to list instances: %v", err)
		return nil, fmt.Errorf("%w: failed to list instances: %v", ErrInternal, err)
	}

	rejected, err := uc.seriesRepo.ListRejectedBySeries(ctx, req.SeriesID)
	if err != nil {
		uc.logger.Error("GetSeries: failed to list rejected occurrences: %v", err)
		return nil, fmt.Errorf("%w: failed to list rejected occurrences: %v", ErrInternal, err)
	}

	resp := &Response{
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
		Instances:              make([]*InstanceInfo, 0, len(instances)),
		Rejected:               make([]*RejectedInfo, 0, len(rejected)),
		CreatedAt:              series.CreatedAt,
		UpdatedAt:              series.UpdatedAt,
	}

	for _, inst := range instances {
		resp.Instances = append(resp.Instances, &InstanceInfo{
			ID:           inst.ID,
			BeginsAt:     inst.BeginsAt,
			EndsAt:       inst.EndsAt,
			AccessMethod: inst.AccessMethod,
			State:        inst.State,
			ReserveeType: inst.ReserveeType,
			ReserveeName: inst.ReserveeName,
		})
	}

	for _, rej := range rejected {
		resp.Rejected = append(resp.Rejected, &RejectedInfo{
			BeginsAt: rej.BeginsAt,
			EndsAt:   rej.EndsAt,
			Reason:   rej.Reason,
		})
	}

	return resp, nil
}
