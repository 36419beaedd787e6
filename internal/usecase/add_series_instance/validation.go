package add_series_instance

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.SeriesID <= 0 {
		return fmt.Errorf("%w: seriesID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.BeginTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: begin and end times are required", ErrInvalidInput)
	}

	return nil
}

// singleDaySpec описывает одиночный слот как однодневное правило
// повторения - кандидат проходит ту же классификацию, что и серия
func singleDaySpec(req *Request, resourceID int64) *domain.RecurrenceSpec {
	return &domain.RecurrenceSpec{
		ResourceID:   resourceID,
		BeginDate:    req.Date,
		EndDate:      req.Date,
		BeginTime:    req.BeginTime,
		EndTime:      req.EndTime,
		IntervalDays: domain.MinRecurrenceIntervalDays,
	}
}

// latestByBegin возвращает инстанс с самым поздним временем начала -
// источник денормализованных данных заявителя для нового инстанса
func latestByBegin(instances []*domain.ReservationInstance) *domain.ReservationInstance {
	var latest *domain.ReservationInstance
	for _, inst := range instances {
		if latest == nil || inst.BeginsAt.After(latest.BeginsAt) {
			latest = inst
		}
	}
	return latest
}

// activeInstances отбирает занимающие интервал инстансы
func activeInstances(instances []*domain.ReservationInstance) []*domain.ReservationInstance {
	active := make([]*domain.ReservationInstance, 0, len(instances))
	for _, inst := range instances {
		if inst.IsActive() {
			active = append(active, inst)
		}
	}
	return active
}
