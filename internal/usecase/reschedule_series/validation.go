package reschedule_series

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotgen"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.SeriesID <= 0 {
		return fmt.Errorf("%w: seriesID must be positive", ErrInvalidInput)
	}

	return nil
}

// buildSpec собирает доменное правило повторения из запроса
func buildSpec(req *Request, resourceID int64) *domain.RecurrenceSpec {
	return &domain.RecurrenceSpec{
		ResourceID:   resourceID,
		Weekdays:     req.Weekdays,
		BeginDate:    req.BeginDate,
		EndDate:      req.EndDate,
		BeginTime:    req.BeginTime,
		EndTime:      req.EndTime,
		IntervalDays: req.RecurrenceIntervalDays,
		SkipDates:    req.SkipDates,
	}
}

// splitInstances делит инстансы серии на заменяемые и сохраняемые.
// Заменяются только подтвержденные и еще не начавшиеся инстансы;
// остальные (начавшиеся, завершенные, терминальные) переживают
// перепланирование без изменений
func splitInstances(instances []*domain.ReservationInstance, now time.Time) (replaceable, kept []*domain.ReservationInstance) {
	for _, inst := range instances {
		if inst.CanBeRescheduled(now) {
			replaceable = append(replaceable, inst)
		} else {
			kept = append(kept, inst)
		}
	}
	return replaceable, kept
}

// instanceIDs собирает идентификаторы инстансов
func instanceIDs(instances []*domain.ReservationInstance) []int64 {
	ids := make([]int64, 0, len(instances))
	for _, inst := range instances {
		ids = append(ids, inst.ID)
	}
	return ids
}

// latestByBegin возвращает инстанс с самым поздним временем начала -
// источник денормализованных данных заявителя для новых инстансов
func latestByBegin(instances []*domain.ReservationInstance) *domain.ReservationInstance {
	var latest *domain.ReservationInstance
	for _, inst := range instances {
		if latest == nil || inst.BeginsAt.After(latest.BeginsAt) {
			latest = inst
		}
	}
	return latest
}

// rejectedInfos разворачивает корзины отказов генератора в модели ответа
func rejectedInfos(result *slotgen.Result) []*RejectedInfo {
	rejected := make([]*RejectedInfo, 0, result.RejectedCount())

	appendBucket := func(bucket []slotgen.Candidate, reason domain.RejectionReason) {
		for _, c := range bucket {
			rejected = append(rejected, &RejectedInfo{
				BeginsAt: c.Begin,
				EndsAt:   c.End,
				Reason:   reason,
			})
		}
	}

	appendBucket(result.Overlapping, domain.ReasonOverlapping)
	appendBucket(result.NotReservable, domain.ReasonUnitClosed)
	appendBucket(result.InvalidStartInterval, domain.ReasonIntervalNotAllowed)

	return rejected
}

// accessMethodFor выбирает способ доступа инстанса по дате его начала
func accessMethodFor(methods map[string]domain.AccessMethod, beginsAt time.Time, loc *time.Location) domain.AccessMethod {
	key := beginsAt.In(loc).Format(domain.DateFormat)
	if method, ok := methods[key]; ok {
		return method
	}
	return domain.AccessUnrestricted
}
