package create_series

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotgen"
)

const maxSeriesNameLength = 255

// validateRequest валидирует входные данные запроса
// Правило повторения валидируется отдельно через domain.RecurrenceSpec
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if len(req.Name) > maxSeriesNameLength {
		return fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}

	if req.Reservee == nil {
		return fmt.Errorf("%w: reservee is required", ErrInvalidInput)
	}

	if err := req.Reservee.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReservee, err)
	}

	return nil
}

// buildSpec собирает доменное правило повторения из запроса
func buildSpec(req *Request) *domain.RecurrenceSpec {
	return &domain.RecurrenceSpec{
		ResourceID:   req.ResourceID,
		Weekdays:     req.Weekdays,
		BeginDate:    req.BeginDate,
		EndDate:      req.EndDate,
		BeginTime:    req.BeginTime,
		EndTime:      req.EndTime,
		IntervalDays: req.RecurrenceIntervalDays,
		SkipDates:    req.SkipDates,
	}
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
// Отсутствие записи в карте означает UNRESTRICTED (дефолт резолвера)
func accessMethodFor(methods map[string]domain.AccessMethod, beginsAt time.Time, loc *time.Location) domain.AccessMethod {
	key := beginsAt.In(loc).Format(domain.DateFormat)
	if method, ok := methods[key]; ok {
		return method
	}
	return domain.AccessUnrestricted
}
