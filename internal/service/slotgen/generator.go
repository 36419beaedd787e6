package slotgen

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Generator генератор слотов повторяющегося бронирования (ядро сервиса)
//
// Разворачивает спецификацию повторения в конкретные кандидаты и
// классифицирует каждого ровно в одну корзину в фиксированном порядке
// приоритета: пересечение -> вне часов работы -> некратное начало -> принят.
// Генерация - чистое вычисление; все отказы - данные, не ошибки.
// Падает только при недоступности коллабораторов.
type Generator struct {
	occupancy OccupancyIndex
	openHours OpenHoursOracle
	location  *time.Location
	logger    Logger
}

// NewGenerator создает генератор
// location - фиксированная таймзона объектов: вся wall-clock арифметика
// выполняется в ней, чтобы время "10:00-12:00" оставалось корректным
// при переходе через летнее/зимнее время
func NewGenerator(occupancy OccupancyIndex, openHours OpenHoursOracle, location *time.Location, logger Logger) *Generator {
	return &Generator{
		occupancy: occupancy,
		openHours: openHours,
		location:  location,
		logger:    logger,
	}
}

// Generate разворачивает spec в кандидатов и классифицирует их
// Спецификация должна быть провалидирована заранее (spec.Validate);
// для валидной спецификации Generate не возвращает ошибок классификации -
// только ошибки недоступности коллабораторов
func (g *Generator) Generate(ctx context.Context, spec *domain.RecurrenceSpec, resource *domain.Resource, opts Options) (*Result, error) {
	candidates, err := g.expandCandidates(spec, resource, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Accepted:             make([]domain.TimeInterval, 0, len(candidates)),
		Overlapping:          make([]Candidate, 0),
		NotReservable:        make([]Candidate, 0),
		InvalidStartInterval: make([]Candidate, 0),
	}

	if len(candidates) == 0 {
		return result, nil
	}

	// Все данные коллабораторов забираются один раз, вне цикла по кандидатам
	fetchFrom, fetchTo := g.fetchRange(spec)

	existing, err := g.occupancy.ConflictingIntervals(ctx, resource.GroupID, fetchFrom, fetchTo, opts.IgnoreInstanceIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: resource=%d: %v", ErrOccupancyUnavailable, resource.ID, err)
	}

	var openWindows []domain.TimeInterval
	closedWindows := opts.ClosedWindows
	if opts.CheckOpenHours {
		openWindows, err = g.openHours.GetReservableWindows(ctx, resource.OpenHoursUUID, fetchFrom, fetchTo)
		if err != nil {
			return nil, fmt.Errorf("%w: resource=%d: %v", ErrOpenHoursUnavailable, resource.ID, err)
		}

		// Авторитетные закрытия оракула дополняют явно переданные окна
		closures, err := g.openHours.GetOverrideClosures(ctx, resource.OpenHoursUUID, fetchFrom, fetchTo)
		if err != nil {
			return nil, fmt.Errorf("%w: resource=%d: %v", ErrOpenHoursUnavailable, resource.ID, err)
		}
		if len(closures) > 0 {
			merged := make([]domain.TimeInterval, 0, len(closedWindows)+len(closures))
			merged = append(merged, closedWindows...)
			merged = append(merged, closures...)
			closedWindows = merged
		}
	}

	for _, candidate := range candidates {
		g.classify(candidate, existing, openWindows, closedWindows, resource, opts, result)
	}

	g.logger.Info("SlotGen: resource=%d candidates=%d accepted=%d overlapping=%d not_reservable=%d invalid_start=%d",
		resource.ID, len(candidates), len(result.Accepted),
		len(result.Overlapping), len(result.NotReservable), len(result.InvalidStartInterval))

	return result, nil
}

// expandCandidates разворачивает правило повторения в интервалы-кандидаты
//
// Для каждого дня недели находится первая подходящая дата на/после begin_date,
// затем даты идут с шагом interval_days до end_date включительно. Даты из
// skip_dates отбрасываются до построения интервалов. Wall-clock время каждого
// кандидата привязывается к его собственной дате (а не получается прибавлением
// фиксированного timedelta к первому вхождению) - иначе серия, пересекающая
// переход на летнее время, уехала бы на час
func (g *Generator) expandCandidates(spec *domain.RecurrenceSpec, resource *domain.Resource, opts Options) ([]domain.TimeInterval, error) {
	beginDate := g.dateInLocation(spec.BeginDate)
	endDate := g.dateInLocation(spec.EndDate)
	beginWeekday := domain.WeekdayFromTime(beginDate.Weekday())

	candidates := make([]domain.TimeInterval, 0)

	for _, weekday := range spec.EffectiveWeekdays() {
		first := beginDate.AddDate(0, 0, beginWeekday.DaysUntil(weekday))

		for date := first; !date.After(endDate); date = date.AddDate(0, 0, spec.IntervalDays) {
			if spec.IsSkipped(date) {
				continue
			}

			begin, err := spec.BeginTime.OnDate(date, g.location)
			if err != nil {
				return nil, fmt.Errorf("%w: begin time: %v", ErrInvalidSpec, err)
			}
			end, err := spec.EndTime.OnDate(date, g.location)
			if err != nil {
				return nil, fmt.Errorf("%w: end time: %v", ErrInvalidSpec, err)
			}

			interval, err := domain.NewTimeInterval(begin, end)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
			}

			if opts.CheckBuffers {
				interval = g.applyBufferPolicy(interval, resource)
			}

			candidates = append(candidates, interval)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Start.Before(candidates[j].Start)
	})

	return candidates, nil
}

// classify относит кандидата ровно в одну корзину
// Порядок проверок фиксирован: первый сработавший - финальный, кандидат,
// одновременно пересекающийся с бронированием и лежащий вне часов работы,
// попадает в Overlapping
func (g *Generator) classify(
	candidate domain.TimeInterval,
	existing []domain.TimeInterval,
	openWindows []domain.TimeInterval,
	closedWindows []domain.TimeInterval,
	resource *domain.Resource,
	opts Options,
	result *Result,
) {
	original := Candidate{Begin: candidate.Start, End: candidate.End}

	// a. Пересечение с существующим бронированием - проверяется в обе стороны,
	// чтобы учесть буферы обеих сторон
	for _, booked := range existing {
		if candidate.Overlaps(booked) || booked.Overlaps(candidate) {
			result.Overlapping = append(result.Overlapping, original)
			return
		}
	}

	// b. Вне часов работы: не лежит целиком ни в одном открытом окне,
	// либо пересекает явно закрытый период
	if opts.CheckOpenHours && !fullyInsideAny(candidate, openWindows) {
		result.NotReservable = append(result.NotReservable, original)
		return
	}
	for _, closed := range closedWindows {
		if candidate.Overlaps(closed) {
			result.NotReservable = append(result.NotReservable, original)
			return
		}
	}

	// c. Начало не кратно разрешенному шагу ресурса
	if opts.CheckStartInterval && !g.startAligned(candidate.Start, resource.StartInterval()) {
		result.InvalidStartInterval = append(result.InvalidStartInterval, original)
		return
	}

	// d. Принят
	result.Accepted = append(result.Accepted, candidate)
}

// applyBufferPolicy вычисляет буферы кандидата из политики ресурса
// BlockWholeDay растягивает буферы на весь день кандидата
func (g *Generator) applyBufferPolicy(interval domain.TimeInterval, resource *domain.Resource) domain.TimeInterval {
	if resource.BlockWholeDay {
		dayStart := g.dateInLocation(interval.Start)
		dayEnd := dayStart.AddDate(0, 0, 1)
		return interval.WithBuffers(interval.Start.Sub(dayStart), dayEnd.Sub(interval.End))
	}
	return interval.WithBuffers(resource.BufferBefore, resource.BufferAfter)
}

// startAligned проверяет кратность wall-clock времени начала шагу ресурса
func (g *Generator) startAligned(start time.Time, intervalMinutes int) bool {
	local := start.In(g.location)
	minutesOfDay := local.Hour()*60 + local.Minute()
	return minutesOfDay%intervalMinutes == 0
}

// fetchRange возвращает диапазон выборки данных коллабораторов:
// весь диапазон дат спецификации с запасом в сутки на буферы
func (g *Generator) fetchRange(spec *domain.RecurrenceSpec) (time.Time, time.Time) {
	from := g.dateInLocation(spec.BeginDate).AddDate(0, 0, -1)
	to := g.dateInLocation(spec.EndDate).AddDate(0, 0, 2)
	return from, to
}

// dateInLocation нормализует значение до полуночи его даты в таймзоне объектов
func (g *Generator) dateInLocation(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, g.location)
}

func fullyInsideAny(candidate domain.TimeInterval, windows []domain.TimeInterval) bool {
	for _, window := range windows {
		if window.IsReservable && candidate.FullyInside(window) {
			return true
		}
	}
	return false
}
