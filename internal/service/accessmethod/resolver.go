package accessmethod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	historyRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/accessmethod"
)

// Resolver определяет действующий метод доступа ресурса на дату
// по его истории (effective_from, access_method)
type Resolver struct {
	repo         HistoryRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewResolver создает resolver
func NewResolver(repo HistoryRepository, logger Logger) *Resolver {
	return &Resolver{
		repo:         repo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Resolve возвращает метод доступа, действующий на указанную дату:
// запись с максимальным effective_from <= date. Если истории нет -
// UNRESTRICTED. Всегда тотальна для валидного ресурса
func (r *Resolver) Resolve(ctx context.Context, resourceID int64, date time.Time) (domain.AccessMethod, error) {
	entry, err := r.repo.GetEntryOnDate(ctx, resourceID, date)
	if err != nil {
		if errors.Is(err, historyRepo.ErrEntryNotFound) {
			return domain.AccessUnrestricted, nil
		}
		return "", fmt.Errorf("%w: Resolve - get entry: %v", ErrInternal, err)
	}
	return entry.AccessMethod, nil
}

// ResolveRange возвращает метод доступа для каждой даты диапазона
// [from, to] (включительно) одной выборкой истории - чтобы не делать
// по запросу на каждый сгенерированный слот серии
// Ключ - дата в формате YYYY-MM-DD
func (r *Resolver) ResolveRange(ctx context.Context, resourceID int64, from, to time.Time) (map[string]domain.AccessMethod, error) {
	entries, err := r.repo.ListByResource(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("%w: ResolveRange - list history: %v", ErrInternal, err)
	}

	methods := make(map[string]domain.AccessMethod)

	for date := dateOnly(from); !date.After(dateOnly(to)); date = date.AddDate(0, 0, 1) {
		method := domain.AccessUnrestricted
		// Записи отсортированы по effective_from: последняя подходящая побеждает
		for _, entry := range entries {
			if entry.IsActiveOn(date) {
				method = entry.AccessMethod
			} else {
				break
			}
		}
		methods[date.Format(domain.DateFormat)] = method
	}

	return methods, nil
}

// AddEntry добавляет запись истории через административный поток
// Правила: нельзя создать запись задним числом; на каждую дату не более
// одной записи. Изменение прошедших записей не поддерживается вовсе -
// история append-only
func (r *Resolver) AddEntry(ctx context.Context, resourceID int64, method domain.AccessMethod, effectiveFrom time.Time) (*domain.AccessMethodEntry, error) {
	now := r.timeProvider.Now()

	if dateOnly(effectiveFrom).Before(dateOnly(now)) {
		return nil, fmt.Errorf("%w: effective_from=%s", ErrEntryInPast, effectiveFrom.Format(domain.DateFormat))
	}

	entries, err := r.repo.ListByResource(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("%w: AddEntry - list history: %v", ErrInternal, err)
	}
	for _, entry := range entries {
		if dateOnly(entry.EffectiveFrom).Equal(dateOnly(effectiveFrom)) {
			return nil, fmt.Errorf("%w: date=%s", ErrDuplicateDate, effectiveFrom.Format(domain.DateFormat))
		}
	}

	created, err := r.repo.CreateEntry(ctx, &domain.AccessMethodEntry{
		ResourceID:    resourceID,
		AccessMethod:  method,
		EffectiveFrom: dateOnly(effectiveFrom),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: AddEntry - create entry: %v", ErrInternal, err)
	}

	r.logger.Info("AccessMethod: resource=%d method=%s effective_from=%s",
		resourceID, method, effectiveFrom.Format(domain.DateFormat))

	return created, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
