package occupancy

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository индекс занятости поверх денормализованного представления
// reservation_occupancy: активные инстансы всех ресурсов группы
// (физически делящих пространство) с предвычисленными буферизованными
// границами. Представление read-only для движка
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория занятости
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ConflictingIntervals возвращает буферизованные интервалы всех существующих
// бронирований группы ресурсов, способных конфликтовать с новым бронированием
// в диапазоне [from, to). Инстансы из excludeInstanceIDs исключаются -
// обязательно при перегенерации серии, заменяющей собственные инстансы
//
// Внутри транзакции строки блокируются (FOR UPDATE на базовой таблице),
// чтобы гонка двух одновременных созданий разрешалась на уровне БД
func (r *Repository) ConflictingIntervals(ctx context.Context, resourceGroupID int64, from, to time.Time, excludeInstanceIDs []int64) ([]domain.TimeInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"instance_id",
		"begins_at",
		"ends_at",
		"buffer_before_seconds",
		"buffer_after_seconds",
	).
		From("reservation_occupancy").
		Where(squirrel.Eq{"group_id": resourceGroupID}).
		Where(squirrel.Lt{"buffered_begins_at": to}).
		Where(squirrel.Gt{"buffered_ends_at": from})

	if len(excludeInstanceIDs) > 0 {
		selectBuilder = selectBuilder.Where("NOT (instance_id = ANY(?))", pq.Array(excludeInstanceIDs))
	}

	query, args, err := selectBuilder.OrderBy("begins_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ConflictingIntervals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ConflictingIntervals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.TimeInterval, 0)
	for rows.Next() {
		var instanceID int64
		var beginsAt, endsAt time.Time
		var bufferBeforeSec, bufferAfterSec int64

		if err := rows.Scan(&instanceID, &beginsAt, &endsAt, &bufferBeforeSec, &bufferAfterSec); err != nil {
			return nil, fmt.Errorf("%w: ConflictingIntervals - scan row: %v", ErrScanRow, err)
		}

		intervals = append(intervals, domain.TimeInterval{
			Start:        beginsAt,
			End:          endsAt,
			BufferBefore: time.Duration(bufferBeforeSec) * time.Second,
			BufferAfter:  time.Duration(bufferAfterSec) * time.Second,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ConflictingIntervals - rows error: %v", ErrScanRow, err)
	}

	return intervals, nil
}
