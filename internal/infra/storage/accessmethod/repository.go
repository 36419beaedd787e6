package accessmethod

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий истории методов доступа ресурсов
// История append-only: записи создаются и читаются, изменение и удаление
// прошедших записей не поддерживается
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByResource возвращает все записи истории ресурса,
// отсортированные по effective_from по возрастанию
func (r *Repository) ListByResource(ctx context.Context, resourceID int64) ([]*domain.AccessMethodEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"resource_id",
		"access_method",
		"effective_from",
		"created_at",
	).
		From("access_method_history").
		Where(squirrel.Eq{"resource_id": resourceID}).
		OrderBy("effective_from ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.AccessMethodEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByResource - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// GetEntryOnDate возвращает запись с максимальным effective_from <= date
func (r *Repository) GetEntryOnDate(ctx context.Context, resourceID int64, date time.Time) (*domain.AccessMethodEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"resource_id",
		"access_method",
		"effective_from",
		"created_at",
	).
		From("access_method_history").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.LtOrEq{"effective_from": date.Format(domain.DateFormat)}).
		OrderBy("effective_from DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEntryOnDate - build select query: %v", ErrBuildQuery, err)
	}

	var entry domain.AccessMethodEntry
	var method string
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&entry.ResourceID,
		&method,
		&entry.EffectiveFrom,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetEntryOnDate - scan entry: %v", ErrScanRow, err)
	}

	entry.AccessMethod = domain.AccessMethod(method)
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}

// CreateEntry добавляет запись истории
// Нарушение уникальности (resource_id, effective_from) транслируется
// в ErrDuplicateDate
func (r *Repository) CreateEntry(ctx context.Context, entry *domain.AccessMethodEntry) (*domain.AccessMethodEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("access_method_history").
		Columns(
			"resource_id",
			"access_method",
			"effective_from",
		).
		Values(
			entry.ResourceID,
			string(entry.AccessMethod),
			entry.EffectiveFrom.Format(domain.DateFormat),
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateEntry - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateDate
		}
		return nil, fmt.Errorf("%w: CreateEntry - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time

	return entry, nil
}

func scanEntry(rows *sql.Rows) (*domain.AccessMethodEntry, error) {
	var entry domain.AccessMethodEntry
	var method string
	var createdAt sql.NullTime

	err := rows.Scan(
		&entry.ID,
		&entry.ResourceID,
		&method,
		&entry.EffectiveFrom,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: scanEntry - scan row: %v", ErrScanRow, err)
	}

	entry.AccessMethod = domain.AccessMethod(method)
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
