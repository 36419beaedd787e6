package series

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var instanceColumns = []string{
	"id",
	"series_id",
	"resource_id",
	"group_id",
	"user_id",
	"begins_at",
	"ends_at",
	"buffer_before_seconds",
	"buffer_after_seconds",
	"access_method",
	"state",
	"reservee_type",
	"reservee_name",
	"reservee_email",
	"reservee_phone",
	"created_at",
	"updated_at",
}

// CreateInstances пакетно создает инстансы бронирований
//
// Вставка защищена exclusion constraint на (group_id, буферизованный
// tstzrange) в БД: конкурентное бронирование, успевшее занять интервал
// после классификации, отклоняется на commit и транслируется в
// ErrOverlapConstraint - вся транзакция серии откатывается целиком
func (r *Repository) CreateInstances(ctx context.Context, groupID int64, instances []*domain.ReservationInstance) ([]*domain.ReservationInstance, error) {
	if len(instances) == 0 {
		return instances, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("reservation_instances").
		Columns(
			"series_id",
			"resource_id",
			"group_id",
			"user_id",
			"begins_at",
			"ends_at",
			"buffer_before_seconds",
			"buffer_after_seconds",
			"access_method",
			"state",
			"reservee_type",
			"reservee_name",
			"reservee_email",
			"reservee_phone",
		)

	for _, inst := range instances {
		insertBuilder = insertBuilder.Values(
			inst.SeriesID,
			inst.ResourceID,
			groupID,
			inst.UserID,
			inst.BeginsAt,
			inst.EndsAt,
			int64(inst.BufferBefore/time.Second),
			int64(inst.BufferAfter/time.Second),
			string(inst.AccessMethod),
			string(inst.State),
			string(inst.ReserveeType),
			inst.ReserveeName,
			inst.ReserveeEmail,
			inst.ReserveePhone,
		)
	}

	query, args, err := insertBuilder.
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateInstances - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if isConflictViolation(err) {
			return nil, ErrOverlapConstraint
		}
		return nil, fmt.Errorf("%w: CreateInstances - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&instances[i].ID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: CreateInstances - scan returning: %v", ErrScanRow, err)
		}
		instances[i].CreatedAt = createdAt.Time
		instances[i].UpdatedAt = updatedAt.Time
		i++
	}

	if err := rows.Err(); err != nil {
		if isConflictViolation(err) {
			return nil, ErrOverlapConstraint
		}
		return nil, fmt.Errorf("%w: CreateInstances - rows error: %v", ErrScanRow, err)
	}

	return instances, nil
}

// GetInstanceByID получает инстанс по ID
func (r *Repository) GetInstanceByID(ctx context.Context, id int64) (*domain.ReservationInstance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(instanceColumns...).
		From("reservation_instances").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetInstanceByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetInstanceByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	instances, err := scanInstances(rows)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, ErrInstanceNotFound
	}

	return instances[0], nil
}

// ListInstancesBySeries возвращает инстансы серии по возрастанию begins_at
// Внутри транзакции строки блокируются FOR UPDATE - reschedule и deny
// оперируют согласованным снимком инстансов
func (r *Repository) ListInstancesBySeries(ctx context.Context, seriesID int64) ([]*domain.ReservationInstance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(instanceColumns...).
		From("reservation_instances").
		Where(squirrel.Eq{"series_id": seriesID}).
		OrderBy("begins_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListInstancesBySeries - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListInstancesBySeries - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanInstances(rows)
}

// DeleteInstances удаляет инстансы по списку ID
// Используется только reschedule-ом для замены будущих CONFIRMED инстансов
func (r *Repository) DeleteInstances(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservation_instances").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteInstances - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteInstances - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// UpdateInstanceStates переводит инстансы в новое состояние
// Валидность перехода проверяет вызывающий код по domain state machine
func (r *Repository) UpdateInstanceStates(ctx context.Context, ids []int64, state domain.InstanceState) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservation_instances").
		Set("state", string(state)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateInstanceStates - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpdateInstanceStates - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

func scanInstances(rows *sql.Rows) ([]*domain.ReservationInstance, error) {
	instances := make([]*domain.ReservationInstance, 0)

	for rows.Next() {
		var inst domain.ReservationInstance
		var groupID int64
		var bufferBeforeSec, bufferAfterSec int64
		var accessMethod, state, reserveeType string
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&inst.ID,
			&inst.SeriesID,
			&inst.ResourceID,
			&groupID,
			&inst.UserID,
			&inst.BeginsAt,
			&inst.EndsAt,
			&bufferBeforeSec,
			&bufferAfterSec,
			&accessMethod,
			&state,
			&reserveeType,
			&inst.ReserveeName,
			&inst.ReserveeEmail,
			&inst.ReserveePhone,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanInstances - scan row: %v", ErrScanRow, err)
		}

		inst.BufferBefore = time.Duration(bufferBeforeSec) * time.Second
		inst.BufferAfter = time.Duration(bufferAfterSec) * time.Second
		inst.AccessMethod = domain.AccessMethod(accessMethod)
		inst.State = domain.InstanceState(state)
		inst.ReserveeType = domain.ReserveeType(reserveeType)
		inst.CreatedAt = createdAt.Time
		inst.UpdatedAt = updatedAt.Time

		instances = append(instances, &inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanInstances - rows error: %v", ErrScanRow, err)
	}

	return instances, nil
}

// timeStringFromDB обрезает значение колонки time ("12:00:00") до "HH:MM"
func timeStringFromDB(s string) types.TimeString {
	if len(s) >= 5 {
		return types.TimeString(s[:5])
	}
	return types.TimeString(s)
}
