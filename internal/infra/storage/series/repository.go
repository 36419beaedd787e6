package series

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий серий бронирований, их инстансов и аудита отказов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория серий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateSeries создает серию бронирований
func (r *Repository) CreateSeries(ctx context.Context, s *domain.ReservationSeries) (*domain.ReservationSeries, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservation_series").
		Columns(
			"resource_id",
			"user_id",
			"name",
			"recurrence_interval_days",
			"weekdays",
			"begin_date",
			"end_date",
			"begin_time",
			"end_time",
			"age_group",
		).
		Values(
			s.ResourceID,
			s.UserID,
			s.Name,
			s.RecurrenceIntervalDays,
			pq.Array(weekdaysToStrings(s.Weekdays)),
			s.BeginDate.Format(domain.DateFormat),
			s.EndDate.Format(domain.DateFormat),
			s.BeginTime.String(),
			s.EndTime.String(),
			s.AgeGroup,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateSeries - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSeries - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetSeriesByID получает серию по ID
func (r *Repository) GetSeriesByID(ctx context.Context, id int64) (*domain.ReservationSeries, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := seriesSelect().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSeriesByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	s, err := scanSeriesRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrSeriesNotFound
	}
	if err != nil {
		return nil, err
	}

	return s, nil
}

// UpdateSeriesRecurrence обновляет параметры повторения серии (reschedule)
func (r *Repository) UpdateSeriesRecurrence(ctx context.Context, s *domain.ReservationSeries) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservation_series").
		Set("recurrence_interval_days", s.RecurrenceIntervalDays).
		Set("weekdays", pq.Array(weekdaysToStrings(s.Weekdays))).
		Set("begin_date", s.BeginDate.Format(domain.DateFormat)).
		Set("end_date", s.EndDate.Format(domain.DateFormat)).
		Set("begin_time", s.BeginTime.String()).
		Set("end_time", s.EndTime.String()).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSeriesRecurrence - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSeriesRecurrence - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSeriesRecurrence - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSeriesNotFound
	}

	return nil
}

// DeleteSeries удаляет серию
// Удаление заблокировано, пока у серии есть инстансы - серия никогда
// не оставляет инстансы-сироты
func (r *Repository) DeleteSeries(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From("reservation_instances").
		Where(squirrel.Eq{"series_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteSeries - build count query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&count); err != nil {
		return fmt.Errorf("%w: DeleteSeries - count instances: %v", ErrScanRow, err)
	}
	if count > 0 {
		return ErrSeriesNotEmpty
	}

	query, args, err := psqlbuilder.Delete("reservation_series").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteSeries - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteSeries - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteSeries - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSeriesNotFound
	}

	return nil
}

// CreateRejectedOccurrences пакетно создает аудит-записи отклоненных слотов
// Записи неизменяемы: создаются один раз, читаются только для отчетности
func (r *Repository) CreateRejectedOccurrences(ctx context.Context, rejected []*domain.RejectedOccurrence) error {
	if len(rejected) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("rejected_occurrences").
		Columns("series_id", "begins_at", "ends_at", "reason")

	for _, occ := range rejected {
		insertBuilder = insertBuilder.Values(occ.SeriesID, occ.BeginsAt, occ.EndsAt, string(occ.Reason))
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateRejectedOccurrences - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateRejectedOccurrences - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListRejectedBySeries возвращает аудит отклоненных слотов серии
func (r *Repository) ListRejectedBySeries(ctx context.Context, seriesID int64) ([]*domain.RejectedOccurrence, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"series_id",
		"begins_at",
		"ends_at",
		"reason",
		"created_at",
	).
		From("rejected_occurrences").
		Where(squirrel.Eq{"series_id": seriesID}).
		OrderBy("begins_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListRejectedBySeries - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRejectedBySeries - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	occurrences := make([]*domain.RejectedOccurrence, 0)
	for rows.Next() {
		var occ domain.RejectedOccurrence
		var reason string
		var createdAt sql.NullTime

		if err := rows.Scan(&occ.ID, &occ.SeriesID, &occ.BeginsAt, &occ.EndsAt, &reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListRejectedBySeries - scan row: %v", ErrScanRow, err)
		}

		occ.Reason = domain.RejectionReason(reason)
		occ.CreatedAt = createdAt.Time
		occurrences = append(occurrences, &occ)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRejectedBySeries - rows error: %v", ErrScanRow, err)
	}

	return occurrences, nil
}

// RefreshAccessCodeFlag пересчитывает денормализованную колонку
// should_have_active_access_code серии из её инстансов
// Колонка используется только для query-time фильтрации (например, фоновой
// сверкой с внешним сервисом кодов); вычисление "из детей" в моменте
// выполняется domain.ShouldHaveActiveAccessCode - это два разных пути
func (r *Repository) RefreshAccessCodeFlag(ctx context.Context, seriesID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query := `
		UPDATE reservation_series s
		SET should_have_active_access_code = EXISTS (
			SELECT 1
			FROM reservation_instances i
			WHERE i.series_id = s.id
			  AND i.state IN ('CREATED', 'CONFIRMED')
			  AND i.access_method = 'ACCESS_CODE'
			  AND i.ends_at > NOW()
		)
		WHERE s.id = $1`

	if _, err := executor.ExecContext(ctx, query, seriesID); err != nil {
		return fmt.Errorf("%w: RefreshAccessCodeFlag - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

func seriesSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"resource_id",
		"user_id",
		"name",
		"recurrence_interval_days",
		"weekdays",
		"weekdays_csv",
		"begin_date",
		"end_date",
		"begin_time",
		"end_time",
		"age_group",
		"created_at",
		"updated_at",
	).From("reservation_series")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSeriesRow(row rowScanner) (*domain.ReservationSeries, error) {
	var s domain.ReservationSeries
	var weekdays pq.StringArray
	var legacyCSV sql.NullString
	var beginTime, endTime string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.ResourceID,
		&s.UserID,
		&s.Name,
		&s.RecurrenceIntervalDays,
		&weekdays,
		&legacyCSV,
		&s.BeginDate,
		&s.EndDate,
		&beginTime,
		&endTime,
		&s.AgeGroup,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanSeriesRow - scan row: %v", ErrScanRow, err)
	}

	s.Weekdays, err = weekdaysFromRow(weekdays, legacyCSV)
	if err != nil {
		return nil, fmt.Errorf("%w: scanSeriesRow - weekdays: %v", ErrScanRow, err)
	}

	s.BeginTime = timeStringFromDB(beginTime)
	s.EndTime = timeStringFromDB(endTime)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

func weekdaysToStrings(weekdays []domain.Weekday) []string {
	out := make([]string, len(weekdays))
	for i, wd := range weekdays {
		out[i] = string(wd)
	}
	return out
}

// weekdaysFromRow возвращает типизированные дни недели строки
// Старые строки несут legacy CSV форму ("0,2,4", 0 = понедельник) в
// weekdays_csv; она конвертируется только здесь, на границе хранилища
func weekdaysFromRow(arr pq.StringArray, legacyCSV sql.NullString) ([]domain.Weekday, error) {
	if len(arr) > 0 {
		weekdays := make([]domain.Weekday, 0, len(arr))
		for _, s := range arr {
			wd, err := domain.ParseWeekday(s)
			if err != nil {
				return nil, err
			}
			weekdays = append(weekdays, wd)
		}
		return weekdays, nil
	}

	if legacyCSV.Valid && legacyCSV.String != "" {
		parts := strings.Split(legacyCSV.String, ",")
		weekdays := make([]domain.Weekday, 0, len(parts))
		for _, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			wd, err := domain.WeekdayFromLegacyInt(n)
			if err != nil {
				return nil, err
			}
			weekdays = append(weekdays, wd)
		}
		return weekdays, nil
	}

	return []domain.Weekday{}, nil
}

func isConflictViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// 23P01 exclusion_violation, 23505 unique_violation
	return pqErr.Code == "23P01" || pqErr.Code == "23505"
}
