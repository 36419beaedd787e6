package series

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// captureConn минимальный драйвер, перехватывающий запросы с их аргументами
// и отдающий заранее заготовленные строки
type captureConn struct {
	queries []string
	args    [][]driver.NamedValue
	pending []*staticRows
}

func (c *captureConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (c *captureConn) Close() error                        { return nil }
func (c *captureConn) Begin() (driver.Tx, error)           { return nil, errors.New("not implemented") }

func (c *captureConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.queries = append(c.queries, query)
	c.args = append(c.args, args)
	if len(c.pending) == 0 {
		return &staticRows{}, nil
	}
	rows := c.pending[0]
	c.pending = c.pending[1:]
	return rows, nil
}

type staticRows struct {
	columns []string
	values  [][]driver.Value
	pos     int
}

func (r *staticRows) Columns() []string { return r.columns }
func (r *staticRows) Close() error      { return nil }

func (r *staticRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.values) {
		return io.EOF
	}
	copy(dest, r.values[r.pos])
	r.pos++
	return nil
}

type captureConnector struct{ conn *captureConn }

func (c *captureConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c *captureConnector) Driver() driver.Driver                        { return nil }

func newCaptureDB(rows ...*staticRows) (*sql.DB, *captureConn) {
	conn := &captureConn{pending: rows}
	return sql.OpenDB(&captureConnector{conn: conn}), conn
}

func seriesFixture(ageGroup *string) *domain.ReservationSeries {
	return &domain.ReservationSeries{
		ResourceID:             1,
		UserID:                 7,
		Name:                   "Тренировки по футболу",
		RecurrenceIntervalDays: 7,
		Weekdays:               []domain.Weekday{domain.Monday},
		BeginDate:              time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
		EndDate:                time.Date(2026, time.September, 21, 0, 0, 0, 0, time.UTC),
		BeginTime:              "10:00",
		EndTime:                "12:00",
		AgeGroup:               ageGroup,
	}
}

func returningRow() *staticRows {
	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	return &staticRows{
		columns: []string{"id", "created_at", "updated_at"},
		values:  [][]driver.Value{{int64(42), now, now}},
	}
}

func TestCreateSeries_NilAgeGroupBindsNull(t *testing.T) {
	db, conn := newCaptureDB(returningRow())
	repo := NewRepository(db)

	// Возрастная группа не указана - обычный случай для частных бронирований
	created, err := repo.CreateSeries(context.Background(), seriesFixture(nil))
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)

	require.Len(t, conn.args, 1)
	args := conn.args[0]
	require.Len(t, args, 10)
	// age_group - последний аргумент вставки; колонка nullable, NULL допустим
	assert.Nil(t, args[9].Value)
}

func TestCreateSeries_AgeGroupBound(t *testing.T) {
	db, conn := newCaptureDB(returningRow())
	repo := NewRepository(db)

	ageGroup := "U12"
	_, err := repo.CreateSeries(context.Background(), seriesFixture(&ageGroup))
	require.NoError(t, err)

	require.Len(t, conn.args, 1)
	assert.Equal(t, "U12", conn.args[0][9].Value)
}

func TestGetSeriesByID_NullAgeGroup(t *testing.T) {
	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	row := &staticRows{
		columns: []string{
			"id", "resource_id", "user_id", "name", "recurrence_interval_days",
			"weekdays", "weekdays_csv", "begin_date", "end_date",
			"begin_time", "end_time", "age_group", "created_at", "updated_at",
		},
		values: [][]driver.Value{{
			int64(42), int64(1), int64(7), "Тренировки по футболу", int64(7),
			"{MONDAY}", nil,
			time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.September, 21, 0, 0, 0, 0, time.UTC),
			"10:00:00", "12:00:00", nil, now, now,
		}},
	}

	db, _ := newCaptureDB(row)
	repo := NewRepository(db)

	s, err := repo.GetSeriesByID(context.Background(), 42)
	require.NoError(t, err)

	assert.Nil(t, s.AgeGroup)
	assert.Equal(t, []domain.Weekday{domain.Monday}, s.Weekdays)
	assert.Equal(t, types.TimeString("10:00"), s.BeginTime)
	assert.Equal(t, types.TimeString("12:00"), s.EndTime)
}
