package add_series_instance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	seriesRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/series"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/accesscode"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotgen"
)

type fakeSeriesRepo struct {
	series             *domain.ReservationSeries
	getErr             error
	instances          []*domain.ReservationInstance
	createInstancesErr error

	created   []*domain.ReservationInstance
	refreshed []int64
}

func (f *fakeSeriesRepo) GetSeriesByID(_ context.Context, _ int64) (*domain.ReservationSeries, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.series, nil
}

func (f *fakeSeriesRepo) ListInstancesBySeries(_ context.Context, _ int64) ([]*domain.ReservationInstance, error) {
	return f.instances, nil
}

func (f *fakeSeriesRepo) CreateInstances(_ context.Context, _ int64, instances []*domain.ReservationInstance) ([]*domain.ReservationInstance, error) {
	if f.createInstancesErr != nil {
		return nil, f.createInstancesErr
	}
	for i, inst := range instances {
		inst.ID = int64(200 + i)
	}
	f.created = instances
	return instances, nil
}

func (f *fakeSeriesRepo) RefreshAccessCodeFlag(_ context.Context, seriesID int64) error {
	f.refreshed = append(f.refreshed, seriesID)
	return nil
}

type fakeResourceRepo struct {
	resource *domain.Resource
}

func (f *fakeResourceRepo) GetByID(_ context.Context, _ int64) (*domain.Resource, error) {
	return f.resource, nil
}

type fakeGenerator struct {
	result *slotgen.Result
	spec   *domain.RecurrenceSpec
}

func (f *fakeGenerator) Generate(_ context.Context, spec *domain.RecurrenceSpec, _ *domain.Resource, _ slotgen.Options) (*slotgen.Result, error) {
	f.spec = spec
	return f.result, nil
}

type fakeResolver struct {
	method domain.AccessMethod
}

func (f *fakeResolver) Resolve(_ context.Context, _ int64, _ time.Time) (domain.AccessMethod, error) {
	return f.method, nil
}

type fakeIssuer struct{ grantCalls int }

func (f *fakeIssuer) GrantSeriesAccess(_ context.Context, seriesID int64, _ uuid.UUID, _ []*domain.ReservationInstance) (*accesscode.Grant, error) {
	f.grantCalls++
	return &accesscode.Grant{ID: "grant-1", SeriesID: seriesID}, nil
}

type fakeTxManager struct{ calls int }

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var helsinki = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		panic(err)
	}
	return loc
}()

func testNow() time.Time {
	return time.Date(2026, time.August, 28, 12, 0, 0, 0, helsinki)
}

func email(s string) *string { return &s }

func templateInstance(beginsAt time.Time) *domain.ReservationInstance {
	return &domain.ReservationInstance{
		ID:            1,
		BeginsAt:      beginsAt,
		EndsAt:        beginsAt.Add(2 * time.Hour),
		State:         domain.StateConfirmed,
		ReserveeType:  domain.ReserveeNonprofit,
		ReserveeName:  "Jalkapalloseura ry",
		ReserveeEmail: email("seura@example.com"),
	}
}

func validRequest() *Request {
	return &Request{
		UserID:    7,
		SeriesID:  5,
		Date:      time.Date(2026, time.September, 9, 0, 0, 0, 0, helsinki),
		BeginTime: "18:00",
		EndTime:   "20:00",
	}
}

type testEnv struct {
	uc        *UseCase
	series    *fakeSeriesRepo
	generator *fakeGenerator
	issuer    *fakeIssuer
	tx        *fakeTxManager
}

func newTestEnv(result *slotgen.Result) *testEnv {
	slotStart := time.Date(2026, time.September, 2, 18, 0, 0, 0, helsinki)

	env := &testEnv{
		series: &fakeSeriesRepo{
			series:    &domain.ReservationSeries{ID: 5, ResourceID: 1, UserID: 7},
			instances: []*domain.ReservationInstance{templateInstance(slotStart)},
		},
		generator: &fakeGenerator{result: result},
		issuer:    &fakeIssuer{},
		tx:        &fakeTxManager{},
	}

	env.uc = NewUseCase(
		env.series,
		&fakeResourceRepo{resource: &domain.Resource{ID: 1, GroupID: 10, Published: true}},
		env.generator,
		&fakeResolver{method: domain.AccessUnrestricted},
		env.issuer,
		env.tx,
		nopLogger{},
	)
	env.uc.timeProvider = fixedTime{now: testNow()}

	return env
}

func acceptedSlot() *slotgen.Result {
	start := time.Date(2026, time.September, 9, 18, 0, 0, 0, helsinki)
	return &slotgen.Result{
		Accepted: []domain.TimeInterval{{Start: start, End: start.Add(2 * time.Hour)}},
	}
}

func TestExecute_HappyPath(t *testing.T) {
	env := newTestEnv(acceptedSlot())

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(200), resp.ID)
	assert.Equal(t, int64(5), resp.SeriesID)
	assert.Equal(t, domain.StateConfirmed, resp.State)
	assert.Equal(t, 1, env.tx.calls)
	assert.Equal(t, []int64{5}, env.series.refreshed)

	// Спецификация однодневная, с шагом в одну неделю
	require.NotNil(t, env.generator.spec)
	assert.Equal(t, env.generator.spec.BeginDate, env.generator.spec.EndDate)
	assert.Equal(t, domain.MinRecurrenceIntervalDays, env.generator.spec.IntervalDays)

	// Данные заявителя скопированы из последнего инстанса серии
	require.Len(t, env.series.created, 1)
	created := env.series.created[0]
	assert.Equal(t, domain.ReserveeNonprofit, created.ReserveeType)
	assert.Equal(t, "Jalkapalloseura ry", created.ReserveeName)
	require.NotNil(t, created.ReserveeEmail)
	assert.Equal(t, "seura@example.com", *created.ReserveeEmail)
}

func TestExecute_TemplateIsLatestInstance(t *testing.T) {
	env := newTestEnv(acceptedSlot())

	older := templateInstance(time.Date(2026, time.August, 26, 18, 0, 0, 0, helsinki))
	older.ReserveeName = "Старое название"
	latest := templateInstance(time.Date(2026, time.September, 2, 18, 0, 0, 0, helsinki))
	latest.ID = 2
	env.series.instances = []*domain.ReservationInstance{older, latest}

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Jalkapalloseura ry", env.series.created[0].ReserveeName)
}

func TestExecute_ClassificationErrors(t *testing.T) {
	start := time.Date(2026, time.September, 9, 18, 0, 0, 0, helsinki)
	candidate := slotgen.Candidate{Begin: start, End: start.Add(2 * time.Hour)}

	cases := []struct {
		name   string
		result *slotgen.Result
		want   error
	}{
		{"overlap", &slotgen.Result{Overlapping: []slotgen.Candidate{candidate}}, ErrSlotOverlaps},
		{"closed", &slotgen.Result{NotReservable: []slotgen.Candidate{candidate}}, ErrSlotNotReservable},
		{"misaligned", &slotgen.Result{InvalidStartInterval: []slotgen.Candidate{candidate}}, ErrInvalidStartInterval},
		{"no candidates", &slotgen.Result{}, ErrInvalidSlot},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(tc.result)

			_, err := env.uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, env.tx.calls)
		})
	}
}

func TestExecute_SeriesNotFound(t *testing.T) {
	env := newTestEnv(acceptedSlot())
	env.series.getErr = seriesRepo.ErrSeriesNotFound

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}

func TestExecute_NotSeriesOwner(t *testing.T) {
	env := newTestEnv(acceptedSlot())
	env.series.series.UserID = 99

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrNotSeriesOwner)
}

func TestExecute_SeriesEmpty(t *testing.T) {
	env := newTestEnv(acceptedSlot())
	env.series.instances = nil

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSeriesEmpty)
}

func TestExecute_InvalidSlotTimes(t *testing.T) {
	env := newTestEnv(acceptedSlot())

	req := validRequest()
	req.BeginTime = "20:00"
	req.EndTime = "18:00"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestExecute_InvalidInput(t *testing.T) {
	env := newTestEnv(acceptedSlot())

	req := validRequest()
	req.BeginTime = ""
	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.SeriesID = 0
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ConflictAtCommit(t *testing.T) {
	env := newTestEnv(acceptedSlot())
	env.series.createInstancesErr = seriesRepo.ErrOverlapConstraint

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrConflictDetected)
}

func TestExecute_AccessCodeGrantCoversWholeSeries(t *testing.T) {
	env := newTestEnv(acceptedSlot())
	env.uc.accessResolver = &fakeResolver{method: domain.AccessCode}

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, env.issuer.grantCalls)
}
