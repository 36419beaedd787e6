package create_series

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/resource"
	seriesRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/series"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/accesscode"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotgen"
)

type fakeSeriesRepo struct {
	createInstancesErr error

	series    *domain.ReservationSeries
	instances []*domain.ReservationInstance
	rejected  []*domain.RejectedOccurrence
	refreshed []int64
}

func (f *fakeSeriesRepo) CreateSeries(_ context.Context, s *domain.ReservationSeries) (*domain.ReservationSeries, error) {
	s.ID = 42
	s.CreatedAt = time.Now()
	f.series = s
	return s, nil
}

func (f *fakeSeriesRepo) CreateInstances(_ context.Context, _ int64, instances []*domain.ReservationInstance) ([]*domain.ReservationInstance, error) {
	if f.createInstancesErr != nil {
		return nil, f.createInstancesErr
	}
	for i, inst := range instances {
		inst.ID = int64(100 + i)
	}
	f.instances = instances
	return instances, nil
}

func (f *fakeSeriesRepo) CreateRejectedOccurrences(_ context.Context, rejected []*domain.RejectedOccurrence) error {
	f.rejected = append(f.rejected, rejected...)
	return nil
}

func (f *fakeSeriesRepo) RefreshAccessCodeFlag(_ context.Context, seriesID int64) error {
	f.refreshed = append(f.refreshed, seriesID)
	return nil
}

type fakeResourceRepo struct {
	resource *domain.Resource
	err      error
}

func (f *fakeResourceRepo) GetByID(_ context.Context, _ int64) (*domain.Resource, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resource, nil
}

type fakeGenerator struct {
	result *slotgen.Result
	err    error
	opts   slotgen.Options
}

func (f *fakeGenerator) Generate(_ context.Context, _ *domain.RecurrenceSpec, _ *domain.Resource, opts slotgen.Options) (*slotgen.Result, error) {
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeResolver struct {
	methods map[string]domain.AccessMethod
}

func (f *fakeResolver) ResolveRange(_ context.Context, _ int64, _, _ time.Time) (map[string]domain.AccessMethod, error) {
	return f.methods, nil
}

type fakeIssuer struct {
	grantErr   error
	grantCalls int
}

func (f *fakeIssuer) GrantSeriesAccess(_ context.Context, seriesID int64, _ uuid.UUID, _ []*domain.ReservationInstance) (*accesscode.Grant, error) {
	f.grantCalls++
	if f.grantErr != nil {
		return nil, f.grantErr
	}
	return &accesscode.Grant{ID: "grant-1", SeriesID: seriesID, IsActive: true}, nil
}

type fakeTxManager struct {
	calls int
}

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

func slot(day, hour int) domain.TimeInterval {
	return domain.TimeInterval{
		Start: time.Date(2026, time.September, day, hour, 0, 0, 0, helsinki),
		End:   time.Date(2026, time.September, day, hour+2, 0, 0, 0, helsinki),
	}
}

func acceptedResult(slots ...domain.TimeInterval) *slotgen.Result {
	return &slotgen.Result{Accepted: slots}
}

func validRequest() *Request {
	return &Request{
		UserID:     7,
		ResourceID: 1,
		Name:       "Тренировка юниоров",
		Weekdays:   []domain.Weekday{domain.Monday},
		BeginDate:  time.Date(2026, time.September, 7, 0, 0, 0, 0, helsinki),
		EndDate:    time.Date(2026, time.September, 21, 0, 0, 0, 0, helsinki),
		BeginTime:  "10:00",
		EndTime:    "12:00",

		RecurrenceIntervalDays: 7,
		Reservee: domain.IndividualReservee{
			FirstName: "Maija",
			LastName:  "Virtanen",
			Email:     "maija@example.com",
			Phone:     "+358401234567",
		},
		CheckOpenHours: true,
		CheckBuffers:   true,
	}
}

type testEnv struct {
	uc        *UseCase
	series    *fakeSeriesRepo
	resources *fakeResourceRepo
	generator *fakeGenerator
	issuer    *fakeIssuer
	tx        *fakeTxManager
}

func newTestEnv(result *slotgen.Result) *testEnv {
	env := &testEnv{
		series: &fakeSeriesRepo{},
		resources: &fakeResourceRepo{resource: &domain.Resource{
			ID:        1,
			GroupID:   10,
			Published: true,
		}},
		generator: &fakeGenerator{result: result},
		issuer:    &fakeIssuer{},
		tx:        &fakeTxManager{},
	}

	env.uc = NewUseCase(
		env.series,
		env.resources,
		env.generator,
		&fakeResolver{methods: map[string]domain.AccessMethod{}},
		env.issuer,
		env.tx,
		helsinki,
		domain.DefaultHorizonDays,
		nopLogger{},
	)
	env.uc.timeProvider = fixedTime{now: testNow()}

	return env
}

func TestExecute_HappyPath(t *testing.T) {
	env := newTestEnv(acceptedResult(slot(7, 10), slot(14, 10), slot(21, 10)))

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, resp.Series)
	assert.Equal(t, int64(42), resp.Series.ID)
	assert.Len(t, resp.Instances, 3)
	assert.Empty(t, resp.Rejected)

	assert.Equal(t, 1, env.tx.calls)
	assert.Equal(t, []int64{42}, env.series.refreshed)

	for _, inst := range env.series.instances {
		assert.Equal(t, domain.StateConfirmed, inst.State)
		assert.Equal(t, domain.ReserveeIndividual, inst.ReserveeType)
		assert.Equal(t, "Maija Virtanen", inst.ReserveeName)
		require.NotNil(t, inst.ReserveeEmail)
		assert.Equal(t, "maija@example.com", *inst.ReserveeEmail)
	}
}

func TestExecute_CheckTogglesForwardedToGenerator(t *testing.T) {
	env := newTestEnv(acceptedResult(slot(7, 10)))

	req := validRequest()
	req.CheckOpenHours = false
	req.CheckStartInterval = true

	_, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, env.generator.opts.CheckOpenHours)
	assert.True(t, env.generator.opts.CheckBuffers)
	assert.True(t, env.generator.opts.CheckStartInterval)
}

func TestExecute_InvalidInput(t *testing.T) {
	env := newTestEnv(acceptedResult(slot(7, 10)))

	req := validRequest()
	req.Name = ""
	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.Reservee = domain.IndividualReservee{FirstName: "Maija"}
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidReservee)

	req = validRequest()
	req.Reservee = nil
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_InvalidRecurrence(t *testing.T) {
	env := newTestEnv(acceptedResult(slot(7, 10)))

	req := validRequest()
	req.RecurrenceIntervalDays = 10

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRecurrence)
	assert.Zero(t, env.tx.calls)
}

func TestExecute_ResourceNotFound(t *testing.T) {
	env := newTestEnv(acceptedResult(slot(7, 10)))
	env.resources.err = resourceRepo.ErrResourceNotFound

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_ResourceNotPublished(t *testing.T) {
	env := newTestEnv(acceptedResult(slot(7, 10)))
	env.resources.resource.Published = false

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrResourceNotPublished)
}

func TestExecute_NoCandidates(t *testing.T) {
	env := newTestEnv(&slotgen.Result{})

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.Zero(t, env.tx.calls)
}

func TestExecute_AllRejectedWithoutAllowPartial(t *testing.T) {
	overlap := slot(7, 10)
	env := newTestEnv(&slotgen.Result{
		Overlapping: []slotgen.Candidate{{Begin: overlap.Start, End: overlap.End}},
	})

	resp, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAllSlotsRejected)

	// Детали отказов возвращаются рядом с ошибкой
	require.NotNil(t, resp)
	assert.Nil(t, resp.Series)
	require.Len(t, resp.Rejected, 1)
	assert.Equal(t, domain.ReasonOverlapping, resp.Rejected[0].Reason)
	assert.Zero(t, env.tx.calls, "no series row may be written")
}

func TestExecute_AllRejectedWithAllowPartial(t *testing.T) {
	overlap := slot(7, 10)
	env := newTestEnv(&slotgen.Result{
		Overlapping: []slotgen.Candidate{{Begin: overlap.Start, End: overlap.End}},
	})

	req := validRequest()
	req.AllowPartial = true

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Серия создается без инстансов, отказы фиксируются как данные
	require.NotNil(t, resp.Series)
	assert.Empty(t, resp.Instances)
	assert.Len(t, resp.Rejected, 1)
	assert.Len(t, env.series.rejected, 1)
	assert.Equal(t, 1, env.tx.calls)
}

func TestExecute_PartialResultAllowedInBothModes(t *testing.T) {
	rejected := slot(14, 10)
	result := &slotgen.Result{
		Accepted:      []domain.TimeInterval{slot(7, 10), slot(21, 10)},
		NotReservable: []slotgen.Candidate{{Begin: rejected.Start, End: rejected.End}},
	}

	for _, allowPartial := range []bool{false, true} {
		env := newTestEnv(result)
		req := validRequest()
		req.AllowPartial = allowPartial

		resp, err := env.uc.Execute(context.Background(), req)
		require.NoError(t, err, "allowPartial=%v", allowPartial)
		assert.Len(t, resp.Instances, 2)
		require.Len(t, resp.Rejected, 1)
		assert.Equal(t, domain.ReasonUnitClosed, resp.Rejected[0].Reason)
	}
}

func TestExecute_ConflictAtCommit(t *testing.T) {
	env := newTestEnv(acceptedResult(slot(7, 10)))
	env.series.createInstancesErr = seriesRepo.ErrOverlapConstraint

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrConflictDetected)
}

func TestExecute_AccessMethodResolvedPerDate(t *testing.T) {
	env := newTestEnv(acceptedResult(slot(7, 10), slot(14, 10)))
	env.uc.accessResolver = &fakeResolver{methods: map[string]domain.AccessMethod{
		"2026-09-07": domain.AccessPhysicalKey,
		"2026-09-14": domain.AccessCode,
	}}

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, env.series.instances, 2)
	assert.Equal(t, domain.AccessPhysicalKey, env.series.instances[0].AccessMethod)
	assert.Equal(t, domain.AccessCode, env.series.instances[1].AccessMethod)
}

func TestExecute_AccessCodeGrantedAfterCommit(t *testing.T) {
	env := newTestEnv(acceptedResult(slot(7, 10)))
	env.uc.accessResolver = &fakeResolver{methods: map[string]domain.AccessMethod{
		"2026-09-07": domain.AccessCode,
	}}

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, env.issuer.grantCalls)
}

func TestExecute_GrantFailureDoesNotFailRequest(t *testing.T) {
	env := newTestEnv(acceptedResult(slot(7, 10)))
	env.uc.accessResolver = &fakeResolver{methods: map[string]domain.AccessMethod{
		"2026-09-07": domain.AccessCode,
	}}
	env.issuer.grantErr = errors.New("issuer down")

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err, "access code issuance is best-effort")
	assert.NotNil(t, resp.Series)
}

func TestExecute_NoGrantWithoutAccessCodeInstances(t *testing.T) {
	env := newTestEnv(acceptedResult(slot(7, 10)))

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Zero(t, env.issuer.grantCalls)
}
