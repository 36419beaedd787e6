package deny_series

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	seriesRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/series"
	accessCodeClient "github.com/m04kA/SMC-ReservationService/internal/integrations/accesscode"
)

type fakeSeriesRepo struct {
	series       *domain.ReservationSeries
	getErr       error
	instances    []*domain.ReservationInstance
	updatedIDs   []int64
	updatedState domain.InstanceState
	refreshed    []int64
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

func (f *fakeSeriesRepo) UpdateInstanceStates(_ context.Context, ids []int64, state domain.InstanceState) error {
	f.updatedIDs = ids
	f.updatedState = state
	return nil
}

func (f *fakeSeriesRepo) RefreshAccessCodeFlag(_ context.Context, seriesID int64) error {
	f.refreshed = append(f.refreshed, seriesID)
	return nil
}

type fakeRevoker struct {
	err   error
	calls int
}

func (f *fakeRevoker) RevokeSeriesAccess(_ context.Context, _ int64) error {
	f.calls++
	return f.err
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

func testNow() time.Time {
	return time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC)
}

func instance(id int64, state domain.InstanceState, beginsAt time.Time) *domain.ReservationInstance {
	return &domain.ReservationInstance{
		ID:       id,
		State:    state,
		BeginsAt: beginsAt,
		EndsAt:   beginsAt.Add(2 * time.Hour),
	}
}

func newTestUseCase(repo *fakeSeriesRepo, revoker *fakeRevoker, tx *fakeTxManager) *UseCase {
	uc := NewUseCase(repo, revoker, tx, nopLogger{})
	uc.timeProvider = fixedTime{now: testNow()}
	return uc
}

func TestExecute_DeniesFutureActiveOnly(t *testing.T) {
	now := testNow()
	repo := &fakeSeriesRepo{
		series: &domain.ReservationSeries{ID: 5},
		instances: []*domain.ReservationInstance{
			instance(1, domain.StateConfirmed, now.Add(-48*time.Hour)), // прошедший
			instance(2, domain.StateConfirmed, now.Add(-time.Hour)),    // начавшийся
			instance(3, domain.StateConfirmed, now.Add(24*time.Hour)),  // будущий
			instance(4, domain.StateCreated, now.Add(48*time.Hour)),    // будущий
			instance(5, domain.StateCancelled, now.Add(72*time.Hour)),  // терминальный
		},
	}
	revoker := &fakeRevoker{}
	tx := &fakeTxManager{}

	uc := newTestUseCase(repo, revoker, tx)

	resp, err := uc.Execute(context.Background(), &Request{StaffUserID: 9, SeriesID: 5})
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 4}, resp.DeniedInstanceIDs)
	assert.Equal(t, []int64{1, 2, 5}, resp.SkippedInstanceIDs)
	assert.Equal(t, testNow(), resp.DeniedAt)

	assert.Equal(t, []int64{3, 4}, repo.updatedIDs)
	assert.Equal(t, domain.StateDenied, repo.updatedState)
	assert.Equal(t, []int64{5}, repo.refreshed)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, 1, revoker.calls)
}

func TestExecute_NothingToDeny(t *testing.T) {
	now := testNow()
	repo := &fakeSeriesRepo{
		series: &domain.ReservationSeries{ID: 5},
		instances: []*domain.ReservationInstance{
			instance(1, domain.StateConfirmed, now.Add(-48*time.Hour)),
			instance(2, domain.StateDenied, now.Add(24*time.Hour)),
		},
	}
	revoker := &fakeRevoker{}

	uc := newTestUseCase(repo, revoker, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), &Request{StaffUserID: 9, SeriesID: 5})
	assert.ErrorIs(t, err, ErrNothingToDeny)
	assert.Empty(t, repo.updatedIDs)
	assert.Zero(t, revoker.calls, "no revoke when the transaction rolled back")
}

func TestExecute_SeriesNotFound(t *testing.T) {
	repo := &fakeSeriesRepo{getErr: seriesRepo.ErrSeriesNotFound}

	uc := newTestUseCase(repo, &fakeRevoker{}, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), &Request{StaffUserID: 9, SeriesID: 404})
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeSeriesRepo{}, &fakeRevoker{}, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), &Request{StaffUserID: 0, SeriesID: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{StaffUserID: 9, SeriesID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RevokeFailureSwallowed(t *testing.T) {
	now := testNow()
	repo := &fakeSeriesRepo{
		series:    &domain.ReservationSeries{ID: 5},
		instances: []*domain.ReservationInstance{instance(1, domain.StateConfirmed, now.Add(24 * time.Hour))},
	}
	revoker := &fakeRevoker{err: errors.New("issuer down")}

	uc := newTestUseCase(repo, revoker, &fakeTxManager{})

	resp, err := uc.Execute(context.Background(), &Request{StaffUserID: 9, SeriesID: 5})
	require.NoError(t, err, "revoke is best-effort")
	assert.Equal(t, []int64{1}, resp.DeniedInstanceIDs)
}

func TestExecute_MissingGrantTolerated(t *testing.T) {
	now := testNow()
	repo := &fakeSeriesRepo{
		series:    &domain.ReservationSeries{ID: 5},
		instances: []*domain.ReservationInstance{instance(1, domain.StateConfirmed, now.Add(24 * time.Hour))},
	}
	revoker := &fakeRevoker{err: accessCodeClient.ErrGrantNotFound}

	uc := newTestUseCase(repo, revoker, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), &Request{StaffUserID: 9, SeriesID: 5})
	assert.NoError(t, err)
}
