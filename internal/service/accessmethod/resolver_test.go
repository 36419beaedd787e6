package accessmethod

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	historyRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/accessmethod"
)

type fakeHistoryRepo struct {
	entries []*domain.AccessMethodEntry
	listErr error

	created []*domain.AccessMethodEntry
}

func (f *fakeHistoryRepo) ListByResource(_ context.Context, _ int64) ([]*domain.AccessMethodEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

func (f *fakeHistoryRepo) GetEntryOnDate(_ context.Context, _ int64, date time.Time) (*domain.AccessMethodEntry, error) {
	var found *domain.AccessMethodEntry
	for _, entry := range f.entries {
		if entry.IsActiveOn(date) {
			found = entry
		}
	}
	if found == nil {
		return nil, historyRepo.ErrEntryNotFound
	}
	return found, nil
}

func (f *fakeHistoryRepo) CreateEntry(_ context.Context, entry *domain.AccessMethodEntry) (*domain.AccessMethodEntry, error) {
	entry.ID = int64(len(f.created) + 1)
	f.created = append(f.created, entry)
	return entry, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type silentLogger struct{}

func (silentLogger) Info(string, ...interface{})  {}
func (silentLogger) Warn(string, ...interface{})  {}
func (silentLogger) Error(string, ...interface{}) {}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func historyOf(entries ...*domain.AccessMethodEntry) *fakeHistoryRepo {
	return &fakeHistoryRepo{entries: entries}
}

func entry(method domain.AccessMethod, effectiveFrom time.Time) *domain.AccessMethodEntry {
	return &domain.AccessMethodEntry{ResourceID: 1, AccessMethod: method, EffectiveFrom: effectiveFrom}
}

func newTestResolver(repo *fakeHistoryRepo, now time.Time) *Resolver {
	r := NewResolver(repo, silentLogger{})
	r.timeProvider = fixedTime{now: now}
	return r
}

func TestResolve_LatestEntryWins(t *testing.T) {
	repo := historyOf(
		entry(domain.AccessPhysicalKey, date(2026, time.January, 1)),
		entry(domain.AccessCode, date(2026, time.April, 1)),
	)
	resolver := newTestResolver(repo, date(2026, time.March, 1))

	method, err := resolver.Resolve(context.Background(), 1, date(2026, time.March, 15))
	require.NoError(t, err)
	assert.Equal(t, domain.AccessPhysicalKey, method)

	method, err = resolver.Resolve(context.Background(), 1, date(2026, time.April, 1))
	require.NoError(t, err)
	assert.Equal(t, domain.AccessCode, method, "entry takes effect on its own date")
}

func TestResolve_NoHistoryDefaultsToUnrestricted(t *testing.T) {
	resolver := newTestResolver(historyOf(), date(2026, time.March, 1))

	method, err := resolver.Resolve(context.Background(), 1, date(2026, time.March, 15))
	require.NoError(t, err)
	assert.Equal(t, domain.AccessUnrestricted, method)
}

func TestResolve_DateBeforeFirstEntry(t *testing.T) {
	repo := historyOf(entry(domain.AccessCode, date(2026, time.April, 1)))
	resolver := newTestResolver(repo, date(2026, time.March, 1))

	method, err := resolver.Resolve(context.Background(), 1, date(2026, time.March, 15))
	require.NoError(t, err)
	assert.Equal(t, domain.AccessUnrestricted, method)
}

func TestResolveRange_PerDateMethods(t *testing.T) {
	repo := historyOf(
		entry(domain.AccessPhysicalKey, date(2026, time.January, 1)),
		entry(domain.AccessCode, date(2026, time.March, 17)),
	)
	resolver := newTestResolver(repo, date(2026, time.March, 1))

	methods, err := resolver.ResolveRange(context.Background(), 1, date(2026, time.March, 15), date(2026, time.March, 18))
	require.NoError(t, err)

	assert.Len(t, methods, 4)
	assert.Equal(t, domain.AccessPhysicalKey, methods["2026-03-15"])
	assert.Equal(t, domain.AccessPhysicalKey, methods["2026-03-16"])
	assert.Equal(t, domain.AccessCode, methods["2026-03-17"], "switch happens mid-range")
	assert.Equal(t, domain.AccessCode, methods["2026-03-18"])
}

func TestResolveRange_EmptyHistory(t *testing.T) {
	resolver := newTestResolver(historyOf(), date(2026, time.March, 1))

	methods, err := resolver.ResolveRange(context.Background(), 1, date(2026, time.March, 15), date(2026, time.March, 16))
	require.NoError(t, err)

	assert.Equal(t, domain.AccessUnrestricted, methods["2026-03-15"])
	assert.Equal(t, domain.AccessUnrestricted, methods["2026-03-16"])
}

func TestResolveRange_RepoError(t *testing.T) {
	repo := &fakeHistoryRepo{listErr: errors.New("db down")}
	resolver := newTestResolver(repo, date(2026, time.March, 1))

	_, err := resolver.ResolveRange(context.Background(), 1, date(2026, time.March, 15), date(2026, time.March, 16))
	assert.ErrorIs(t, err, ErrInternal)
}

func TestAddEntry_OK(t *testing.T) {
	repo := historyOf()
	resolver := newTestResolver(repo, date(2026, time.March, 1))

	created, err := resolver.AddEntry(context.Background(), 1, domain.AccessCode, date(2026, time.April, 1))
	require.NoError(t, err)

	assert.Equal(t, domain.AccessCode, created.AccessMethod)
	assert.Equal(t, date(2026, time.April, 1), created.EffectiveFrom)
	assert.Len(t, repo.created, 1)
}

func TestAddEntry_TodayAllowed(t *testing.T) {
	resolver := newTestResolver(historyOf(), time.Date(2026, time.March, 1, 17, 30, 0, 0, time.UTC))

	_, err := resolver.AddEntry(context.Background(), 1, domain.AccessCode, date(2026, time.March, 1))
	assert.NoError(t, err, "effective_from == today is not in the past")
}

func TestAddEntry_PastDateRejected(t *testing.T) {
	repo := historyOf()
	resolver := newTestResolver(repo, date(2026, time.March, 1))

	_, err := resolver.AddEntry(context.Background(), 1, domain.AccessCode, date(2026, time.February, 28))
	assert.ErrorIs(t, err, ErrEntryInPast)
	assert.Empty(t, repo.created)
}

func TestAddEntry_DuplicateDateRejected(t *testing.T) {
	repo := historyOf(entry(domain.AccessPhysicalKey, date(2026, time.April, 1)))
	resolver := newTestResolver(repo, date(2026, time.March, 1))

	_, err := resolver.AddEntry(context.Background(), 1, domain.AccessCode, date(2026, time.April, 1))
	assert.ErrorIs(t, err, ErrDuplicateDate)
}
