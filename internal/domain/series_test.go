package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

func futureInstance(state domain.InstanceState, now time.Time) *domain.ReservationInstance {
	return &domain.ReservationInstance{
		BeginsAt: now.Add(24 * time.Hour),
		EndsAt:   now.Add(26 * time.Hour),
		State:    state,
	}
}

func TestInstance_CanBeRescheduled(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, futureInstance(domain.StateConfirmed, now).CanBeRescheduled(now))
	assert.False(t, futureInstance(domain.StateCreated, now).CanBeRescheduled(now))
	assert.False(t, futureInstance(domain.StateDenied, now).CanBeRescheduled(now))
	assert.False(t, futureInstance(domain.StateCancelled, now).CanBeRescheduled(now))

	started := &domain.ReservationInstance{
		BeginsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
		State:    domain.StateConfirmed,
	}
	assert.False(t, started.CanBeRescheduled(now), "started instance keeps its interval")

	startingNow := &domain.ReservationInstance{
		BeginsAt: now,
		EndsAt:   now.Add(time.Hour),
		State:    domain.StateConfirmed,
	}
	assert.False(t, startingNow.CanBeRescheduled(now), "begins_at == now counts as started")
}

func TestInstance_CanBeDenied(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, futureInstance(domain.StateCreated, now).CanBeDenied(now))
	assert.True(t, futureInstance(domain.StateConfirmed, now).CanBeDenied(now))
	assert.False(t, futureInstance(domain.StateDenied, now).CanBeDenied(now))
	assert.False(t, futureInstance(domain.StateCancelled, now).CanBeDenied(now))

	started := &domain.ReservationInstance{
		BeginsAt: now.Add(-time.Minute),
		EndsAt:   now.Add(time.Hour),
		State:    domain.StateConfirmed,
	}
	assert.False(t, started.CanBeDenied(now))
}

func TestInstance_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    domain.InstanceState
		to      domain.InstanceState
		allowed bool
	}{
		{domain.StateCreated, domain.StateConfirmed, true},
		{domain.StateCreated, domain.StateDenied, true},
		{domain.StateCreated, domain.StateCancelled, true},
		{domain.StateConfirmed, domain.StateConfirmed, true}, // reschedule
		{domain.StateConfirmed, domain.StateDenied, true},
		{domain.StateConfirmed, domain.StateCancelled, true},
		{domain.StateDenied, domain.StateConfirmed, false},
		{domain.StateDenied, domain.StateDenied, false},
		{domain.StateCancelled, domain.StateConfirmed, false},
	}

	for _, tc := range cases {
		inst := &domain.ReservationInstance{State: tc.from}
		assert.Equal(t, tc.allowed, inst.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestInstance_IsActive_IsTerminal(t *testing.T) {
	assert.True(t, (&domain.ReservationInstance{State: domain.StateCreated}).IsActive())
	assert.True(t, (&domain.ReservationInstance{State: domain.StateConfirmed}).IsActive())
	assert.False(t, (&domain.ReservationInstance{State: domain.StateDenied}).IsActive())

	assert.True(t, (&domain.ReservationInstance{State: domain.StateDenied}).IsTerminal())
	assert.True(t, (&domain.ReservationInstance{State: domain.StateCancelled}).IsTerminal())
	assert.False(t, (&domain.ReservationInstance{State: domain.StateConfirmed}).IsTerminal())
}

func TestShouldHaveActiveAccessCode(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	codeInstance := func(state domain.InstanceState, endsAt time.Time) *domain.ReservationInstance {
		return &domain.ReservationInstance{
			BeginsAt:     endsAt.Add(-2 * time.Hour),
			EndsAt:       endsAt,
			State:        state,
			AccessMethod: domain.AccessCode,
		}
	}

	t.Run("active future access-code instance", func(t *testing.T) {
		instances := []*domain.ReservationInstance{
			codeInstance(domain.StateConfirmed, now.Add(48*time.Hour)),
		}
		assert.True(t, domain.ShouldHaveActiveAccessCode(instances, now))
	})

	t.Run("no access-code instances", func(t *testing.T) {
		instances := []*domain.ReservationInstance{
			{State: domain.StateConfirmed, EndsAt: now.Add(time.Hour), AccessMethod: domain.AccessPhysicalKey},
			{State: domain.StateConfirmed, EndsAt: now.Add(time.Hour), AccessMethod: domain.AccessUnrestricted},
		}
		assert.False(t, domain.ShouldHaveActiveAccessCode(instances, now))
	})

	t.Run("access-code instance already finished", func(t *testing.T) {
		instances := []*domain.ReservationInstance{
			codeInstance(domain.StateConfirmed, now.Add(-time.Hour)),
		}
		assert.False(t, domain.ShouldHaveActiveAccessCode(instances, now))
	})

	t.Run("access-code instance denied", func(t *testing.T) {
		instances := []*domain.ReservationInstance{
			codeInstance(domain.StateDenied, now.Add(48*time.Hour)),
		}
		assert.False(t, domain.ShouldHaveActiveAccessCode(instances, now))
	})

	t.Run("one qualifying among many", func(t *testing.T) {
		instances := []*domain.ReservationInstance{
			codeInstance(domain.StateDenied, now.Add(48*time.Hour)),
			{State: domain.StateConfirmed, EndsAt: now.Add(time.Hour), AccessMethod: domain.AccessUnrestricted},
			codeInstance(domain.StateCreated, now.Add(72*time.Hour)),
		}
		assert.True(t, domain.ShouldHaveActiveAccessCode(instances, now))
	})

	t.Run("empty set", func(t *testing.T) {
		assert.False(t, domain.ShouldHaveActiveAccessCode(nil, now))
	})
}

func TestInstance_Interval(t *testing.T) {
	inst := &domain.ReservationInstance{
		BeginsAt:     time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
		EndsAt:       time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
		BufferBefore: 15 * time.Minute,
		BufferAfter:  30 * time.Minute,
	}

	interval := inst.Interval()
	assert.Equal(t, inst.BeginsAt, interval.Start)
	assert.Equal(t, inst.EndsAt, interval.End)
	assert.Equal(t, 15*time.Minute, interval.BufferBefore)
	assert.Equal(t, 30*time.Minute, interval.BufferAfter)
}
