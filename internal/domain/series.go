package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// InstanceState lifecycle state of a reservation instance
//
// Transitions: CREATED -> CONFIRMED -> {DENIED | CANCELLED}.
// CONFIRMED -> CONFIRMED with a new interval (reschedule) is the only
// permitted mutation of a confirmed instance's times, and only before
// the instance has started. DENIED and CANCELLED are terminal.
type InstanceState string

const (
	StateCreated   InstanceState = "CREATED"
	StateConfirmed InstanceState = "CONFIRMED"
	StateDenied    InstanceState = "DENIED"
	StateCancelled InstanceState = "CANCELLED"
)

// RejectionReason why a generated candidate slot was not booked
type RejectionReason string

const (
	ReasonOverlapping        RejectionReason = "OVERLAPPING_RESERVATIONS"
	ReasonUnitClosed         RejectionReason = "RESERVATION_UNIT_CLOSED"
	ReasonIntervalNotAllowed RejectionReason = "INTERVAL_NOT_ALLOWED"
)

// ReservationSeries owns the instances generated from one recurrence
// rule. A series is never deleted while instances exist
type ReservationSeries struct {
	ID         int64
	ResourceID int64
	UserID     int64
	Name       string

	RecurrenceIntervalDays int
	Weekdays               []Weekday
	BeginDate              time.Time
	EndDate                time.Time
	BeginTime              types.TimeString
	EndTime                types.TimeString

	// Optional age-group metadata for municipal reporting
	AgeGroup *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReservationInstance is one concrete booked interval, belonging to a
// series or standalone.
//
// Reservee contact fields are denormalized from the originating request
// at creation time and never re-derived; AccessMethod is resolved once
// per instance because a resource's access method can change mid-series.
type ReservationInstance struct {
	ID         int64
	SeriesID   *int64
	ResourceID int64
	UserID     int64

	BeginsAt     time.Time
	EndsAt       time.Time
	BufferBefore time.Duration
	BufferAfter  time.Duration

	AccessMethod AccessMethod
	State        InstanceState

	ReserveeType  ReserveeType
	ReserveeName  string
	ReserveeEmail *string
	ReserveePhone *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the instance's interval with its buffers applied
func (i *ReservationInstance) Interval() TimeInterval {
	return TimeInterval{
		Start:        i.BeginsAt,
		End:          i.EndsAt,
		BufferBefore: i.BufferBefore,
		BufferAfter:  i.BufferAfter,
	}
}

// IsTerminal reports whether the instance is denied or cancelled
func (i *ReservationInstance) IsTerminal() bool {
	return i.State == StateDenied || i.State == StateCancelled
}

// IsActive reports whether the instance still occupies its interval
func (i *ReservationInstance) IsActive() bool {
	return i.State == StateCreated || i.State == StateConfirmed
}

// HasStarted reports whether the instance's interval has begun
func (i *ReservationInstance) HasStarted(now time.Time) bool {
	return !i.BeginsAt.After(now)
}

// CanBeRescheduled reports whether the instance may receive a new
// interval: confirmed only, and not yet started
func (i *ReservationInstance) CanBeRescheduled(now time.Time) bool {
	return i.State == StateConfirmed && !i.HasStarted(now)
}

// CanBeDenied reports whether the instance may transition to DENIED
func (i *ReservationInstance) CanBeDenied(now time.Time) bool {
	return i.IsActive() && !i.HasStarted(now)
}

// CanTransitionTo validates a state change against the lifecycle
func (i *ReservationInstance) CanTransitionTo(next InstanceState) bool {
	switch i.State {
	case StateCreated:
		return next == StateConfirmed || next == StateDenied || next == StateCancelled
	case StateConfirmed:
		return next == StateConfirmed || next == StateDenied || next == StateCancelled
	default:
		return false
	}
}

// RejectedOccurrence is an immutable audit record of a candidate slot
// that failed acceptance. Created once, read only for reporting; the
// engine never reads these back
type RejectedOccurrence struct {
	ID       int64
	SeriesID int64
	BeginsAt time.Time
	EndsAt   time.Time
	Reason   RejectionReason

	CreatedAt time.Time
}

// ShouldHaveActiveAccessCode computes from in-memory instances whether
// an access code should currently be provisioned for the series: at
// least one active, not-yet-finished instance uses ACCESS_CODE entry.
//
// The persistence layer maintains the same value as a denormalized
// column for query-time filtering; this function and that column are
// deliberately separate code paths.
func ShouldHaveActiveAccessCode(instances []*ReservationInstance, now time.Time) bool {
	for _, inst := range instances {
		if inst.IsActive() && inst.AccessMethod == AccessCode && inst.EndsAt.After(now) {
			return true
		}
	}
	return false
}
