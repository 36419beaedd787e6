package domain

import "errors"

var (
	// ErrInvalidInterval is returned when an interval is constructed with start >= end
	ErrInvalidInterval = errors.New("domain: interval start must be before end")

	// ErrInvalidRecurrence is returned when a recurrence spec fails validation
	ErrInvalidRecurrence = errors.New("domain: invalid recurrence spec")

	// ErrDateRangeInverted is returned when begin date is after end date
	ErrDateRangeInverted = errors.New("domain: begin date is after end date")

	// ErrTimeRangeInverted is returned when end time is not after begin time on a single-day spec
	ErrTimeRangeInverted = errors.New("domain: end time must be after begin time")

	// ErrBeyondHorizon is returned when end date exceeds the open-hours fetch horizon
	ErrBeyondHorizon = errors.New("domain: end date is beyond the reservable horizon")

	// ErrIntervalNotWeekly is returned when the recurrence interval is not a multiple of 7 days
	ErrIntervalNotWeekly = errors.New("domain: recurrence interval must be a multiple of 7 days")

	// ErrInvalidWeekday is returned for an unknown weekday value
	ErrInvalidWeekday = errors.New("domain: invalid weekday")

	// ErrInvalidStateTransition is returned for a forbidden instance state change
	ErrInvalidStateTransition = errors.New("domain: invalid instance state transition")

	// ErrInvalidReservee is returned when reservee data fails its category validation
	ErrInvalidReservee = errors.New("domain: invalid reservee data")

	// ErrInvalidAccessMethod is returned for an unknown access method value
	ErrInvalidAccessMethod = errors.New("domain: invalid access method")
)
