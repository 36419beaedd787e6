package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// RecurrenceSpec describes a recurrence rule for a reservation series.
//
// The spec is request-scoped and never persisted as-is: it is validated
// once, fed to the slot generator, and the resulting series row records
// its fields for later reschedules.
type RecurrenceSpec struct {
	ResourceID int64

	// Weekdays to generate occurrences on. Empty means "the weekday of
	// BeginDate" (resolved by EffectiveWeekdays)
	Weekdays []Weekday

	// Date range, inclusive on both ends. Date-only values: the time
	// portion is ignored, the facility timezone applies
	BeginDate time.Time
	EndDate   time.Time

	// Wall-clock time of day for every occurrence
	BeginTime types.TimeString
	EndTime   types.TimeString

	// Days between occurrences on the same weekday; must be a positive
	// multiple of 7
	IntervalDays int

	// Dates to omit from generation entirely
	SkipDates []time.Time
}

// EffectiveWeekdays returns the weekday set to generate on, defaulting
// to BeginDate's own weekday when none were given
func (s *RecurrenceSpec) EffectiveWeekdays() []Weekday {
	if len(s.Weekdays) > 0 {
		return s.Weekdays
	}
	return []Weekday{WeekdayFromTime(s.BeginDate.Weekday())}
}

// IsSkipped reports whether the given date is in the skip set
func (s *RecurrenceSpec) IsSkipped(date time.Time) bool {
	y, m, d := date.Date()
	for _, skip := range s.SkipDates {
		sy, sm, sd := skip.Date()
		if y == sy && m == sm && d == sd {
			return true
		}
	}
	return false
}

// Validate checks the spec against the rules a well-formed recurrence
// must satisfy. Runs once before generation; the generator itself never
// fails for a spec that passed here.
func (s *RecurrenceSpec) Validate(now time.Time, horizonDays int) error {
	if s.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidRecurrence)
	}

	if s.BeginDate.IsZero() || s.EndDate.IsZero() {
		return fmt.Errorf("%w: begin and end dates are required", ErrInvalidRecurrence)
	}

	if dateOnly(s.EndDate).Before(dateOnly(s.BeginDate)) {
		return fmt.Errorf("%w: begin=%s end=%s", ErrDateRangeInverted,
			s.BeginDate.Format(DateFormat), s.EndDate.Format(DateFormat))
	}

	if err := s.BeginTime.Validate(); err != nil {
		return fmt.Errorf("%w: begin time: %v", ErrInvalidRecurrence, err)
	}
	if err := s.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidRecurrence, err)
	}

	// On a single-day spec an inverted time range would produce a
	// zero-or-negative interval; on multi-day specs the generator never
	// crosses midnight so the same rule applies to every occurrence
	if !s.EndTime.IsAfter(s.BeginTime) {
		return fmt.Errorf("%w: begin=%s end=%s", ErrTimeRangeInverted, s.BeginTime, s.EndTime)
	}

	if s.IntervalDays < MinRecurrenceIntervalDays || s.IntervalDays%7 != 0 {
		return fmt.Errorf("%w: got %d", ErrIntervalNotWeekly, s.IntervalDays)
	}

	for _, wd := range s.Weekdays {
		if !wd.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidWeekday, string(wd))
		}
	}

	// The open-hours oracle only serves a bounded horizon; a series
	// ending past it could not be checked against open hours at all
	horizon := dateOnly(now).AddDate(0, 0, horizonDays)
	if dateOnly(s.EndDate).After(horizon) {
		return fmt.Errorf("%w: end=%s horizon=%s", ErrBeyondHorizon,
			s.EndDate.Format(DateFormat), horizon.Format(DateFormat))
	}

	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
