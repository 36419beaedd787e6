package domain

import (
	"fmt"
	"time"
)

// TimeInterval is an immutable half-open datetime range [Start, End)
// with optional buffer durations before and after.
//
// Buffers extend the interval for overlap purposes only: no other
// reservation may intrude into [BufferedStart, BufferedEnd), but the
// reservation itself occupies [Start, End).
type TimeInterval struct {
	Start        time.Time
	End          time.Time
	BufferBefore time.Duration
	BufferAfter  time.Duration

	// IsReservable is meaningful only for open-hours windows: it marks
	// whether the window accepts reservations at all
	IsReservable bool
}

// NewTimeInterval constructs an interval, enforcing Start < End.
// A start carrying sub-minute precision (seconds or nanoseconds from
// upstream raw data) is rounded up to the next whole minute once here;
// the value is immutable afterwards.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	start = roundUpToMinute(start)
	if !start.Before(end) {
		return TimeInterval{}, fmt.Errorf("%w: start=%s end=%s", ErrInvalidInterval,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeInterval{Start: start, End: end}, nil
}

// WithBuffers returns a copy of the interval with the given buffers set
func (i TimeInterval) WithBuffers(before, after time.Duration) TimeInterval {
	i.BufferBefore = before
	i.BufferAfter = after
	return i
}

// BufferedStart returns the start shifted back by the leading buffer
func (i TimeInterval) BufferedStart() time.Time {
	return i.Start.Add(-i.BufferBefore)
}

// BufferedEnd returns the end shifted forward by the trailing buffer
func (i TimeInterval) BufferedEnd() time.Time {
	return i.End.Add(i.BufferAfter)
}

// Overlaps reports whether i overlaps other, respecting only other's
// buffers. The check is asymmetric on purpose: callers that need
// buffer-symmetric overlap invoke it in both directions.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.BufferedEnd()) && i.End.After(other.BufferedStart())
}

// FullyInside reports whether i lies entirely within other's buffered range
func (i TimeInterval) FullyInside(other TimeInterval) bool {
	return !i.Start.Before(other.BufferedStart()) && !i.End.After(other.BufferedEnd())
}

// StartsInside reports whether i's start falls within other's buffered
// range (half-open: the buffered end itself is outside)
func (i TimeInterval) StartsInside(other TimeInterval) bool {
	return !i.Start.Before(other.BufferedStart()) && i.Start.Before(other.BufferedEnd())
}

// EndsInside reports whether i's end falls within other's buffered
// range (half-open: the buffered start itself is outside)
func (i TimeInterval) EndsInside(other TimeInterval) bool {
	return i.End.After(other.BufferedStart()) && !i.End.After(other.BufferedEnd())
}

// DurationMinutes returns the interval length in minutes
func (i TimeInterval) DurationMinutes() float64 {
	return i.End.Sub(i.Start).Minutes()
}

// BufferedDurationMinutes returns the buffered interval length in minutes
func (i TimeInterval) BufferedDurationMinutes() float64 {
	return i.BufferedEnd().Sub(i.BufferedStart()).Minutes()
}

func roundUpToMinute(t time.Time) time.Time {
	truncated := t.Truncate(time.Minute)
	if truncated.Equal(t) {
		return t
	}
	return truncated.Add(time.Minute)
}
