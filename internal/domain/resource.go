package domain

import (
	"time"

	"github.com/google/uuid"
)

// Resource is a bookable space (meeting room, hall, court)
type Resource struct {
	ID   int64
	Name string

	// Resources sharing the same group occupy the same physical space:
	// a booking of any of them blocks the whole group
	GroupID int64

	// External id of the resource in the open-hours service
	OpenHoursUUID uuid.UUID

	// Allowed start-time granularity: occurrence start times must fall
	// on a multiple of this many minutes past the hour
	StartIntervalMinutes int

	// Buffer policy applied to new reservations
	BufferBefore time.Duration
	BufferAfter  time.Duration

	// BlockWholeDay makes a reservation block its entire date instead
	// of using the fixed buffers above
	BlockWholeDay bool

	Published bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartInterval returns the start granularity, falling back to the
// service default when the resource has none configured
func (r *Resource) StartInterval() int {
	if r.StartIntervalMinutes <= 0 {
		return DefaultStartIntervalMinutes
	}
	return r.StartIntervalMinutes
}
