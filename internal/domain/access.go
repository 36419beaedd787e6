package domain

import (
	"fmt"
	"time"
)

// AccessMethod is the mechanism by which a reservee physically enters
// a resource
type AccessMethod string

const (
	AccessUnrestricted  AccessMethod = "UNRESTRICTED"
	AccessPhysicalKey   AccessMethod = "PHYSICAL_KEY"
	AccessOpenedByStaff AccessMethod = "OPENED_BY_STAFF"
	AccessCode          AccessMethod = "ACCESS_CODE"
)

var validAccessMethods = map[AccessMethod]struct{}{
	AccessUnrestricted:  {},
	AccessPhysicalKey:   {},
	AccessOpenedByStaff: {},
	AccessCode:          {},
}

// ParseAccessMethod validates and returns a typed access method
func ParseAccessMethod(s string) (AccessMethod, error) {
	m := AccessMethod(s)
	if _, ok := validAccessMethods[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccessMethod, s)
	}
	return m, nil
}

// AccessMethodEntry is one row of a resource's access-method history:
// the method in force from EffectiveFrom (a date, inclusive) until the
// next entry takes over.
//
// History invariants (enforced by the administrative write path, the
// engine only reads): at most one entry per date, at least one entry
// with EffectiveFrom <= today while the resource is published, and
// entries whose date has passed or is today cannot be altered.
type AccessMethodEntry struct {
	ID            int64
	ResourceID    int64
	AccessMethod  AccessMethod
	EffectiveFrom time.Time // date-only
	CreatedAt     time.Time
}

// IsActiveOn reports whether the entry is in force on the given date,
// assuming no later entry supersedes it
func (e *AccessMethodEntry) IsActiveOn(date time.Time) bool {
	return !dateOnly(e.EffectiveFrom).After(dateOnly(date))
}
