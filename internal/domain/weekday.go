package domain

import (
	"fmt"
	"time"
)

// Weekday is a typed weekday value, Monday-first.
//
// The legacy integer/CSV representation ("0,2,4" with 0 = Monday) still
// exists in old database rows; converting it lives at the storage
// boundary, the rest of the code uses this type only.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdayIndex = map[Weekday]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
	Sunday:    6,
}

var weekdayByIndex = [7]Weekday{
	Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday,
}

// ParseWeekday validates and returns a typed weekday
func ParseWeekday(s string) (Weekday, error) {
	wd := Weekday(s)
	if _, ok := weekdayIndex[wd]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
	}
	return wd, nil
}

// Index returns the Monday-first index 0..6
func (w Weekday) Index() int {
	return weekdayIndex[w]
}

// IsValid reports whether the value is one of the seven weekdays
func (w Weekday) IsValid() bool {
	_, ok := weekdayIndex[w]
	return ok
}

// ToTime converts to the stdlib Sunday-first representation
func (w Weekday) ToTime() time.Weekday {
	return time.Weekday((weekdayIndex[w] + 1) % 7)
}

// WeekdayFromTime converts from the stdlib Sunday-first representation
func WeekdayFromTime(wd time.Weekday) Weekday {
	return weekdayByIndex[(int(wd)+6)%7]
}

// WeekdayFromLegacyInt converts the legacy Monday-first integer form
// still present in old rows
func WeekdayFromLegacyInt(i int) (Weekday, error) {
	if i < 0 || i > 6 {
		return "", fmt.Errorf("%w: legacy value %d", ErrInvalidWeekday, i)
	}
	return weekdayByIndex[i], nil
}

// DaysUntil returns the number of days from w to target, 0..6
func (w Weekday) DaysUntil(target Weekday) int {
	return (target.Index() - w.Index() + 7) % 7
}
