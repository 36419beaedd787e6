package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default values applied when a resource has no explicit policy
const (
	DefaultStartIntervalMinutes = 15
	DefaultHorizonDays          = 730
)

// Business validation constants
const (
	MinRecurrenceIntervalDays = 7
	MaxSeriesNameLength       = 255
	MaxReserveeFieldLength    = 255
)

// TerminalStates instance states that permit no further transitions
var TerminalStates = []InstanceState{
	StateDenied,
	StateCancelled,
}

// ActiveStates instance states that count as occupying their interval
var ActiveStates = []InstanceState{
	StateCreated,
	StateConfirmed,
}
