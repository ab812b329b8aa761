// Package clock contains the clock abstraction used by every time-based check,
// so that booking rules stay deterministic under test.
package clock

import "time"

// Clock determines the method used to read the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// New creates a Clock backed by the system wall clock.
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock frozen at a given instant, for tests.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time {
	return f.Instant
}
