// Package clock decouples services from wall time. Order timestamps and
// stale-reservation cutoffs go through a Clock so tests can pin the instant.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns the wall clock. All times are UTC.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed pins Now to one instant. Tests use it to age reservations past
// the stale cutoff without sleeping.
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
