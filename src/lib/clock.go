package lib

import "github.com/jonboulle/clockwork"

var clock clockwork.Clock = clockwork.NewRealClock()

// GetClock is the time source for offer-window and hold-expiry decisions.
func GetClock() clockwork.Clock {
	return clock
}

// NewClock Replace clock instance with custom implementation (tests)
func NewClock(c clockwork.Clock) clockwork.Clock {
	clock = c
	return clock
}
