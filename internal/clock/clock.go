package clock

import "time"

// Clock abstracts time for services that make expiry decisions, so
// tests can drive TTLs deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// New returns the wall clock.
func New() Clock { return systemClock{} }
