// Package clock provides an injectable time source so that all expiry and
// compliance date logic can be tested deterministically.
package clock

import "time"

// Clock is the time collaborator used by every component that evaluates dates.
type Clock interface {
	Now() time.Time
}

// Real is a Clock backed by the system time.
type Real struct{}

// Now returns the current system time in UTC.
func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a Clock frozen at a single instant. Intended for tests.
type Fixed struct {
	T time.Time
}

// Now returns the frozen instant.
func (f Fixed) Now() time.Time {
	return f.T
}

// At returns a Fixed clock frozen at the given instant.
func At(t time.Time) Fixed {
	return Fixed{T: t}
}
