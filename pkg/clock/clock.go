package clock

import "time"

// Clock provides the current instant. Domain code that needs "today" takes a
// Clock instead of calling time.Now so tests can pin the moment without
// touching process-global state.
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant. Test helper.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time {
	return f.Instant
}
