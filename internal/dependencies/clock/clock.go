package clock

import "time"

// Clock is the knockout's source of time. Round start times, false start
// windows and cached bridge tokens are all measured against it.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock
type System struct{}

// New returns the system clock
func New() System {
	return System{}
}

// Now returns the current time
func (System) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed on c since t
func Since(c Clock, t time.Time) time.Duration {
	return c.Now().Sub(t)
}
