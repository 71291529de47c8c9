package timer

import "time"

// Clock provides the wall-clock time used to compute minute boundaries.
// The timerfd is armed against CLOCK_REALTIME, so arming must read the
// same clock the kernel will compare against.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host's realtime clock.
type SystemClock struct{}

// NewSystemClock creates a new system clock source.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}
