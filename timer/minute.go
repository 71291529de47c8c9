// Package timer wraps a kernel timerfd armed in absolute realtime mode to
// fire at the start of every wall-clock minute.
//
// The timer is armed with TFD_TIMER_ABSTIME so repeated rearms target exact
// minute boundaries and drift cannot accumulate, and with
// TFD_TIMER_CANCEL_ON_SET so a discontinuous step of the host clock (NTP
// correction, manual set) surfaces as ErrClockStepped on the next read
// instead of a fire at the wrong wall-clock moment.
package timer

import "errors"

// ErrClockStepped reports that the kernel canceled the armed timer because
// the realtime clock was adjusted discontinuously. The timer is left
// disarmed by the kernel; callers must rearm before waiting again.
var ErrClockStepped = errors.New("timer canceled by realtime clock step")

// FireSize is the kernel's fixed payload size for a timerfd read: one
// little-endian uint64 expiration counter.
const FireSize = 8

// NextMinute returns the epoch second of the next whole-minute boundary
// strictly after now. An exact boundary maps to the following minute, never
// to itself.
func NextMinute(now int64) int64 {
	return (now/60 + 1) * 60
}
