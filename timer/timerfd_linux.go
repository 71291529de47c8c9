//go:build linux

package timer

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// pollTimeoutMs bounds each poll round so the stop channel is observed
// promptly while the descriptor is quiet.
const pollTimeoutMs = 100

// Timer is a kernel timerfd armed to fire at second 0 of every minute.
// The descriptor is owned exclusively by whoever drives the wait loop;
// Timer itself holds no synchronization.
type Timer struct {
	fd    int
	clock Clock
}

// New creates the timerfd and arms it to the next minute boundary.
// Creation failure is fatal to the caller; there is nothing to retry.
func New(clock Clock) (*Timer, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_REALTIME, unix.TFD_CLOEXEC|unix.TFD_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("timerfd create: %w", err)
	}

	t := &Timer{fd: fd, clock: clock}
	if err := t.Arm(); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return t, nil
}

// Arm programs the timer to fire at the next whole minute and every 60
// seconds after that, in absolute realtime so rearms cannot drift.
// Idempotent; callable at any point to re-synchronize, including after a
// clock-step cancellation.
func (t *Timer) Arm() error {
	next := NextMinute(t.clock.Now().Unix())

	spec := unix.ItimerSpec{
		Value:    unix.NsecToTimespec(next * int64(time.Second)),
		Interval: unix.NsecToTimespec(int64(time.Minute)),
	}

	flags := unix.TFD_TIMER_ABSTIME | unix.TFD_TIMER_CANCEL_ON_SET
	if err := unix.TimerfdSettime(t.fd, flags, &spec, nil); err != nil {
		return fmt.Errorf("timerfd settime: %w", err)
	}
	return nil
}

// WaitReadable blocks until the descriptor is reported readable and returns
// a fresh readiness guard. Returns (nil, nil) when stop closes first.
func (t *Timer) WaitReadable(stop <-chan struct{}) (*ReadyGuard, error) {
	for {
		select {
		case <-stop:
			return nil, nil
		default:
		}

		// Poll with timeout to allow checking stop
		fds := []unix.PollFd{
			{Fd: int32(t.fd), Events: unix.POLLIN},
		}

		n, err := unix.Poll(fds, pollTimeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, fmt.Errorf("timerfd poll: %w", err)
		}

		if n == 0 {
			continue // Timeout
		}

		return NewReadyGuard(), nil
	}
}

// Read consumes the pending expiration counter. A clock-step cancellation
// from the kernel is translated to ErrClockStepped; other errnos pass
// through for the caller to treat as fatal.
func (t *Timer) Read(p []byte) (int, error) {
	n, err := unix.Read(t.fd, p)
	if err != nil {
		if err == unix.ECANCELED {
			return 0, ErrClockStepped
		}
		return 0, err
	}
	return n, nil
}

// Close releases the kernel timer resource.
func (t *Timer) Close() error {
	return unix.Close(t.fd)
}
