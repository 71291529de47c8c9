package engine

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/bigclock/timer"
)

// ErrStopped reports that a wait was abandoned because the stop channel
// closed before the timer fired.
var ErrStopped = errors.New("tick wait stopped")

// Waitable is the capability the bridge needs from a timer: readiness
// polling on the underlying descriptor, fixed-size reads of the fire
// counter, and rearming after a clock step. *timer.Timer implements it;
// tests substitute a scripted fake.
type Waitable interface {
	// WaitReadable blocks until the descriptor is readable, returning a
	// fresh readiness guard, or (nil, nil) if stop closed first.
	WaitReadable(stop <-chan struct{}) (*timer.ReadyGuard, error)
	Read(p []byte) (int, error)
	Arm() error
}

// Bridge adapts a pollable timer descriptor into minute-tick delivery.
// It owns the consume-and-rearm protocol: after every readiness report the
// pending fire counter is read exactly once and classified, and the
// readiness guard is cleared on every exit path.
type Bridge struct {
	timer Waitable
}

// NewBridge creates a bridge over the given timer handle. The bridge
// assumes exclusive ownership of the descriptor's readiness state.
func NewBridge(t Waitable) *Bridge {
	return &Bridge{timer: t}
}

// WaitForTick blocks until the next genuine minute fire. A clock-step
// cancellation is swallowed: the timer is rearmed to the next minute
// boundary and the wait resumes, so callers see one return per real tick.
// Note the rearm makes this a mutating operation on timer state, not a
// pure observation.
//
// Returns ErrStopped when stop closes, nil on a tick, and a fatal error on
// any protocol violation.
func (b *Bridge) WaitForTick(stop <-chan struct{}) error {
	for {
		tick, err := b.waitOnce(stop)
		if err != nil {
			return err
		}
		if tick {
			return nil
		}
		// Spurious wake from a clock step; timer already rearmed.
	}
}

// waitOnce performs one readiness wait and one read, classifying the
// result. The guard is cleared before returning on every branch.
func (b *Bridge) waitOnce(stop <-chan struct{}) (bool, error) {
	guard, err := b.timer.WaitReadable(stop)
	if err != nil {
		return false, fmt.Errorf("timer readiness wait: %w", err)
	}
	if guard == nil {
		return false, ErrStopped
	}
	defer guard.Clear()

	// The kernel contract is a single 8-byte expiration counter per read.
	// The buffer is deliberately larger so an oversized read is detectable
	// rather than silently truncated.
	buf := make([]byte, 2*timer.FireSize)
	n, err := b.timer.Read(buf)
	if err != nil {
		if errors.Is(err, timer.ErrClockStepped) {
			// Realtime clock was stepped; the old absolute target is void.
			if err := b.timer.Arm(); err != nil {
				return false, fmt.Errorf("rearm after clock step: %w", err)
			}
			return false, nil
		}
		return false, fmt.Errorf("timer read: %w", err)
	}

	switch {
	case n < timer.FireSize:
		return false, fmt.Errorf("short read on timer fd: %d bytes", n)
	case n == timer.FireSize:
		return true, nil
	default:
		return false, fmt.Errorf("oversized read on timer fd: %d bytes", n)
	}
}
