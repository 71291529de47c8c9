// Package engine drives the clock's main loop: it bridges the kernel
// timer's descriptor readiness into minute ticks and races each tick
// against a one-shot quit signal from the key-listener worker.
package engine

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bigclock/core"
)

// QuitKey is the single case-sensitive rune that terminates the clock.
const QuitKey = 'q'

// EventSource is the blocking keyboard event stream the listener worker
// drains. tcell.Screen satisfies it; PollEvent returning nil means the
// source was finalized.
type EventSource interface {
	PollEvent() tcell.Event
}

// Coordinator runs the application's main loop: one unconditional draw,
// then per iteration a race between the next minute tick and the quit
// signal. All drawing happens on the calling goroutine; the only other
// goroutines are the key listener and the tick pump, each isolated behind
// a single channel.
type Coordinator struct {
	bridge *Bridge
	events EventSource
	draw   func()

	quitKey rune
}

// NewCoordinator wires the bridge, the event source, and the draw callback.
// The draw callback must be synchronous and must not block; it is invoked
// once before the first wait and once per minute tick after that.
func NewCoordinator(bridge *Bridge, events EventSource, draw func()) *Coordinator {
	return &Coordinator{
		bridge:  bridge,
		events:  events,
		draw:    draw,
		quitKey: QuitKey,
	}
}

// Run executes the loop until the quit key is pressed or a fatal timer
// error occurs. On the quit path the listener worker is joined and a panic
// it raised is re-raised here; a clean quit returns nil.
func (c *Coordinator) Run() error {
	// Populate the display immediately; the first tick is up to a minute away.
	c.draw()

	quitCh := make(chan struct{}, 1)
	listenerDone := make(chan struct{})
	var listenerPanic any

	go func() {
		defer close(listenerDone)
		defer func() {
			if r := recover(); r != nil {
				listenerPanic = r
				// Wake the main loop so the panic surfaces at join.
				select {
				case quitCh <- struct{}{}:
				default:
				}
			}
		}()
		c.listenKeys(quitCh)
	}()

	stop := make(chan struct{})
	defer close(stop)

	// The pump runs under core.Go so a panic restores the terminal before
	// the process dies.
	tickCh := make(chan error)
	core.Go(func() {
		for {
			err := c.bridge.WaitForTick(stop)
			if err == ErrStopped {
				return
			}
			select {
			case tickCh <- err:
			case <-stop:
				return
			}
			if err != nil {
				return
			}
		}
	})

	for {
		select {
		case err := <-tickCh:
			if err != nil {
				return err
			}
			c.draw()

		case <-quitCh:
			<-listenerDone
			if listenerPanic != nil {
				panic(listenerPanic)
			}
			return nil
		}
	}
}

// listenKeys blocks on raw keyboard events and forwards exactly one quit
// signal. It returns unconditionally after the first matching key-press,
// so delivery is at-most-once by construction. Every other event, resizes
// and mouse included, is discarded.
func (c *Coordinator) listenKeys(quitCh chan<- struct{}) {
	for {
		ev := c.events.PollEvent()
		if ev == nil {
			// Event source finalized underneath us.
			return
		}
		if key, ok := ev.(*tcell.EventKey); ok && key.Key() == tcell.KeyRune && key.Rune() == c.quitKey {
			quitCh <- struct{}{}
			return
		}
	}
}
