package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/lixenwraith/bigclock/timer"
)

// readResult scripts one consume step of the fake timer.
type readResult struct {
	n   int
	err error
}

// fakeTimer implements Waitable with a scripted sequence of read results.
// Once the script is exhausted, WaitReadable blocks until stop closes,
// mimicking a quiet descriptor.
type fakeTimer struct {
	mu     sync.Mutex
	script []readResult
	idx    int

	guards   []*timer.ReadyGuard
	rearms   int
	rearmErr error

	// onWait, if set, observes each readiness registration.
	onWait func(call int)
}

func (f *fakeTimer) WaitReadable(stop <-chan struct{}) (*timer.ReadyGuard, error) {
	f.mu.Lock()
	call := len(f.guards)
	if f.onWait != nil {
		f.onWait(call)
	}
	if f.idx >= len(f.script) {
		f.mu.Unlock()
		<-stop
		return nil, nil
	}
	g := timer.NewReadyGuard()
	f.guards = append(f.guards, g)
	f.mu.Unlock()
	return g, nil
}

func (f *fakeTimer) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.script[f.idx]
	f.idx++
	for i := 0; i < r.n && i < len(p); i++ {
		p[i] = 0
	}
	return r.n, r.err
}

func (f *fakeTimer) Arm() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rearms++
	return f.rearmErr
}

func (f *fakeTimer) rearmCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rearms
}

// allGuardsCleared verifies the readiness-guard hygiene invariant: every
// guard handed out was cleared before the bridge returned.
func (f *fakeTimer) allGuardsCleared() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.guards {
		if !g.Cleared() {
			return false
		}
	}
	return true
}

func neverStop() <-chan struct{} {
	return make(chan struct{})
}

func TestWaitForTickNormalFire(t *testing.T) {
	ft := &fakeTimer{script: []readResult{{n: 8}}}
	b := NewBridge(ft)

	if err := b.WaitForTick(neverStop()); err != nil {
		t.Fatalf("WaitForTick() = %v, want nil", err)
	}
	if ft.rearmCount() != 0 {
		t.Errorf("rearms = %d, want 0", ft.rearmCount())
	}
	if !ft.allGuardsCleared() {
		t.Error("readiness guard not cleared on tick path")
	}
}

func TestWaitForTickShortRead(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		ft := &fakeTimer{script: []readResult{{n: n}}}
		b := NewBridge(ft)

		err := b.WaitForTick(neverStop())
		if err == nil || !strings.Contains(err.Error(), "short read") {
			t.Errorf("n=%d: WaitForTick() = %v, want short read error", n, err)
		}
		if !ft.allGuardsCleared() {
			t.Errorf("n=%d: readiness guard not cleared on short-read path", n)
		}
	}
}

func TestWaitForTickOversizedRead(t *testing.T) {
	ft := &fakeTimer{script: []readResult{{n: 12}}}
	b := NewBridge(ft)

	err := b.WaitForTick(neverStop())
	if err == nil || !strings.Contains(err.Error(), "oversized read") {
		t.Fatalf("WaitForTick() = %v, want oversized read error", err)
	}
	if !ft.allGuardsCleared() {
		t.Error("readiness guard not cleared on oversized-read path")
	}
}

// A clock-step cancellation is swallowed: the timer is rearmed and the wait
// resumes until a genuine fire arrives.
func TestWaitForTickClockStepRearms(t *testing.T) {
	ft := &fakeTimer{script: []readResult{
		{err: timer.ErrClockStepped},
		{n: 8},
	}}
	b := NewBridge(ft)

	if err := b.WaitForTick(neverStop()); err != nil {
		t.Fatalf("WaitForTick() = %v, want nil", err)
	}
	if ft.rearmCount() != 1 {
		t.Errorf("rearms = %d, want 1", ft.rearmCount())
	}
	if !ft.allGuardsCleared() {
		t.Error("readiness guard not cleared on cancellation path")
	}
}

// A rearm failure during the cancellation path must abort the loop, never
// leave the timer silently disarmed.
func TestWaitForTickRearmFailureFatal(t *testing.T) {
	ft := &fakeTimer{
		script:   []readResult{{err: timer.ErrClockStepped}},
		rearmErr: errors.New("settime rejected"),
	}
	b := NewBridge(ft)

	err := b.WaitForTick(neverStop())
	if err == nil || !strings.Contains(err.Error(), "rearm after clock step") {
		t.Fatalf("WaitForTick() = %v, want rearm error", err)
	}
	if !ft.allGuardsCleared() {
		t.Error("readiness guard not cleared on rearm-failure path")
	}
}

func TestWaitForTickOtherReadErrorFatal(t *testing.T) {
	readErr := errors.New("descriptor gone")
	ft := &fakeTimer{script: []readResult{{err: readErr}}}
	b := NewBridge(ft)

	err := b.WaitForTick(neverStop())
	if !errors.Is(err, readErr) {
		t.Fatalf("WaitForTick() = %v, want wrapped %v", err, readErr)
	}
	if ft.rearmCount() != 0 {
		t.Errorf("rearms = %d, want 0", ft.rearmCount())
	}
	if !ft.allGuardsCleared() {
		t.Error("readiness guard not cleared on fatal-read path")
	}
}

func TestWaitForTickStopped(t *testing.T) {
	ft := &fakeTimer{}
	b := NewBridge(ft)

	stop := make(chan struct{})
	close(stop)

	if err := b.WaitForTick(stop); !errors.Is(err, ErrStopped) {
		t.Fatalf("WaitForTick() = %v, want ErrStopped", err)
	}
}
