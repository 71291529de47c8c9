package audio

import (
	"testing"
	"time"
)

func TestShouldChimeOnlyOnTheHour(t *testing.T) {
	c := &Chime{lastHour: -1}

	at := func(hour, min int) time.Time {
		return time.Date(2024, 6, 1, hour, min, 0, 0, time.Local)
	}

	if c.shouldChime(at(9, 59)) {
		t.Error("chimed off the hour")
	}
	if !c.shouldChime(at(10, 0)) {
		t.Error("did not chime at the top of the hour")
	}
	// Redraw within the same minute (clock step) must not chime again.
	if c.shouldChime(at(10, 0)) {
		t.Error("chimed twice for the same hour")
	}
	if c.shouldChime(at(10, 30)) {
		t.Error("chimed mid-hour")
	}
	if !c.shouldChime(at(11, 0)) {
		t.Error("did not chime for the next hour")
	}
}
