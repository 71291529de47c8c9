// Package audio plays a short chime at the top of each hour. Audio is
// strictly optional: initialization failure leaves the clock silent but
// fully functional.
package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	lowTone  = 660
	highTone = 880
	toneLen  = 150 * time.Millisecond
)

// Chime tracks the last hour it sounded so redraws within the same minute
// (e.g. after a clock step) chime at most once.
type Chime struct {
	sampleRate beep.SampleRate
	lastHour   int
}

// NewChime initializes the speaker. The returned error is advisory; the
// caller is expected to continue without audio.
func NewChime() (*Chime, error) {
	sr := beep.SampleRate(44100)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Chime{sampleRate: sr, lastHour: -1}, nil
}

// Observe plays the hourly chime when now sits at minute zero of an hour
// that has not chimed yet. Playback is asynchronous and does not block the
// caller.
func (c *Chime) Observe(now time.Time) {
	if !c.shouldChime(now) {
		return
	}

	n := c.sampleRate.N(toneLen)
	low, err := generators.SineTone(c.sampleRate, lowTone)
	if err != nil {
		return
	}
	high, err := generators.SineTone(c.sampleRate, highTone)
	if err != nil {
		return
	}
	speaker.Play(beep.Seq(beep.Take(n, low), beep.Take(n, high)))
}

func (c *Chime) shouldChime(now time.Time) bool {
	if now.Minute() != 0 {
		return false
	}
	if now.Hour() == c.lastHour {
		return false
	}
	c.lastHour = now.Hour()
	return true
}
