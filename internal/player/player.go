// Package player models the preview player the range editor talks to.
package player

import (
	"math"
	"time"
)

// Player is the seek capability the selection needs from a media player.
type Player interface {
	SeekTo(seconds float64)
	CurrentTime() float64
}

// Nop ignores seeks and always reports position 0.
type Nop struct{}

func (Nop) SeekTo(float64)       {}
func (Nop) CurrentTime() float64 { return 0 }

// Clock is a virtual playhead. It stands in for an embedded video player:
// position advances with wall time while playing and stops at the end of the
// media. It is not safe for concurrent use; the UI loop is its only caller.
type Clock struct {
	duration float64
	position float64
	playing  bool
	rate     float64
}

// NewClock returns a paused clock at position 0 playing at normal speed.
func NewClock() *Clock {
	return &Clock{rate: 1}
}

// SetDuration sets the media length and rewinds to the beginning.
func (c *Clock) SetDuration(d float64) {
	if d < 0 || math.IsNaN(d) {
		d = 0
	}
	c.duration = d
	c.position = 0
	c.playing = false
}

// Duration returns the media length in seconds.
func (c *Clock) Duration() float64 { return c.duration }

func (c *Clock) SeekTo(seconds float64) {
	c.position = c.clamp(seconds)
}

func (c *Clock) CurrentTime() float64 { return c.position }

func (c *Clock) Play() {
	if c.duration > 0 {
		c.playing = true
	}
}

func (c *Clock) Pause() { c.playing = false }

// Toggle flips between playing and paused and reports the new state.
func (c *Clock) Toggle() bool {
	if c.playing {
		c.Pause()
	} else {
		c.Play()
	}
	return c.playing
}

func (c *Clock) Playing() bool { return c.playing }

// Advance moves the playhead by dt when playing and returns the new position.
// Reaching the end of the media pauses playback.
func (c *Clock) Advance(dt time.Duration) float64 {
	if !c.playing || dt <= 0 {
		return c.position
	}
	c.position = c.clamp(c.position + dt.Seconds()*c.rate)
	if c.position >= c.duration {
		c.playing = false
	}
	return c.position
}

// Fraction reports the playhead position as a share of the duration.
func (c *Clock) Fraction() float64 {
	if c.duration <= 0 {
		return 0
	}
	return c.position / c.duration
}

func (c *Clock) clamp(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > c.duration {
		return c.duration
	}
	return v
}
