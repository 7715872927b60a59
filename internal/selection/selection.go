// Package selection holds the start/end pair chosen inside a media item and
// enforces 0 <= start <= end <= duration for every input path.
package selection

import (
	"math"

	"sniprange/internal/player"
	"sniprange/internal/timecode"
)

// OverlapRatio is the share of the duration under which both handles are
// considered to sit on top of each other.
const OverlapRatio = 0.02

// Handle names one end of the range.
type Handle int

const (
	HandleStart Handle = iota
	HandleEnd
)

func (h Handle) String() string {
	if h == HandleEnd {
		return "end"
	}
	return "start"
}

// Selection is a snapshot of the chosen range.
type Selection struct {
	Start float64
	End   float64
}

// Length returns End - Start.
func (s Selection) Length() float64 { return s.End - s.Start }

// Range owns the selection for one media item. Rejected updates are ignored
// and reported through the boolean results only.
type Range struct {
	start    float64
	end      float64
	duration float64
	player   player.Player
}

// New returns an empty range driving p. A nil player is replaced by player.Nop.
func New(p player.Player) *Range {
	if p == nil {
		p = player.Nop{}
	}
	return &Range{player: p}
}

// SetDuration establishes the media length and selects all of it.
func (r *Range) SetDuration(d float64) {
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		d = 0
	}
	r.duration = d
	r.start = 0
	r.end = d
}

// Reset drops the selection, e.g. when the media URL changes.
func (r *Range) Reset() {
	r.SetDuration(0)
}

func (r *Range) Start() float64    { return r.start }
func (r *Range) End() float64      { return r.end }
func (r *Range) Duration() float64 { return r.duration }

// Selection returns the current range.
func (r *Range) Selection() Selection {
	return Selection{Start: r.start, End: r.end}
}

// SetStart moves the start handle and seeks the player there.
func (r *Range) SetStart(t float64) bool {
	if !r.inBounds(t) || t > r.end {
		return false
	}
	r.start = t
	r.player.SeekTo(t)
	return true
}

// SetEnd moves the end handle. A playhead past the new end is pulled back.
func (r *Range) SetEnd(t float64) bool {
	if !r.inBounds(t) || t < r.start {
		return false
	}
	r.end = t
	if r.player.CurrentTime() > t {
		r.player.SeekTo(t)
	}
	return true
}

// Set moves the given handle.
func (r *Range) Set(h Handle, t float64) bool {
	if h == HandleEnd {
		return r.SetEnd(t)
	}
	return r.SetStart(t)
}

// SetStartCode parses a time-code and applies it as the new start.
// Malformed text changes nothing.
func (r *Range) SetStartCode(text string) bool {
	t, err := timecode.Parse(text)
	if err != nil {
		return false
	}
	return r.SetStart(t)
}

// SetEndCode parses a time-code and applies it as the new end.
func (r *Range) SetEndCode(text string) bool {
	t, err := timecode.Parse(text)
	if err != nil {
		return false
	}
	return r.SetEnd(t)
}

// Nudge moves a handle by delta seconds, stopping at the nearest legal
// position: the media bounds or the other handle.
func (r *Range) Nudge(h Handle, delta float64) bool {
	if delta == 0 || math.IsNaN(delta) {
		return false
	}
	if h == HandleEnd {
		return r.SetEnd(clamp(r.end+delta, r.start, r.duration))
	}
	return r.SetStart(clamp(r.start+delta, 0, r.end))
}

// Overlapping reports whether both handles are within OverlapRatio of the
// duration of each other. It has no effect on validation.
func (r *Range) Overlapping() bool {
	return math.Abs(r.start-r.end) < r.duration*OverlapRatio
}

// Tick handles a playback progress event. With looping on, reaching the end
// of the range seeks back to its start; the result reports that seek.
func (r *Range) Tick(position float64, looping bool) bool {
	if !looping || position < r.end {
		return false
	}
	r.player.SeekTo(r.start)
	return true
}

// StartCode returns the start handle as HH:MM:SS.CC.
func (r *Range) StartCode() string { return timecode.Format(r.start) }

// EndCode returns the end handle as HH:MM:SS.CC.
func (r *Range) EndCode() string { return timecode.Format(r.end) }

func (r *Range) inBounds(t float64) bool {
	return !math.IsNaN(t) && t >= 0 && t <= r.duration
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
