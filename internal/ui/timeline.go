package ui

import (
	"strings"

	"sniprange/internal/selection"
)

var nudgeSteps = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60}

const defaultStep = 1.0

func increaseStep(current float64) float64 {
	for i, s := range nudgeSteps {
		if current < s {
			return s
		}
		if current == s && i < len(nudgeSteps)-1 {
			return nudgeSteps[i+1]
		}
	}
	return nudgeSteps[len(nudgeSteps)-1]
}

func decreaseStep(current float64) float64 {
	for i := len(nudgeSteps) - 1; i >= 0; i-- {
		s := nudgeSteps[i]
		if current > s {
			return s
		}
		if current == s && i > 0 {
			return nudgeSteps[i-1]
		}
	}
	return nudgeSteps[0]
}

// timelineCells lays out the bar as runes: the track, the selected span, both
// handles and the playhead. Overlapping handles are pushed one cell apart so
// both stay visible.
func timelineCells(r *selection.Range, playhead float64, width int) (cells []rune, startPos, endPos, headPos int) {
	if width < 3 {
		width = 3
	}
	d := r.Duration()
	pos := func(t float64) int {
		if d <= 0 {
			return 0
		}
		p := int(t / d * float64(width-1))
		if p < 0 {
			return 0
		}
		if p > width-1 {
			return width - 1
		}
		return p
	}
	startPos, endPos, headPos = pos(r.Start()), pos(r.End()), pos(playhead)
	if r.Overlapping() || startPos == endPos {
		switch {
		case endPos < width-1:
			endPos = startPos + 1
		default:
			startPos = endPos - 1
		}
	}

	cells = make([]rune, width)
	for i := range cells {
		cells[i] = '─'
	}
	for i := startPos; i <= endPos; i++ {
		cells[i] = '━'
	}
	if headPos != startPos && headPos != endPos {
		cells[headPos] = '│'
	}
	cells[startPos] = '◆'
	cells[endPos] = '◆'
	return cells, startPos, endPos, headPos
}

func (m Model) viewTimeline(width int) string {
	cells, startPos, endPos, headPos := timelineCells(m.session.Range(), m.clock.CurrentTime(), width)
	var b strings.Builder
	b.WriteString(m.styles.Track.Render("["))
	for i, c := range cells {
		ch := string(c)
		switch {
		case i == startPos || i == endPos:
			b.WriteString(m.styles.Marker.Render(ch))
		case i == headPos:
			b.WriteString(m.styles.Playhead.Render(ch))
		case i > startPos && i < endPos:
			b.WriteString(m.styles.Range.Render(ch))
		default:
			b.WriteString(m.styles.Track.Render(ch))
		}
	}
	b.WriteString(m.styles.Track.Render("]"))
	return b.String()
}
