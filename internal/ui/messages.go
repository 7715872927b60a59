package ui

import "sniprange/internal/model"

// probeDoneMsg carries the result of a metadata lookup for url.
type probeDoneMsg struct {
	URL  string
	Info model.MediaInfo
	Err  error
}

// tickMsg advances the preview playhead. Ticks from a superseded playback
// run carry a stale ID and are dropped.
type tickMsg struct {
	ID int
}
