// Package timecode converts between fractional seconds and the fixed-width
// HH:MM:SS.CC representation shown in the range editor.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalid is returned when a string is not a well-formed time-code.
var ErrInvalid = errors.New("invalid time-code")

// MaxSeconds is the largest value Format and FormatClock render faithfully.
// Larger inputs are clamped to it.
const MaxSeconds = 1 << 53

// Only two hour digits are accepted, so Format output with 100+ hours does
// not parse back.
var codePattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})\.(\d{2})$`)

// Format renders seconds as HH:MM:SS.CC. Hours are zero-padded to two digits
// and grow as needed; centiseconds are rounded and clipped to 99.
// Negative, NaN and infinite values render as zero.
func Format(seconds float64) string {
	seconds = clamp(seconds)
	whole := math.Floor(seconds)
	cs := int(math.Round((seconds - whole) * 100))
	if cs > 99 {
		cs = 99
	}
	total := int64(whole)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d.%02d", h, m, s, cs)
}

// Parse reads a DD:DD:DD.DD time-code and returns its value in seconds.
// Minute and second fields are not range-checked.
func Parse(text string) (float64, error) {
	g := codePattern.FindStringSubmatch(text)
	if g == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, text)
	}
	h, _ := strconv.Atoi(g[1])
	m, _ := strconv.Atoi(g[2])
	s, _ := strconv.Atoi(g[3])
	cs, _ := strconv.Atoi(g[4])
	return float64(h*3600+m*60+s) + float64(cs)/100, nil
}

// ParseInput accepts either a plain non-negative seconds value ("90",
// "12.5") or a strict time-code. Used for command-line flags.
func ParseInput(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalid)
	}
	if !strings.Contains(text, ":") {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || v < 0 || v > MaxSeconds || math.IsNaN(v) {
			return 0, fmt.Errorf("%w: %q", ErrInvalid, text)
		}
		return v, nil
	}
	return Parse(text)
}

// FormatClock renders a compact label: MM:SS below one hour, H:MM:SS above.
// Fractions are truncated.
func FormatClock(seconds float64) string {
	total := int64(clamp(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func clamp(seconds float64) float64 {
	switch {
	case math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0:
		return 0
	case seconds > MaxSeconds:
		return MaxSeconds
	}
	return seconds
}
