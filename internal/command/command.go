// Package command renders the download-tool command line for a selection.
package command

import (
	"fmt"
	"strconv"
	"strings"
)

// Format selects audio extraction or a merged video download.
type Format string

const (
	FormatAudio Format = "audio"
	FormatVideo Format = "video"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatAudio:
		return FormatAudio, nil
	case FormatVideo:
		return FormatVideo, nil
	default:
		return "", fmt.Errorf("invalid format: %q (valid: audio|video)", s)
	}
}

// Toggle returns the other format.
func (f Format) Toggle() Format {
	if f == FormatVideo {
		return FormatAudio
	}
	return FormatVideo
}

const (
	DefaultTool       = "yt-dlp"
	DefaultAudioCodec = "mp3"

	videoSelector = "bv*+ba/b"
	nameTemplate  = ".%(ext)s"
)

// Request is everything a command depends on.
type Request struct {
	URL       string
	Start     float64
	End       float64
	Format    Format
	FileName  string // optional; empty omits the -o clause
	OutputDir string // optional; empty omits the -P clause
}

// Builder holds the pinned flag set. The zero value is not useful; use
// NewBuilder.
type Builder struct {
	Tool           string
	AudioCodec     string
	ForceKeyframes bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithTool sets the command prefix, e.g. "python -m yt_dlp".
func WithTool(tool string) Option {
	return func(b *Builder) {
		if t := strings.TrimSpace(tool); t != "" {
			b.Tool = t
		}
	}
}

// WithAudioCodec sets the --audio-format value used for audio extraction.
func WithAudioCodec(codec string) Option {
	return func(b *Builder) {
		if c := strings.TrimSpace(codec); c != "" {
			b.AudioCodec = c
		}
	}
}

// WithForceKeyframes toggles --force-keyframes-at-cuts.
func WithForceKeyframes(on bool) Option {
	return func(b *Builder) {
		b.ForceKeyframes = on
	}
}

// NewBuilder returns a yt-dlp builder extracting mp3 audio with keyframes
// forced at the cut points, then applies opts.
func NewBuilder(opts ...Option) Builder {
	b := Builder{
		Tool:           DefaultTool,
		AudioCodec:     DefaultAudioCodec,
		ForceKeyframes: true,
	}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Build renders the command line for req. Clauses are separated by a single
// space and the URL is always last.
func (b Builder) Build(req Request) string {
	parts := []string{b.Tool}
	if req.Format == FormatVideo {
		parts = append(parts, "-f", quote(videoSelector))
	} else {
		parts = append(parts, "-x", "--audio-format", b.AudioCodec)
	}
	if b.ForceKeyframes {
		parts = append(parts, "--force-keyframes-at-cuts")
	}
	parts = append(parts, "--download-sections", quote(Section(req.Start, req.End)))
	if dir := strings.TrimSpace(req.OutputDir); dir != "" {
		parts = append(parts, "-P", quote(dir))
	}
	if name := req.FileName; name != "" {
		parts = append(parts, "-o", quote(name+nameTemplate))
	}
	parts = append(parts, quote(req.URL))
	return strings.Join(parts, " ")
}

// Section renders the --download-sections value for a range, in raw seconds.
func Section(start, end float64) string {
	return "*" + Seconds(start) + "-" + Seconds(end)
}

// Seconds renders v with the shortest exact decimal representation.
func Seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")

// quote wraps s in double quotes, escaping what a POSIX shell would expand.
func quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}
