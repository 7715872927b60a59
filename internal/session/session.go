// Package session holds the state behind one editing session: the media URL,
// the selected range, the output options and the command history.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sniprange/internal/clipboard"
	"sniprange/internal/command"
	"sniprange/internal/player"
	"sniprange/internal/selection"
	"sniprange/internal/util"
)

// Session is the single mutator of all editor state. It is not safe for
// concurrent use.
type Session struct {
	id  string
	log zerolog.Logger

	url   string
	valid bool

	rng       *selection.Range
	format    command.Format
	fileName  string
	outputDir string
	looping   bool

	builder command.Builder
	history command.History
	clip    clipboard.Writer
}

// Option configures a Session.
type Option func(*Session)

// WithPlayer sets the player the range seeks.
func WithPlayer(p player.Player) Option {
	return func(s *Session) {
		s.rng = selection.New(p)
	}
}

// WithBuilder sets the command builder.
func WithBuilder(b command.Builder) Option {
	return func(s *Session) {
		s.builder = b
	}
}

// WithClipboard sets the clipboard used by Copy.
func WithClipboard(c clipboard.Writer) Option {
	return func(s *Session) {
		s.clip = c
	}
}

// WithLogger attaches a logger; every mutation is logged at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithFormat sets the initial output format.
func WithFormat(f command.Format) Option {
	return func(s *Session) {
		s.format = f
	}
}

// WithOutputDir sets the initial output directory.
func WithOutputDir(dir string) Option {
	return func(s *Session) {
		s.outputDir = util.ExpandHome(dir)
	}
}

// New constructs a Session, filling in defaults for anything not configured.
func New(opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		log:     zerolog.Nop(),
		format:  command.FormatAudio,
		builder: command.NewBuilder(),
		clip:    clipboard.Disabled{},
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = selection.New(nil)
	}
	s.log = s.log.With().Str("session", s.id).Logger()
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// SetURL updates the media URL. A different URL drops the current selection
// until its duration is known again. It reports whether the URL changed.
func (s *Session) SetURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == s.url {
		return false
	}
	s.url = raw
	s.valid = util.CanPlay(raw)
	s.rng.Reset()
	s.log.Debug().Str("url", raw).Bool("valid", s.valid).Msg("url changed")
	return true
}

func (s *Session) URL() string { return s.url }

// Valid reports whether the URL is playable; the range controls are only
// meaningful when it is.
func (s *Session) Valid() bool { return s.valid }

// OnDurationKnown establishes the media length and selects all of it.
func (s *Session) OnDurationKnown(d float64) {
	s.rng.SetDuration(d)
	s.log.Debug().Float64("duration", s.rng.Duration()).Msg("duration known")
}

// OnProgress handles a playback progress tick and reports whether the player
// was looped back to the start.
func (s *Session) OnProgress(position float64) bool {
	return s.rng.Tick(position, s.looping)
}

// Range exposes the selection for rendering.
func (s *Session) Range() *selection.Range { return s.rng }

func (s *Session) SetStart(t float64) bool {
	return s.logEdit(selection.HandleStart, s.rng.SetStart(t))
}

func (s *Session) SetEnd(t float64) bool {
	return s.logEdit(selection.HandleEnd, s.rng.SetEnd(t))
}

func (s *Session) SetStartCode(text string) bool {
	return s.logEdit(selection.HandleStart, s.rng.SetStartCode(text))
}

func (s *Session) SetEndCode(text string) bool {
	return s.logEdit(selection.HandleEnd, s.rng.SetEndCode(text))
}

// Nudge moves a handle by delta seconds, as a slider would.
func (s *Session) Nudge(h selection.Handle, delta float64) bool {
	return s.logEdit(h, s.rng.Nudge(h, delta))
}

func (s *Session) logEdit(h selection.Handle, ok bool) bool {
	s.log.Debug().
		Stringer("handle", h).
		Bool("accepted", ok).
		Float64("start", s.rng.Start()).
		Float64("end", s.rng.End()).
		Msg("range edit")
	return ok
}

func (s *Session) Format() command.Format { return s.format }

func (s *Session) SetFormat(f command.Format) { s.format = f }

// ToggleFormat switches between audio and video.
func (s *Session) ToggleFormat() command.Format {
	s.format = s.format.Toggle()
	return s.format
}

func (s *Session) FileName() string { return s.fileName }

func (s *Session) SetFileName(name string) { s.fileName = strings.TrimSpace(name) }

func (s *Session) OutputDir() string { return s.outputDir }

// SetOutputDir stores the output directory, expanding a leading "~".
func (s *Session) SetOutputDir(dir string) { s.outputDir = util.ExpandHome(dir) }

func (s *Session) Looping() bool { return s.looping }

func (s *Session) SetLooping(on bool) { s.looping = on }

// ToggleLooping flips looping and returns the new state.
func (s *Session) ToggleLooping() bool {
	s.looping = !s.looping
	return s.looping
}

// Request returns the builder input for the current state.
func (s *Session) Request() command.Request {
	return command.Request{
		URL:       s.url,
		Start:     s.rng.Start(),
		End:       s.rng.End(),
		Format:    s.format,
		FileName:  s.fileName,
		OutputDir: s.outputDir,
	}
}

// Ready reports whether a command can be built: the URL is playable and its
// duration is known.
func (s *Session) Ready() bool {
	return s.valid && s.rng.Duration() > 0
}

// Command renders the command for the current state, or "" until Ready.
func (s *Session) Command() string {
	if !s.Ready() {
		return ""
	}
	return s.builder.Build(s.Request())
}

// Record appends the current command to the history.
func (s *Session) Record() string {
	cmd := s.Command()
	if cmd != "" {
		s.history.Record(cmd)
	}
	return cmd
}

// Copy puts the current command on the clipboard and records it. The
// command is recorded even when the clipboard write fails so it can still be
// retrieved from the history.
func (s *Session) Copy(ctx context.Context) (string, error) {
	cmd := s.Record()
	switch {
	case !s.valid:
		return "", fmt.Errorf("nothing to copy: no valid URL")
	case cmd == "":
		return "", fmt.Errorf("nothing to copy: media duration unknown")
	}
	if err := s.clip.WriteText(ctx, cmd); err != nil {
		s.log.Warn().Err(err).Msg("clipboard write failed")
		return cmd, fmt.Errorf("copy to clipboard: %w", err)
	}
	s.log.Debug().Msg("command copied")
	return cmd, nil
}

// History returns recorded commands, most recent first.
func (s *Session) History() []string { return s.history.Entries() }

// ClearHistory forgets every recorded command.
func (s *Session) ClearHistory() { s.history.Clear() }
