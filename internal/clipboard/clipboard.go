// Package clipboard copies generated commands to the system clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	sysclip "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"

	"sniprange/internal/model"
)

// ErrUnavailable is returned when no clipboard mechanism can be used.
var ErrUnavailable = errors.New("clipboard unavailable")

// Writer puts text on a clipboard.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// OSC52 asks the terminal emulator to set the clipboard through an escape
// sequence, which also works over SSH. Delivery cannot be confirmed.
type OSC52 struct {
	Out    io.Writer
	Tmux   bool
	Screen bool
}

// NewOSC52 writes to out, wrapping the sequence for tmux or screen when the
// environment says we run inside one.
func NewOSC52(out io.Writer) OSC52 {
	return OSC52{
		Out:    out,
		Tmux:   os.Getenv("TMUX") != "",
		Screen: strings.HasPrefix(os.Getenv("TERM"), "screen"),
	}
}

func (c OSC52) WriteText(_ context.Context, text string) error {
	if c.Out == nil {
		return ErrUnavailable
	}
	seq := osc52.New(text)
	switch {
	case c.Tmux:
		seq = seq.Tmux()
	case c.Screen:
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(c.Out); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}

// Native writes through the platform clipboard: pbcopy on macOS, the
// Windows API, or wl-copy, xclip, xsel or termux-clipboard-set elsewhere.
type Native struct {
	write func(string) error
}

// Overridden in tests.
var (
	systemUnsupported = func() bool { return sysclip.Unsupported }
	systemWrite       = sysclip.WriteAll
)

// FindNative returns a Native writer when the platform clipboard is usable.
func FindNative() (Native, error) {
	if systemUnsupported() {
		return Native{}, fmt.Errorf("no clipboard helper in PATH: %w", ErrUnavailable)
	}
	return Native{write: systemWrite}, nil
}

func (n Native) WriteText(ctx context.Context, text string) error {
	if n.write == nil {
		return ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.write(text); err != nil {
		return fmt.Errorf("native clipboard: %w", err)
	}
	return nil
}

// Chain tries each writer in order until one succeeds.
type Chain []Writer

func (c Chain) WriteText(ctx context.Context, text string) error {
	if len(c) == 0 {
		return ErrUnavailable
	}
	var errs []error
	for _, w := range c {
		err := w.WriteText(ctx, text)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Disabled always fails with ErrUnavailable.
type Disabled struct{}

func (Disabled) WriteText(context.Context, string) error { return ErrUnavailable }

// New builds the writer for mode. Auto prefers a native helper and falls
// back to OSC52 on out.
func New(mode model.ClipboardMode, out io.Writer) (Writer, error) {
	switch mode {
	case model.ClipboardNone:
		return Disabled{}, nil
	case model.ClipboardOSC52:
		return NewOSC52(out), nil
	case model.ClipboardNative:
		return FindNative()
	case model.ClipboardAuto, "":
		if n, err := FindNative(); err == nil {
			return Chain{n, NewOSC52(out)}, nil
		}
		return NewOSC52(out), nil
	default:
		return nil, fmt.Errorf("invalid clipboard mode: %q (valid: auto|osc52|native|none)", mode)
	}
}
