package util

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// CmdSpec describes a subprocess to run.
type CmdSpec struct {
	Path    string    // Binary path
	Args    []string  // Arguments
	Env     []string  // Extra KEY=VALUE pairs appended to the inherited environment
	Dir     string    // Working directory; empty = inherit.
	Stdin   io.Reader // Optional standard input
	Verbose bool      // Log the command line and every output line at debug level

	// Logger receives verbose output. Nil means zerolog's global logger.
	Logger *zerolog.Logger

	StdoutLine func(string) // Called for each stdout line (if non-nil)
	StderrLine func(string) // Called for each stderr line (if non-nil)
}

// CmdResult contains captured output and exit status.
type CmdResult struct {
	Stdout []byte
	Stderr []byte
	Code   int
	Err    error
}

// Runner runs subprocesses. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, spec CmdSpec) (CmdResult, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, spec CmdSpec) (CmdResult, error)

func (f RunnerFunc) Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	return f(ctx, spec)
}

// DefaultRunner runs commands through Run.
var DefaultRunner Runner = RunnerFunc(Run)

// Run executes the command and captures both output streams.
// On non-zero exit it returns an error carrying the exit code, with
// CmdResult still populated.
func Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	log := zerolog.Ctx(ctx)
	if spec.Logger != nil {
		log = spec.Logger
	}

	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	if spec.Env != nil {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	if spec.Stdin != nil {
		cmd.Stdin = spec.Stdin
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return CmdResult{Code: -1, Err: err}, err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return CmdResult{Code: -1, Err: err}, err
	}

	if spec.Verbose {
		log.Debug().Str("cmd", ShellQuote(spec.Path, spec.Args)).Msg("exec")
	}
	if err := cmd.Start(); err != nil {
		return CmdResult{Code: -1, Err: err}, err
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanLines(stdoutPipe, &stdoutBuf, spec.StdoutLine, spec.Verbose, log, "stdout")
	}()
	go func() {
		defer wg.Done()
		scanLines(stderrPipe, &stderrBuf, spec.StderrLine, spec.Verbose, log, "stderr")
	}()

	// Wait closes the pipes, so drain them first.
	wg.Wait()
	waitErr := cmd.Wait()

	code := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	res := CmdResult{
		Stdout: stdoutBuf.Bytes(),
		Stderr: stderrBuf.Bytes(),
		Code:   code,
		Err:    waitErr,
	}
	if waitErr != nil {
		return res, fmt.Errorf("command failed (exit %d): %w", code, waitErr)
	}
	return res, nil
}

// yt-dlp --dump-json prints one line that can exceed 500KB.
const maxLineBytes = 4 * 1024 * 1024

func scanLines(r io.Reader, buf *bytes.Buffer, onLine func(string), verbose bool, log *zerolog.Logger, stream string) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := sc.Text()
		if onLine != nil {
			onLine(line)
		}
		if verbose {
			log.Debug().Str("stream", stream).Msg(line)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		// The exit status reports the real failure.
		log.Warn().Err(err).Str("stream", stream).Msg("scan output")
	}
}

// ShellQuote returns a printable shell-like command string for logging.
func ShellQuote(path string, args []string) string {
	b := &strings.Builder{}
	b.WriteString(quote(path))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(quote(a))
	}
	return b.String()
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n\"'\\$`(){}[]*&;|<>?!") {
		return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
	}
	return s
}
