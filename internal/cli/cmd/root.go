package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"sniprange/internal/command"
	"sniprange/internal/config"
	"sniprange/internal/dirs"
	"sniprange/internal/logging"
	"sniprange/internal/model"
)

const (
	ExitOK            = 0
	ExitCLIError      = 1
	ExitMissingDep    = 2
	ExitProbeError    = 3
	ExitRejectedRange = 4
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// app carries what every subcommand shares once flags are parsed.
type app struct {
	v          *viper.Viper
	configFile string
	opts       model.Options
	log        zerolog.Logger
	logCloser  io.Closer
}

func newApp() *app {
	return &app{v: viper.New(), log: zerolog.Nop()}
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sniprange [url]",
		Short: "Pick a time range in a YouTube video and get the yt-dlp command for it",
		Long: "sniprange lets you choose a start and end time inside a YouTube video and builds a " +
			"copy-pasteable yt-dlp command that downloads just that range, as audio or video. " +
			"It never downloads anything itself.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: a.preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := readSelection(cmd, args)
			if !a.opts.NoUI && isTerminal() {
				return a.runTUI(cmd, sel)
			}
			if sel.URL == "" {
				return &ExitError{Code: ExitCLIError, Err: errors.New("usage: sniprange <url> [flags] (stdout is not a terminal, so a URL is required)")}
			}
			return a.runBuild(cmd, sel)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (default: <config dir>/config.yaml)")
	pf.String("tool", command.DefaultTool, `Command prefix, e.g. "yt-dlp" or "python -m yt_dlp"`)
	pf.String("audio-format", command.DefaultAudioCodec, "Audio codec passed to --audio-format")
	pf.Bool("force-keyframes", true, "Emit --force-keyframes-at-cuts")
	pf.String("format", string(command.FormatAudio), "Output format: audio, video")
	pf.StringP("out-dir", "o", "", "Output directory for the generated command (-P)")
	pf.String("dl-binary", "", "Path to yt-dlp or youtube-dl used for probing")
	pf.String("clipboard", string(model.ClipboardAuto), "Clipboard: auto, osc52, native, none")
	pf.BoolP("verbose", "v", false, "Debug logging and full subprocess output")
	pf.String("log-level", "warn", "Log level: trace, debug, info, warn, error, disabled")
	pf.String("log-file", "", "Write logs to this file (the TUI defaults to <state dir>/sniprange.log)")

	bindSelectionFlags(root.Flags())
	root.Flags().Bool("no-ui", false, "Disable TUI; print the command instead")

	root.AddCommand(newBuildCmd(a))
	root.AddCommand(newTuiCmd(a))
	root.AddCommand(newProbeCmd(a))
	root.AddCommand(newDoctorCmd(a))
	root.AddCommand(newCompletionCmd())

	return root
}

// bindSelectionFlags adds the per-invocation range flags.
func bindSelectionFlags(fs *pflag.FlagSet) {
	fs.String("start", "", "Range start as HH:MM:SS.CC or seconds (default 0)")
	fs.String("end", "", "Range end as HH:MM:SS.CC or seconds (default: end of media)")
	fs.String("duration", "", "Media duration as HH:MM:SS.CC or seconds; skips probing")
	fs.Bool("probe", false, "Ask the downloader for the media duration")
	fs.String("name", "", "Output file name without extension (-o)")
	fs.Bool("name-from-title", false, "Name the output after the video title (implies --probe)")
	fs.Bool("copy", false, "Also copy the command to the clipboard")
}

func readSelection(cmd *cobra.Command, args []string) model.Selection {
	fs := cmd.Flags()
	var sel model.Selection
	if len(args) > 0 {
		sel.URL = args[0]
	}
	sel.Start, _ = fs.GetString("start")
	sel.End, _ = fs.GetString("end")
	sel.Duration, _ = fs.GetString("duration")
	sel.Probe, _ = fs.GetBool("probe")
	sel.FileName, _ = fs.GetString("name")
	sel.NameFromTitle, _ = fs.GetBool("name-from-title")
	sel.Copy, _ = fs.GetBool("copy")
	if sel.NameFromTitle {
		sel.Probe = true
	}
	return sel
}

// preRun merges flags, environment and config file into a.opts.
func (a *app) preRun(cmd *cobra.Command, _ []string) error {
	if err := config.Init(a.v, cmd.Flags(), a.configFile); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	opts, err := config.Load(a.v)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	if noUI, err := cmd.Flags().GetBool("no-ui"); err == nil {
		opts.NoUI = noUI
	}
	a.opts = opts
	return nil
}

// initLogging builds the logger. While the TUI owns the terminal, logs go to
// a file unless one was configured.
func (a *app) initLogging(tui bool) error {
	cfg := logging.Config{Level: a.opts.LogLevel, Output: a.opts.LogFile}
	if a.opts.Verbose && strings.EqualFold(cfg.Level, "warn") {
		cfg.Level = "debug"
	}
	if tui && cfg.Output == "" {
		if p, err := dirs.LogFile(); err == nil {
			cfg.Output = p
		} else {
			cfg.Level = "disabled"
		}
	}
	if cfg.Output != "" && cfg.Output != "stderr" && cfg.Output != "stdout" {
		cfg.Format = "json"
	}
	log, closer, err := logging.New(cfg)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("open log: %w", err)}
	}
	a.close()
	a.log, a.logCloser = log, closer
	a.log.Debug().Str("tool", a.opts.Tool).Str("format", string(a.opts.Format)).Msg("options loaded")
	return nil
}

func (a *app) builder() command.Builder {
	return command.NewBuilder(
		command.WithTool(a.opts.Tool),
		command.WithAudioCodec(a.opts.AudioFormat),
		command.WithForceKeyframes(a.opts.ForceKeyframes),
	)
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	a := newApp()
	defer a.close()
	return newRootCmd(a).ExecuteContext(ctx)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}
