package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sniprange/internal/clipboard"
	"sniprange/internal/model"
	"sniprange/internal/player"
	"sniprange/internal/probe"
	"sniprange/internal/session"
	"sniprange/internal/timecode"
	"sniprange/internal/ui"
	"sniprange/internal/util/deps"
)

func newTuiCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tui [url]",
		Short:         "Force the interactive range editor",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd, readSelection(cmd, args))
		},
	}
	bindSelectionFlags(cmd.Flags())
	return cmd
}

// runTUI opens the editor and prints the final command once it closes.
func (a *app) runTUI(cmd *cobra.Command, sel model.Selection) error {
	if err := a.initLogging(true); err != nil {
		return err
	}
	cfg, err := a.tuiConfig(cmd, sel)
	if err != nil {
		return err
	}

	clip, err := clipboard.New(a.opts.Clipboard, os.Stderr)
	if err != nil {
		a.log.Warn().Err(err).Msg("clipboard disabled")
		clip = clipboard.Disabled{}
	}
	s := session.New(
		session.WithPlayer(cfg.Clock),
		session.WithBuilder(a.builder()),
		session.WithFormat(a.opts.Format),
		session.WithOutputDir(a.opts.OutDir),
		session.WithClipboard(clip),
		session.WithLogger(a.log),
	)
	s.SetFileName(sel.FileName)
	cfg.Session = s

	final, err := ui.Run(cmd.Context(), cfg)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	if final == "" {
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), final)
	if sel.Copy {
		if _, err := s.Copy(cmd.Context()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}
	return nil
}

// tuiConfig turns the selection flags into editor settings. The duration
// comes from --duration when given; otherwise the downloader is probed
// whenever it can be found. --start and --end preselect the range.
func (a *app) tuiConfig(cmd *cobra.Command, sel model.Selection) (ui.Config, error) {
	cfg := ui.Config{
		Clock:         player.NewClock(),
		URL:           sel.URL,
		NameFromTitle: sel.NameFromTitle,
		Logger:        a.log,
	}
	if sel.Duration != "" {
		d, err := timecode.ParseInput(sel.Duration)
		if err != nil {
			return ui.Config{}, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid --duration: %w", err)}
		}
		cfg.Duration = d
	}
	var err error
	if cfg.Start, err = parseOptional("--start", sel.Start); err != nil {
		return ui.Config{}, err
	}
	if cfg.End, err = parseOptional("--end", sel.End); err != nil {
		return ui.Config{}, err
	}

	if dl, err := deps.FindDownloader(a.opts.DLBinary); err == nil {
		cfg.Probe = func(ctx context.Context, url string) (model.MediaInfo, error) {
			return probe.Fetch(ctx, url, probe.Options{DownloaderPath: dl})
		}
	} else {
		a.log.Warn().Err(err).Msg("probing disabled")
		if cfg.Duration <= 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; pass --duration to set the media length\n", err)
		}
	}
	return cfg, nil
}
