package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sniprange/internal/clipboard"
	"sniprange/internal/model"
	"sniprange/internal/probe"
	"sniprange/internal/session"
	"sniprange/internal/timecode"
	"sniprange/internal/util"
	"sniprange/internal/util/deps"
	"sniprange/internal/util/media"
)

func newBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <url>",
		Short: "Print the yt-dlp command for a range without opening the TUI",
		Example: `  sniprange build "https://youtu.be/dQw4w9WgXcQ" --start 00:00:43.00 --end 00:01:05.50 --duration 212
  sniprange build "https://youtu.be/dQw4w9WgXcQ" --start 10 --end 20 --probe --format video --copy`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd, readSelection(cmd, args))
		},
	}
	bindSelectionFlags(cmd.Flags())
	return cmd
}

// runBuild applies sel to a fresh session and prints the resulting command.
func (a *app) runBuild(cmd *cobra.Command, sel model.Selection) error {
	if err := a.initLogging(false); err != nil {
		return err
	}
	if _, err := util.ValidateURL(sel.URL); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	start, err := parseOptional("--start", sel.Start)
	if err != nil {
		return err
	}
	end, err := parseOptional("--end", sel.End)
	if err != nil {
		return err
	}

	var clip clipboard.Writer = clipboard.Disabled{}
	if sel.Copy {
		if clip, err = clipboard.New(a.opts.Clipboard, os.Stderr); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			clip = clipboard.Disabled{}
		}
	}

	s := session.New(
		session.WithBuilder(a.builder()),
		session.WithFormat(a.opts.Format),
		session.WithOutputDir(a.opts.OutDir),
		session.WithClipboard(clip),
		session.WithLogger(a.log),
	)
	s.SetURL(sel.URL)

	info, err := a.resolveDuration(cmd, sel, end)
	if err != nil {
		return err
	}
	if info.DurationSec <= 0 {
		return &ExitError{Code: ExitCLIError, Err: errors.New("media duration must be greater than zero")}
	}
	s.OnDurationKnown(info.DurationSec)

	if start != nil && !s.SetStart(*start) {
		return &ExitError{Code: ExitRejectedRange, Err: fmt.Errorf("start %s is outside 0..%s or after the end",
			timecode.Format(*start), s.Range().EndCode())}
	}
	if end != nil && !s.SetEnd(*end) {
		return &ExitError{Code: ExitRejectedRange, Err: fmt.Errorf("end %s is before the start %s or past the duration %s",
			timecode.Format(*end), s.Range().StartCode(), timecode.Format(s.Range().Duration()))}
	}

	name := sel.FileName
	if name == "" && sel.NameFromTitle {
		name = media.ClipName(info)
	}
	s.SetFileName(name)

	out := s.Command()
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if sel.Copy {
		if _, err := s.Copy(cmd.Context()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}
	return nil
}

// resolveDuration picks the media duration: --duration, then a probe, then
// the requested end as a last resort.
func (a *app) resolveDuration(cmd *cobra.Command, sel model.Selection, end *float64) (model.MediaInfo, error) {
	if sel.Duration != "" {
		d, err := timecode.ParseInput(sel.Duration)
		if err != nil {
			return model.MediaInfo{}, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid --duration: %w", err)}
		}
		if !sel.Probe {
			return model.MediaInfo{URL: sel.URL, DurationSec: d}, nil
		}
		info, err := a.fetch(cmd, sel.URL)
		if err != nil {
			a.log.Warn().Err(err).Msg("probe failed; using --duration")
			return model.MediaInfo{URL: sel.URL, DurationSec: d}, nil
		}
		info.DurationSec = d
		return info, nil
	}
	if sel.Probe {
		return a.fetch(cmd, sel.URL)
	}
	if end != nil {
		return model.MediaInfo{URL: sel.URL, DurationSec: *end}, nil
	}
	return model.MediaInfo{}, &ExitError{Code: ExitCLIError, Err: errors.New("media duration unknown: pass --duration, --end or --probe")}
}

// fetch probes url, mapping failures to exit codes.
func (a *app) fetch(cmd *cobra.Command, url string) (model.MediaInfo, error) {
	dl, err := deps.FindDownloader(a.opts.DLBinary)
	if err != nil {
		return model.MediaInfo{}, &ExitError{Code: ExitMissingDep, Err: err}
	}
	ctx := a.log.WithContext(cmd.Context())
	info, err := probe.Fetch(ctx, url, probe.Options{
		DownloaderPath: dl,
		Verbose:        a.opts.Verbose,
	})
	if err != nil {
		return info, &ExitError{Code: ExitProbeError, Err: fmt.Errorf("probe %s: %w", url, err)}
	}
	a.log.Debug().Str("id", info.ID).Float64("duration", info.DurationSec).Msg("probed")
	return info, nil
}

func parseOptional(flag, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := timecode.ParseInput(raw)
	if err != nil {
		return nil, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid %s: %w", flag, err)}
	}
	return &v, nil
}
