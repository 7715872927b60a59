package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sniprange/internal/command"
	"sniprange/internal/probe"
	"sniprange/internal/timecode"
	"sniprange/internal/util"
)

func newProbeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "probe <url>",
		Short:         "Show the duration and title the downloader reports for a URL",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initLogging(false); err != nil {
				return err
			}
			if _, err := util.ValidateURL(args[0]); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			info, err := a.fetch(cmd, args[0])
			var ee *ExitError
			if err != nil && !(errors.As(err, &ee) && errors.Is(ee.Err, probe.ErrNoDuration)) {
				return err
			}
			out := cmd.OutOrStdout()
			if info.DurationSec > 0 {
				fmt.Fprintf(out, "Duration: %s (%ss)\n", timecode.Format(info.DurationSec), command.Seconds(info.DurationSec))
			} else {
				fmt.Fprintln(out, "Duration: unknown (live stream?)")
			}
			if info.Title != "" {
				fmt.Fprintf(out, "Title:    %s\n", info.Title)
			}
			if info.Uploader != "" {
				fmt.Fprintf(out, "Uploader: %s\n", info.Uploader)
			}
			if info.ID != "" {
				fmt.Fprintf(out, "ID:       %s\n", info.ID)
			}
			return err
		},
	}
}
