package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sniprange/internal/clipboard"
	"sniprange/internal/util/deps"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (yt-dlp/youtube-dl, ffmpeg, clipboard)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.initLogging(false); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			r := deps.Check(a.opts.DLBinary)
			if r.DownloaderErr != nil {
				fmt.Fprintf(out, "Downloader: missing (%v)\n", r.DownloaderErr)
			} else {
				fmt.Fprintf(out, "Downloader: %s\n", r.Downloader)
			}
			if r.FFmpegErr != nil {
				fmt.Fprintf(out, "FFmpeg:     missing (%v)\n", r.FFmpegErr)
			} else {
				fmt.Fprintf(out, "FFmpeg:     %s\n", r.FFmpeg)
			}
			if _, err := clipboard.FindNative(); err == nil {
				fmt.Fprintln(out, "Clipboard:  system clipboard")
			} else {
				fmt.Fprintln(out, "Clipboard:  OSC52 terminal escape (no native helper)")
			}
			fmt.Fprintf(out, "Command:    %s\n", a.opts.Tool)

			if !r.OK() {
				return &ExitError{Code: ExitMissingDep, Err: fmt.Errorf("generated commands need yt-dlp and ffmpeg in PATH")}
			}
			return nil
		},
	}
}
