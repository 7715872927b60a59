// Package probe asks the external downloader for a video's metadata, which is
// where the range editor learns the media duration.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sniprange/internal/model"
	"sniprange/internal/util"
)

// ErrNoDuration is returned when the downloader reports no usable duration,
// e.g. for live streams.
var ErrNoDuration = errors.New("media duration unknown")

// Options controls the metadata lookup.
type Options struct {
	DownloaderPath string // Path to yt-dlp or youtube-dl
	Verbose        bool
	Runner         util.Runner // nil = util.DefaultRunner
}

// Info mirrors the fields of yt-dlp --dump-json output that we care about.
type Info struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Uploader string  `json:"uploader"`
	Duration float64 `json:"duration"`
	IsLive   bool    `json:"is_live"`
}

// Args returns the downloader arguments used to fetch metadata for url.
func Args(url string) []string {
	return []string{
		"--dump-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		url,
	}
}

// Fetch runs the downloader in metadata-only mode and returns what it knows
// about url. A missing duration yields ErrNoDuration along with the partial
// metadata.
func Fetch(ctx context.Context, url string, opts Options) (model.MediaInfo, error) {
	if opts.DownloaderPath == "" {
		return model.MediaInfo{}, errors.New("downloader path is required")
	}
	runner := opts.Runner
	if runner == nil {
		runner = util.DefaultRunner
	}

	log := zerolog.Ctx(ctx)
	log.Debug().Str("url", url).Str("downloader", opts.DownloaderPath).Msg("fetching metadata")

	res, runErr := runner.Run(ctx, util.CmdSpec{
		Path:    opts.DownloaderPath,
		Args:    Args(url),
		Verbose: opts.Verbose,
		Logger:  log,
	})
	if runErr != nil && len(res.Stdout) == 0 {
		if msg := lastLine(res.Stderr); msg != "" {
			return model.MediaInfo{}, fmt.Errorf("metadata fetch failed: %s: %w", msg, runErr)
		}
		return model.MediaInfo{}, fmt.Errorf("metadata fetch failed: %w", runErr)
	}

	info, err := ParseInfo(res.Stdout)
	if err != nil {
		return model.MediaInfo{}, err
	}
	mi := model.MediaInfo{
		ID:          info.ID,
		Title:       info.Title,
		Uploader:    info.Uploader,
		DurationSec: info.Duration,
		URL:         url,
	}
	if info.IsLive || info.Duration <= 0 {
		return mi, ErrNoDuration
	}
	return mi, nil
}

// ParseInfo decodes downloader JSON output. When stdout holds several JSON
// objects (one per line), the last one with an id wins.
func ParseInfo(stdout []byte) (Info, error) {
	data := strings.TrimSpace(string(stdout))
	if data == "" {
		return Info{}, errors.New("parse metadata JSON: empty output")
	}

	var info Info
	if err := json.Unmarshal([]byte(data), &info); err == nil {
		return info, nil
	}

	lines := strings.Split(data, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var tmp Info
		if json.Unmarshal([]byte(line), &tmp) == nil && tmp.ID != "" {
			return tmp, nil
		}
	}
	return Info{}, errors.New("parse metadata JSON: no metadata object found")
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
