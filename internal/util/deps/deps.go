package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNotFound marks a missing external binary.
var ErrNotFound = errors.New("not found")

// FindDownloader returns the path to yt-dlp or youtube-dl.
// If customPath is non-empty, it tries that path or looks it up in PATH.
func FindDownloader(customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		if p, err := exec.LookPath(customPath); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("downloader %q: %w", customPath, ErrNotFound)
	}
	for _, name := range []string{"yt-dlp", "youtube-dl"} {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("yt-dlp or youtube-dl in PATH: %w; please install yt-dlp", ErrNotFound)
}

// FindFFmpeg returns the path to the ffmpeg binary in PATH. yt-dlp needs it
// to cut sections and extract audio.
func FindFFmpeg() (string, error) {
	if p, err := exec.LookPath("ffmpeg"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("ffmpeg in PATH: %w; please install ffmpeg", ErrNotFound)
}

// Report is the outcome of Check.
type Report struct {
	Downloader    string
	DownloaderErr error
	FFmpeg        string
	FFmpegErr     error
}

// OK reports whether every dependency was found.
func (r Report) OK() bool {
	return r.DownloaderErr == nil && r.FFmpegErr == nil
}

// Check looks up every external binary the generated commands rely on.
func Check(customDownloader string) Report {
	var r Report
	r.Downloader, r.DownloaderErr = FindDownloader(customDownloader)
	r.FFmpeg, r.FFmpegErr = FindFFmpeg()
	return r
}
