package model

import "sniprange/internal/command"

// ClipboardMode selects how copied commands reach the clipboard.
type ClipboardMode string

const (
	ClipboardAuto   ClipboardMode = "auto"
	ClipboardOSC52  ClipboardMode = "osc52"
	ClipboardNative ClipboardMode = "native"
	ClipboardNone   ClipboardMode = "none"
)

// Options holds user-configurable runtime options as merged from flags,
// environment and the config file.
type Options struct {
	Tool           string // Command prefix, e.g. "yt-dlp" or "python -m yt_dlp"
	AudioFormat    string // --audio-format value for audio extraction
	ForceKeyframes bool   // Emit --force-keyframes-at-cuts
	Format         command.Format
	OutDir         string // Optional -P directory; empty omits it
	DLBinary       string // Optional explicit path to yt-dlp/youtube-dl for probing
	Clipboard      ClipboardMode
	Verbose        bool

	LogLevel string
	LogFile  string

	NoUI bool
}

// Selection holds the per-invocation range inputs of the build command.
type Selection struct {
	URL           string
	Start         string // raw flag value, seconds or time-code; empty = 0
	End           string // raw flag value; empty = duration
	Duration      string // raw flag value; empty = probe or end
	FileName      string
	Probe         bool
	NameFromTitle bool
	Copy          bool
}

// MediaInfo is the metadata the downloader reports for a URL.
type MediaInfo struct {
	ID          string
	Title       string
	Uploader    string
	DurationSec float64 // 0 when unknown, e.g. live streams
	URL         string
}
