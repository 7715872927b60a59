package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sniprange/internal/model"
)

const watchURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"SNIPRANGE_TOOL", "SNIPRANGE_FORMAT", "SNIPRANGE_AUDIO_FORMAT", "SNIPRANGE_OUT_DIR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	a := newApp()
	defer a.close()
	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	var ee *ExitError
	require.True(t, errors.As(err, &ee), "want ExitError, got %T: %v", err, err)
	return ee.Code
}

// fakeDownloader writes a script that answers --dump-json with body, or fails
// when body is empty.
func fakeDownloader(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script downloader")
	}
	script := "#!/bin/sh\necho 'ERROR: Video unavailable' >&2\nexit 1\n"
	if body != "" {
		script = "#!/bin/sh\ncat <<'JSON'\n" + body + "\nJSON\n"
	}
	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "audio with time-codes",
			args: []string{"build", watchURL, "--duration", "212", "--start", "00:00:43.00", "--end", "00:01:05.50"},
			want: `yt-dlp -x --audio-format mp3 --force-keyframes-at-cuts --download-sections "*43-65.5" "` + watchURL + `"`,
		},
		{
			name: "video with name and dir",
			args: []string{"build", watchURL, "--duration", "00:03:32.00", "--format", "video", "--name", "chorus", "-o", "/tmp/clips"},
			want: `yt-dlp -f "bv*+ba/b" --force-keyframes-at-cuts --download-sections "*0-212" -P "/tmp/clips" -o "chorus.%(ext)s" "` + watchURL + `"`,
		},
		{
			name: "end doubles as duration",
			args: []string{"build", watchURL, "--start", "5", "--end", "10"},
			want: `yt-dlp -x --audio-format mp3 --force-keyframes-at-cuts --download-sections "*5-10" "` + watchURL + `"`,
		},
		{
			name: "custom tool without keyframes",
			args: []string{"build", watchURL, "--duration", "30", "--tool", "python -m yt_dlp", "--audio-format", "opus", "--force-keyframes=false"},
			want: `python -m yt_dlp -x --audio-format opus --download-sections "*0-30" "` + watchURL + `"`,
		},
		{
			name: "root without ui",
			args: []string{watchURL, "--no-ui", "--duration", "60", "--end", "30"},
			want: `yt-dlp -x --audio-format mp3 --force-keyframes-at-cuts --download-sections "*0-30" "` + watchURL + `"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			out, _, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"start after end", []string{"build", watchURL, "--duration", "60", "--start", "40", "--end", "20"}, ExitRejectedRange},
		{"end past duration", []string{"build", watchURL, "--duration", "60", "--end", "61"}, ExitRejectedRange},
		{"malformed time-code", []string{"build", watchURL, "--duration", "60", "--start", "1:2"}, ExitCLIError},
		{"not youtube", []string{"build", "https://example.com/watch?v=x", "--duration", "60"}, ExitCLIError},
		{"no duration source", []string{"build", watchURL}, ExitCLIError},
		{"zero duration", []string{"build", watchURL, "--duration", "0"}, ExitCLIError},
		{"bad format", []string{"build", watchURL, "--duration", "60", "--format", "gif"}, ExitCLIError},
		{"missing downloader", []string{"build", watchURL, "--probe", "--dl-binary", "/nonexistent/yt-dlp"}, ExitMissingDep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			out, _, err := run(t, tt.args...)
			assert.Equal(t, tt.code, exitCode(t, err))
			assert.Empty(t, out)
		})
	}
}

func TestBuildWithProbe(t *testing.T) {
	isolate(t)
	dl := fakeDownloader(t, `{"id":"dQw4w9WgXcQ","title":"Never Gonna: Live","uploader":"Rick","duration":212}`)

	out, _, err := run(t, "build", watchURL, "--dl-binary", dl, "--name-from-title", "--start", "60")
	require.NoError(t, err)
	assert.Equal(t,
		`yt-dlp -x --audio-format mp3 --force-keyframes-at-cuts --download-sections "*60-212" -o "Never_Gonna_Live.%(ext)s" "`+watchURL+`"`+"\n",
		out)
}

func TestBuildProbeFailure(t *testing.T) {
	isolate(t)
	dl := fakeDownloader(t, "")

	_, _, err := run(t, "build", watchURL, "--dl-binary", dl, "--probe")
	assert.Equal(t, ExitProbeError, exitCode(t, err))
	assert.Contains(t, err.Error(), "Video unavailable")

	// an explicit duration survives a failed probe
	out, _, err := run(t, "build", watchURL, "--dl-binary", dl, "--probe", "--duration", "10")
	require.NoError(t, err)
	assert.Contains(t, out, `"*0-10"`)
}

func TestBuildCopyFailureIsWarning(t *testing.T) {
	isolate(t)
	out, errOut, err := run(t, "build", watchURL, "--duration", "10", "--copy", "--clipboard", "none")
	require.NoError(t, err)
	assert.Contains(t, out, `"*0-10"`)
	assert.Contains(t, errOut, "warning:")
}

func TestProbeCommand(t *testing.T) {
	isolate(t)
	dl := fakeDownloader(t, `{"id":"dQw4w9WgXcQ","title":"Never Gonna","uploader":"Rick","duration":212.5}`)

	out, _, err := run(t, "probe", watchURL, "--dl-binary", dl)
	require.NoError(t, err)
	assert.Contains(t, out, "Duration: 00:03:32.50 (212.5s)")
	assert.Contains(t, out, "Title:    Never Gonna")
	assert.Contains(t, out, "ID:       dQw4w9WgXcQ")
}

func TestProbeCommandLive(t *testing.T) {
	isolate(t)
	dl := fakeDownloader(t, `{"id":"live1234567","title":"Live now","is_live":true}`)

	out, _, err := run(t, "probe", watchURL, "--dl-binary", dl)
	assert.Equal(t, ExitProbeError, exitCode(t, err))
	assert.Contains(t, out, "Duration: unknown")
	assert.Contains(t, out, "Live now")
}

func TestTUIConfigAppliesRangeFlags(t *testing.T) {
	isolate(t)
	a := newApp()
	a.opts.DLBinary = "/nonexistent/yt-dlp"
	var errOut bytes.Buffer
	c := &cobra.Command{}
	c.SetErr(&errOut)

	cfg, err := a.tuiConfig(c, model.Selection{URL: watchURL, Duration: "60", Start: "00:00:10.00", End: "20"})
	require.NoError(t, err)
	assert.Equal(t, watchURL, cfg.URL)
	assert.Equal(t, 60.0, cfg.Duration)
	require.NotNil(t, cfg.Start)
	require.NotNil(t, cfg.End)
	assert.Equal(t, 10.0, *cfg.Start)
	assert.Equal(t, 20.0, *cfg.End)
	assert.Nil(t, cfg.Probe)
	assert.Empty(t, errOut.String(), "no warning when --duration is given")

	_, err = a.tuiConfig(c, model.Selection{URL: watchURL, Start: "1:2"})
	assert.Equal(t, ExitCLIError, exitCode(t, err))
	_, err = a.tuiConfig(c, model.Selection{URL: watchURL, End: "-3"})
	assert.Equal(t, ExitCLIError, exitCode(t, err))

	cfg, err = a.tuiConfig(c, model.Selection{URL: watchURL})
	require.NoError(t, err)
	assert.Nil(t, cfg.Start)
	assert.Nil(t, cfg.End)
	assert.Contains(t, errOut.String(), "pass --duration")
}

func TestTUIConfigProbesWithDownloader(t *testing.T) {
	isolate(t)
	a := newApp()
	a.opts.DLBinary = fakeDownloader(t, `{"id":"dQw4w9WgXcQ","title":"Never Gonna","duration":212}`)

	cfg, err := a.tuiConfig(&cobra.Command{}, model.Selection{URL: watchURL})
	require.NoError(t, err)
	require.NotNil(t, cfg.Probe)
	info, err := cfg.Probe(context.Background(), watchURL)
	require.NoError(t, err)
	assert.Equal(t, 212.0, info.DurationSec)
}

func TestConfigFileAndEnv(t *testing.T) {
	isolate(t)
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: video\ntool: yt-dlp.exe\n"), 0o644))
	t.Setenv("SNIPRANGE_FORCE_KEYFRAMES", "false")

	out, _, err := run(t, "build", watchURL, "--config", cfg, "--duration", "5")
	require.NoError(t, err)
	assert.Equal(t, `yt-dlp.exe -f "bv*+ba/b" --download-sections "*0-5" "`+watchURL+`"`+"\n", out)
}

func TestCompletion(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "sniprange"))

	_, _, err = run(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestRootNeedsURLWithoutTerminal(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "--no-ui")
	assert.Equal(t, ExitCLIError, exitCode(t, err))
}
