package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sniprange/internal/util"
)

type fakeRunner struct {
	stdout string
	stderr string
	err    error
	specs  []util.CmdSpec
}

func (f *fakeRunner) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.specs = append(f.specs, spec)
	return util.CmdResult{Stdout: []byte(f.stdout), Stderr: []byte(f.stderr)}, f.err
}

func TestFetch(t *testing.T) {
	r := &fakeRunner{stdout: `{"id":"dQw4w9WgXcQ","title":"Song","uploader":"Rick","duration":212.5}` + "\n"}
	url := "https://youtu.be/dQw4w9WgXcQ"

	mi, err := Fetch(context.Background(), url, Options{DownloaderPath: "/bin/yt-dlp", Runner: r})
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", mi.ID)
	assert.Equal(t, "Song", mi.Title)
	assert.Equal(t, "Rick", mi.Uploader)
	assert.Equal(t, 212.5, mi.DurationSec)
	assert.Equal(t, url, mi.URL)

	require.Len(t, r.specs, 1)
	assert.Equal(t, "/bin/yt-dlp", r.specs[0].Path)
	assert.Equal(t, Args(url), r.specs[0].Args)
	assert.Contains(t, r.specs[0].Args, "--skip-download")
}

func TestFetchLiveStream(t *testing.T) {
	r := &fakeRunner{stdout: `{"id":"live1","title":"Live","is_live":true}`}
	mi, err := Fetch(context.Background(), "https://youtu.be/live1", Options{DownloaderPath: "yt-dlp", Runner: r})
	assert.ErrorIs(t, err, ErrNoDuration)
	assert.Equal(t, "Live", mi.Title)
}

func TestFetchRunnerFailure(t *testing.T) {
	r := &fakeRunner{stderr: "WARNING: x\nERROR: Video unavailable\n", err: errors.New("exit status 1")}
	_, err := Fetch(context.Background(), "https://youtu.be/gone", Options{DownloaderPath: "yt-dlp", Runner: r})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERROR: Video unavailable")
}

func TestFetchRequiresDownloader(t *testing.T) {
	_, err := Fetch(context.Background(), "https://youtu.be/x", Options{})
	assert.Error(t, err)
}

func TestParseInfo(t *testing.T) {
	tests := []struct {
		name    string
		stdout  string
		wantID  string
		wantErr bool
	}{
		{name: "single object", stdout: `{"id":"a","duration":1}`, wantID: "a"},
		{name: "several objects", stdout: "{\"id\":\"a\"}\n{\"id\":\"b\",\"duration\":3}\n", wantID: "b"},
		{name: "noise before object", stdout: "[youtube] extracting\n{\"id\":\"c\"}", wantID: "c"},
		{name: "empty", stdout: "  ", wantErr: true},
		{name: "not json", stdout: "hello", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseInfo([]byte(tt.stdout))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, info.ID)
		})
	}
}
