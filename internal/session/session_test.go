package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sniprange/internal/command"
	"sniprange/internal/player"
	"sniprange/internal/selection"
)

const watchURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

type fakeClipboard struct {
	got []string
	err error
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	f.got = append(f.got, text)
	return f.err
}

func TestNewDefaults(t *testing.T) {
	s := New()
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, command.FormatAudio, s.Format())
	assert.False(t, s.Valid())
	assert.Empty(t, s.Command())
	assert.NotEqual(t, s.ID(), New().ID())
}

func TestSetURL(t *testing.T) {
	s := New()
	assert.True(t, s.SetURL("  "+watchURL+" "))
	assert.True(t, s.Valid())
	assert.Equal(t, watchURL, s.URL())
	assert.False(t, s.SetURL(watchURL), "same url is not a change")

	s.OnDurationKnown(120)
	require.True(t, s.SetStart(10))

	assert.True(t, s.SetURL("https://example.com/video"))
	assert.False(t, s.Valid())
	assert.Empty(t, s.Command())
	assert.Zero(t, s.Range().Duration(), "range resets on url change")
	assert.Zero(t, s.Range().Start())
}

func TestCommandTracksState(t *testing.T) {
	s := New()
	s.SetURL(watchURL)
	s.OnDurationKnown(300)
	require.True(t, s.SetStartCode("00:00:10.00"))
	require.True(t, s.SetEndCode("00:00:25.50"))

	assert.Equal(t,
		`yt-dlp -x --audio-format mp3 --force-keyframes-at-cuts --download-sections "*10-25.5" "`+watchURL+`"`,
		s.Command())

	assert.Equal(t, command.FormatVideo, s.ToggleFormat())
	s.SetFileName(" clip ")
	assert.Equal(t, "clip", s.FileName())
	assert.Equal(t,
		`yt-dlp -f "bv*+ba/b" --force-keyframes-at-cuts --download-sections "*10-25.5" -o "clip.%(ext)s" "`+watchURL+`"`,
		s.Command())
}

func TestCommandWaitsForDuration(t *testing.T) {
	clip := &fakeClipboard{}
	s := New(WithClipboard(clip))
	s.SetURL(watchURL)
	assert.True(t, s.Valid())
	assert.False(t, s.Ready())
	assert.Empty(t, s.Command(), "no *0-0 section before the duration is known")
	assert.Empty(t, s.Record())

	_, err := s.Copy(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration unknown")
	assert.Empty(t, clip.got)

	s.OnDurationKnown(42)
	assert.True(t, s.Ready())
	assert.Contains(t, s.Command(), `"*0-42"`)
}

func TestRejectedEditsKeepState(t *testing.T) {
	s := New()
	s.SetURL(watchURL)
	s.OnDurationKnown(60)
	require.True(t, s.SetEnd(30))

	assert.False(t, s.SetStart(45), "start past end")
	assert.False(t, s.SetStartCode("10"), "malformed code")
	assert.False(t, s.SetEnd(61), "end past duration")
	assert.Zero(t, s.Range().Start())
	assert.Equal(t, 30.0, s.Range().End())
}

func TestNudgeSeeksPlayer(t *testing.T) {
	clock := player.NewClock()
	s := New(WithPlayer(clock))
	s.SetURL(watchURL)
	clock.SetDuration(100)
	s.OnDurationKnown(100)

	assert.True(t, s.Nudge(selection.HandleStart, 5))
	assert.Equal(t, 5.0, s.Range().Start())
	assert.Equal(t, 5.0, clock.CurrentTime())

	assert.True(t, s.Nudge(selection.HandleEnd, -1000))
	assert.Equal(t, 5.0, s.Range().End(), "end clamps to start")
}

func TestLooping(t *testing.T) {
	clock := player.NewClock()
	s := New(WithPlayer(clock))
	s.SetURL(watchURL)
	clock.SetDuration(100)
	s.OnDurationKnown(100)
	require.True(t, s.SetStart(20))
	require.True(t, s.SetEnd(40))

	assert.False(t, s.OnProgress(45), "looping off")
	assert.True(t, s.ToggleLooping())
	assert.True(t, s.Looping())
	assert.False(t, s.OnProgress(30))
	assert.True(t, s.OnProgress(40))
	assert.Equal(t, 20.0, clock.CurrentTime())

	s.SetLooping(false)
	assert.False(t, s.Looping())
}

func TestOutputDirExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s := New(WithOutputDir("~/clips"))
	assert.Equal(t, home+"/clips", s.OutputDir())

	s.SetOutputDir("/tmp/out")
	assert.Equal(t, "/tmp/out", s.OutputDir())
	assert.Equal(t, "/tmp/out", s.Request().OutputDir)
}

func TestCopyRecordsHistory(t *testing.T) {
	clip := &fakeClipboard{}
	s := New(WithClipboard(clip))
	s.SetURL(watchURL)
	s.OnDurationKnown(10)

	cmd, err := s.Copy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s.Command(), cmd)
	assert.Equal(t, []string{cmd}, clip.got)
	assert.Equal(t, []string{cmd}, s.History())

	// copying again does not duplicate
	_, err = s.Copy(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.History(), 1)
}

func TestCopyFailureStillRecords(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("no display")}
	s := New(WithClipboard(clip))
	s.SetURL(watchURL)
	s.OnDurationKnown(10)

	cmd, err := s.Copy(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")
	assert.NotEmpty(t, cmd)
	assert.Equal(t, []string{cmd}, s.History())
}

func TestCopyWithoutURL(t *testing.T) {
	clip := &fakeClipboard{}
	s := New(WithClipboard(clip))
	_, err := s.Copy(context.Background())
	assert.Error(t, err)
	assert.Empty(t, clip.got)
	assert.Empty(t, s.History())
}

func TestRecordAndClear(t *testing.T) {
	s := New()
	assert.Empty(t, s.Record(), "nothing recorded without url")
	assert.Empty(t, s.History())

	s.SetURL(watchURL)
	s.OnDurationKnown(600)
	for i := 0; i < 12; i++ {
		require.True(t, s.SetEnd(float64(100+i)))
		s.Record()
	}
	h := s.History()
	require.Len(t, h, command.HistoryLimit)
	assert.Contains(t, h[0], `"*0-111"`)

	s.ClearHistory()
	assert.Empty(t, s.History())
}

func TestWithBuilder(t *testing.T) {
	s := New(
		WithBuilder(command.NewBuilder(command.WithTool("python -m yt_dlp"), command.WithForceKeyframes(false))),
		WithFormat(command.FormatVideo),
	)
	s.SetURL(watchURL)
	s.OnDurationKnown(5)
	assert.Equal(t, `python -m yt_dlp -f "bv*+ba/b" --download-sections "*0-5" "`+watchURL+`"`, s.Command())
}
