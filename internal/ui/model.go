package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"sniprange/internal/model"
	"sniprange/internal/player"
	"sniprange/internal/probe"
	"sniprange/internal/selection"
	"sniprange/internal/session"
	"sniprange/internal/timecode"
	"sniprange/internal/util"
	"sniprange/internal/util/media"
)

const tickInterval = 100 * time.Millisecond

// ProbeFunc looks up metadata for a URL.
type ProbeFunc func(ctx context.Context, url string) (model.MediaInfo, error)

// Config is everything the TUI needs from the caller.
type Config struct {
	// Session must have been built with the same Clock as its player.
	Session *session.Session
	Clock   *player.Clock
	// URL is filled into the URL field at startup.
	URL string
	// Duration, when positive, is used instead of probing.
	Duration float64
	// Probe is optional; without it the duration must come from Duration.
	Probe         ProbeFunc
	NameFromTitle bool
	// Start and End preselect the range once the first duration is known.
	// Without a URL they apply to the first URL entered.
	Start, End *float64
	Logger     zerolog.Logger
}

type field int

const (
	fieldURL field = iota
	fieldStart
	fieldEnd
	fieldName
	fieldDir
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldURL:   "URL",
	fieldStart: "Start",
	fieldEnd:   "End",
	fieldName:  "File name",
	fieldDir:   "Output dir",
}

type Model struct {
	ctx context.Context
	log zerolog.Logger

	session  *session.Session
	clock    *player.Clock
	probe    ProbeFunc
	duration float64
	useTitle bool

	presetURL   string
	presetStart *float64
	presetEnd   *float64

	inputs  [fieldCount]textinput.Model
	focus   field
	step    float64
	tickID  int
	picking bool
	picker  filepicker.Model

	probing    bool
	probeURL   string
	probeErr   error
	info       model.MediaInfo
	status     string
	statusErr  bool
	committedU string
	initCmd    tea.Cmd

	// UI
	width, height int
	styles        Styles
	keys          keyMap
	help          help.Model
	spinner       spinner.Model
	bar           bubblesprogress.Model
}

func NewModel(ctx context.Context, cfg Config) Model {
	sty := defaultStyles()
	clock := cfg.Clock
	if clock == nil {
		clock = player.NewClock()
	}
	sess := cfg.Session
	if sess == nil {
		sess = session.New(session.WithPlayer(clock), session.WithLogger(cfg.Logger))
	}

	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = 60
		inputs[i] = ti
	}
	inputs[fieldURL].Placeholder = "https://www.youtube.com/watch?v=…"
	inputs[fieldURL].SetValue(cfg.URL)
	inputs[fieldStart].Placeholder = "00:00:00.00"
	inputs[fieldStart].CharLimit = 11
	inputs[fieldEnd].Placeholder = "00:00:00.00"
	inputs[fieldEnd].CharLimit = 11
	inputs[fieldName].Placeholder = "(yt-dlp default)"
	inputs[fieldName].SetValue(sess.FileName())
	inputs[fieldDir].Placeholder = "(current directory)"
	inputs[fieldDir].SetValue(sess.OutputDir())
	inputs[fieldURL].Focus()

	fp := filepicker.New()
	fp.DirAllowed = true
	fp.FileAllowed = false
	fp.Height = 10
	fp.CurrentDirectory = pickerStart(sess.OutputDir())

	sp := spinner.New()
	sp.Style = sty.Spinner

	m := Model{
		ctx:      cfg.Logger.WithContext(ctx),
		log:      cfg.Logger,
		session:  sess,
		clock:    clock,
		probe:    cfg.Probe,
		duration: cfg.Duration,
		useTitle: cfg.NameFromTitle,
		inputs:   inputs,

		presetURL:   strings.TrimSpace(cfg.URL),
		presetStart: cfg.Start,
		presetEnd:   cfg.End,

		step:    defaultStep,
		picker:  fp,
		styles:  sty,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(40),
			bubblesprogress.WithoutPercentage(),
		),
	}
	if cfg.URL != "" {
		m.initCmd = m.commitURL()
	}
	return m
}

func pickerStart(dir string) string {
	if dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initCmd)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		w := msg.Width - 16
		if w > 80 {
			w = 80
		}
		if w < 20 {
			w = 20
		}
		for i := range m.inputs {
			m.inputs[i].Width = w
		}
		m.bar.Width = w
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.updateKey(msg)

	case tickMsg:
		if msg.ID != m.tickID || !m.clock.Playing() {
			return m, nil
		}
		pos := m.clock.Advance(tickInterval)
		if m.session.OnProgress(pos) {
			// the clock pauses at the end of the media; a loop resumes it
			m.clock.Play()
		}
		if !m.clock.Playing() {
			return m, nil
		}
		return m, m.tickCmd()

	case probeDoneMsg:
		return m.handleProbe(msg), nil

	case spinner.TickMsg:
		if !m.probing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1)
	case key.Matches(msg, m.keys.Apply):
		return m.apply()
	case key.Matches(msg, m.keys.NudgeBack):
		m.nudge(-m.step)
		return m, nil
	case key.Matches(msg, m.keys.NudgeFwd):
		m.nudge(m.step)
		return m, nil
	case key.Matches(msg, m.keys.StepUp):
		m.step = increaseStep(m.step)
		return m, nil
	case key.Matches(msg, m.keys.StepDown):
		m.step = decreaseStep(m.step)
		return m, nil
	case key.Matches(msg, m.keys.Play):
		return m.togglePlay()
	case key.Matches(msg, m.keys.Loop):
		if m.session.ToggleLooping() {
			m.setStatus("Looping on")
		} else {
			m.setStatus("Looping off")
		}
		return m, nil
	case key.Matches(msg, m.keys.Format):
		m.setStatus(fmt.Sprintf("Format: %s", m.session.ToggleFormat()))
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copy()
		return m, nil
	case key.Matches(msg, m.keys.Record):
		if m.session.Record() == "" {
			m.setError(errors.New("nothing to record yet: enter a YouTube URL with a known duration"))
		} else {
			m.setStatus("Recorded to history")
		}
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.session.ClearHistory()
		m.setStatus("History cleared")
		return m, nil
	case key.Matches(msg, m.keys.PickDir):
		m.picking = true
		return m, m.picker.Init()
	case key.Matches(msg, m.keys.Probe):
		m.committedU = ""
		cmd := m.commitURL()
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.liveEdit()
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.CancelPick) {
		m.picking = false
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.session.SetOutputDir(path)
		m.inputs[fieldDir].SetValue(m.session.OutputDir())
		m.setStatus("Output dir: " + m.session.OutputDir())
		return m, nil
	}
	return m, cmd
}

// moveFocus commits the field being left, then focuses the next one.
func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == fieldURL {
		cmd = m.commitURL()
	}
	m.commitField(m.focus)
	m.inputs[m.focus].Blur()
	m.focus = field((int(m.focus) + delta + int(fieldCount)) % int(fieldCount))
	focus := m.inputs[m.focus].Focus()
	return m, tea.Batch(cmd, focus)
}

func (m Model) apply() (tea.Model, tea.Cmd) {
	if m.focus == fieldURL {
		m.committedU = ""
		cmd := m.commitURL()
		return m, cmd
	}
	m.commitField(m.focus)
	return m, nil
}

// liveEdit pushes the focused input into the session on every keystroke.
// Time-codes only take effect once they parse and pass validation.
func (m *Model) liveEdit() {
	v := m.inputs[m.focus].Value()
	switch m.focus {
	case fieldURL:
		if m.session.SetURL(v) {
			m.urlChanged()
		}
	case fieldStart:
		m.session.SetStartCode(v)
	case fieldEnd:
		m.session.SetEndCode(v)
	case fieldName:
		m.session.SetFileName(v)
	case fieldDir:
		m.session.SetOutputDir(v)
	}
}

// commitField restores an input to the session's value once the user leaves
// it, so rejected edits do not linger on screen.
func (m *Model) commitField(f field) {
	switch f {
	case fieldStart, fieldEnd:
		m.syncRangeInputs()
	case fieldName:
		m.inputs[f].SetValue(m.session.FileName())
	case fieldDir:
		m.inputs[f].SetValue(m.session.OutputDir())
	}
}

// urlChanged drops everything known about the previous URL. The session
// has already reset its range, so the next commit must establish the
// duration again even if the old URL is typed back in.
func (m *Model) urlChanged() {
	m.clock.SetDuration(0)
	m.info = model.MediaInfo{}
	m.probeErr = nil
	m.committedU = ""
	m.syncRangeInputs()
}

func (m *Model) syncRangeInputs() {
	r := m.session.Range()
	if r.Duration() <= 0 {
		m.inputs[fieldStart].SetValue("")
		m.inputs[fieldEnd].SetValue("")
		return
	}
	m.inputs[fieldStart].SetValue(r.StartCode())
	m.inputs[fieldEnd].SetValue(r.EndCode())
}

// commitURL applies the URL field and, when the URL is new and playable,
// establishes its duration either from the configured value or a probe.
func (m *Model) commitURL() tea.Cmd {
	raw := m.inputs[fieldURL].Value()
	if m.session.SetURL(raw) {
		m.urlChanged()
	}
	if !m.session.Valid() {
		if raw != "" {
			if _, err := util.ValidateURL(raw); err != nil {
				m.setError(err)
			}
		}
		return nil
	}
	url := m.session.URL()
	if url == m.committedU {
		return nil
	}
	m.committedU = url

	if m.duration > 0 {
		m.setDuration(m.duration)
		return nil
	}
	if m.probe == nil {
		m.setError(errors.New("duration unknown: pass --duration or enable --probe"))
		return nil
	}
	m.probing = true
	m.probeURL = url
	m.setStatus("Fetching duration…")
	return tea.Batch(m.spinner.Tick, m.probeCmd(url))
}

func (m Model) probeCmd(url string) tea.Cmd {
	ctx := m.ctx
	fetch := m.probe
	return func() tea.Msg {
		info, err := fetch(ctx, url)
		return probeDoneMsg{URL: url, Info: info, Err: err}
	}
}

func (m Model) handleProbe(msg probeDoneMsg) Model {
	if msg.URL != m.probeURL {
		return m
	}
	m.probing = false
	if msg.URL != m.session.URL() {
		return m
	}
	if msg.Err != nil {
		m.log.Warn().Err(msg.Err).Str("url", msg.URL).Msg("probe failed")
		m.probeErr = msg.Err
		m.committedU = ""
		if errors.Is(msg.Err, probe.ErrNoDuration) {
			m.setError(errors.New("the video has no fixed duration (live stream?)"))
		} else {
			m.setError(msg.Err)
		}
		return m
	}
	m.info = msg.Info
	if m.useTitle && m.session.FileName() == "" {
		m.session.SetFileName(media.ClipName(msg.Info))
		m.inputs[fieldName].SetValue(m.session.FileName())
	}
	m.setDuration(msg.Info.DurationSec)
	return m
}

func (m *Model) setDuration(d float64) {
	m.clock.SetDuration(d)
	m.session.OnDurationKnown(d)
	m.setStatus("Duration: " + m.session.Range().EndCode())
	m.applyPreset()
	m.syncRangeInputs()
}

// applyPreset applies the range given on the command line, once.
func (m *Model) applyPreset() {
	start, end := m.presetStart, m.presetEnd
	m.presetStart, m.presetEnd = nil, nil
	if m.presetURL != "" && m.presetURL != m.session.URL() {
		return
	}
	if start != nil && !m.session.SetStart(*start) {
		m.setError(fmt.Errorf("start %s is outside the media or after the end", timecode.Format(*start)))
	}
	if end != nil && !m.session.SetEnd(*end) {
		m.setError(fmt.Errorf("end %s is before the start or past the duration", timecode.Format(*end)))
	}
}

// nudge moves the handle matching the focused field, the start handle unless
// the end field has focus.
func (m *Model) nudge(delta float64) {
	if m.session.Range().Duration() <= 0 {
		return
	}
	h := selection.HandleStart
	if m.focus == fieldEnd {
		h = selection.HandleEnd
	}
	m.session.Nudge(h, delta)
	m.syncRangeInputs()
}

func (m Model) togglePlay() (tea.Model, tea.Cmd) {
	if !m.clock.Playing() && m.clock.Duration() > 0 && m.clock.CurrentTime() >= m.clock.Duration() {
		m.clock.SeekTo(m.session.Range().Start())
	}
	if !m.clock.Toggle() {
		m.setStatus("Paused")
		return m, nil
	}
	m.tickID++
	m.setStatus("Playing")
	return m, m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	id := m.tickID
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{ID: id}
	})
}

func (m *Model) copy() {
	cmd, err := m.session.Copy(m.ctx)
	switch {
	case cmd == "":
		m.setError(err)
	case err != nil:
		m.setError(fmt.Errorf("%w (saved to history)", err))
	default:
		m.setStatus("Copied to clipboard")
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.status = err.Error()
	m.statusErr = true
}

// Command returns the command for the current state.
func (m Model) Command() string {
	return m.session.Command()
}
