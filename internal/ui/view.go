package ui

import (
	"fmt"
	"strings"

	"sniprange/internal/timecode"
)

func (m Model) View() string {
	if m.picking {
		return m.viewHeader() + "\n\n" +
			m.styles.Label.Render("Choose an output folder (enter selects, esc cancels)") + "\n" +
			m.styles.Faint.Render(m.picker.CurrentDirectory) + "\n\n" +
			m.picker.View()
	}
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewField(fieldURL))
	b.WriteString("\n")
	if m.session.Valid() && m.session.Range().Duration() > 0 {
		b.WriteString(m.viewRange())
	} else if m.session.URL() != "" && !m.session.Valid() {
		b.WriteString(m.styles.Box.Render(m.styles.Error.Render("Not a playable YouTube URL")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.viewOptions())
	b.WriteString("\n")
	b.WriteString(m.viewCommand())
	b.WriteString("\n")
	if h := m.viewHistory(); h != "" {
		b.WriteString(h)
		b.WriteString("\n")
	}
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(m.styles.Box.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("sniprange: pick a range, get a yt-dlp command")
	sub := ""
	if m.info.Title != "" {
		sub = truncate(m.info.Title, 60)
		if m.info.Uploader != "" {
			sub += " • " + m.info.Uploader
		}
	}
	if m.probing {
		sub = m.spinner.View() + " fetching duration"
	}
	if sub == "" {
		return title
	}
	return title + "\n" + m.styles.Subtitle.Render(sub)
}

func (m Model) viewField(f field) string {
	label := fmt.Sprintf("%-11s", fieldLabels[f])
	if f == m.focus {
		label = m.styles.Focused.Render("▸ " + label)
	} else {
		label = m.styles.Label.Render("  " + label)
	}
	return m.styles.Box.Render(label + " " + m.inputs[f].View())
}

func (m Model) viewRange() string {
	r := m.session.Range()
	width := m.bar.Width
	if width <= 0 {
		width = 40
	}

	var b strings.Builder
	b.WriteString(m.styles.Box.Render(m.viewTimeline(width)))
	b.WriteString("\n")
	labels := fmt.Sprintf("%s ─ %s of %s   step %s",
		timecode.FormatClock(r.Start()),
		timecode.FormatClock(r.End()),
		timecode.FormatClock(r.Duration()),
		formatStep(m.step),
	)
	if r.Overlapping() {
		labels += "   " + m.styles.Warning.Render("handles overlap")
	}
	b.WriteString(m.styles.Box.Render(m.styles.Faint.Render(labels)))
	b.WriteString("\n")
	b.WriteString(m.viewField(fieldStart))
	b.WriteString("\n")
	b.WriteString(m.viewField(fieldEnd))
	b.WriteString("\n")

	state := "⏸"
	if m.clock.Playing() {
		state = "▶"
	}
	loop := ""
	if m.session.Looping() {
		loop = " ⟲"
	}
	b.WriteString(m.styles.Box.Render(fmt.Sprintf("%s %s %s%s",
		state, m.bar.ViewAs(m.clock.Fraction()), timecode.Format(m.clock.CurrentTime()), loop)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewOptions() string {
	var b strings.Builder
	b.WriteString(m.styles.Box.Render(
		m.styles.Label.Render(fmt.Sprintf("  %-11s", "Format")) + " " +
			m.styles.Value.Render(string(m.session.Format())) +
			m.styles.Faint.Render("  (ctrl+f)"),
	))
	b.WriteString("\n")
	b.WriteString(m.viewField(fieldName))
	b.WriteString("\n")
	b.WriteString(m.viewField(fieldDir))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewCommand() string {
	cmd := m.session.Command()
	if cmd == "" {
		hint := "Enter a YouTube URL to build a command."
		if m.session.Valid() {
			hint = "Waiting for the media duration."
		}
		return m.styles.Box.Render(m.styles.Faint.Render(hint))
	}
	return m.styles.Command.Render(cmd)
}

func (m Model) viewHistory() string {
	hist := m.session.History()
	if len(hist) == 0 {
		return ""
	}
	width := m.width - 8
	if width < 40 {
		width = 100
	}
	var b strings.Builder
	b.WriteString(m.styles.Box.Render(m.styles.Subtitle.Render(fmt.Sprintf("History (%d)  ctrl+x clears", len(hist)))))
	b.WriteString("\n")
	for i, h := range hist {
		b.WriteString(m.styles.Box.Render(m.styles.Value.Render(fmt.Sprintf("%2d. %s", i+1, truncate(h, width)))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.styles.Box.Render(m.styles.Error.Render("✗ " + m.status))
	}
	return m.styles.Box.Render(m.styles.Success.Render("✓ " + m.status))
}

func formatStep(s float64) string {
	if s < 1 {
		return fmt.Sprintf("%.1fs", s)
	}
	return fmt.Sprintf("%.0fs", s)
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
