package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Value    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Faint    lipgloss.Style
	Box      lipgloss.Style
	Command  lipgloss.Style
	Spinner  lipgloss.Style
	Track    lipgloss.Style
	Range    lipgloss.Style
	Marker   lipgloss.Style
	Playhead lipgloss.Style
}

func defaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Title:    base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Subtitle: base.Faint(true),
		Label:    base.Foreground(lipgloss.Color("#A3A3A3")),
		Focused:  base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Value:    base.Foreground(lipgloss.Color("#D1D5DB")),
		Success:  base.Foreground(lipgloss.Color("#22C55E")),
		Error:    base.Foreground(lipgloss.Color("#EF4444")),
		Warning:  base.Foreground(lipgloss.Color("#F59E0B")),
		Faint:    base.Faint(true),
		Box:      base.Padding(0, 1),
		Command: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		Spinner:  base.Foreground(lipgloss.Color("#22D3EE")),
		Track:    base.Foreground(lipgloss.Color("#4B5563")),
		Range:    base.Foreground(lipgloss.Color("#06B6D4")),
		Marker:   base.Foreground(lipgloss.Color("#F59E0B")).Bold(true),
		Playhead: base.Foreground(lipgloss.Color("#D946EF")).Bold(true),
	}
}
