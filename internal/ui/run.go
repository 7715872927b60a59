package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run launches the TUI and blocks until the user quits. It returns the
// command for the final state so the caller can print it once the terminal
// is restored.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) (string, error) {
	m := NewModel(ctx, cfg)
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	prog := tea.NewProgram(m, opts...)
	final, err := prog.Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(Model); ok {
		return fm.Command(), nil
	}
	return "", nil
}
