package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Apply      key.Binding
	NudgeBack  key.Binding
	NudgeFwd   key.Binding
	StepUp     key.Binding
	StepDown   key.Binding
	Play       key.Binding
	Loop       key.Binding
	Format     key.Binding
	Copy       key.Binding
	Record     key.Binding
	Clear      key.Binding
	PickDir    key.Binding
	Probe      key.Binding
	Help       key.Binding
	Quit       key.Binding
	CancelPick key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:       key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Apply:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		NudgeBack:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "nudge back")),
		NudgeFwd:   key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "nudge fwd")),
		StepUp:     key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑", "bigger step")),
		StepDown:   key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("shift+↓", "smaller step")),
		Play:       key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "play/pause")),
		Loop:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "loop")),
		Format:     key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "audio/video")),
		Copy:       key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		Record:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "record")),
		Clear:      key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear history")),
		PickDir:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "pick folder")),
		Probe:      key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "fetch duration")),
		Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:       key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
		CancelPick: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.NudgeFwd, k.Play, k.Copy, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Apply, k.PickDir},
		{k.NudgeBack, k.NudgeFwd, k.StepUp, k.StepDown},
		{k.Play, k.Loop, k.Format, k.Probe},
		{k.Copy, k.Record, k.Clear, k.Quit},
	}
}
