package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	StartDay key.Binding
	EndDay   key.Binding
	Mode     key.Binding
	Pause    key.Binding
	Undo     key.Binding
	Reset    key.Binding
	Export   key.Binding
	Backup   key.Binding
	Restore  key.Binding
	Tab      key.Binding
	Help     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	StartDay: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start day"),
	),
	EndDay: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "end day"),
	),
	Mode: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6"),
		key.WithHelp("1-6", "switch mode"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause/resume"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset today"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Backup: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "backup"),
	),
	Restore: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "restore backup"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StartDay, k.Mode, k.Pause, k.EndDay, k.Undo, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.StartDay, k.EndDay, k.Mode, k.Pause},
		{k.Undo, k.Reset, k.Export},
		{k.Backup, k.Restore, k.Tab},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}
