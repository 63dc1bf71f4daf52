package app

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle   key.Binding
	Play     key.Binding
	Next     key.Binding
	Previous key.Binding
	Mode     key.Binding
	Stop     key.Binding
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Remove   key.Binding
	Favorite key.Binding
	Download key.Binding
	SaveAll  key.Binding
	VolUp    key.Binding
	VolDown  key.Binding
	Mute     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Play:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play selected")),
		Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Previous: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		Mode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "cycle mode")),
		Stop:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Remove:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove track")),
		Favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Download: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		SaveAll:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "download all")),
		VolUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Mute:     key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "mute")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.Previous, k.Mode, k.Stop, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Play, k.Stop},
		{k.Next, k.Previous, k.Mode},
		{k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.Remove, k.Favorite, k.Download, k.SaveAll},
		{k.VolUp, k.VolDown, k.Mute},
		{k.Help, k.Quit},
	}
}
