package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	Reset   key.Binding
	Presets key.Binding
	Sound   key.Binding
	Reward  key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s/space", "start/pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Presets: key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "duration")),
		Sound:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "sound")),
		Reward:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unlock premium")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Presets, k.Sound, k.Reward, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
