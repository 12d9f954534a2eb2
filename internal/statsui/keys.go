package statsui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	NextTab  key.Binding
	PrevTab  key.Binding
	Wider    key.Binding
	Narrower key.Binding
	Filter   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev tab"),
		),
		Wider: key.NewBinding(
			key.WithKeys("="),
			key.WithHelp("=", "wider window"),
		),
		Narrower: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "narrower window"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filters"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevTab, k.NextTab, k.Narrower, k.Wider, k.Filter, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevTab, k.NextTab},
		{k.Narrower, k.Wider},
		{k.Filter, k.Quit},
	}
}
