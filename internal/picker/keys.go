package picker

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the picker key bindings. Printable keys go to the query input.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Edit   key.Binding
	Yank   key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default picker key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p", "ctrl+k"),
			key.WithHelp("↑/ctrl+k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n", "ctrl+j"),
			key.WithHelp("↓/ctrl+j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Edit: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "edit"),
		),
		Yank: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy url"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// helpBindings returns the bindings shown in the footer.
func (k KeyMap) helpBindings() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Edit, k.Yank, k.Cancel}
}
