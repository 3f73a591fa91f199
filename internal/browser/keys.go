package browser

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Sort     key.Binding
	Medium   key.Binding
	Era      key.Binding
	Category key.Binding
	Low      key.Binding
	MinDown  key.Binding
	MinUp    key.Binding
	MaxDown  key.Binding
	MaxUp    key.Binding
	Reset    key.Binding
	Share    key.Binding
	Stats    key.Binding
	Up       key.Binding
	Down     key.Binding
	Search   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Sort, k.Low, k.Reset, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Sort, k.Medium, k.Era, k.Category, k.Low},
		{k.MinDown, k.MinUp, k.MaxDown, k.MaxUp, k.Reset},
		{k.Up, k.Down, k.Search, k.Share, k.Stats},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Sort: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "sort"),
	),
	Medium: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "medium"),
	),
	Era: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "era"),
	),
	Category: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "category"),
	),
	Low: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "low difficulty"),
	),
	MinDown: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "min -"),
	),
	MinUp: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "min +"),
	),
	MaxDown: key.NewBinding(
		key.WithKeys("{"),
		key.WithHelp("{", "max -"),
	),
	MaxUp: key.NewBinding(
		key.WithKeys("}"),
		key.WithHelp("}", "max +"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Share: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "share query"),
	),
	Stats: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stats"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}
