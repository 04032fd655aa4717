package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ToggleSelect key.Binding
	SelectAll    key.Binding
	SelectNone   key.Binding
	Delete       key.Binding
	Search       key.Binding
	Sort         key.Binding
	FilterBar    key.Binding
	ClearFilters key.Binding
	Rescan       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		ToggleSelect: key.NewBinding(
			key.WithKeys("space"),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		SelectNone: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "select none"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete selected"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		FilterBar: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter bar"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleSelect, k.SelectAll, k.Delete, k.Search, k.Sort, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleSelect, k.SelectAll, k.SelectNone, k.Delete},
		{k.Search, k.Sort, k.FilterBar, k.ClearFilters, k.Rescan, k.Help, k.Quit},
	}
}
