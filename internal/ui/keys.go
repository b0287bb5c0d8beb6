package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/hawk-journal/hawk/internal/i18n"
)

type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Enter         key.Binding
	Edit          key.Binding
	Escape        key.Binding
	New           key.Binding
	NewCollection key.Binding
	Delete        key.Binding
	Restore       key.Binding
	ToggleTrash   key.Binding
	EmptyTrash    key.Binding
	Journal       key.Binding
	Refresh       key.Binding
	NextPane      key.Binding
	Quit          key.Binding
}

func NewKeyMap() KeyMap {
	t := i18n.T()
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", t.KeyUp),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", t.KeyDown),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", t.KeyEdit),
		),
		Edit: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", t.KeyEdit),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", t.KeyEscape),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", t.KeyNew),
		),
		NewCollection: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", t.NewCollection),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", t.KeyDelete),
		),
		Restore: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", t.KeyRestore),
		),
		ToggleTrash: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", t.KeyTrash),
		),
		EmptyTrash: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", t.Trash),
		),
		Journal: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", t.KeyJournal),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", t.KeyRefresh),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "pane"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", t.KeyQuit),
		),
	}
}
