package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Back      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	New       key.Binding
	Delete    key.Binding
	ClearAll  key.Binding
	Theme     key.Binding
	Preview   key.Binding
	Export    key.Binding
	ExportAll key.Binding
	Status    key.Binding
	Filter    key.Binding
	Search    key.Binding
	Toggle    key.Binding
	Sign      key.Binding
	Unsign    key.Binding
	Add       key.Binding
	Remove    key.Binding
	Edit      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("j/k", "navigate")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "home")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab")),
		New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new package")),
		Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		ClearAll:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear all")),
		Theme:     key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "theme")),
		Preview:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export pdf")),
		ExportAll: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export all")),
		Status:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "package status")),
		Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		Sign:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign")),
		Unsign:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		Edit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Confirm:   key.NewBinding(key.WithKeys("y", "Y")),
		Cancel:    key.NewBinding(key.WithKeys("n", "N", "esc")),
	}
}

func (a *App) bindings() []key.Binding {
	k := a.keys
	switch a.state {
	case viewDashboard:
		out := []key.Binding{k.NextTab, k.Up}
		switch a.tab {
		case tabChecklist:
			out = append(out, k.Toggle, k.Edit, k.Filter, k.Search)
		case tabCover:
			out = append(out, k.Edit)
		case tabRouting:
			out = append(out, k.Sign, k.Unsign, k.Edit)
		case tabWaivers:
			out = append(out, k.Add, k.Remove, k.Toggle)
		}
		return append(out, k.Export, k.ExportAll, k.Status, k.Preview, k.Theme, k.Delete, k.Back, k.Quit)
	default:
		return []key.Binding{k.Up, k.Enter, k.New, k.Delete, k.ClearAll, k.Theme, k.Quit}
	}
}

func (a *App) renderFooter(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, a.styles.helpKey.Render(help.Key)+" "+a.styles.helpDesc.Render(help.Desc))
	}
	content := strings.Join(parts, "  ")
	if a.width == 0 {
		return content
	}
	return lipgloss.NewStyle().Width(a.width).Render(content)
}
