package tui

import "github.com/charmbracelet/lipgloss"

// palette holds the semantic colors a theme is built from.
type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	accent  lipgloss.Color
	focus   lipgloss.Color
	success lipgloss.Color
	warning lipgloss.Color
	danger  lipgloss.Color
	surface lipgloss.Color
}

// Theme names in cycle order.
const (
	themeDark  = "dark"
	themeLight = "light"
	themeNight = "night"
)

var themeNames = []string{themeDark, themeLight, themeNight}

var palettes = map[string]palette{
	// Catppuccin Mocha
	themeDark: {
		text: "#cdd6f4", muted: "#7f849c", accent: "#f5c2e7", focus: "#b4befe",
		success: "#a6e3a1", warning: "#f9e2af", danger: "#f38ba8", surface: "#313244",
	},
	// Catppuccin Latte
	themeLight: {
		text: "#4c4f69", muted: "#8c8fa1", accent: "#ea76cb", focus: "#7287fd",
		success: "#40a02b", warning: "#df8e1d", danger: "#d20f39", surface: "#ccd0da",
	},
	// Red-on-black for low light
	themeNight: {
		text: "#e0a0a0", muted: "#805050", accent: "#ff6060", focus: "#ff9090",
		success: "#c08080", warning: "#ffb060", danger: "#ff3030", surface: "#200808",
	},
}

func normalizeTheme(name string) string {
	if _, ok := palettes[name]; ok {
		return name
	}
	return themeDark
}

func nextTheme(name string) string {
	for i, n := range themeNames {
		if n == name {
			return themeNames[(i+1)%len(themeNames)]
		}
	}
	return themeNames[0]
}

type styles struct {
	title     lipgloss.Style
	subtitle  lipgloss.Style
	text      lipgloss.Style
	muted     lipgloss.Style
	accent    lipgloss.Style
	selected  lipgloss.Style
	success   lipgloss.Style
	warning   lipgloss.Style
	danger    lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	banner    lipgloss.Style
	urgent    lipgloss.Style
	box       lipgloss.Style
	helpKey   lipgloss.Style
	helpDesc  lipgloss.Style
	barFull   lipgloss.Style
	barEmpty  lipgloss.Style
}

func newStyles(name string) styles {
	p := palettes[normalizeTheme(name)]
	base := lipgloss.NewStyle().Foreground(p.text)
	return styles{
		title:     base.Bold(true).Underline(true),
		subtitle:  lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		text:      base,
		muted:     lipgloss.NewStyle().Foreground(p.muted),
		accent:    lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		selected:  lipgloss.NewStyle().Foreground(p.focus).Bold(true),
		success:   lipgloss.NewStyle().Foreground(p.success),
		warning:   lipgloss.NewStyle().Foreground(p.warning),
		danger:    lipgloss.NewStyle().Foreground(p.danger).Bold(true),
		tab:       lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		activeTab: lipgloss.NewStyle().Foreground(p.accent).Bold(true).Underline(true).Padding(0, 1),
		banner:    lipgloss.NewStyle().Foreground(p.warning).Border(lipgloss.NormalBorder()).BorderForeground(p.warning).Padding(0, 1),
		urgent:    lipgloss.NewStyle().Foreground(p.danger).Bold(true).Border(lipgloss.ThickBorder()).BorderForeground(p.danger).Padding(0, 1),
		box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.surface).Padding(0, 1),
		helpKey:   lipgloss.NewStyle().Foreground(p.accent),
		helpDesc:  lipgloss.NewStyle().Foreground(p.muted),
		barFull:   lipgloss.NewStyle().Foreground(p.success),
		barEmpty:  lipgloss.NewStyle().Foreground(p.surface),
	}
}
