package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Theme colors
var (
	BrandRed        = lipgloss.Color("#e50914")
	BrandDarkRed    = lipgloss.Color("#b20710")
	BrandBackground = lipgloss.Color("#141414")
	BrandForeground = lipgloss.Color("#f5f5f1")
	BrandMuted      = lipgloss.Color("#8c8c8c")

	ColorSuccess = lipgloss.Color("#2ecc71")
	ColorWarning = lipgloss.Color("#f39c12")
	ColorError   = BrandRed
	ColorInfo    = lipgloss.Color("#3498db")
)

// Styles for TUI components
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BrandForeground).
			Background(BrandRed).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BrandRed).
			MarginBottom(1)

	ContentStyle = lipgloss.NewStyle().
			Foreground(BrandForeground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(BrandMuted)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	// Active season tab
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(BrandBackground).
			Background(BrandRed).
			Bold(true).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(BrandMuted).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BrandDarkRed).
			Padding(0, 1)
)

// FormatKeybinding formats a keybinding for display in footer
func FormatKeybinding(key, description string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(BrandRed).
		Bold(true)
	return keyStyle.Render(key) + " " + MutedStyle.Render(description)
}

// FormatFooter joins keybindings into one footer line
func FormatFooter(keybindings ...string) string {
	footer := ""
	for i, kb := range keybindings {
		if i > 0 {
			footer += "  •  "
		}
		footer += kb
	}
	return footer
}

// newDelegate returns the list delegate shared by every list screen.
func newDelegate() list.DefaultDelegate {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(BrandForeground).
		Background(BrandRed).
		Bold(true).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().
		Foreground(BrandForeground).
		Background(BrandDarkRed).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(BrandForeground).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalDesc = lipgloss.NewStyle().
		Foreground(BrandMuted).
		Padding(0, 0, 0, 1)
	return delegate
}

// newList returns a themed list with built-in filtering and quit keys
// disabled; screens handle both themselves.
func newList(title string, items []list.Item) list.Model {
	l := list.New(items, newDelegate(), 0, 0)
	l.Title = title
	l.Styles.Title = TitleStyle
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}
