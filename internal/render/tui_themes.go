package render

import (
	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name string
	Dark bool

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	// DarkTheme is based on the Tokyo Night palette
	DarkTheme = TUITheme{
		Name: "dark",
		Dark: true,

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// LightTheme is based on the Tokyo Night Day palette
	LightTheme = TUITheme{
		Name: "light",

		Background: lipgloss.Color("#e1e2e7"),
		Surface:    lipgloss.Color("#d0d5e3"),
		Border:     lipgloss.Color("#a8aecb"),

		Primary:   lipgloss.Color("#2e7de9"),
		Secondary: lipgloss.Color("#587539"),
		Accent:    lipgloss.Color("#9854f1"),
		Warning:   lipgloss.Color("#8c6c3e"),
		Error:     lipgloss.Color("#f52a65"),

		Text:     lipgloss.Color("#3760bf"),
		TextDim:  lipgloss.Color("#6172b0"),
		TextMute: lipgloss.Color("#a1a6c5"),
	}
)

// ThemeFor returns the theme variant for the dark-mode flag
func ThemeFor(dark bool) TUITheme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}
