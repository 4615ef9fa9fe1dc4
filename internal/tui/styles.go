// Package tui provides the terminal chat screen for chatty.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/chatty/internal/errors"
	"github.com/diogo/chatty/internal/render"
)

// styles is built once per screen from the theme picked at construction.
// Switching dark mode builds a new screen, so styles never change in place.
type styles struct {
	theme render.TUITheme

	header       lipgloss.Style
	title        lipgloss.Style
	subtitle     lipgloss.Style
	hint         lipgloss.Style
	messagesArea lipgloss.Style

	userBubble      lipgloss.Style
	userLabel       lipgloss.Style
	assistantBubble lipgloss.Style
	assistantLabel  lipgloss.Style
	failedBubble    lipgloss.Style

	inputPanel lipgloss.Style
	inputLabel lipgloss.Style
	loading    lipgloss.Style

	statusBar  lipgloss.Style
	statusKey  lipgloss.Style
	statusDesc lipgloss.Style

	errorText lipgloss.Style
	notice    lipgloss.Style

	heading     lipgloss.Style
	headingIcon lipgloss.Style

	// side panel
	panel        lipgloss.Style
	panelTitle   lipgloss.Style
	sectionTitle lipgloss.Style
	menuItem     lipgloss.Style
	menuSelected lipgloss.Style
	cursor       lipgloss.Style
	value        lipgloss.Style
	enabled      lipgloss.Style
	disabled     lipgloss.Style
}

// Gradient colors for the loading animation (theme independent)
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

func newStyles(theme render.TUITheme) styles {
	s := styles{theme: theme}

	s.header = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2)

	s.title = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	s.subtitle = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	s.hint = lipgloss.NewStyle().
		Foreground(theme.TextMute).
		Italic(true)

	s.messagesArea = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	s.userBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Foreground(theme.Text).
		Padding(0, 1)

	s.userLabel = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	s.assistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Foreground(theme.Text).
		Padding(0, 1)

	s.assistantLabel = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	s.failedBubble = s.assistantBubble.
		BorderForeground(theme.Error).
		Foreground(theme.Error)

	s.inputPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	s.inputLabel = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		MarginRight(1)

	s.loading = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	s.statusBar = lipgloss.NewStyle().
		Foreground(theme.TextMute)

	s.statusKey = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Bold(true)

	s.statusDesc = lipgloss.NewStyle().
		Foreground(theme.TextMute)

	s.errorText = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true)

	s.notice = lipgloss.NewStyle().
		Foreground(theme.Warning).
		Italic(true)

	s.heading = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Align(lipgloss.Center)

	s.headingIcon = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Align(lipgloss.Center)

	s.panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 2)

	s.panelTitle = lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true)

	s.sectionTitle = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	s.menuItem = lipgloss.NewStyle().
		Foreground(theme.Text)

	s.menuSelected = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	s.cursor = lipgloss.NewStyle().
		Foreground(theme.Accent)

	s.value = lipgloss.NewStyle().
		Foreground(theme.TextDim)

	s.enabled = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	s.disabled = lipgloss.NewStyle().
		Foreground(theme.Error)

	return s
}

// formatError renders an error that is not part of the transcript, such as
// a credential store or export failure
func (s styles) formatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(s.errorText.Render(fmt.Sprintf("⚠ %v", err)))

	detail := lipgloss.NewStyle().Foreground(s.theme.TextDim).PaddingLeft(2)
	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString("\n")
		sb.WriteString(detail.Render(fmt.Sprintf("HTTP Status: %d", status)))
	}

	hint := lipgloss.NewStyle().Foreground(s.theme.Primary).PaddingLeft(2)
	switch {
	case apierrors.IsMissingCredential(err):
		sb.WriteString("\n")
		sb.WriteString(hint.Render("Press ctrl+s to add an API key"))
	case apierrors.IsNetworkError(err):
		sb.WriteString("\n")
		sb.WriteString(hint.Render("Check your network connection"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString("\n")
		sb.WriteString(hint.Render("Request timed out. Try again"))
	}

	return sb.String()
}
