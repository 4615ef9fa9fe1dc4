package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatty/internal/config"
	"github.com/diogo/chatty/internal/models"
)

// panelView represents the current view in the side panel
type panelView int

const (
	panelMain panelView = iota
	panelKeyEntry
	panelFontSelect
)

type panelItemKind int

const (
	itemAPIKey panelItemKind = iota
	itemFontSize
	itemDarkMode
	itemClose
)

type panelItem struct {
	kind     panelItemKind
	provider models.ProviderID
}

// panelState is the settings side panel: credential entry per provider,
// font size selection and the dark mode toggle
type panelState struct {
	view       panelView
	cursor     int
	fontCursor int

	keyProvider models.ProviderID
	keyInput    textinput.Model
	// fromPrompt closes the whole panel after key entry, returning the
	// user to the query they were about to send
	fromPrompt bool

	keyStored map[models.ProviderID]bool
	items     []panelItem
}

func newPanelState(st styles) panelState {
	ti := textinput.New()
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	ti.Width = 40
	ti.PromptStyle = st.cursor
	ti.TextStyle = lipgloss.NewStyle().Foreground(st.theme.Text)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(st.theme.TextDim)

	return panelState{
		keyInput:  ti,
		keyStored: make(map[models.ProviderID]bool),
	}
}

// restore carries navigation state across a screen rebuild
func (p *panelState) restore(prev panelState) {
	p.view = prev.view
	p.cursor = prev.cursor
	p.fontCursor = prev.fontCursor
	p.keyProvider = prev.keyProvider
	p.fromPrompt = prev.fromPrompt
	p.keyStored = prev.keyStored
	p.items = prev.items
	p.keyInput.SetValue(prev.keyInput.Value())
	if prev.keyInput.Focused() {
		p.keyInput.Focus()
	}
}

func (p *panelState) resize(width int) {
	w := width - 16
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	p.keyInput.Width = w
}

// openPanel shows the side panel on its main menu
func (m *Model) openPanel() {
	m.showPanel = true
	m.panel.view = panelMain
	m.panel.cursor = 0
	m.panel.fromPrompt = false
	m.refreshPanelItems()
	m.textarea.Blur()
}

// openKeyEntry shows the credential entry for provider
func (m *Model) openKeyEntry(provider models.ProviderID, fromPrompt bool) {
	if !m.showPanel {
		m.showPanel = true
		m.refreshPanelItems()
	}
	m.textarea.Blur()
	m.panel.view = panelKeyEntry
	m.panel.keyProvider = provider
	m.panel.fromPrompt = fromPrompt
	m.panel.keyInput.Reset()
	m.panel.keyInput.Placeholder = "Enter API Key for " + provider.DisplayName()
	m.panel.keyInput.Focus()
}

func (m *Model) closePanel() {
	m.showPanel = false
	m.panel.view = panelMain
	m.panel.keyInput.Blur()
	m.textarea.Focus()
}

// refreshPanelItems rebuilds the menu and the stored-key markers
func (m *Model) refreshPanelItems() {
	var items []panelItem
	for _, p := range m.deps.Dispatcher.Selector().All() {
		if !p.RequiresCredential() {
			continue
		}
		items = append(items, panelItem{kind: itemAPIKey, provider: p.ID()})
		secret, err := m.deps.Dispatcher.Credentials().Load(p.ID())
		m.panel.keyStored[p.ID()] = err == nil && secret != ""
	}
	items = append(items,
		panelItem{kind: itemFontSize},
		panelItem{kind: itemDarkMode},
		panelItem{kind: itemClose},
	)
	m.panel.items = items
	if m.panel.cursor >= len(items) {
		m.panel.cursor = 0
	}
}

// updatePanel handles keys while the side panel is open
func (m Model) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.panel.view {
	case panelKeyEntry:
		return m.updateKeyEntry(msg)
	case panelFontSelect:
		return m.updateFontSelect(msg)
	}

	switch msg.String() {
	case "esc", "ctrl+s":
		m.closePanel()

	case "up", "k":
		m.panel.cursor--
		if m.panel.cursor < 0 {
			m.panel.cursor = len(m.panel.items) - 1
		}

	case "down", "j":
		m.panel.cursor++
		if m.panel.cursor >= len(m.panel.items) {
			m.panel.cursor = 0
		}

	case "enter", " ":
		return m.selectPanelItem()
	}
	return m, nil
}

func (m Model) selectPanelItem() (tea.Model, tea.Cmd) {
	if len(m.panel.items) == 0 {
		return m, nil
	}
	item := m.panel.items[m.panel.cursor]

	switch item.kind {
	case itemAPIKey:
		m.openKeyEntry(item.provider, false)

	case itemFontSize:
		m.panel.view = panelFontSelect
		m.panel.fontCursor = 0
		for i, size := range models.FontSizes() {
			if size == m.prefs.FontSize {
				m.panel.fontCursor = i
			}
		}

	case itemDarkMode:
		return m, setDarkMode(m.deps.Settings, !m.prefs.DarkMode)

	case itemClose:
		m.closePanel()
	}
	return m, nil
}

func (m Model) updateKeyEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.leaveKeyEntry()
		return m, nil

	case "enter":
		provider := m.panel.keyProvider
		secret := strings.TrimSpace(m.panel.keyInput.Value())
		m.leaveKeyEntry()
		if secret == "" {
			cmd := m.showNotice("API Key cannot be empty.")
			return m, cmd
		}
		if err := m.deps.Dispatcher.Credentials().Save(provider, secret); err != nil {
			m.err = err
			return m, nil
		}
		m.panel.keyStored[provider] = true
		cmd := m.showNotice(fmt.Sprintf("API Key for %s saved.", provider.DisplayName()))
		return m, cmd
	}

	var cmd tea.Cmd
	m.panel.keyInput, cmd = m.panel.keyInput.Update(msg)
	return m, cmd
}

// leaveKeyEntry returns to the main menu, or to the chat when the entry
// was opened by a missing key prompt
func (m *Model) leaveKeyEntry() {
	m.panel.keyInput.Reset()
	m.panel.keyInput.Blur()
	if m.panel.fromPrompt {
		m.closePanel()
		return
	}
	m.panel.view = panelMain
}

func (m Model) updateFontSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sizes := models.FontSizes()

	switch msg.String() {
	case "esc":
		m.panel.view = panelMain

	case "up", "k":
		m.panel.fontCursor--
		if m.panel.fontCursor < 0 {
			m.panel.fontCursor = len(sizes) - 1
		}

	case "down", "j":
		m.panel.fontCursor++
		if m.panel.fontCursor >= len(sizes) {
			m.panel.fontCursor = 0
		}

	case "enter", " ":
		size := sizes[m.panel.fontCursor]
		m.panel.view = panelMain
		return m, setFontSize(m.deps.Settings, size)
	}
	return m, nil
}

// setFontSize persists the font size off the update loop. Subscribers are
// notified by Settings; the returned message only carries the notice.
func setFontSize(settings *config.Settings, size models.FontSize) tea.Cmd {
	return func() tea.Msg {
		if err := settings.SetFontSize(size); err != nil {
			return errMsg{err: fmt.Errorf("failed to save font size: %w", err)}
		}
		return noticeMsg{text: "Font size updated to " + size.Label()}
	}
}

func setDarkMode(settings *config.Settings, enabled bool) tea.Cmd {
	return func() tea.Msg {
		if err := settings.SetDarkMode(enabled); err != nil {
			return errMsg{err: fmt.Errorf("failed to save dark mode: %w", err)}
		}
		return nil
	}
}

// renderPanel renders the side panel in place of the transcript
func (m Model) renderPanel(width int) string {
	var content string
	switch m.panel.view {
	case panelKeyEntry:
		content = m.renderKeyEntry()
	case panelFontSelect:
		content = m.renderFontSelect()
	default:
		content = m.renderPanelMenu()
	}

	return m.styles.panel.Width(width).Height(m.viewport.Height).Render(content)
}

func (m Model) menuLine(selected bool, label, value string) string {
	cursor := "  "
	style := m.styles.menuItem
	if selected {
		cursor = m.styles.cursor.Render("▸ ")
		style = m.styles.menuSelected
	}
	line := cursor + style.Render(label)
	if value != "" {
		pad := 20 - lipgloss.Width(label)
		if pad < 1 {
			pad = 1
		}
		line += strings.Repeat(" ", pad) + value
	}
	return line
}

func (m Model) renderPanelMenu() string {
	lines := []string{m.styles.panelTitle.Render("⚙ Settings"), ""}

	for i, item := range m.panel.items {
		selected := i == m.panel.cursor
		switch item.kind {
		case itemAPIKey:
			status := m.styles.disabled.Render("not set")
			if m.panel.keyStored[item.provider] {
				status = m.styles.enabled.Render("stored")
			}
			lines = append(lines, m.menuLine(selected, item.provider.DisplayName()+" API Key", status))
		case itemFontSize:
			lines = append(lines, m.menuLine(selected, "Font Size", m.styles.value.Render(m.prefs.FontSize.Label())))
		case itemDarkMode:
			lines = append(lines, m.menuLine(selected, "Dark Mode", m.renderBoolValue(m.prefs.DarkMode)))
		case itemClose:
			lines = append(lines, "", m.menuLine(selected, "Close", ""))
		}
	}

	lines = append(lines, "", m.styles.hint.Render("↑↓ navigate • enter select • esc close"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderKeyEntry() string {
	title := m.styles.sectionTitle.Render(m.panel.keyProvider.DisplayName() + " API Key")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.panel.keyInput.View(),
		"",
		m.styles.hint.Render("enter save • esc cancel"),
	)
}

func (m Model) renderFontSelect() string {
	lines := []string{m.styles.sectionTitle.Render("Font Size"), ""}
	for i, size := range models.FontSizes() {
		current := ""
		if size == m.prefs.FontSize {
			current = m.styles.enabled.Render(" (current)")
		}
		lines = append(lines, m.menuLine(i == m.panel.fontCursor, size.Label(), "")+current)
	}
	lines = append(lines, "", m.styles.hint.Render("enter select • esc back"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderBoolValue(value bool) string {
	if value {
		return m.styles.enabled.Render("on")
	}
	return m.styles.disabled.Render("off")
}
