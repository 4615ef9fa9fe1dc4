package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatty/internal/config"
	"github.com/diogo/chatty/internal/dispatch"
	apierrors "github.com/diogo/chatty/internal/errors"
	"github.com/diogo/chatty/internal/models"
	"github.com/diogo/chatty/internal/render"
	"github.com/diogo/chatty/internal/transcript"
)

const (
	idleHeading          = "What would you like to know?"
	defaultNoticeTimeout = 2 * time.Second
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// outcomeMsg carries a finished provider call back to Update
	outcomeMsg struct {
		outcome dispatch.Outcome
	}
	// preferencesChangedMsg is delivered by the settings observer
	preferencesChangedMsg struct {
		prefs config.Preferences
	}
	noticeMsg struct {
		text string
	}
	noticeClearMsg struct {
		seq int
	}
	errMsg struct {
		err error
	}
)

// Deps are the long-lived collaborators shared by every screen instance
type Deps struct {
	Dispatcher *dispatch.Dispatcher
	Settings   *config.Settings
	// Clipboard writes text to the system clipboard (clipboard.WriteAll when nil)
	Clipboard func(string) error
	// ExportDir receives transcript exports
	ExportDir     string
	NoticeTimeout time.Duration
	Now           func() time.Time
}

// row is one bound transcript entry
type row struct {
	id       models.MessageID
	query    string
	response string
	provider models.ProviderID
	pending  bool
	failed   bool
	size     render.RowMetrics
}

// Model represents the chat screen state
type Model struct {
	deps   Deps
	prefs  config.Preferences
	styles styles

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Side panel
	showPanel bool
	panel     panelState

	// State
	rows           []row
	loading        bool
	ready          bool
	err            error
	notice         string
	noticeSeq      int
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewModel builds a screen. Dark mode and font size are read from the
// settings here, once; later changes arrive as preferencesChangedMsg.
func NewModel(deps Deps) Model {
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}
	if deps.NoticeTimeout <= 0 {
		deps.NoticeTimeout = defaultNoticeTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	prefs := deps.Settings.Preferences()
	st := newStyles(render.ThemeFor(prefs.DarkMode))

	ta := textarea.New()
	ta.Placeholder = "Ask a question..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(st.theme.Text)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(st.theme.TextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = st.loading

	m := Model{
		deps:     deps,
		prefs:    prefs,
		styles:   st,
		textarea: ta,
		spinner:  s,
		panel:    newPanelState(st),
		loading:  deps.Dispatcher.Busy(),
	}
	m.refreshRows()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.loading {
		cmds = append(cmds, m.spinner.Tick, animationTick())
	}
	return tea.Batch(cmds...)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// runCall performs the provider call off the update loop
func runCall(call *dispatch.Call) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{outcome: call.Run(context.Background())}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showPanel {
			return m.updatePanel(msg)
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case outcomeMsg:
		return m.applyOutcome(msg.outcome)

	case preferencesChangedMsg:
		return m.applyPreferences(msg.prefs)

	case noticeMsg:
		cmd := m.showNotice(msg.text)
		return m, cmd

	case noticeClearMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}

	case errMsg:
		m.err = msg.err

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes the chat screen shortcuts. handled is false for keys
// that belong to the textarea or viewport.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		if !m.loading {
			return m, tea.Quit, true
		}
		return m, nil, true

	case "enter":
		next, cmd := m.submit()
		return next, cmd, true

	case "ctrl+p":
		p := m.deps.Dispatcher.Selector().Toggle()
		cmd := m.showNotice("Switched to " + p.Name())
		return m, cmd, true

	case "ctrl+r":
		if m.deps.Dispatcher.Store().Len() == 0 {
			return m, nil, true
		}
		m.deps.Dispatcher.Reset()
		m.loading = false
		m.err = nil
		m.refreshRows()
		return m, nil, true

	case "ctrl+s":
		m.openPanel()
		return m, nil, true

	case "ctrl+y":
		next, cmd := m.copyLast()
		return next, cmd, true

	case "ctrl+e":
		next, cmd := m.export()
		return next, cmd, true
	}
	return m, nil, false
}

// submit hands the input to the dispatcher
func (m Model) submit() (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	call, err := m.deps.Dispatcher.Submit(m.textarea.Value())
	switch {
	case errors.Is(err, apierrors.ErrEmptyQuery), errors.Is(err, apierrors.ErrBusy):
		return m, nil
	case apierrors.IsMissingCredential(err):
		// keep the typed query so it can be resent once the key is stored
		active := m.deps.Dispatcher.Selector().Active()
		m.openKeyEntry(active.ID(), true)
		return m, nil
	case err != nil:
		m.err = err
		return m, nil
	}

	m.textarea.Reset()
	m.loading = true
	m.err = nil
	m.animationFrame = 0
	m.refreshRows()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		runCall(call),
		m.spinner.Tick,
		animationTick(),
	)
}

// applyOutcome resolves a finished call against the transcript
func (m Model) applyOutcome(o dispatch.Outcome) (tea.Model, tea.Cmd) {
	res, ok := m.deps.Dispatcher.Resolve(o)
	m.loading = m.deps.Dispatcher.Busy()
	if !ok {
		return m, nil
	}

	m.refreshRows()
	m.viewport.GotoBottom()

	if res.Notice != "" {
		cmd := m.showNotice(res.Notice)
		return m, cmd
	}
	return m, nil
}

// applyPreferences reacts to a settings change. A dark mode change builds a
// brand new screen; a font size change rebinds every row.
func (m Model) applyPreferences(prefs config.Preferences) (tea.Model, tea.Cmd) {
	if prefs.DarkMode != m.prefs.DarkMode {
		next := NewModel(m.deps)
		next.textarea.SetValue(m.textarea.Value())
		next.notice = m.notice
		next.noticeSeq = m.noticeSeq
		next.showPanel = m.showPanel
		next.panel.restore(m.panel)
		if m.showPanel {
			next.textarea.Blur()
		}
		if m.width > 0 {
			next.width, next.height = m.width, m.height
			next.layout()
		}
		return next, next.Init()
	}

	if prefs.FontSize != m.prefs.FontSize {
		m.prefs.FontSize = prefs.FontSize
		m.refreshRows()
	}
	return m, nil
}

// showNotice displays a transient status line message
func (m *Model) showNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(m.deps.NoticeTimeout, func(time.Time) tea.Msg {
		return noticeClearMsg{seq: seq}
	})
}

// copyLast puts the most recent answer on the clipboard
func (m Model) copyLast() (Model, tea.Cmd) {
	msg, ok := m.deps.Dispatcher.Store().LastAnswered()
	if !ok {
		cmd := m.showNotice("Nothing to copy yet")
		return m, cmd
	}
	if err := m.deps.Clipboard(msg.Response); err != nil {
		m.err = fmt.Errorf("failed to copy to clipboard: %w", err)
		return m, nil
	}
	cmd := m.showNotice("Response copied to clipboard")
	return m, cmd
}

// export writes the transcript to the export directory
func (m Model) export() (Model, tea.Cmd) {
	msgs := m.deps.Dispatcher.Store().Messages()
	if len(msgs) == 0 {
		cmd := m.showNotice("Nothing to export yet")
		return m, cmd
	}
	opts := transcript.DefaultExportOptions()
	format, err := transcript.ParseExportFormat(m.deps.Settings.Config().ExportFormat)
	if err != nil {
		m.err = err
		return m, nil
	}
	opts.Format = format

	path, err := transcript.WriteExport(m.deps.ExportDir, msgs, opts, m.deps.Now())
	if err != nil {
		m.err = err
		return m, nil
	}
	cmd := m.showNotice("Transcript saved to " + path)
	return m, cmd
}

// layout sizes the components after a resize
func (m *Model) layout() {
	headerHeight := 3 // Header panel with border
	inputHeight := 5  // Input panel with border
	statusHeight := 2 // Notice and status bar

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := m.contentWidth()

	if !m.ready {
		m.viewport = viewport.New(contentWidth-4, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth - 4
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.panel.resize(contentWidth)
	m.updateViewport()
}

func (m Model) contentWidth() int {
	w := m.width - 2
	if w < 40 {
		w = 40
	}
	return w
}

// refreshRows rebinds every row from the transcript. Text size is taken
// from the current preferences on each bind, so rows created before a font
// change pick up the new size.
func (m *Model) refreshRows() {
	msgs := m.deps.Dispatcher.Store().Messages()
	size := render.RowStyle(m.prefs.FontSize)

	rows := make([]row, len(msgs))
	for i, msg := range msgs {
		rows[i] = row{
			id:       msg.ID,
			query:    msg.Query,
			response: msg.Response,
			provider: msg.Provider,
			pending:  msg.Pending,
			failed:   msg.Failed,
			size:     size,
		}
	}
	m.rows = rows
	m.updateViewport()
}

// updateViewport refreshes the viewport content with styled rows
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 2

	for i, r := range m.rows {
		if i > 0 {
			content.WriteString(strings.Repeat("\n", r.size.Gap))
		}
		content.WriteString(m.renderRow(r, bubbleWidth))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func (m Model) renderRow(r row, width int) string {
	userLabel := m.styles.userLabel.Render("You")
	query := r.query
	if r.size.Bold {
		query = lipgloss.NewStyle().Bold(true).Render(query)
	}
	queryBubble := m.styles.userBubble.Width(width).Render(query)

	assistantLabel := m.styles.assistantLabel.Render(r.provider.DisplayName())
	bubbleWidth := width - r.size.Indent

	var response string
	switch {
	case r.pending:
		// blank region; the global indicator shows progress
		response = m.styles.assistantBubble.Width(bubbleWidth).Render(" ")
	case r.failed:
		response = m.styles.failedBubble.Width(bubbleWidth).Render(r.response)
	default:
		opts := render.OptionsFor(m.prefs, bubbleWidth-4)
		rendered, err := render.Markdown(r.response, opts)
		if err != nil {
			rendered = r.response
		}
		rendered = strings.Trim(rendered, "\n")
		response = m.styles.assistantBubble.Width(bubbleWidth).Render(rendered)
	}
	response = lipgloss.NewStyle().MarginLeft(r.size.Indent).Render(response)

	return lipgloss.JoinVertical(lipgloss.Left, userLabel, queryBubble, assistantLabel, response)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return m.styles.loading.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.contentWidth()

	// Header
	provider := m.deps.Dispatcher.Selector().Label()
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.title.Render("✦ Chatty"),
		m.styles.hint.Render("  •  "),
		m.styles.subtitle.Render(provider),
		m.styles.hint.Render("  (ctrl+p to switch)"),
	)
	sections = append(sections, m.styles.header.Width(contentWidth).Render(headerContent))

	// Transcript or side panel
	var body string
	switch {
	case m.showPanel:
		body = m.renderPanel(contentWidth)
	case len(m.rows) == 0 && !m.loading:
		body = m.styles.messagesArea.Width(contentWidth).Height(m.viewport.Height).Render(m.renderHeading())
	default:
		body = m.styles.messagesArea.Width(contentWidth).Height(m.viewport.Height).Render(m.viewport.View())
	}
	sections = append(sections, body)

	// Input
	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			m.styles.inputLabel.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, m.styles.inputPanel.Width(contentWidth).Render(inputContent))

	if m.notice != "" {
		sections = append(sections, m.styles.notice.Render("  "+m.notice))
	}
	if m.err != nil {
		sections = append(sections, m.styles.formatError(m.err))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeading renders the idle heading shown while the transcript is empty
func (m Model) renderHeading() string {
	width := m.viewport.Width
	size := render.RowStyle(m.prefs.FontSize)

	heading := m.styles.heading.Width(width).Bold(size.Bold)
	title := idleHeading
	if m.prefs.FontSize == models.FontLarge {
		title = strings.ToUpper(title)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.headingIcon.Width(width).Render("✦"),
		strings.Repeat("\n", size.Gap),
		heading.Render(title),
	)

	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}
	frame := m.animationFrame

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	text := lipgloss.NewStyle().Foreground(m.styles.theme.Text).Render(" " + m.thinkingProvider() + " is thinking ")

	return fmt.Sprintf("%s %s %s", m.spinner.View(), bar.String(), text)
}

// thinkingProvider names the provider of the pending row, which may differ
// from the selector after a toggle during the call
func (m Model) thinkingProvider() string {
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].pending {
			return m.rows[i].provider.DisplayName()
		}
	}
	return m.deps.Dispatcher.Selector().Label()
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	type shortcut struct {
		key  string
		desc string
	}
	shortcuts := []shortcut{
		{"Enter", "Send"},
		{"Ctrl+P", "Provider"},
		{"Ctrl+S", "Settings"},
	}
	if len(m.rows) > 0 {
		shortcuts = append(shortcuts,
			shortcut{"Ctrl+R", "Reset"},
			shortcut{"Ctrl+Y", "Copy"},
			shortcut{"Ctrl+E", "Export"},
		)
	}
	shortcuts = append(shortcuts, shortcut{"Esc", "Quit"})

	var items []string
	for _, s := range shortcuts {
		items = append(items, m.styles.statusKey.Render(s.key)+m.styles.statusDesc.Render(" "+s.desc))
	}
	return m.styles.statusBar.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat screen. Preference changes are forwarded to the
// running program through a settings subscription.
func RunChat(deps Deps) error {
	p := tea.NewProgram(NewModel(deps), tea.WithAltScreen())

	unsubscribe := deps.Settings.Subscribe(func(prefs config.Preferences) {
		p.Send(preferencesChangedMsg{prefs: prefs})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
