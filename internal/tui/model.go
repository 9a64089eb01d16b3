// Package tui implements the interactive terminal chat.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/browseagent/internal/api"
	"github.com/diogo/browseagent/internal/chat"
	"github.com/diogo/browseagent/internal/history"
	"github.com/diogo/browseagent/internal/models"
	"github.com/diogo/browseagent/internal/render"
)

// LoadingText is shown while a request is in flight
const LoadingText = "The agent is browsing the web..."

// Animation tick message
type animationTickMsg time.Time

// resultMsg carries the outcome of request seq back into Update
type resultMsg struct {
	seq    uint64
	result *models.SearchResult
	err    error
}

type focusField int

const (
	focusTask focusField = iota
	focusURL
)

// Options configures the chat UI
type Options struct {
	ModelName string
	Render    render.Options
	// ExportDir receives /export files when no path is given
	ExportDir string
	// Hyperlinks wraps citations in OSC 8 terminal links
	Hyperlinks bool
	Logger     *zap.Logger
}

// Model represents the TUI state
type Model struct {
	searcher api.Searcher
	opts     Options
	logger   *zap.Logger
	copyText func(string) error

	// UI components
	viewport  viewport.Model
	urlInput  textinput.Model
	taskInput textarea.Model
	spinner   spinner.Model
	focus     focusField

	// State
	state          chat.State
	notice         string
	ready          bool
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(searcher api.Searcher, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "https://example.com (optional)"
	ti.Prompt = ""
	ti.CharLimit = 2048
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorTextDim)

	ta := textarea.New()
	ta.Placeholder = "What would you like the agent to find?"
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetKeys("ctrl+j", "alt+enter")
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	if opts.Render.Width == 0 {
		opts.Render = render.DefaultOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return Model{
		searcher:  searcher,
		opts:      opts,
		logger:    logger,
		copyText:  clipboard.WriteAll,
		urlInput:  ti,
		taskInput: ta,
		spinner:   s,
		focus:     focusTask,
		state:     chat.New(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
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
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "shift+tab":
			if !m.state.Loading {
				return m, m.toggleFocus()
			}
			return m, nil

		case "enter":
			if m.state.Loading {
				return m, nil
			}
			return m.handleEnter()
		}

	case resultMsg:
		m.state = chat.Resolve(m.state, msg.seq, msg.result, msg.err)
		if msg.err != nil {
			m.logger.Debug("request failed", zap.Uint64("seq", msg.seq), zap.Error(msg.err))
		}
		m.layout()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.state.Loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.state.Loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only key presses reach the inputs, and only while idle
	if _, ok := msg.(tea.KeyMsg); ok && !m.state.Loading {
		if m.focus == focusURL {
			m.urlInput, cmd = m.urlInput.Update(msg)
		} else {
			m.taskInput, cmd = m.taskInput.Update(msg)
		}
		cmds = append(cmds, cmd)
		m.syncPending()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// syncPending mirrors the input fields into the session state
func (m *Model) syncPending() {
	m.state = chat.SetPendingTask(m.state, m.taskInput.Value())
	m.state = chat.SetPendingURL(m.state, m.urlInput.Value())
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusTask {
		m.focus = focusURL
		m.taskInput.Blur()
		return m.urlInput.Focus()
	}
	m.focus = focusTask
	m.urlInput.Blur()
	return m.taskInput.Focus()
}

// handleEnter runs a slash command or submits the pending task
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	m.syncPending()
	input := strings.TrimSpace(m.taskInput.Value())

	if strings.HasPrefix(input, "/") {
		return m.runCommand(input)
	}

	next, req, ok := chat.Submit(m.state)
	if !ok {
		return m, nil
	}
	m.state = next
	m.notice = ""
	m.animationFrame = 0
	m.taskInput.Reset()
	m.layout()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.search(req),
		m.spinner.Tick,
		animationTick(),
	)
}

// runCommand handles the slash commands typed into the task field
func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	m.taskInput.Reset()
	m.syncPending()

	switch fields[0] {
	case "/exit", "/quit":
		return m, tea.Quit

	case "/clear":
		m.state = chat.Reset(m.state)
		m.syncPending()
		m.notice = "Conversation cleared"

	case "/copy":
		answer, ok := chat.LastAnswer(m.state)
		switch {
		case !ok:
			m.notice = "Nothing to copy yet"
		case m.copyText(answer.Content) != nil:
			m.notice = "Clipboard unavailable"
		default:
			m.notice = "Copied last answer to clipboard"
		}

	case "/export":
		path := ""
		if len(fields) > 1 {
			path = fields[1]
		}
		m.notice = m.export(path)

	default:
		m.notice = fmt.Sprintf("Unknown command %s (try /copy, /export [path], /clear, /exit)", fields[0])
	}

	m.layout()
	return m, nil
}

func (m Model) export(path string) string {
	now := time.Now()
	if path == "" {
		dir := m.opts.ExportDir
		if dir == "" {
			dir, _ = os.Getwd()
		}
		path = history.DefaultExportPath(dir, now)
	}

	transcript := history.Transcript{
		Title:      "Browse agent session",
		Model:      m.opts.ModelName,
		ExportedAt: now,
		Messages:   m.state.Messages,
	}
	if err := history.WriteFile(path, transcript, history.DefaultExportOptions()); err != nil {
		m.logger.Warn("export failed", zap.String("path", path), zap.Error(err))
		return "Export failed: " + err.Error()
	}
	return "Exported to " + path
}

// search creates a command that calls the searcher for req
func (m Model) search(req chat.Request) tea.Cmd {
	searcher := m.searcher
	return func() tea.Msg {
		result, err := searcher.BrowseAndAnswer(context.Background(), req.URL, req.Task)
		return resultMsg{seq: req.Seq, result: result, err: err}
	}
}

// layout sizes the components for the current window and redraws messages
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	headerHeight := 3 // title line with border
	inputHeight := 6  // url line, task label, task area, border
	statusHeight := 1
	bannerHeight := 0
	if m.state.HasError() {
		bannerHeight = 1
	}
	if m.notice != "" {
		statusHeight++
	}

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - bannerHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := m.width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.taskInput.SetWidth(contentWidth - 4)
	m.urlInput.Width = contentWidth - 10
	m.updateViewport()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ Browse Agent"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.opts.ModelName),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View()))

	if m.state.HasError() {
		sections = append(sections, m.renderErrorBanner(contentWidth))
	}

	var inputContent string
	if m.state.Loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, inputLabelStyle.Render("URL"), m.urlInput.View()),
			inputLabelStyle.Render("Task"),
			m.taskInput.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))
	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderErrorBanner shows the last failure until the next submit
func (m Model) renderErrorBanner(width int) string {
	return errorBannerStyle.Width(width).Render(errorStyle.Render("⚠ " + m.state.LastError))
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spin := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(chars[frame%len(chars)])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+frame)%len(gradientColors)])
		bar.WriteString(style.Render(barChars[(i+frame/2)%len(barChars)]))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(LoadingText)
	return fmt.Sprintf("%s %s %s", spin, bar.String(), text)
}

// renderStatusBar renders the shortcuts. Send is struck through when the
// pending input cannot be submitted.
func (m Model) renderStatusBar(width int) string {
	send := statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Send")
	if !m.state.CanSubmit() {
		send = statusDisabledStyle.Render("Enter Send")
	}

	items := []string{
		send,
		statusKeyStyle.Render("Tab") + statusDescStyle.Render(" URL/Task"),
		statusKeyStyle.Render("Ctrl+J") + statusDescStyle.Render(" Newline"),
		statusDescStyle.Render("/copy /export /clear"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Quit"),
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}
	opts := m.opts.Render.WithWidth(bubbleWidth - 4)

	for i, msg := range m.state.Messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsUser() {
			content.WriteString(userLabelStyle.Render("● You"))
			content.WriteString("\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Content))
			content.WriteString("\n")
			continue
		}

		content.WriteString(assistantLabelStyle.Render("✦ Agent"))
		content.WriteString("\n")

		if strings.HasPrefix(msg.Content, chat.FailurePrefix) {
			content.WriteString(failureBubbleStyle.Width(bubbleWidth).Render(msg.Content))
			content.WriteString("\n")
			continue
		}

		body := render.Answer(msg.Content, opts)
		if sources := render.Sources(msg.Sources, sourceStyles, m.opts.Hyperlinks); sources != "" {
			body += "\n\n" + sources
		}
		content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(body))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI
func RunChat(searcher api.Searcher, opts Options) error {
	p := tea.NewProgram(
		NewChatModel(searcher, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
