package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/trucoforbots/internal/game"
)

// DefaultPollInterval is how often the seat is checked for a new view
const DefaultPollInterval = 50 * time.Millisecond

// TUIModel represents the Bubble Tea model for a truco table
type TUIModel struct {
	seat   Seat
	clock  quartz.Clock
	every  time.Duration
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	view        game.PlayerView
	hasView     bool
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode    bool
	capturedLog []string // For test assertions
}

// Options configures a TUIModel
type Options struct {
	Clock        quartz.Clock
	PollInterval time.Duration
	TestMode     bool
}

// pollMsg asks the model to check its seat
type pollMsg struct{}

// NewTUIModel creates a new TUI model for seat
func NewTUIModel(seat Seat, logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(seat, logger, Options{})
}

// NewTUIModelWithOptions creates a new TUI model with a custom clock or test mode
func NewTUIModelWithOptions(seat Seat, logger *log.Logger, opts Options) *TUIModel {
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	// Create viewport for game log with minimal initial size
	// Will be properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	// Create textinput for action input
	ti := textinput.New()
	ti.Placeholder = "Enter a card number (1-3) or an action (truco, quiero, mazo...)"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &TUIModel{
		seat:        seat,
		clock:       opts.Clock,
		every:       opts.PollInterval,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		focusedPane: 1, // Start with input focused
		testMode:    opts.TestMode,
		capturedLog: []string{},
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForPoll())
}

// waitForPoll fires a pollMsg after one interval on the model's clock
func (m *TUIModel) waitForPoll() tea.Cmd {
	return func() tea.Msg {
		timer := m.clock.NewTimer(m.every, "tui", "poll")
		<-timer.C
		return pollMsg{}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case pollMsg:
		m.Poll()
		if m.view.GameOver {
			return m, nil
		}
		return m, m.waitForPoll()

	case tea.WindowSizeMsg:
		m.logger.Debug("Updating dimensions", "width", msg.Width, "height", msg.Height)
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			// Switch focus between log and input
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 { // Only process enter in input pane
				input := m.actionInput.Value()
				m.actionInput.SetValue("")
				if m.processInput(input) {
					return m, m.quit()
				}
			}
		case "up", "k":
			if m.focusedPane == 0 { // Log pane focused
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	// Update components
	var cmd tea.Cmd

	// Only update input if it's focused
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Always update viewport (for scrolling)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *TUIModel) quit() tea.Cmd {
	m.quitting = true
	if err := m.seat.Close(); err != nil {
		m.logger.Warn("Failed to leave match", "error", err)
	}
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

// Poll drains the seat's notices and latest view into the log
func (m *TUIModel) Poll() {
	for _, notice := range m.seat.Notices() {
		m.AddLogEntry(InfoStyle.Render(notice))
	}

	view, ok := m.seat.Poll()
	if !ok {
		return
	}

	var prev *game.PlayerView
	if m.hasView {
		prev = &m.view
	}
	for _, line := range narrate(prev, view) {
		m.AddLogEntry(line)
	}
	m.view = view
	m.hasView = true
}

// errUnknownInput is returned for input that is neither a card nor an action
var errUnknownInput = errors.New("unknown input")

// parseInput turns typed text into a command. "1".."3" and "play N" pick a
// card by its 1-based position; anything else is an action name.
func parseInput(input string) (game.Command, error) {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return game.Command{}, errUnknownInput
	}

	if n, err := strconv.Atoi(parts[0]); err == nil {
		return game.PlayAt(n - 1), nil
	}

	action, err := game.ParseAction(parts[0])
	if err != nil {
		return game.Command{}, fmt.Errorf("%w: %q", errUnknownInput, parts[0])
	}
	if action != game.PlayCard {
		return game.Do(action), nil
	}
	if len(parts) < 2 {
		return game.Command{}, errors.New("which card? try \"play 1\"")
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return game.Command{}, fmt.Errorf("card number %q is not a number", parts[1])
	}
	return game.PlayAt(n - 1), nil
}

// processInput handles one line of user input and reports whether to quit
func (m *TUIModel) processInput(input string) bool {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "":
		return false
	case "quit", "exit", "q":
		return true
	}

	cmd, err := parseInput(input)
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
		return false
	}
	if err := m.seat.Act(cmd); err != nil {
		m.logger.Debug("Command rejected", "command", cmd, "error", err)
		m.AddLogEntry(ErrorStyle.Render("✗ " + err.Error()))
	}
	return false
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight-2, 1))
	if m.focusedPane == 1 {
		actionStyle = actionStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right side of log pane, same height as log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-4, 1) // Account for border x 2 and action pane

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane (top, fills height minus action pane)
	m.logViewport.SetContent(m.renderLogPane())
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight

	// On first proper sizing, jump to the latest entries
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(m.logViewport.Height)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	// Top row (log pane + sidebar pane)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)

	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderLogPane renders the game log pane content
func (m *TUIModel) renderLogPane() string {
	return strings.Join(m.gameLog, "\n")
}

// renderSidebarPane creates the sidebar content
func (m *TUIModel) renderSidebarPane() string {
	if !m.hasView {
		return InfoStyle.Render("Waiting for the deal...")
	}
	v := m.view

	var content strings.Builder
	content.WriteString(HeaderStyle.Render(fmt.Sprintf(" A %d ", v.TargetScore)))
	content.WriteString("\n\n")
	fmt.Fprintf(&content, "%-12s %2d\n", v.Player, v.Scores[v.Player])
	fmt.Fprintf(&content, "%-12s %2d\n\n", v.Opponent, v.Scores[v.Opponent])

	fmt.Fprintf(&content, "Hand %d, round %d\n", v.HandNumber, v.Round)
	fmt.Fprintf(&content, "Mano: %s\n", v.Mano)
	content.WriteString(WarningStyle.Render(v.Bet))
	content.WriteString("\n\n")

	if len(v.RoundHistory) > 0 {
		content.WriteString(InfoStyle.Render("Rounds:"))
		content.WriteString("\n")
		for _, r := range v.RoundHistory {
			content.WriteString("  " + r + "\n")
		}
	}
	fmt.Fprintf(&content, "%s holds %d card(s)\n", v.Opponent, v.OpponentHandSize)

	return content.String()
}

// renderActionPane renders the action input pane
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	switch {
	case !m.hasView:
		content.WriteString(HandInfoStyle.Render("Waiting for an opponent..."))
	case m.view.GameOver:
		content.WriteString(SuccessStyle.Render(fmt.Sprintf("%s wins the match. Type quit to exit.", m.view.MatchWinner)))
	default:
		content.WriteString(m.renderHandInfo())
		if len(m.view.Table) > 0 {
			content.WriteString("\n")
			content.WriteString(m.renderTable())
		}
		content.WriteString("\n")
		if m.view.MyTurn {
			content.WriteString(m.renderAvailableActions())
		} else {
			content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Waiting for %s...", m.view.Turn)))
		}
	}
	content.WriteString("\n")
	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	// Show help text
	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	content.WriteString(InfoStyle.Render(help))

	return content.String()
}

// renderHandInfo lists the held cards with the number that plays each
func (m *TUIModel) renderHandInfo() string {
	cards := make([]string, len(m.view.Hand))
	for i, c := range m.view.Hand {
		cards[i] = fmt.Sprintf("%d) %s", i+1, formatCard(c))
	}
	return HandInfoStyle.Render("Hand: ") + strings.Join(cards, "  ")
}

func (m *TUIModel) renderTable() string {
	plays := make([]string, len(m.view.Table))
	for i, p := range m.view.Table {
		plays[i] = fmt.Sprintf("%s: %s", p.Player, formatCard(p.Card))
	}
	return "Table: " + strings.Join(plays, ", ")
}

// renderAvailableActions renders the legal actions from the view
func (m *TUIModel) renderAvailableActions() string {
	var actions []string
	for _, a := range m.view.LegalActions {
		switch {
		case a == game.PlayCard:
			actions = append(actions, SuccessStyle.Render(fmt.Sprintf("[1-%d]", len(m.view.Hand))))
		case a == game.Quiero:
			actions = append(actions, SuccessStyle.Render("[quiero]"))
		case a.IsRaise():
			actions = append(actions, WarningStyle.Render("["+a.String()+"]"))
		default:
			actions = append(actions, ErrorStyle.Render("["+a.String()+"]"))
		}
	}

	// Fallback if no valid actions (shouldn't happen)
	if len(actions) == 0 {
		actions = append(actions, ErrorStyle.Render("[no actions available]"))
	}

	return ActionsStyle.Render("Actions: ") + strings.Join(actions, " ")
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// In test mode, also capture the log entry
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	// Update content and auto-scroll to bottom
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// ClearLog clears the game log
func (m *TUIModel) ClearLog() {
	m.gameLog = []string{}
	m.logViewport.SetContent("")
}

// CurrentView returns the last view seen, if any
func (m *TUIModel) CurrentView() (game.PlayerView, bool) {
	return m.view, m.hasView
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	// Return a copy to prevent modification
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// InjectInput processes a line as if typed (test mode only) and reports
// whether it asked to quit
func (m *TUIModel) InjectInput(input string) (bool, error) {
	if !m.testMode {
		return false, fmt.Errorf("input injection only available in test mode")
	}
	return m.processInput(input), nil
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}
